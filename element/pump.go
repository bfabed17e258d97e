package element

import (
	"math"

	"pipecacu/types"
)

// PumpPressureDelta 泵升压
//
// 定流量泵返回额定压力, 仅供参考; 曲线泵返回 max(0, A−B·Q²).
func PumpPressureDelta(p *types.Pump, q float64) float64 {
	if p.Mode == types.ConstantFlow {
		return p.PMax
	}
	return math.Max(0, p.A-p.B*q*q)
}

// PumpCurveFlow 曲线泵在给定升压下的流量, 升压曲线的反函数.
// B ≤ 0 时曲线退化为定压源, 返回 +Inf.
func PumpCurveFlow(p *types.Pump, dp float64) float64 {
	head := math.Max(0, p.A-math.Max(dp, 0))
	if p.B <= 0 {
		if head > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return math.Sqrt(head / p.B)
}

// PumpSeedConductance 曲线泵 Norton 等效电导初值, 取 A/2 工作点
func PumpSeedConductance(p *types.Pump) float64 {
	if p.A <= 0 {
		return types.ConductanceFloor
	}
	if p.B <= 0 {
		return types.MaxPumpConductance
	}
	q := math.Sqrt(p.A / (2 * p.B))
	return math.Min(q/(p.A/2), types.MaxPumpConductance)
}

// PumpConductance 曲线泵 Norton 等效电导目标值, G = Q/(A−ΔP)
func PumpConductance(p *types.Pump, dp float64) float64 {
	drive := p.A - dp
	if p.B <= 0 {
		return types.MaxPumpConductance
	}
	if drive <= 1e-9 {
		return types.ConductanceFloor
	}
	g := PumpCurveFlow(p, dp) / drive
	return math.Min(math.Max(g, types.ConductanceFloor), types.MaxPumpConductance)
}
