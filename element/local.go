package element

import (
	"math"

	"pipecacu/fluid"
	"pipecacu/types"
)

const (
	localDrop  = 1e-2 // 局部阻力最小压差 Pa
	localFloor = 1e-5 // 无局部阻力或零压差时的流导
	splitSteps = 60   // 压差分配二分次数
)

// LocalConductance 局部阻力元件流导
//
// 由 ΔP = k·ρv²/2 得 G = A·√(2/(k·ρ·|ΔP|)).
func LocalConductance(k, d float64, f fluid.Fluid, dp float64) float64 {
	dp = math.Abs(dp)
	if dp < localDrop || k <= 0 {
		return localFloor
	}
	den := k * f.Rho * dp
	if den < degenerateDrop {
		return localFloor
	}
	area := math.Pi * d * d / 4
	return math.Max(area*math.Sqrt(2/den), types.ConductanceFloor)
}

// Series 平方律元件串联, 各流导在同一总压差下求值
func Series(g ...float64) float64 {
	sum := 0.0
	for _, v := range g {
		sum += 1 / (v * v)
	}
	if sum == 0 {
		return localFloor
	}
	return math.Max(1/math.Sqrt(sum), types.ConductanceFloor)
}

// hasLocal 管路是否串联局部阻力或阀门
func hasLocal(p *types.Pipe) bool { return p.LocalK > 0 || p.Valve != nil }

// localPart 串联局部阻力与阀门的合成流导
func localPart(p *types.Pipe, f fluid.Fluid, dp float64) float64 {
	var g []float64
	if p.LocalK > 0 {
		g = append(g, LocalConductance(p.LocalK, p.Diameter, f, dp))
	}
	if p.Valve != nil {
		g = append(g, ValveConductance(p.Valve, f, dp))
	}
	return Series(g...)
}

// BranchConductance 管路支路真实流导, 包含直管摩阻和串联的局部阻力
//
// 总压差在直管与局部阻力之间分配, 二分求解使两部分流量相等.
func BranchConductance(p *types.Pipe, f fluid.Fluid, dp float64) float64 {
	dp = math.Abs(dp)
	if !hasLocal(p) {
		return PipeConductance(p, f, dp)
	}
	if dp < degenerateDrop {
		gp, gl := PipeConductance(p, f, 0), localPart(p, f, 0)
		return math.Max(1/(1/gp+1/gl), types.ConductanceFloor)
	}
	lo, hi := 0.0, 1.0
	for range splitSteps {
		s := (lo + hi) / 2
		x, y := s*dp, (1-s)*dp
		if PipeConductance(p, f, x)*x < localPart(p, f, y)*y {
			lo = s
		} else {
			hi = s
		}
	}
	x := (lo + hi) / 2 * dp
	return math.Max(PipeConductance(p, f, x)*x/dp, types.ConductanceFloor)
}
