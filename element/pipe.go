// Package element 元件等效流导计算.
//
// 所有流导函数以当前压差为参数, 仅依赖压差绝对值, 且返回值恒为正.
package element

import (
	"math"

	"pipecacu/fluid"
	"pipecacu/types"
)

const (
	minVelocity    = 1e-9  // 零流速判定
	minReynolds    = 1e-3  // 层流下限雷诺数
	laminarDrop    = 1.0   // 层流解析解切换压差 Pa
	assumedFactor  = 0.03  // 流速估算假设摩阻系数
	degenerateDrop = 1e-12 // 退化分母
	degenerateG    = 1e-8  // 退化分母时的流导
)

// Reynolds 雷诺数 Re = |v·D/ν|
// 参数：
//
//	v  - 流速 m/s
//	d  - 管径 m
//	nu - 运动粘度 m²/s
func Reynolds(v, d, nu float64) float64 {
	if math.Abs(v) < minVelocity {
		return 0
	}
	return math.Abs(v * d / nu)
}

// FrictionFactor 达西摩阻系数, Churchill (1977) 全流态关联式
// 参数：
//
//	re        - 雷诺数
//	roughness - 绝对粗糙度 m
//	d         - 管径 m
func FrictionFactor(re, roughness, d float64) float64 {
	if re < minReynolds {
		return 64 / minReynolds
	}
	a := math.Pow(2.457*math.Log(1/(math.Pow(7/re, 0.9)+0.27*roughness/d)), 16)
	b := math.Pow(37530/re, 16)
	return 8 * math.Pow(math.Pow(8/re, 12)+1/math.Pow(a+b, 1.5), 1.0/12)
}

// LaminarConductance Hagen–Poiseuille 层流流导 π·D⁴/(128·μ·L)
func LaminarConductance(p *types.Pipe, f fluid.Fluid) float64 {
	g := math.Pi * math.Pow(p.Diameter, 4) / (128 * f.Mu * p.Length)
	return math.Max(g, types.ConductanceFloor)
}

// PipeConductance 直管等效流导
//
// 由 Darcy-Weisbach 方程 ΔP = f·(L/D)·ρv²/2 反推 G = A·√(2D/(f·L·ρ·|ΔP|)).
// 压差小于 1 Pa 时流导保持切换点的值, 流量随压差线性变化; 结果不低于层流解析解.
// 流量 G·|ΔP| 在切换点两侧连续且随压差单调.
func PipeConductance(p *types.Pipe, f fluid.Fluid, dp float64) float64 {
	return math.Max(darcyConductance(p, f, math.Max(math.Abs(dp), laminarDrop)), LaminarConductance(p, f))
}

// darcyConductance Darcy-Weisbach 流导, dp 为正
func darcyConductance(p *types.Pipe, f fluid.Fluid, dp float64) float64 {
	d, l := p.Diameter, p.Length
	// 估算流速
	v := math.Sqrt(2 * d * dp / (assumedFactor * l * f.Rho))
	lambda := FrictionFactor(Reynolds(v, d, f.Nu), p.Roughness, d)
	den := lambda * l * f.Rho * dp
	if den < degenerateDrop {
		return degenerateG
	}
	return math.Max(p.Area()*math.Sqrt(2*d/den), types.ConductanceFloor)
}
