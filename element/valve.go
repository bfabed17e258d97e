package element

import (
	"math"

	"pipecacu/fluid"
	"pipecacu/types"
)

const (
	cvToSI     = 1.156e-7 // Cv 到 SI 流量/压力的换算系数
	valveDrop  = 1e-2     // 阀门最小压差 Pa
	valveFloor = 1e-8     // 零压差时的流导
)

// ValveConductance 阀门流导, ISA-75.01 简化式 G = Cv·N/√(SG·|ΔP|), SG = ρ/1000
func ValveConductance(v *types.Valve, f fluid.Fluid, dp float64) float64 {
	dp = math.Abs(dp)
	if dp < valveDrop {
		return valveFloor
	}
	sg := f.Rho / 1000
	return math.Max(v.Cv()*cvToSI/math.Sqrt(sg*dp), types.ConductanceFloor)
}
