package lahi

import (
	"fmt"

	"pipecacu/maths"
	"pipecacu/types"
)

// Config 迭代参数
type Config struct {
	Tolerance        float64 `yaml:"tolerance"`          // 收敛容差 m³/s
	MaxIterations    int     `yaml:"max_iterations"`     // 最大迭代次数
	InitialOmega     float64 `yaml:"initial_omega"`      // 初始松弛因子
	MinOmega         float64 `yaml:"min_omega"`          // 最小松弛因子
	MaxOmega         float64 `yaml:"max_omega"`          // 最大松弛因子
	SeedPressureDrop float64 `yaml:"seed_pressure_drop"` // 初始电导估算压差 Pa
	PenaltyWeight    float64 `yaml:"penalty_weight"`     // 锚点罚权重
	PressureFloor    float64 `yaml:"pressure_floor"`     // 压力下限 Pa
	Linear           string  `yaml:"linear"`             // sparse 或 dense
}

// DefaultConfig 默认迭代参数
func DefaultConfig() Config {
	return Config{
		Tolerance:        types.Tolerance,
		MaxIterations:    types.MaxIterations,
		InitialOmega:     types.InitialOmega,
		MinOmega:         types.MinOmega,
		MaxOmega:         types.MaxOmega,
		SeedPressureDrop: types.SeedPressureDrop,
		PenaltyWeight:    types.PenaltyWeight,
		PressureFloor:    types.PressureFloor,
		Linear:           maths.KindSparse,
	}
}

// Validate 检查参数范围
func (c Config) Validate() error {
	switch {
	case c.Tolerance <= 0:
		return fmt.Errorf("收敛容差必须为正: %g", c.Tolerance)
	case c.MaxIterations <= 0:
		return fmt.Errorf("最大迭代次数必须为正: %d", c.MaxIterations)
	case c.MinOmega <= 0 || c.MinOmega > c.MaxOmega || c.MaxOmega > 1:
		return fmt.Errorf("松弛因子范围无效: [%g, %g]", c.MinOmega, c.MaxOmega)
	case c.InitialOmega < c.MinOmega || c.InitialOmega > c.MaxOmega:
		return fmt.Errorf("初始松弛因子 %g 不在 [%g, %g] 内", c.InitialOmega, c.MinOmega, c.MaxOmega)
	case c.SeedPressureDrop <= 0:
		return fmt.Errorf("初始估算压差必须为正: %g", c.SeedPressureDrop)
	case c.PenaltyWeight <= 0:
		return fmt.Errorf("锚点罚权重必须为正: %g", c.PenaltyWeight)
	case c.PressureFloor < 0:
		return fmt.Errorf("压力下限不能为负: %g", c.PressureFloor)
	}
	switch c.Linear {
	case "", maths.KindSparse, maths.KindDense:
		return nil
	}
	return fmt.Errorf("未知求解器类型: %q", c.Linear)
}
