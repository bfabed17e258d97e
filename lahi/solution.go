package lahi

import "pipecacu/types"

// Solution 求解结果
type Solution struct {
	RunID       string
	State       types.State
	Iterations  int
	Residual    float64
	Omega       float64
	Pressure    []float64 // 逻辑索引压力 Pa
	Flow        []float64 // 管路流量 m³/s, 起点流向终点为正
	Conductance []float64 // 管路真实电导
	PumpFlow    []float64 // 与 Graph.Pumps 对应
	NodeFlow    []float64 // 逻辑索引的管路净流入
	Warnings    []string
}

// Converged 是否收敛
func (s *Solution) Converged() bool { return s != nil && s.State == types.Converged }
