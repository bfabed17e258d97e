package lahi

import (
	"math"

	"pipecacu/maths"
)

// Matrix 导纳矩阵和源项
type Matrix struct {
	Sys maths.System
	RHS []float64
}

// Clear 清空矩阵和源项
func (m *Matrix) Clear() {
	m.Sys.Zero()
	clear(m.RHS)
}

// StampMatrix 在矩阵 (i,j) 位置叠加值
func (m *Matrix) StampMatrix(i, j int, v float64) {
	if i >= 0 && j >= 0 && !math.IsNaN(v) {
		m.Sys.Increment(i, j, v)
	}
}

// StampRightSide 在源项 i 位置叠加值
func (m *Matrix) StampRightSide(i int, v float64) {
	if i >= 0 && !math.IsNaN(v) && v != 0 {
		m.RHS[i] += v
	}
}

// StampConductance 加盖两节点间电导
func (m *Matrix) StampConductance(n1, n2 int, g float64) {
	m.StampMatrix(n1, n1, g)
	m.StampMatrix(n2, n2, g)
	m.StampMatrix(n1, n2, -g)
	m.StampMatrix(n2, n1, -g)
}

// StampFlowSource 加盖流量源, 从 n1 抽出 q 注入 n2
func (m *Matrix) StampFlowSource(n1, n2 int, q float64) {
	m.StampRightSide(n1, -q)
	m.StampRightSide(n2, q)
}

// StampAnchor 罚函数法固定节点压力
func (m *Matrix) StampAnchor(i int, w, p float64) {
	m.StampMatrix(i, i, w)
	m.StampRightSide(i, w*p)
}
