package types

import "math"

// Fitting 管件引用
type Fitting struct {
	ID    string
	Count int
	K     float64
}

// Pipe 管路
type Pipe struct {
	Label     string
	Start     string
	End       string
	Remark    string
	Diameter  float64 // m
	Length    float64 // m
	Roughness float64 // m
	Fittings  []Fitting
	// 拓扑构建结果
	StartIdx int
	EndIdx   int
	LocalK   float64 // 串联局部阻力系数之和
	Valve    *Valve  // 串联阀门
}

// Area 流通截面积 m²
func (p *Pipe) Area() float64 { return math.Pi * p.Diameter * p.Diameter / 4 }

// Velocity 流速 m/s
func (p *Pipe) Velocity(q float64) float64 {
	a := p.Area()
	if a <= 0 {
		return 0
	}
	return q / a
}
