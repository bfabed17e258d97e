package types

import "fmt"

// NodeType 节点类型
type NodeType int

const (
	TypeNormal NodeType = iota // 普通节点
	TypePump                   // 泵
	TypeValve                  // 阀门
	TypeTee                    // 三通
	TypeTank                   // 油箱
)

var nodeTypeNames = [...]string{"normal", "pump", "valve", "tee", "tank"}

// String 类型名称
func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
	return nodeTypeNames[t]
}

// ParseNodeType 解析 ptype 字段
func ParseNodeType(s string) (NodeType, error) {
	for i, n := range nodeTypeNames {
		if n == s {
			return NodeType(i), nil
		}
	}
	return TypeNormal, fmt.Errorf("未知节点类型: %q", s)
}

// Dual 是否占用入口和出口两个逻辑索引
func (t NodeType) Dual() bool { return t == TypePump || t == TypeTank }

// Params 节点类型参数
type Params interface {
	Type() NodeType
}

// Normal 普通节点
type Normal struct{}

// PumpMode 泵运行模式
type PumpMode int

const (
	ConstantFlow PumpMode = iota // 定流量泵(齿轮泵)
	Curve                        // 特性曲线泵(离心泵)
)

func (m PumpMode) String() string {
	if m == Curve {
		return "curve"
	}
	return "constant_flow"
}

// Pump 泵参数
type Pump struct {
	Mode           PumpMode
	QSource        float64 // 定流量 m³/s
	PMax           float64 // 额定最高压力 Pa
	A              float64 // 关死点压力 Pa
	B              float64 // 曲线系数 Pa·s²/m⁶
	OutletPressure float64 // 出口设定绝对压力 Pa, 0 为未设定
}

// Regulated 出口压力是否被设定
func (p *Pump) Regulated() bool { return p.OutletPressure > 0 }

// Valve 阀门参数
type Valve struct {
	CvRated float64 // 额定 Cv
	Opening float64 // 开度 [0,1]
}

// Cv 有效流量系数
func (v *Valve) Cv() float64 { return v.CvRated * v.Opening }

// Tee 三通参数
type Tee struct {
	K float64 // 局部阻力系数
}

// FluidSpec 油箱介质描述
type FluidSpec struct {
	Name string
	Rho  float64 // 15°C 密度 kg/m³
	V40  float64 // 40°C 运动粘度 cSt
}

// Tank 油箱参数
type Tank struct {
	Fluid FluidSpec
}

func (*Normal) Type() NodeType { return TypeNormal }
func (*Pump) Type() NodeType   { return TypePump }
func (*Valve) Type() NodeType  { return TypeValve }
func (*Tee) Type() NodeType    { return TypeTee }
func (*Tank) Type() NodeType   { return TypeTank }

// Node 网络节点
type Node struct {
	Label     string
	X, Y      float64
	Elevation float64
	Fixed     float64 // 固定绝对压力 Pa, 0 为未设定
	Params    Params
	// 逻辑索引, 单索引节点 Inlet == Outlet
	Inlet  int
	Outlet int
}

// Type 节点类型
func (n *Node) Type() NodeType {
	if n.Params == nil {
		return TypeNormal
	}
	return n.Params.Type()
}

// Pump 泵参数, 非泵节点返回 nil
func (n *Node) Pump() *Pump {
	p, _ := n.Params.(*Pump)
	return p
}

// Valve 阀门参数, 非阀门节点返回 nil
func (n *Node) Valve() *Valve {
	v, _ := n.Params.(*Valve)
	return v
}

// Tee 三通参数, 非三通节点返回 nil
func (n *Node) Tee() *Tee {
	t, _ := n.Params.(*Tee)
	return t
}

// Tank 油箱参数, 非油箱节点返回 nil
func (n *Node) Tank() *Tank {
	t, _ := n.Params.(*Tank)
	return t
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Label, n.Type())
}
