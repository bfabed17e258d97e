// Package graph 拓扑构建.
//
// 将节点和管路列表转换为带逻辑索引的网络图. 泵和油箱占用入口、出口两个索引,
// 其余节点占用一个. 从泵或油箱出发的管路接出口, 终止于泵或油箱的管路接入口.
package graph

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"pipecacu/types"
)

// DanglingPolicy 悬空管路处理策略
type DanglingPolicy int

const (
	Reject DanglingPolicy = iota // 拒绝整个拓扑
	Skip                         // 跳过该管路并告警
)

func (d DanglingPolicy) String() string {
	if d == Skip {
		return "skip"
	}
	return "reject"
}

// ParseDanglingPolicy 解析策略名称
func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	switch strings.ToLower(s) {
	case "", "reject":
		return Reject, nil
	case "skip":
		return Skip, nil
	}
	return Reject, fmt.Errorf("未知悬空管路策略: %q", s)
}

// Options 构建选项
type Options struct {
	Dangling DanglingPolicy
	Logger   *log.Logger
}

// Anchor 压力锚点
type Anchor struct {
	Index    int
	Pressure float64 // Pa
}

// Graph 网络图
type Graph struct {
	Nodes    []*types.Node
	Pipes    []*types.Pipe
	Pumps    []*types.Node
	Index    map[string]int // 节点标签 -> 主逻辑索引
	Size     int            // 逻辑索引总数
	Labels   []string       // 逻辑索引 -> 名称
	Owner    []int          // 逻辑索引 -> 节点序号
	Anchors  []Anchor
	Warnings []string

	nodes map[string]*types.Node
}

// Node 按标签查找节点
func (g *Graph) Node(label string) *types.Node { return g.nodes[label] }

// IsAnchor 逻辑索引是否为锚点
func (g *Graph) IsAnchor(idx int) bool {
	for _, a := range g.Anchors {
		if a.Index == idx {
			return true
		}
	}
	return false
}

func (g *Graph) warn(logger *log.Logger, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	g.Warnings = append(g.Warnings, msg)
	if logger != nil {
		logger.Warn(msg)
	}
}

// Build 构建网络图, 输入节点和管路被复制, 不会被修改
func Build(nodes []*types.Node, pipes []*types.Pipe, opts Options) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, types.Errorf(types.KindEmptyTopology, "拓扑为空: 没有节点")
	}
	g := &Graph{
		Nodes: make([]*types.Node, 0, len(nodes)),
		Pipes: make([]*types.Pipe, 0, len(pipes)),
		Index: make(map[string]int, len(nodes)),
		nodes: make(map[string]*types.Node, len(nodes)),
	}
	// 分配逻辑索引
	for i, src := range nodes {
		if _, ok := g.nodes[src.Label]; ok {
			return nil, types.Errorf(types.KindInvalidDoc, "节点标签重复: %s", src.Label)
		}
		n := *src
		if n.Type().Dual() {
			n.Inlet, n.Outlet = g.Size, g.Size+1
			g.Labels = append(g.Labels, n.Label+".in", n.Label)
			g.Owner = append(g.Owner, i, i)
			g.Size += 2
		} else {
			n.Inlet, n.Outlet = g.Size, g.Size
			g.Labels = append(g.Labels, n.Label)
			g.Owner = append(g.Owner, i)
			g.Size++
		}
		g.Nodes = append(g.Nodes, &n)
		g.nodes[n.Label] = &n
		g.Index[n.Label] = n.Outlet
		if n.Type() == types.TypePump {
			g.Pumps = append(g.Pumps, &n)
		}
	}
	// 管路端点重定向
	for _, src := range pipes {
		p := *src
		if p.Diameter <= 0 || p.Length <= 0 {
			return nil, types.Errorf(types.KindInvalidParam, "管路 %s 几何参数无效: D=%g L=%g", p.Label, p.Diameter, p.Length)
		}
		start, end := g.nodes[p.Start], g.nodes[p.End]
		if start == nil || end == nil {
			if opts.Dangling == Skip {
				g.warn(opts.Logger, "跳过悬空管路 %s: %q -> %q", p.Label, p.Start, p.End)
				continue
			}
			return nil, types.Errorf(types.KindDanglingPipe, "管路 %s 端点未连接: %q -> %q", p.Label, p.Start, p.End)
		}
		p.StartIdx, p.EndIdx = start.Outlet, end.Inlet
		p.LocalK, p.Valve = 0, nil
		for _, f := range p.Fittings {
			p.LocalK += float64(f.Count) * f.K
		}
		g.Pipes = append(g.Pipes, &p)
	}
	g.attachLocal()
	g.anchor()
	return g, nil
}

// attachLocal 阀门和三通的局部阻力串联到其出口管路, 无出口管路时串联到入口管路.
// 阀门的 Cv 按承载管路数均分, 并联后总流通能力等于阀门本身; 三通 K 值每条管路各计一次.
func (g *Graph) attachLocal() {
	for _, n := range g.Nodes {
		v, t := n.Valve(), n.Tee()
		if v == nil && t == nil {
			continue
		}
		var carriers []*types.Pipe
		for _, p := range g.Pipes {
			if p.Start == n.Label {
				carriers = append(carriers, p)
			}
		}
		if len(carriers) == 0 {
			for _, p := range g.Pipes {
				if p.End == n.Label {
					carriers = append(carriers, p)
				}
			}
		}
		for _, p := range carriers {
			if v != nil {
				p.Valve = &types.Valve{CvRated: v.CvRated / float64(len(carriers)), Opening: v.Opening}
			}
			if t != nil {
				p.LocalK += t.K
			}
		}
	}
}

// anchor 设置压力锚点
func (g *Graph) anchor() {
	fed := make([]bool, g.Size)
	for _, p := range g.Pipes {
		fed[p.EndIdx] = true
	}
	add := func(idx int, pressure float64) {
		for i := range g.Anchors {
			if g.Anchors[i].Index == idx {
				g.Anchors[i].Pressure = pressure
				return
			}
		}
		g.Anchors = append(g.Anchors, Anchor{Index: idx, Pressure: pressure})
	}
	for _, n := range g.Nodes {
		switch n.Type() {
		case types.TypeTank:
			add(n.Inlet, types.AtmosphericPressure)
			add(n.Outlet, types.AtmosphericPressure)
		case types.TypePump:
			// 无来流的泵入口视为从油池开式吸油
			if !fed[n.Inlet] {
				add(n.Inlet, types.AtmosphericPressure)
			}
			if p := n.Pump(); p.Regulated() {
				add(n.Outlet, p.OutletPressure)
			}
		}
		if n.Fixed > 0 {
			add(n.Outlet, n.Fixed)
		}
	}
	if len(g.Anchors) > 0 {
		return
	}
	// 无锚点时取第一台泵入口或第一个非泵节点为大气参考
	if len(g.Pumps) > 0 {
		add(g.Pumps[0].Inlet, types.AtmosphericPressure)
		return
	}
	for _, n := range g.Nodes {
		if n.Type() != types.TypePump {
			add(n.Outlet, types.AtmosphericPressure)
			return
		}
	}
}

// Islands 不含锚点的连通分量, 每个分量以逻辑索引名称列出
func (g *Graph) Islands() [][]string {
	parent := make([]int, g.Size)
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		if ra, rb := find(a), find(b); ra != rb {
			parent[ra] = rb
		}
	}
	for _, p := range g.Pipes {
		union(p.StartIdx, p.EndIdx)
	}
	for _, n := range g.Pumps {
		if p := n.Pump(); p.Mode == types.Curve && !p.Regulated() {
			union(n.Inlet, n.Outlet)
		}
	}
	anchored := map[int]bool{}
	for _, a := range g.Anchors {
		anchored[find(a.Index)] = true
	}
	var roots []int
	members := map[int][]string{}
	for i := range g.Size {
		r := find(i)
		if anchored[r] {
			continue
		}
		if _, ok := members[r]; !ok {
			roots = append(roots, r)
		}
		members[r] = append(members[r], g.Labels[i])
	}
	islands := make([][]string, 0, len(roots))
	for _, r := range roots {
		islands = append(islands, members[r])
	}
	return islands
}

// String 输出拓扑信息
func (g *Graph) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "逻辑索引: %d 节点: %d 管路: %d\n", g.Size, len(g.Nodes), len(g.Pipes))
	for i, l := range g.Labels {
		fmt.Fprintf(&sb, " %d: %s\n", i, l)
	}
	for _, p := range g.Pipes {
		fmt.Fprintf(&sb, " %s: %d -> %d K=%g\n", p.Label, p.StartIdx, p.EndIdx, p.LocalK)
	}
	for _, a := range g.Anchors {
		fmt.Fprintf(&sb, " 锚点 %s = %g Pa\n", g.Labels[a.Index], a.Pressure)
	}
	return sb.String()
}
