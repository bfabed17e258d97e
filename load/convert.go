package load

import (
	"context"
	"errors"

	"pipecacu/catalog"
	"pipecacu/fluid"
	"pipecacu/types"
)

// 界面默认值
const (
	defaultCurveHead = 500.0 // 离心泵额定压力 kPa
	defaultCurveFlow = 10.0  // 离心泵额定流量 m³/h
	shutoffRatio     = 1.2   // 关死压力/额定压力
	defaultOpen      = 100.0 // 阀门开度 %
)

// Model SI 单位的计算模型
type Model struct {
	Nodes []*types.Node
	Pipes []*types.Pipe
	Fluid fluid.Fluid
}

// Loader 文档到计算模型的转换
type Loader struct {
	Catalog catalog.Store // 可为 nil
	Fluids  *fluid.Table
}

// NewLoader 创建转换器, fluids 为 nil 时使用内置油品表
func NewLoader(store catalog.Store, fluids *fluid.Table) *Loader {
	if fluids == nil {
		fluids = fluid.DefaultTable()
	}
	return &Loader{Catalog: store, Fluids: fluids}
}

// Convert 将文档换算为计算模型.
// 零或负的管径、管长在此拒绝, 缺省值沿用界面默认.
func (l *Loader) Convert(ctx context.Context, doc *Document) (*Model, error) {
	m := &Model{
		Nodes: make([]*types.Node, 0, len(doc.Points)),
		Pipes: make([]*types.Pipe, 0, len(doc.Lines)),
	}
	var tank *types.Tank
	for i := range doc.Points {
		n, err := l.node(ctx, &doc.Points[i])
		if err != nil {
			return nil, err
		}
		if t := n.Tank(); t != nil && tank == nil {
			tank = t
		}
		m.Nodes = append(m.Nodes, n)
	}
	for i := range doc.Lines {
		p, err := l.pipe(ctx, &doc.Lines[i])
		if err != nil {
			return nil, err
		}
		m.Pipes = append(m.Pipes, p)
	}
	if tank != nil {
		m.Fluid = l.Fluids.Select(tank.Fluid)
	} else {
		m.Fluid = l.Fluids.Default()
	}
	return m, nil
}

func (l *Loader) lookup(ctx context.Context, id string) (catalog.Item, bool, error) {
	if id == "" || l.Catalog == nil {
		return catalog.Item{}, false, nil
	}
	it, err := l.Catalog.Get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.Item{}, false, nil
	}
	if err != nil {
		return catalog.Item{}, false, err
	}
	return it, true, nil
}

func (l *Loader) node(ctx context.Context, pt *Point) (*types.Node, error) {
	ptype := pt.PType
	if ptype == "" {
		ptype = "normal"
	}
	t, err := types.ParseNodeType(ptype)
	if err != nil {
		return nil, types.Wrap(types.KindInvalidDoc, err, "节点 %s", pt.Label)
	}
	n := &types.Node{
		Label:     pt.Label,
		X:         pt.X.Or(0),
		Y:         pt.Y.Or(0),
		Elevation: pt.Elevation.Or(0),
		Inlet:     types.NoIndex,
		Outlet:    types.NoIndex,
	}
	if pt.FixedPressure.Valid {
		if pt.FixedPressure.V <= 0 {
			return nil, types.Errorf(types.KindInvalidParam, "节点 %s 固定压力必须为正: %g kPa", pt.Label, pt.FixedPressure.V)
		}
		n.Fixed = pt.FixedPressure.V * 1e3
	}
	switch t {
	case types.TypeNormal:
		n.Params = &types.Normal{}
	case types.TypePump:
		n.Params, err = pump(pt)
	case types.TypeValve:
		n.Params, err = l.valve(ctx, pt)
	case types.TypeTee:
		n.Params, err = l.tee(ctx, pt)
	case types.TypeTank:
		spec := types.FluidSpec{}
		if fd := pt.FluidData; fd != nil {
			spec = types.FluidSpec{Name: fd.Name, Rho: fd.Rho15.Or(0), V40: fd.V40.Or(0)}
		}
		n.Params = &types.Tank{Fluid: spec}
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// pump 齿轮泵为定流量模型, 其余为特性曲线模型
func pump(pt *Point) (*types.Pump, error) {
	p := &types.Pump{}
	if pt.PumpType == "" || pt.PumpType == "gear" {
		p.Mode = types.ConstantFlow
		p.QSource = pt.PumpFlow.Or(0) / 3600
		p.PMax = pt.PumpHead.Or(0) * 1e3
		if p.QSource < 0 {
			return nil, types.Errorf(types.KindInvalidParam, "泵 %s 流量不能为负: %g m³/h", pt.Label, pt.PumpFlow.V)
		}
	} else {
		p.Mode = types.Curve
		hRated := pt.PumpHead.Or(defaultCurveHead)
		qRated := pt.PumpFlow.Or(defaultCurveFlow) / 3600
		hShut := hRated * shutoffRatio
		if pt.PumpSpeed.Valid && pt.PumpSpeed.V > 0 {
			hShut = pt.PumpSpeed.V
		}
		if hShut <= 0 {
			return nil, types.Errorf(types.KindInvalidParam, "泵 %s 关死压力必须为正: %g kPa", pt.Label, hShut)
		}
		p.A = hShut * 1e3
		if qRated > 1e-6 {
			p.B = (hShut - hRated) / (qRated * qRated) * 1e3
		}
	}
	if pt.OutletPressure.Valid {
		if pt.OutletPressure.V <= 0 {
			return nil, types.Errorf(types.KindInvalidParam, "泵 %s 出口压力必须为正: %g kPa", pt.Label, pt.OutletPressure.V)
		}
		p.OutletPressure = pt.OutletPressure.V * 1e3
	}
	return p, nil
}

func (l *Loader) valve(ctx context.Context, pt *Point) (*types.Valve, error) {
	cv := pt.ValveK.V
	if !pt.ValveK.Valid {
		it, ok, err := l.lookup(ctx, pt.FittingID)
		if err != nil {
			return nil, err
		}
		if ok {
			cv = it.FlowCoefficient()
		}
	}
	if cv < 0 {
		return nil, types.Errorf(types.KindInvalidParam, "阀门 %s Cv 不能为负: %g", pt.Label, cv)
	}
	open := pt.ValveOpen.Or(defaultOpen)
	if open < 0 || open > 100 {
		return nil, types.Errorf(types.KindInvalidParam, "阀门 %s 开度超出 0~100%%: %g", pt.Label, open)
	}
	return &types.Valve{CvRated: cv, Opening: open / 100}, nil
}

func (l *Loader) tee(ctx context.Context, pt *Point) (*types.Tee, error) {
	k := pt.TeeK.V
	if !pt.TeeK.Valid {
		it, ok, err := l.lookup(ctx, pt.FittingID)
		if err != nil {
			return nil, err
		}
		if ok {
			k = it.BranchCoefficient()
		}
	}
	if k < 0 {
		return nil, types.Errorf(types.KindInvalidParam, "三通 %s 阻力系数不能为负: %g", pt.Label, k)
	}
	return &types.Tee{K: k}, nil
}

func (l *Loader) pipe(ctx context.Context, ln *Line) (*types.Pipe, error) {
	p := &types.Pipe{
		Label:     ln.Label,
		Start:     ln.StartLabel,
		End:       ln.EndLabel,
		Remark:    ln.Remark,
		Diameter:  types.DefaultDiameter,
		Length:    types.DefaultLength,
		Roughness: types.DefaultRoughness,
		StartIdx:  types.NoIndex,
		EndIdx:    types.NoIndex,
	}
	if ln.Diameter.Valid {
		if ln.Diameter.V <= 0 {
			return nil, types.Errorf(types.KindInvalidParam, "管路 %s 管径必须为正: %g mm", ln.Label, ln.Diameter.V)
		}
		p.Diameter = ln.Diameter.V / 1000
	}
	if ln.Length.Valid {
		if ln.Length.V <= 0 {
			return nil, types.Errorf(types.KindInvalidParam, "管路 %s 管长必须为正: %g m", ln.Label, ln.Length.V)
		}
		p.Length = ln.Length.V
	}
	if ln.Roughness.Valid {
		if ln.Roughness.V < 0 {
			return nil, types.Errorf(types.KindInvalidParam, "管路 %s 粗糙度不能为负: %g mm", ln.Label, ln.Roughness.V)
		}
		p.Roughness = ln.Roughness.V / 1000
	}
	for _, f := range ln.Fittings {
		fit := types.Fitting{ID: f.ID, Count: f.Count, K: f.K.V}
		if fit.Count == 0 {
			fit.Count = 1
		}
		if !f.K.Valid {
			it, ok, err := l.lookup(ctx, f.ID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, types.Errorf(types.KindInvalidParam, "管路 %s 管件 %s 不存在", ln.Label, f.ID)
			}
			fit.K = it.Coefficient()
		}
		if fit.K < 0 {
			return nil, types.Errorf(types.KindInvalidParam, "管路 %s 管件 %s 阻力系数不能为负", ln.Label, f.ID)
		}
		p.Fittings = append(p.Fittings, fit)
	}
	return p, nil
}
