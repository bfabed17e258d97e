// Package lahi 线性化交替水力迭代求解.
//
// 每次迭代用当前电导装配导纳矩阵并求解压力, 再用真实非线性物性审计流量和节点残差,
// 按残差变化调整松弛因子后平滑更新电导, 直至残差满足容差.
package lahi

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"pipecacu/element"
	"pipecacu/fluid"
	"pipecacu/graph"
	"pipecacu/maths"
	"pipecacu/types"
)

// Solver 求解器
type Solver struct {
	Graph  *graph.Graph
	Fluid  fluid.Fluid
	Config Config
	Logger *log.Logger
	Debug  types.Debug // 可为 nil
	RunID  string
}

// NewSolver 创建求解器
func NewSolver(g *graph.Graph, f fluid.Fluid, cfg Config) *Solver {
	return &Solver{
		Graph:  g,
		Fluid:  f,
		Config: cfg,
		Logger: log.Default(),
		RunID:  uuid.NewString(),
	}
}

// run 单次求解的全部状态
type run struct {
	*Solver
	Matrix
	state   types.State
	g       []float64 // 电导: 管路在前, 曲线泵在后
	target  []float64 // 审计得到的真实电导
	flow    []float64 // 管路审计流量
	pumpQ   []float64 // 泵流量
	audited []float64 // 调压泵出口审计流量
	slot    []int     // 曲线泵在 g 中的位置, 其余为 -1
	p       []float64
	net     []float64 // 管路净流入
	resid   []float64
	free    []float64 // 非锚点残差
	anchor  []bool
	omega   float64
}

func (s *Solver) newRun() (*run, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, types.Wrap(types.KindInvalidParam, err, "迭代参数无效")
	}
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	g := s.Graph
	sys, err := maths.New(s.Config.Linear, g.Size)
	if err != nil {
		return nil, err
	}
	r := &run{
		Solver:  s,
		Matrix:  Matrix{Sys: sys, RHS: make([]float64, g.Size)},
		state:   types.Initialized,
		flow:    make([]float64, len(g.Pipes)),
		pumpQ:   make([]float64, len(g.Pumps)),
		audited: make([]float64, len(g.Pumps)),
		slot:    make([]int, len(g.Pumps)),
		p:       make([]float64, g.Size),
		net:     make([]float64, g.Size),
		resid:   make([]float64, g.Size),
		anchor:  make([]bool, g.Size),
		omega:   s.Config.InitialOmega,
	}
	n := len(g.Pipes)
	for k, node := range g.Pumps {
		r.slot[k] = -1
		if p := node.Pump(); p.Mode == types.Curve && !p.Regulated() {
			r.slot[k] = n
			n++
		}
	}
	r.g = make([]float64, n)
	r.target = make([]float64, n)
	for _, a := range g.Anchors {
		r.anchor[a.Index] = true
	}
	return r, nil
}

// seed 以估算压差下的真实电导作为初值
func (r *run) seed() {
	dp := r.Config.SeedPressureDrop
	for i, p := range r.Graph.Pipes {
		r.g[i] = element.BranchConductance(p, r.Fluid, dp)
	}
	for k, node := range r.Graph.Pumps {
		p := node.Pump()
		switch {
		case r.slot[k] >= 0:
			r.g[r.slot[k]] = element.PumpSeedConductance(p)
		case p.Mode == types.ConstantFlow:
			r.pumpQ[k] = p.QSource
		}
	}
}

// assemble 装配导纳矩阵和源项
func (r *run) assemble() {
	r.Clear()
	for i, p := range r.Graph.Pipes {
		r.StampConductance(p.StartIdx, p.EndIdx, r.g[i])
	}
	for k, node := range r.Graph.Pumps {
		p := node.Pump()
		switch {
		case p.Regulated():
			// 出口已锚定, 入口抽出出口送出的流量
			r.StampRightSide(node.Inlet, -r.pumpQ[k])
		case p.Mode == types.ConstantFlow:
			r.StampFlowSource(node.Inlet, node.Outlet, p.QSource)
		default:
			// Norton 等效: 电导 Gp 并联源 Gp·A
			gp := r.g[r.slot[k]]
			r.StampConductance(node.Inlet, node.Outlet, gp)
			r.StampFlowSource(node.Inlet, node.Outlet, gp*p.A)
		}
	}
	for _, a := range r.Graph.Anchors {
		r.StampAnchor(a.Index, r.Config.PenaltyWeight, a.Pressure)
	}
}

// solve 求解压力并钳位
func (r *run) solve() error {
	if err := r.Sys.Decompose(); err != nil {
		return fmt.Errorf("矩阵分解失败: %w", err)
	}
	if err := r.Sys.SolveReuse(r.RHS, r.p); err != nil {
		return fmt.Errorf("矩阵求解失败: %w", err)
	}
	for i, v := range r.p {
		r.p[i] = math.Max(v, r.Config.PressureFloor)
	}
	return nil
}

// audit 用真实物性计算流量和节点残差, 返回非锚点残差无穷范数
func (r *run) audit() float64 {
	clear(r.net)
	for i, p := range r.Graph.Pipes {
		dp := r.p[p.StartIdx] - r.p[p.EndIdx]
		gt := element.BranchConductance(p, r.Fluid, dp)
		q := gt * dp
		r.target[i], r.flow[i] = gt, q
		r.net[p.StartIdx] -= q
		r.net[p.EndIdx] += q
	}
	copy(r.resid, r.net)
	for k, node := range r.Graph.Pumps {
		p := node.Pump()
		var q float64
		switch {
		case p.Regulated():
			q = -r.net[node.Outlet]
			r.audited[k] = q
		case p.Mode == types.ConstantFlow:
			q = p.QSource
		default:
			dp := r.p[node.Outlet] - r.p[node.Inlet]
			gt := element.PumpConductance(p, dp)
			if p.B > 0 {
				q = element.PumpCurveFlow(p, dp)
			} else {
				q = gt * (p.A - dp)
			}
			r.target[r.slot[k]] = gt
			r.pumpQ[k] = q
		}
		r.resid[node.Outlet] += q
		r.resid[node.Inlet] -= q
	}
	r.free = r.free[:0]
	for i, v := range r.resid {
		if !r.anchor[i] {
			r.free = append(r.free, v)
		}
	}
	if len(r.free) == 0 {
		return 0
	}
	return floats.Norm(r.free, math.Inf(1))
}

// adapt 残差增大时减半松弛因子, 减小时增大 10%
func (r *run) adapt(res, prev float64) {
	if res > prev {
		r.omega = math.Max(r.Config.MinOmega, r.omega*0.5)
	} else {
		r.omega = math.Min(r.Config.MaxOmega, r.omega*1.1)
	}
}

// relax 电导指数平滑 G = (1-ω)·G + ω·G_target
func (r *run) relax() {
	w := r.omega
	for i := range r.g {
		r.g[i] = math.Max((1-w)*r.g[i]+w*r.target[i], types.ConductanceFloor)
	}
	for k, node := range r.Graph.Pumps {
		if node.Pump().Regulated() {
			r.pumpQ[k] = (1-w)*r.pumpQ[k] + w*r.audited[k]
		}
	}
}

// Solve 执行迭代求解
func (s *Solver) Solve(ctx context.Context) (sol *Solution, err error) {
	r, err := s.newRun()
	if err != nil {
		return &Solution{RunID: s.RunID, State: types.Failed}, err
	}
	defer r.Sys.Close()
	sol = &Solution{RunID: s.RunID}
	if s.Debug != nil {
		s.Debug.Init(s.RunID, s.Graph.Labels)
		defer func() {
			s.Debug.Finish(types.Summary{
				RunID:      s.RunID,
				State:      sol.State,
				Iterations: sol.Iterations,
				Residual:   sol.Residual,
				Err:        err,
			})
		}()
	}
	fail := func(state types.State, e error) (*Solution, error) {
		sol.State, sol.Omega = state, r.omega
		s.Logger.Error("计算失败", "run", s.RunID, "iter", sol.Iterations, "err", e)
		return sol, e
	}
	if islands := s.Graph.Islands(); len(islands) > 0 {
		return fail(types.Failed, types.Errorf(types.KindSingular, "拓扑孤岛, 未连接任何压力锚点: %v", islands))
	}

	r.seed()
	r.state = types.Iterating
	prev := math.Inf(1)
	for it := 1; it <= s.Config.MaxIterations; it++ {
		if e := ctx.Err(); e != nil {
			return fail(types.Failed, fmt.Errorf("求解中断: %w", e))
		}
		sol.Iterations = it
		r.assemble()
		if e := r.solve(); e != nil {
			return fail(types.Failed, types.Wrap(types.KindSingular, e, "线性系统奇异, 可能存在拓扑孤岛"))
		}
		res := r.audit()
		sol.Residual = res
		s.Logger.Debug("迭代", "run", s.RunID, "iter", it, "residual", res, "omega", r.omega)
		if s.Debug != nil && s.Debug.IsDebug() {
			s.Debug.Update(types.Progress{RunID: s.RunID, Iteration: it, Residual: res, Omega: r.omega, Pressure: append([]float64(nil), r.p...)})
		}
		if res < s.Config.Tolerance {
			r.state = types.Converged
			r.finish(sol)
			s.Logger.Info("计算收敛", "run", s.RunID, "iterations", it, "residual", res)
			return sol, nil
		}
		if it > 1 {
			r.adapt(res, prev)
		}
		prev = res
		r.relax()
	}
	r.state = types.MaxIterExceeded
	return fail(types.MaxIterExceeded, types.Errorf(types.KindMaxIterations,
		"超过最大迭代次数 %d, 残差 %.3e", s.Config.MaxIterations, sol.Residual))
}

// finish 整理收敛结果
func (r *run) finish(sol *Solution) {
	g := r.Graph
	sol.State = r.state
	sol.Omega = r.omega
	sol.Pressure = append([]float64(nil), r.p...)
	sol.Flow = append([]float64(nil), r.flow...)
	sol.Conductance = append([]float64(nil), r.target[:len(g.Pipes)]...)
	sol.NodeFlow = append([]float64(nil), r.net...)
	sol.Warnings = append([]string(nil), g.Warnings...)
	sol.PumpFlow = make([]float64, len(g.Pumps))
	for k, node := range g.Pumps {
		p := node.Pump()
		switch {
		case p.Regulated():
			sol.PumpFlow[k] = r.audited[k]
		default:
			sol.PumpFlow[k] = r.pumpQ[k]
		}
		if p.Mode == types.ConstantFlow && !p.Regulated() && p.PMax > 0 {
			if rise := r.p[node.Outlet] - r.p[node.Inlet]; rise > p.PMax {
				msg := fmt.Sprintf("泵 %s 升压 %.1f kPa 超过额定压力 %.1f kPa", node.Label, rise/1e3, p.PMax/1e3)
				sol.Warnings = append(sol.Warnings, msg)
				r.Logger.Warn(msg)
			}
		}
	}
}
