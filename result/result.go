// Package result 计算结果文档.
//
// 将逻辑索引映射回节点和管路标签, 压力单位 Pa, 流量单位 m³/s.
package result

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"pipecacu/fluid"
	"pipecacu/graph"
	"pipecacu/lahi"
	"pipecacu/types"
)

const (
	MsgConverged = "计算收敛"
	MsgFailed    = "计算失败"
)

// 非结构化错误的类别
const (
	KindCanceled = "canceled"
	KindInternal = "internal"
)

// ErrorInfo 失败原因
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Document 结果文档
type Document struct {
	Success        bool               `json:"success"`
	Msg            string             `json:"msg"`
	RunID          string             `json:"run_id,omitempty"`
	State          string             `json:"state,omitempty"`
	Fluid          *fluid.Fluid       `json:"fluid,omitempty"`
	Iterations     int                `json:"iterations,omitempty"`
	Residual       float64            `json:"residual,omitempty"`
	Pressures      map[string]float64 `json:"pressures,omitempty"`       // 节点主索引压力
	InletPressures map[string]float64 `json:"inlet_pressures,omitempty"` // 泵和油箱入口压力
	Flows          map[string]float64 `json:"flows,omitempty"`
	NodeFlows      map[string]float64 `json:"node_flows,omitempty"` // 节点管路净流入
	Velocities     map[string]float64 `json:"velocities,omitempty"` // 管路流速 m/s
	PumpFlows      map[string]float64 `json:"pump_flows,omitempty"`
	Warnings       []string           `json:"warnings,omitempty"`
	Error          *ErrorInfo         `json:"error,omitempty"`
}

// Format 由收敛解生成结果文档, 未收敛的解按失败处理
func Format(g *graph.Graph, sol *lahi.Solution, f fluid.Fluid, err error) *Document {
	if err != nil || !sol.Converged() {
		if err == nil {
			err = types.Errorf(types.KindMaxIterations, "计算未收敛")
		}
		doc := Failure(err)
		if sol != nil {
			doc.RunID, doc.State = sol.RunID, sol.State.String()
			doc.Iterations, doc.Residual = sol.Iterations, sol.Residual
		}
		return doc
	}
	doc := &Document{
		Success:        true,
		Msg:            MsgConverged,
		RunID:          sol.RunID,
		State:          sol.State.String(),
		Fluid:          &f,
		Iterations:     sol.Iterations,
		Residual:       sol.Residual,
		Pressures:      make(map[string]float64, len(g.Nodes)),
		InletPressures: map[string]float64{},
		Flows:          make(map[string]float64, len(g.Pipes)),
		NodeFlows:      make(map[string]float64, len(g.Nodes)),
		Velocities:     make(map[string]float64, len(g.Pipes)),
		PumpFlows:      make(map[string]float64, len(g.Pumps)),
		Warnings:       sol.Warnings,
	}
	for _, n := range g.Nodes {
		doc.Pressures[n.Label] = sol.Pressure[n.Outlet]
		net := sol.NodeFlow[n.Outlet]
		if n.Inlet != n.Outlet {
			doc.InletPressures[n.Label] = sol.Pressure[n.Inlet]
			net += sol.NodeFlow[n.Inlet]
		}
		doc.NodeFlows[n.Label] = net
	}
	for i, p := range g.Pipes {
		doc.Flows[p.Label] = sol.Flow[i]
		doc.Velocities[p.Label] = p.Velocity(sol.Flow[i])
	}
	for k, n := range g.Pumps {
		doc.PumpFlows[n.Label] = sol.PumpFlow[k]
	}
	return doc
}

// Failure 失败文档
func Failure(err error) *Document {
	kind := string(types.KindOf(err))
	switch {
	case kind != "":
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindCanceled
	default:
		kind = KindInternal
	}
	return &Document{
		Success: false,
		Msg:     MsgFailed + ": " + err.Error(),
		Error:   &ErrorInfo{Kind: kind, Message: err.Error()},
	}
}

// Render 输出 JSON
func (d *Document) Render(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Save 保存到文件
func (d *Document) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := d.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
