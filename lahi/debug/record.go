// Package debug 迭代过程记录与图表输出.
package debug

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	"pipecacu/graph"
	"pipecacu/types"
)

// Record 记录迭代历史
type Record struct {
	RunID     string      `json:"run_id"`
	Labels    []string    `json:"labels"`    // 逻辑索引名称
	Links     [][2]string `json:"links"`     // 管路连接, 起点到终点
	Iteration []int       `json:"iteration"` // 迭代序号列
	Residual  []float64   `json:"residual"`  // 残差列
	Omega     []float64   `json:"omega"`     // 松弛因子列
	Pressure  [][]float64 `json:"pressure"`  // 压力列
	State     string      `json:"state"`
	Error     string      `json:"error,omitempty"`
}

// Link 记录拓扑连接, 仅用于图表
func (list *Record) Link(g *graph.Graph) {
	list.Links = list.Links[:0]
	for _, p := range g.Pipes {
		list.Links = append(list.Links, [2]string{g.Labels[p.StartIdx], g.Labels[p.EndIdx]})
	}
	for _, n := range g.Pumps {
		list.Links = append(list.Links, [2]string{g.Labels[n.Inlet], g.Labels[n.Outlet]})
	}
}

// Init 初始化
func (list *Record) Init(runID string, labels []string) {
	list.RunID = runID
	list.Labels = append([]string(nil), labels...)
	list.Iteration = list.Iteration[:0]
	list.Residual = list.Residual[:0]
	list.Omega = list.Omega[:0]
	list.Pressure = list.Pressure[:0]
	list.State, list.Error = types.Initialized.String(), ""
}

func (Record) IsDebug() bool { return true }

// Update 记录数据
func (list *Record) Update(p types.Progress) {
	list.Iteration = append(list.Iteration, p.Iteration)
	list.Residual = append(list.Residual, p.Residual)
	list.Omega = append(list.Omega, p.Omega)
	list.Pressure = append(list.Pressure, append([]float64{}, p.Pressure...))
}

// Finish 记录结束状态
func (list *Record) Finish(s types.Summary) {
	list.State = s.State.String()
	if s.Err != nil {
		list.Error = s.Err.Error()
		log.Debug("迭代记录结束", "run", s.RunID, "state", list.State, "err", s.Err)
	}
}

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
