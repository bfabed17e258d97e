package types

import "fmt"

// State 求解状态
type State int

const (
	Initialized     State = iota // 初始化
	Iterating                    // 迭代中
	Converged                    // 收敛
	MaxIterExceeded              // 超过最大迭代
	Failed                       // 失败
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case MaxIterExceeded:
		return "max_iterations"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Progress 单次迭代信息
type Progress struct {
	RunID     string
	Iteration int
	Residual  float64
	Omega     float64
	Pressure  []float64
}

// Summary 求解结束信息
type Summary struct {
	RunID      string
	State      State
	Iterations int
	Residual   float64
	Err        error
}

// Debug 调试接口
type Debug interface {
	Init(runID string, labels []string)
	IsDebug() bool
	Update(p Progress)
	Finish(s Summary)
}

// Debugs 组合多个调试接口
type Debugs []Debug

func (ds Debugs) Init(runID string, labels []string) {
	for _, d := range ds {
		d.Init(runID, labels)
	}
}

func (ds Debugs) IsDebug() bool {
	for _, d := range ds {
		if d.IsDebug() {
			return true
		}
	}
	return false
}

func (ds Debugs) Update(p Progress) {
	for _, d := range ds {
		if d.IsDebug() {
			d.Update(p)
		}
	}
}

func (ds Debugs) Finish(s Summary) {
	for _, d := range ds {
		d.Finish(s)
	}
}
