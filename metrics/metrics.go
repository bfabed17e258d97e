// Package metrics 求解过程 Prometheus 指标.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pipecacu/types"
)

// Observer 以调试接口的形式采集求解指标
type Observer struct {
	SolvesTotal     *prometheus.CounterVec
	IterationsTotal prometheus.Counter
	Iterations      prometheus.Histogram
	Duration        prometheus.Histogram
	Residual        prometheus.Gauge
	Omega           prometheus.Gauge
	Indices         prometheus.Gauge

	registry *prometheus.Registry
	start    time.Time
}

// NewObserver 创建独立注册表的指标采集器
func NewObserver() *Observer {
	reg := prometheus.NewRegistry()
	o := &Observer{registry: reg}
	factory := promauto.With(reg)

	o.SolvesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipecacu_solves_total",
			Help: "Total number of solver runs by final state",
		},
		[]string{"state"},
	)
	o.IterationsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "pipecacu_iterations_total",
		Help: "Total number of LAHI iterations executed",
	})
	o.Iterations = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipecacu_solve_iterations",
		Help:    "Iterations used per solver run",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})
	o.Duration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipecacu_solve_duration_seconds",
		Help:    "Solver run duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})
	o.Residual = factory.NewGauge(prometheus.GaugeOpts{
		Name: "pipecacu_residual",
		Help: "Latest nodal flow residual in m3/s",
	})
	o.Omega = factory.NewGauge(prometheus.GaugeOpts{
		Name: "pipecacu_relaxation_factor",
		Help: "Latest adaptive relaxation factor",
	})
	o.Indices = factory.NewGauge(prometheus.GaugeOpts{
		Name: "pipecacu_logical_indices",
		Help: "Logical index count of the latest topology",
	})
	return o
}

// Registry 底层注册表
func (o *Observer) Registry() *prometheus.Registry { return o.registry }

func (o *Observer) Init(_ string, labels []string) {
	o.start = time.Now()
	o.Indices.Set(float64(len(labels)))
}

func (o *Observer) IsDebug() bool { return true }

func (o *Observer) Update(p types.Progress) {
	o.IterationsTotal.Inc()
	o.Residual.Set(p.Residual)
	o.Omega.Set(p.Omega)
}

func (o *Observer) Finish(s types.Summary) {
	o.SolvesTotal.WithLabelValues(s.State.String()).Inc()
	o.Iterations.Observe(float64(s.Iterations))
	o.Duration.Observe(time.Since(o.start).Seconds())
}

// WriteFile 以 node_exporter 文本格式写出
func (o *Observer) WriteFile(filename string) error {
	return prometheus.WriteToTextfile(filename, o.registry)
}
