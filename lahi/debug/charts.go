package debug

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	Record
}

func legend() charts.GlobalOpts {
	return charts.WithLegendOpts(opts.Legend{
		Type:   "scroll",
		Orient: "vertical",
		Right:  "10",
		Top:    "20",
		Bottom: "20",
	})
}

func lineChart(title, subtitle string, y opts.YAxis) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		legend(),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "迭代",
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(y),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	return line
}

func series(v []float64) []opts.LineData {
	items := make([]opts.LineData, len(v))
	for i, x := range v {
		items[i] = opts.LineData{Value: x}
	}
	return items
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	// 管网连接
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "管网节点信息",
			Subtitle: c.RunID,
		}),
		legend(),
	)
	nodes := make([]opts.GraphNode, len(c.Labels))
	for i, l := range c.Labels {
		nodes[i] = opts.GraphNode{
			Name:    l,
			Tooltip: &opts.Tooltip{Show: opts.Bool(true)},
		}
	}
	links := make([]opts.GraphLink, len(c.Links))
	for i, l := range c.Links {
		links[i] = opts.GraphLink{Source: l[0], Target: l[1]}
	}
	graph.AddSeries("管网", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Roam:               opts.Bool(true),
			Force:              &opts.GraphForce{Repulsion: 120},
			EdgeSymbol:         []string{"none", "arrow"},
			FocusNodeAdjacency: opts.Bool(true),
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
	)

	// 残差与松弛因子
	lineR := lineChart("残差曲线", "非锚点节点流量残差无穷范数", opts.YAxis{Type: "log", Scale: opts.Bool(true)})
	lineR.SetXAxis(c.Iteration).AddSeries("残差", series(c.Residual))
	lineW := lineChart("松弛因子", "自适应松弛因子随迭代变化", opts.YAxis{Min: 0, Max: 1})
	lineW.SetXAxis(c.Iteration).AddSeries("ω", series(c.Omega),
		charts.WithLineChartOpts(opts.LineChart{Step: "end"}))

	// 压力
	lineP := lineChart("压力曲线", "逻辑节点压力随迭代变化 Pa", opts.YAxis{Scale: opts.Bool(true)})
	lineP.SetXAxis(c.Iteration)
	column := make([]float64, len(c.Pressure))
	for x, l := range c.Labels {
		for i, p := range c.Pressure {
			column[i] = p[x]
		}
		lineP.AddSeries(l, series(column))
	}

	page := components.NewPage()
	page.AddCharts(
		graph,
		lineR,
		lineW,
		lineP,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		log.Error("图表输出失败", "err", err)
	}
}
