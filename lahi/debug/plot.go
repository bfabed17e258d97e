package debug

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// logFloor 对数坐标下限
const logFloor = 1e-20

// Plot 残差收敛曲线图片
type Plot struct {
	Record
	Width, Height vg.Length
	Format        string // png, svg, pdf
}

// Render 输出图片
func (c *Plot) Render(w io.Writer) error {
	if len(c.Residual) == 0 {
		return fmt.Errorf("没有迭代记录")
	}
	p := plot.New()
	p.Title.Text = "LAHI residual " + c.RunID
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "residual (m³/s)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	pts := make(plotter.XYs, len(c.Residual))
	for i, r := range c.Residual {
		pts[i].X = float64(c.Iteration[i])
		pts[i].Y = math.Max(r, logFloor)
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	p.Add(plotter.NewGrid(), line, points)

	width, height := c.Width, c.Height
	if width == 0 {
		width = 6 * vg.Inch
	}
	if height == 0 {
		height = 4 * vg.Inch
	}
	format := c.Format
	if format == "" {
		format = "png"
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
