package debug

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecacu/types"
)

func fill(d types.Debug) {
	d.Init("run-1", []string{"P1.in", "P1", "T1.in", "T1"})
	for i := 1; i <= 3; i++ {
		d.Update(types.Progress{
			RunID:     "run-1",
			Iteration: i,
			Residual:  1e-3 / float64(i*i*1000),
			Omega:     0.8,
			Pressure:  []float64{101325, 101325 + float64(i)*1000, 101325, 101325},
		})
	}
	d.Finish(types.Summary{RunID: "run-1", State: types.Converged, Iterations: 3})
}

func TestRecord(t *testing.T) {
	rec := &Record{}
	fill(rec)
	assert.Equal(t, []int{1, 2, 3}, rec.Iteration)
	assert.Len(t, rec.Pressure, 3)
	assert.Equal(t, "converged", rec.State)

	var buf bytes.Buffer
	require.NoError(t, rec.Render(&buf))
	var out Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, rec.Labels, out.Labels)
	assert.Equal(t, rec.Residual, out.Residual)

	// 重新初始化清空历史
	rec.Init("run-2", nil)
	assert.Empty(t, rec.Iteration)
	assert.Equal(t, "run-2", rec.RunID)
}

func TestRecordCopiesPressure(t *testing.T) {
	rec := &Record{}
	rec.Init("run", []string{"A"})
	p := []float64{1}
	rec.Update(types.Progress{Iteration: 1, Pressure: p})
	p[0] = 2
	assert.Equal(t, 1.0, rec.Pressure[0][0])
}

func TestRecordError(t *testing.T) {
	rec := &Record{}
	rec.Init("run", nil)
	rec.Finish(types.Summary{State: types.Failed, Err: errors.New("矩阵奇异")})
	assert.Equal(t, "failed", rec.State)
	assert.Equal(t, "矩阵奇异", rec.Error)
}

func TestCharts(t *testing.T) {
	c := &Charts{}
	fill(c)
	c.Links = [][2]string{{"P1", "T1.in"}}
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	html := buf.String()
	assert.True(t, strings.Contains(html, "残差曲线"))
	assert.True(t, strings.Contains(html, "P1.in"))
}

func TestPlot(t *testing.T) {
	c := &Plot{}
	fill(c)
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.Error(t, (&Plot{}).Render(&buf))
}

func TestDebugs(t *testing.T) {
	a, b := &Record{}, &Charts{}
	fill(types.Debugs{a, b})
	assert.Equal(t, a.Residual, b.Residual)
}
