package pipecacu

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecacu/catalog"
	"pipecacu/config"
	"pipecacu/lahi/debug"
	"pipecacu/types"
)

func run(t *testing.T, cfg *config.Config, filename string) (*Network, error) {
	t.Helper()
	nw := NewNetwork(cfg, catalog.NewMemory())
	require.NoError(t, nw.Load(filepath.Join("testdata", filename)))
	doc, err := nw.Run(context.Background())
	require.NotNil(t, doc)
	assert.Equal(t, err == nil, doc.Success)
	return nw, err
}

func TestRunGear(t *testing.T) {
	nw, err := run(t, nil, "gear.json")
	require.NoError(t, err)
	assert.True(t, nw.Solution.Converged())
	assert.Equal(t, "VG320 滑油", nw.Model.Fluid.Name)
	assert.InEpsilon(t, 1.0/3600, nw.Solution.Flow[0], 1e-3)
}

func TestRunBranch(t *testing.T) {
	nw := NewNetwork(nil, catalog.NewMemory())
	require.NoError(t, nw.Load("testdata/branch.json"))
	doc, err := nw.Run(context.Background())
	require.NoError(t, err)
	require.True(t, doc.Success)

	f := doc.Flows
	q := doc.PumpFlows["P1"]
	require.Greater(t, q, 0.0)
	assert.InEpsilon(t, q, f["S1"], 1e-3)
	assert.InEpsilon(t, q, f["L1"], 1e-3)
	assert.InEpsilon(t, q, f["L2"]+f["L4"], 1e-3)
	assert.InEpsilon(t, f["L2"], f["L3"], 1e-3)
	assert.InEpsilon(t, f["L4"], f["L5"], 1e-3)
	// 泵出口压力高于吸入口
	assert.Greater(t, doc.Pressures["P1"], doc.InletPressures["P1"])
	assert.Less(t, doc.InletPressures["P1"], types.AtmosphericPressure)
}

func TestRunDangling(t *testing.T) {
	_, err := run(t, nil, "dangling.json")
	assert.ErrorIs(t, err, types.ErrDanglingPipe)

	cfg := config.DefaultConfig()
	cfg.Dangling = "skip"
	nw, err := run(t, cfg, "dangling.json")
	require.NoError(t, err)
	assert.Len(t, nw.Graph.Pipes, 1)
	require.Len(t, nw.Solution.Warnings, 1)
	assert.Contains(t, nw.Solution.Warnings[0], "L2")
}

func TestRunEmpty(t *testing.T) {
	nw, err := run(t, nil, "empty.json")
	assert.ErrorIs(t, err, types.ErrEmptyTopology)
	assert.Nil(t, nw.Solution)
}

func TestRunNotLoaded(t *testing.T) {
	doc, err := NewNetwork(nil, nil).Run(context.Background())
	assert.ErrorIs(t, err, types.ErrInvalidDoc)
	assert.Equal(t, string(types.KindInvalidDoc), doc.Error.Kind)
}

func TestExport(t *testing.T) {
	nw := NewNetwork(nil, nil)
	require.NoError(t, nw.Load("testdata/branch.json"))
	out := filepath.Join(t.TempDir(), "branch.json")
	require.NoError(t, nw.Export(out))

	again := NewNetwork(nil, nil)
	require.NoError(t, again.Load(out))
	assert.Equal(t, nw.Doc, again.Doc)

	assert.Error(t, NewNetwork(nil, nil).Export(out))
}

func TestCalculate(t *testing.T) {
	data, err := os.ReadFile("testdata/gear.json")
	require.NoError(t, err)
	doc, err := Calculate(context.Background(), nil, nil, strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.True(t, doc.Success)
	assert.Contains(t, doc.Pressures, "T1")

	doc, err = Calculate(context.Background(), nil, nil, strings.NewReader("{"))
	assert.Error(t, err)
	assert.Equal(t, string(types.KindInvalidDoc), doc.Error.Kind)
}

func TestRunRecord(t *testing.T) {
	nw := NewNetwork(nil, catalog.NewMemory())
	rec := &debug.Record{}
	nw.Debug = rec
	require.NoError(t, nw.Load("testdata/gear.json"))
	_, err := nw.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nw.Solution.RunID, rec.RunID)
	assert.Len(t, rec.Residual, nw.Solution.Iterations)
	assert.Equal(t, "converged", rec.State)
}
