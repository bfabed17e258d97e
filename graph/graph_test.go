package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecacu/types"
)

func node(label string, p types.Params) *types.Node {
	return &types.Node{Label: label, Params: p}
}

func pipe(label, start, end string) *types.Pipe {
	return &types.Pipe{Label: label, Start: start, End: end, Diameter: 0.04, Length: 10, Roughness: types.DefaultRoughness}
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil, nil, Options{})
	assert.True(t, errors.Is(err, types.ErrEmptyTopology))
}

func TestBuildIndices(t *testing.T) {
	nodes := []*types.Node{
		node("T1", &types.Tank{}),
		node("P1", &types.Pump{Mode: types.ConstantFlow, QSource: 1e-3}),
		node("N1", &types.Normal{}),
	}
	pipes := []*types.Pipe{
		pipe("L1", "T1", "P1"),
		pipe("L2", "P1", "N1"),
		pipe("L3", "N1", "T1"),
	}
	g, err := Build(nodes, pipes, Options{})
	require.NoError(t, err)

	assert.Equal(t, 5, g.Size)
	assert.Equal(t, []string{"T1.in", "T1", "P1.in", "P1", "N1"}, g.Labels)
	assert.Equal(t, 1, g.Index["T1"])
	assert.Equal(t, 3, g.Index["P1"])
	assert.Equal(t, 4, g.Index["N1"])

	// 出发接出口, 到达接入口
	assert.Equal(t, [2]int{1, 2}, [2]int{g.Pipes[0].StartIdx, g.Pipes[0].EndIdx})
	assert.Equal(t, [2]int{3, 4}, [2]int{g.Pipes[1].StartIdx, g.Pipes[1].EndIdx})
	assert.Equal(t, [2]int{4, 0}, [2]int{g.Pipes[2].StartIdx, g.Pipes[2].EndIdx})
	for _, p := range g.Pipes {
		assert.GreaterOrEqual(t, p.StartIdx, 0)
		assert.Less(t, p.EndIdx, g.Size)
	}

	// 输入不被修改
	assert.Equal(t, 0, nodes[0].Inlet)
	assert.Equal(t, 0, pipes[0].StartIdx)

	// 油箱两端为锚点, 泵入口有来流不设锚点
	assert.ElementsMatch(t, []Anchor{{0, types.AtmosphericPressure}, {1, types.AtmosphericPressure}}, g.Anchors)
	assert.Empty(t, g.Islands())
	require.Len(t, g.Pumps, 1)
	assert.Equal(t, "P1", g.Pumps[0].Label)
}

func TestBuildDangling(t *testing.T) {
	nodes := []*types.Node{node("A", &types.Normal{}), node("B", &types.Normal{})}
	pipes := []*types.Pipe{pipe("L1", "A", "B"), pipe("L2", "A", "X")}

	_, err := Build(nodes, pipes, Options{})
	assert.True(t, errors.Is(err, types.ErrDanglingPipe))

	g, err := Build(nodes, pipes, Options{Dangling: Skip})
	require.NoError(t, err)
	assert.Len(t, g.Pipes, 1)
	require.Len(t, g.Warnings, 1)
	assert.Contains(t, g.Warnings[0], "L2")
}

func TestParseDanglingPolicy(t *testing.T) {
	p, err := ParseDanglingPolicy("Skip")
	require.NoError(t, err)
	assert.Equal(t, Skip, p)
	p, err = ParseDanglingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, Reject, p)
	_, err = ParseDanglingPolicy("ignore")
	assert.Error(t, err)
}

func TestBuildAnchors(t *testing.T) {
	// 开式吸油泵入口和设定出口压力
	nodes := []*types.Node{
		node("P1", &types.Pump{Mode: types.Curve, A: 6e5, B: 1e10, OutletPressure: 3e5}),
		node("N1", &types.Normal{}),
		{Label: "N2", Params: &types.Normal{}, Fixed: 2e5},
	}
	pipes := []*types.Pipe{pipe("L1", "P1", "N1"), pipe("L2", "N1", "N2")}
	g, err := Build(nodes, pipes, Options{})
	require.NoError(t, err)
	assert.Equal(t, []Anchor{
		{0, types.AtmosphericPressure},
		{1, 3e5},
		{3, 2e5},
	}, g.Anchors)
	assert.True(t, g.IsAnchor(1))
	assert.False(t, g.IsAnchor(2))
}

func TestBuildFallbackAnchor(t *testing.T) {
	nodes := []*types.Node{node("A", &types.Normal{}), node("B", &types.Normal{})}
	g, err := Build(nodes, []*types.Pipe{pipe("L1", "A", "B")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []Anchor{{0, types.AtmosphericPressure}}, g.Anchors)
}

func TestBuildLocalLosses(t *testing.T) {
	valve := &types.Valve{CvRated: 10, Opening: 0.5}
	nodes := []*types.Node{
		node("T1", &types.Tank{}),
		node("V1", valve),
		node("J1", &types.Tee{K: 0.8}),
		node("E1", &types.Tee{K: 0.3}),
	}
	l1 := pipe("L1", "T1", "V1")
	l1.Fittings = []types.Fitting{{ID: "elbow90", Count: 2, K: 1.2}}
	pipes := []*types.Pipe{
		l1,
		pipe("L2", "V1", "J1"),
		pipe("L3", "J1", "T1"),
		pipe("L4", "J1", "E1"),
	}
	g, err := Build(nodes, pipes, Options{})
	require.NoError(t, err)
	byLabel := map[string]*types.Pipe{}
	for _, p := range g.Pipes {
		byLabel[p.Label] = p
	}
	assert.InDelta(t, 2.4, byLabel["L1"].LocalK, 1e-12)
	assert.Nil(t, byLabel["L1"].Valve)
	require.NotNil(t, byLabel["L2"].Valve)
	assert.Equal(t, *valve, *byLabel["L2"].Valve)
	assert.InDelta(t, 0.8, byLabel["L3"].LocalK, 1e-12)
	// 末端三通无出口管路, 串联到入口管路
	assert.InDelta(t, 0.8+0.3, byLabel["L4"].LocalK, 1e-12)
	assert.Equal(t, 0.0, pipes[0].LocalK)
}

func TestBuildValveSplit(t *testing.T) {
	valve := &types.Valve{CvRated: 12, Opening: 0.5}
	nodes := []*types.Node{
		node("T1", &types.Tank{}),
		node("V1", valve),
		node("T2", &types.Tank{}),
		node("T3", &types.Tank{}),
	}
	g, err := Build(nodes, []*types.Pipe{
		pipe("L1", "T1", "V1"),
		pipe("L2", "V1", "T2"),
		pipe("L3", "V1", "T3"),
	}, Options{})
	require.NoError(t, err)

	var cv float64
	for _, p := range g.Pipes {
		if p.Label == "L1" {
			assert.Nil(t, p.Valve)
			continue
		}
		require.NotNil(t, p.Valve, p.Label)
		assert.Equal(t, 6.0, p.Valve.CvRated, p.Label)
		assert.Equal(t, 0.5, p.Valve.Opening, p.Label)
		cv += p.Valve.Cv()
	}
	// 各出口管路的 Cv 之和等于阀门有效 Cv, 原参数不变
	assert.InDelta(t, valve.Cv(), cv, 1e-12)
	assert.Equal(t, 12.0, valve.CvRated)
}

func TestIslands(t *testing.T) {
	nodes := []*types.Node{
		node("T1", &types.Tank{}),
		node("A", &types.Normal{}),
		node("B", &types.Normal{}),
		node("C", &types.Normal{}),
	}
	pipes := []*types.Pipe{pipe("L1", "T1", "A"), pipe("L2", "B", "C")}
	g, err := Build(nodes, pipes, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"B", "C"}}, g.Islands())
}
