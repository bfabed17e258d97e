package element

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"pipecacu/fluid"
	"pipecacu/types"
)

var vg320 = fluid.New("VG320 滑油", 920, 347.8)

func newPipe(d, l float64) *types.Pipe {
	return &types.Pipe{Label: "L", Diameter: d, Length: l, Roughness: types.DefaultRoughness}
}

func TestReynolds(t *testing.T) {
	assert.Equal(t, 0.0, Reynolds(1e-10, 0.04, vg320.Nu))
	assert.InDelta(t, 2*0.04/vg320.Nu, Reynolds(-2, 0.04, vg320.Nu), 1e-9)
}

func TestFrictionFactor(t *testing.T) {
	// 层流区接近 64/Re
	assert.InDelta(t, 0.64, FrictionFactor(100, 0, 0.04), 1e-6)
	// 光滑管湍流
	assert.InDelta(t, 0.017875, FrictionFactor(1e5, 0, 0.04), 1e-5)
	// 粗糙管摩阻更大
	assert.Greater(t, FrictionFactor(1e5, types.DefaultRoughness, 0.04), FrictionFactor(1e5, 0, 0.04))
	// 极低雷诺数下限
	assert.Equal(t, 64000.0, FrictionFactor(1e-6, 0, 0.04))
}

func TestPipeConductance(t *testing.T) {
	p := newPipe(0.04, 10)
	laminar := math.Pi * math.Pow(0.04, 4) / (128 * vg320.Mu * 10)
	if g := LaminarConductance(p, vg320); math.Abs(g-laminar) > 1e-15 {
		t.Errorf("层流流导不正确: 期望 %v, 实际 %v", laminar, g)
	}
	// 切换点以下流导保持不变
	assert.Equal(t, PipeConductance(p, vg320, laminarDrop), PipeConductance(p, vg320, 0.5))
	assert.Equal(t, PipeConductance(p, vg320, laminarDrop), PipeConductance(p, vg320, 0))
	assert.GreaterOrEqual(t, PipeConductance(p, vg320, 0.5), laminar)
	assert.InEpsilon(t, 1.1526073638864097e-07, PipeConductance(p, vg320, 1000), 1e-9)
	assert.Equal(t, PipeConductance(p, vg320, 1000), PipeConductance(p, vg320, -1000))
}

func TestPipeFlowContinuous(t *testing.T) {
	for _, p := range []*types.Pipe{newPipe(0.04, 10), newPipe(0.025, 5), newPipe(0.3, 0.1)} {
		for _, f := range []fluid.Fluid{vg320, fluid.New("VG46 液压油", 875, 46)} {
			below := PipeConductance(p, f, laminarDrop*(1-1e-9)) * laminarDrop * (1 - 1e-9)
			above := PipeConductance(p, f, laminarDrop*(1+1e-9)) * laminarDrop * (1 + 1e-9)
			assert.InEpsilon(t, above, below, 1e-6, "D=%g L=%g %s", p.Diameter, p.Length, f.Name)
		}
	}
}

func TestLocalConductance(t *testing.T) {
	assert.Equal(t, localFloor, LocalConductance(0, 0.04, vg320, 1000))
	assert.Equal(t, localFloor, LocalConductance(1.5, 0.04, vg320, 1e-3))
	assert.InEpsilon(t, 1.5128132466015708e-06, LocalConductance(1.5, 0.04, vg320, 1000), 1e-9)
}

func TestValveConductance(t *testing.T) {
	v := &types.Valve{CvRated: 10, Opening: 1}
	assert.InEpsilon(t, 3.811219136227649e-08, ValveConductance(v, vg320, 1000), 1e-9)
	assert.Equal(t, valveFloor, ValveConductance(v, vg320, 0))
	// 全关阀门取下限而非零
	closed := &types.Valve{CvRated: 10, Opening: 0}
	assert.Equal(t, types.ConductanceFloor, ValveConductance(closed, vg320, 1000))
}

func TestSeries(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt2, Series(1, 1), 1e-12)
	assert.Equal(t, 2.0, Series(2))
	assert.Equal(t, localFloor, Series())
}

func TestBranchConductance(t *testing.T) {
	p := newPipe(0.025, 5)
	assert.Equal(t, PipeConductance(p, vg320, 5000), BranchConductance(p, vg320, 5000))

	p.LocalK = 2.5
	p.Valve = &types.Valve{CvRated: 20, Opening: 0.5}
	g := BranchConductance(p, vg320, 5000)
	// 串联后流导小于任一部分单独承受全部压差时的流导
	assert.Less(t, g, PipeConductance(p, vg320, 5000))
	assert.Less(t, g, localPart(p, vg320, 5000))
	assert.Equal(t, g, BranchConductance(p, vg320, -5000))

	// 分配点两侧流量一致
	q := g * 5000
	lo, hi := 0.0, 5000.0
	for range 80 {
		x := (lo + hi) / 2
		if PipeConductance(p, vg320, x)*x < q {
			lo = x
		} else {
			hi = x
		}
	}
	y := 5000 - lo
	assert.InEpsilon(t, q, localPart(p, vg320, y)*y, 1e-6)
}

func TestBranchConductanceClosedValve(t *testing.T) {
	p := newPipe(0.025, 5)
	p.Valve = &types.Valve{CvRated: 20, Opening: 0}
	g := BranchConductance(p, vg320, 3000)
	assert.False(t, math.IsNaN(g))
	assert.Greater(t, g, 0.0)
	assert.LessOrEqual(t, g, 2*types.ConductanceFloor)
}

func TestPump(t *testing.T) {
	gear := &types.Pump{Mode: types.ConstantFlow, QSource: 1.0 / 3600, PMax: 800e3}
	assert.Equal(t, 800e3, PumpPressureDelta(gear, 1))

	c := &types.Pump{Mode: types.Curve, A: 600e3, B: 100e3 / math.Pow(10.0/3600, 2)}
	assert.Equal(t, 600e3, PumpPressureDelta(c, 0))
	assert.Equal(t, 0.0, PumpPressureDelta(c, 1))
	for _, dp := range []float64{0, 1e5, 3e5, 5.99e5} {
		q := PumpCurveFlow(c, dp)
		assert.InDelta(t, dp, PumpPressureDelta(c, q), 1e-6)
	}
	assert.Equal(t, 0.0, PumpCurveFlow(c, 7e5))
	assert.Equal(t, types.ConductanceFloor, PumpConductance(c, 7e5))
	assert.LessOrEqual(t, PumpSeedConductance(c), types.MaxPumpConductance)
}

func TestConductanceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("conductance depends only on |ΔP|", prop.ForAll(
		func(d, l, dp float64) bool {
			p := newPipe(d, l)
			return PipeConductance(p, vg320, dp) == PipeConductance(p, vg320, -dp)
		},
		gen.Float64Range(0.005, 0.3),
		gen.Float64Range(0.1, 500),
		gen.Float64Range(0, 2e6),
	))

	// 层流区内流量随压差单调, 包括 1 Pa 切换点附近
	properties.Property("pipe flow non-decreasing in |ΔP|", prop.ForAll(
		func(d, l, dp float64) bool {
			p := newPipe(d, l)
			hi := dp * 1.05
			return PipeConductance(p, vg320, hi)*hi >= PipeConductance(p, vg320, dp)*dp
		},
		gen.Float64Range(0.005, 0.05),
		gen.Float64Range(1, 500),
		gen.Float64Range(0, 1e4),
	))

	properties.Property("conductance is always positive", prop.ForAll(
		func(d, l, dp, k, cv, open float64) bool {
			p := newPipe(d, l)
			p.LocalK = k
			p.Valve = &types.Valve{CvRated: cv, Opening: open}
			v := p.Valve
			return PipeConductance(p, vg320, dp) > 0 &&
				LocalConductance(k, d, vg320, dp) > 0 &&
				ValveConductance(v, vg320, dp) > 0 &&
				BranchConductance(p, vg320, dp) > 0
		},
		gen.Float64Range(0.005, 0.3),
		gen.Float64Range(0.1, 500),
		gen.Float64Range(-2e6, 2e6),
		gen.Float64Range(0, 20),
		gen.Float64Range(0, 200),
		gen.Float64Range(0, 1),
	))

	monotone := func(lo, hi float64) gopter.Prop {
		return prop.ForAll(
			func(re, ratio float64) bool {
				d := 0.04
				return FrictionFactor(re*1.01, ratio*d, d) <= FrictionFactor(re, ratio*d, d)
			},
			gen.Float64Range(lo, hi),
			gen.Float64Range(0, 0.025),
		)
	}
	properties.Property("friction factor non-increasing in laminar range", monotone(1, 2000))
	properties.Property("friction factor non-increasing in turbulent range", monotone(5000, 1e7))

	properties.TestingRun(t)
}
