package impact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/granary/futures-sim/internal/config"
)

func testCfg() config.Impact {
	return config.Impact{
		DecayRate:      0.9,
		MaxFlow:        0.05,
		MomentumWindow: 5,
		SmartMoneyGain: 0.3,
		TrendGain:      0.2,
		FomoGain:       0.1,
	}
}

func TestMeanReversionPullsTowardFundamental(t *testing.T) {
	m := NewModel(testCfg())
	m.Step(100, 100, Quiet) // prime the shadow price

	// price below fundamental: smart money buys
	f := m.Step(100, 120, Quiet)
	assert.Greater(t, f.MeanReversion, 0.0)
	assert.Greater(t, f.Net, 0.0)
	assert.Greater(t, m.Impact(), 0.0)

	// price above fundamental: smart money sells
	m2 := NewModel(testCfg())
	m2.Step(100, 100, Quiet)
	f2 := m2.Step(100, 80, Quiet)
	assert.Less(t, f2.MeanReversion, 0.0)
	assert.Less(t, m2.Impact(), 0.0)
}

func TestMomentumFollowsRecentReturns(t *testing.T) {
	m := NewModel(testCfg())
	price := 100.0
	for i := 0; i < 6; i++ {
		price *= 1.01 // steady uptrend
		m.Step(price, price, Quiet)
	}
	f := m.Step(price, price, Quiet)
	assert.Greater(t, f.Momentum, 0.0)
}

func TestExtrapolationAmplifiesDominantDirection(t *testing.T) {
	m := NewModel(testCfg())
	m.Step(100, 100, Squeeze)
	f := m.Step(100, 130, Squeeze)
	assert.Greater(t, f.Extrapolation, 0.0)
	assert.Greater(t, math.Abs(f.Net), math.Abs(f.MeanReversion+f.Momentum))
}

func TestDownsideAsymmetry(t *testing.T) {
	up := NewModel(testCfg())
	up.Step(100, 100, Panic)
	fu := up.Step(100, 110, Panic)

	down := NewModel(testCfg())
	down.Step(100, 100, Panic)
	fd := down.Step(100, 90, Panic)

	// panic regime amplifies net selling relative to symmetric buying
	assert.Greater(t, math.Abs(fd.Net), math.Abs(fu.Net))
}

func TestNetFlowClamped(t *testing.T) {
	m := NewModel(testCfg())
	m.Step(100, 100, Quiet)
	f := m.Step(100, 100000, Quiet) // absurd gap
	assert.Equal(t, 0.05, f.Net)
}

func TestImpactDecays(t *testing.T) {
	m := NewModel(testCfg())
	m.Step(100, 100, Quiet)
	m.Step(100, 120, Quiet)
	peak := m.Impact()
	assert.Greater(t, peak, 0.0)

	// quiet equilibrium from here on: impact bleeds off geometrically
	prev := peak
	for i := 0; i < 20; i++ {
		m.Step(100, 100, Quiet)
		cur := m.Impact()
		assert.Less(t, cur, prev)
		prev = cur
	}
	assert.Less(t, prev, peak*0.2)
}

func TestStateRoundTrip(t *testing.T) {
	a := NewModel(testCfg())
	p := 100.0
	for i := 0; i < 10; i++ {
		p *= 1.002
		a.Step(p, 101, Euphoric)
	}

	b := NewModel(testCfg())
	b.RestoreState(a.State())

	fa := a.Step(p, 102, Euphoric)
	fb := b.Step(p, 102, Euphoric)
	assert.Equal(t, fa, fb)
	assert.Equal(t, a.Impact(), b.Impact())
}

func TestByName(t *testing.T) {
	assert.Equal(t, Panic, ByName("panic"))
	assert.Equal(t, Quiet, ByName("nope"))
}
