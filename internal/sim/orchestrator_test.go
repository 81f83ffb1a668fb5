package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granary/futures-sim/internal/config"
)

func testConfig(seed uint64) config.Root {
	return config.Root{
		Simulation: config.Simulation{
			Seed:          seed,
			DaysPerSeason: 7,
			TicksPerDay:   24,
			SeasonOrder:   []string{"spring", "summer", "fall", "winter"},
		},
		Breaker: config.Breaker{
			Enabled:          true,
			MaxMovePct:       0.10,
			ElapsedThreshold: 0.95,
			GapThreshold:     0.005,
		},
		Carry: config.Carry{RiskFreeRate: 0.05, StorageCost: 0.02, ConvenienceYield: 0.01},
		Book:  config.Book{DepthLevels: 5, SpreadBps: 20, LevelQuantity: 50},
		Impact: config.Impact{
			DecayRate:      0.9,
			MaxFlow:        1.0,
			MomentumWindow: 10,
			SmartMoneyGain: 0.3,
			TrendGain:      0.2,
			FomoGain:       0.1,
		},
		Regimes: []config.RegimeWindow{
			{FromDay: 0, Regime: "quiet"},
			{FromDay: 14, Regime: "euphoric"},
		},
		Commodities: []config.Commodity{
			{
				Symbol: "WHEAT", Name: "Wheat", Kind: "spot",
				BasePrice: 100, BaseDemand: 1000, BaseSupply: 1000,
				GrowthSeasons: []string{"spring", "summer"}, OffSeasonMultiplier: 1.4,
				DailyVol: 0.02, IntradayVol: 0.001, LiquiditySensitivity: 1.0,
			},
			{
				Symbol: "WHEAT-H", Name: "Wheat futures", Kind: "futures", MaturityDay: 56,
				BasePrice: 100, BaseDemand: 1000, BaseSupply: 1000,
				GrowthSeasons: []string{"spring", "summer"}, OffSeasonMultiplier: 1.4,
				DailyVol: 0.02, IntradayVol: 0.001, LiquiditySensitivity: 1.0,
			},
		},
		News: []config.NewsDef{
			{
				ID: "drought", Headline: "Drought cuts harvest outlook", Severity: 0.8,
				SupplyDelta: -200, Duration: 5, Probability: 1.0, MinDay: 2, MaxDay: 2,
			},
		},
	}
}

// runDays drives the orchestrator through full open days starting at fromDay
// and returns every displayed tick price in step order.
func runDays(o *Orchestrator, cfg config.Root, fromDay, days int) []float64 {
	cal := &Calendar{PerDay: cfg.Simulation.TicksPerDay, Open: true}
	var out []float64
	for d := fromDay; d < fromDay+days; d++ {
		cal.CurDay = d
		cal.CurTick = 0
		o.StepDay(cal)
		for t := 0; t < cal.PerDay; t++ {
			cal.CurTick = t
			o.StepTick(cal)
			for _, sym := range o.Symbols() {
				st, _ := o.State(sym)
				out = append(out, st.Displayed)
			}
		}
	}
	return out
}

func TestDeterministicAcrossRuns(t *testing.T) {
	cfg := testConfig(42)
	a := New(cfg, nil, nil)
	b := New(cfg, nil, nil)

	pa := runDays(a, cfg, 0, 10)
	pb := runDays(b, cfg, 0, 10)
	require.Equal(t, pa, pb)

	for _, sym := range a.Symbols() {
		assert.Equal(t, a.Trades(sym, 128), b.Trades(sym, 128), sym)
		assert.Equal(t, a.NewsEvents(), b.NewsEvents())
	}
}

func TestSeedChangesTrajectory(t *testing.T) {
	a := New(testConfig(1), nil, nil)
	b := New(testConfig(2), nil, nil)

	pa := runDays(a, testConfig(1), 0, 5)
	pb := runDays(b, testConfig(2), 0, 5)
	assert.NotEqual(t, pa, pb)
}

func TestSnapshotResumesBitForBit(t *testing.T) {
	cfg := testConfig(7)

	ref := New(cfg, nil, nil)
	runDays(ref, cfg, 0, 3)

	// Same run split across a snapshot boundary after day 1.
	orig := New(cfg, nil, nil)
	runDays(orig, cfg, 0, 2)
	snap, err := orig.Snapshot()
	require.NoError(t, err)

	resumed := New(cfg, nil, nil)
	require.NoError(t, resumed.Restore(snap))

	tailA := runDays(orig, cfg, 2, 1)
	tailB := runDays(resumed, cfg, 2, 1)
	require.Equal(t, tailA, tailB)

	for _, sym := range ref.Symbols() {
		want, _ := ref.State(sym)
		gotA, _ := orig.State(sym)
		gotB, _ := resumed.State(sym)
		assert.Equal(t, want, gotA, sym)
		assert.Equal(t, want, gotB, sym)
	}
}

func TestSnapshotRejectsUnknownSymbol(t *testing.T) {
	cfg := testConfig(7)
	o := New(cfg, nil, nil)
	runDays(o, cfg, 0, 1)
	snap, err := o.Snapshot()
	require.NoError(t, err)

	snap.Instruments[0].State.Symbol = "NOPE"
	err = New(cfg, nil, nil).Restore(snap)
	require.Error(t, err)
}

func TestStepDayIdempotentPerDay(t *testing.T) {
	cfg := testConfig(42)
	o := New(cfg, nil, nil)
	cal := &Calendar{PerDay: cfg.Simulation.TicksPerDay, Open: true}

	o.StepDay(cal)
	st1, _ := o.State("WHEAT")
	o.StepDay(cal)
	st2, _ := o.State("WHEAT")
	assert.Equal(t, st1, st2)
}

func TestClosedOrPausedTicksAreNoOps(t *testing.T) {
	cfg := testConfig(42)
	o := New(cfg, nil, nil)
	cal := &Calendar{PerDay: cfg.Simulation.TicksPerDay, Open: true}
	o.StepDay(cal)
	before, _ := o.State("WHEAT")

	cal.Open = false
	o.StepTick(cal)
	mid, _ := o.State("WHEAT")
	assert.Equal(t, before, mid)

	cal.Open = true
	cal.IsPaused = true
	o.StepTick(cal)
	after, _ := o.State("WHEAT")
	assert.Equal(t, before, after)
}

func TestScheduledNewsMovesFundamental(t *testing.T) {
	cfg := testConfig(42)
	o := New(cfg, nil, nil)
	runDays(o, cfg, 0, 2) // days 0 and 1, before the drought window

	st, _ := o.State("WHEAT")
	base := st.Fundamental

	runDays(o, cfg, 2, 5) // drought fires on day 2 and digests
	st, _ = o.State("WHEAT")
	assert.Greater(t, st.Fundamental, base, "supply shock should raise the fundamental")

	events := o.NewsEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "drought", events[0].DefID)
}

func TestBreakerBoundsCloseToClose(t *testing.T) {
	cfg := testConfig(42)
	cfg.Breaker.MaxMovePct = 0.03
	cfg.Commodities = cfg.Commodities[:1]
	cfg.Commodities[0].DailyVol = 0.5 // wild targets, breaker must cap the close
	o := New(cfg, nil, nil)

	cal := &Calendar{PerDay: cfg.Simulation.TicksPerDay, Open: true}
	for d := 0; d < 20; d++ {
		cal.CurDay = d
		cal.CurTick = 0
		o.StepDay(cal)
		st, _ := o.State("WHEAT")
		open := st.Open
		for t := 0; t < cal.PerDay; t++ {
			cal.CurTick = t
			o.StepTick(cal)
		}
		st, _ = o.State("WHEAT")
		limit := cfg.Breaker.MaxMovePct * open
		assert.LessOrEqual(t, st.Current, open+limit*1.0001, "day %d", d)
		assert.GreaterOrEqual(t, st.Current, open-limit*1.0001, "day %d", d)
	}
}

func TestSeasonCalendar(t *testing.T) {
	order := []string{"spring", "summer", "fall", "winter"}
	assert.Equal(t, "spring", SeasonForDay(0, 7, order))
	assert.Equal(t, "spring", SeasonForDay(6, 7, order))
	assert.Equal(t, "summer", SeasonForDay(7, 7, order))
	assert.Equal(t, "spring", SeasonForDay(28, 7, order))
	assert.Equal(t, "", SeasonForDay(3, 0, order))

	assert.Equal(t, 7, DaysLeftInSeason(0, 7))
	assert.Equal(t, 1, DaysLeftInSeason(6, 7))
	assert.Equal(t, 7, DaysLeftInSeason(7, 7))
}

func TestDepthFollowsDayTarget(t *testing.T) {
	cfg := testConfig(42)
	o := New(cfg, nil, nil)
	cal := &Calendar{PerDay: cfg.Simulation.TicksPerDay, Open: true}
	o.StepDay(cal)

	st, _ := o.State("WHEAT")
	depth, ok := o.Depth("WHEAT", 5)
	require.True(t, ok)
	require.NotEmpty(t, depth.Bids)
	require.NotEmpty(t, depth.Asks)
	assert.Less(t, depth.Bids[0].Price, st.Target)
	assert.Greater(t, depth.Asks[0].Price, st.Target)
}
