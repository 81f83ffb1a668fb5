// Package sim sequences the market simulation: one daily step and one tick
// step per instrument, all state mutation synchronous within one invocation.
package sim

import (
	"math"
	"sort"

	"github.com/granary/futures-sim/internal/book"
	"github.com/granary/futures-sim/internal/breaker"
	"github.com/granary/futures-sim/internal/config"
	"github.com/granary/futures-sim/internal/fundamental"
	"github.com/granary/futures-sim/internal/impact"
	"github.com/granary/futures-sim/internal/news"
	"github.com/granary/futures-sim/internal/observ"
	"github.com/granary/futures-sim/internal/pricing"
	"github.com/granary/futures-sim/internal/process"
	"github.com/granary/futures-sim/internal/randx"
)

// Orchestrator owns every engine for one simulation instance. It is not safe
// for concurrent mutation; the host drives it from a single goroutine and
// readers consume immutable snapshots.
type Orchestrator struct {
	cfg    config.Root
	rng    *randx.Source
	fund   *fundamental.Engine
	daily  *process.Daily
	bridge *process.Bridge
	carry  pricing.Carry

	ledger    *news.Ledger
	scheduler *news.Scheduler

	symbols     []string // sorted; fixes RNG consumption order
	instruments map[string]pricing.Instrument
	commodities map[string]config.Commodity
	books       map[string]*book.Book
	impacts     map[string]*impact.Model
	breakers    map[string]*breaker.Breaker
	states      map[string]*PriceState
	histories   map[string]*history

	regime  impact.Regime
	lastDay int
}

// New wires an orchestrator from config. margin and onFill are the injected
// collaborator hooks for order admission and fill settlement; either may be
// nil.
func New(cfg config.Root, margin book.MarginFunc, onFill book.FillFunc) *Orchestrator {
	rng := randx.New(cfg.Simulation.Seed)
	o := &Orchestrator{
		cfg:    cfg,
		rng:    rng,
		fund:   fundamental.NewEngine(cfg.Commodities),
		daily:  process.NewDaily(),
		bridge: process.NewBridge(),
		carry: pricing.Carry{
			RiskFreeRate:     cfg.Carry.RiskFreeRate,
			StorageCost:      cfg.Carry.StorageCost,
			ConvenienceYield: cfg.Carry.ConvenienceYield,
		},
		ledger:      news.NewLedger(),
		instruments: map[string]pricing.Instrument{},
		commodities: map[string]config.Commodity{},
		books:       map[string]*book.Book{},
		impacts:     map[string]*impact.Model{},
		breakers:    map[string]*breaker.Breaker{},
		states:      map[string]*PriceState{},
		histories:   map[string]*history{},
		regime:      impact.Quiet,
		lastDay:     -1,
	}
	o.scheduler = news.NewScheduler(cfg.News, rng)

	for _, c := range cfg.Commodities {
		sym := c.Symbol
		o.symbols = append(o.symbols, sym)
		o.commodities[sym] = c
		o.instruments[sym] = pricing.Instrument{
			Symbol:      sym,
			Kind:        pricing.ParseKind(c.Kind),
			MaturityDay: c.MaturityDay,
		}
		o.books[sym] = book.New(sym, margin, onFill)
		o.impacts[sym] = impact.NewModel(cfg.Impact)
		o.breakers[sym] = breaker.New(sym, cfg.Breaker)
		o.states[sym] = &PriceState{
			Symbol:    sym,
			Current:   c.BasePrice,
			Displayed: c.BasePrice,
			Open:      c.BasePrice,
			Target:    c.BasePrice,
			PrevClose: c.BasePrice,
		}
		o.histories[sym] = &history{}
	}
	sort.Strings(o.symbols)
	return o
}

// StepDay runs the day-boundary sequence: consume any breaker gap into the
// open, advance the news schedule, recompute fundamentals, draw the new day
// target, and reseed synthetic depth at it. Calling it twice for the same day
// is a no-op.
func (o *Orchestrator) StepDay(clock Clock) {
	day := clock.Day()
	if day <= o.lastDay {
		return
	}
	o.lastDay = day

	season := SeasonForDay(day, o.cfg.Simulation.DaysPerSeason, o.cfg.Simulation.SeasonOrder)
	o.regime = impact.ByName(o.regimeName(day))

	o.ledger.Refresh(day)
	o.scheduler.Advance(day, season, o.ledger)

	for _, sym := range o.symbols {
		st := o.states[sym]
		c := o.commodities[sym]
		inst := o.instruments[sym]

		if st.Open > 0 && st.Current > 0 {
			st.LastDayReturn = math.Log(st.Current / st.Open)
		}
		st.PrevClose = st.Current
		st.Open = o.breakers[sym].OpenPrice(st.PrevClose)
		if st.Open != st.PrevClose {
			observ.IncCounter("gap_opens_total", map[string]string{"symbol": sym})
		}
		st.Current = st.Open

		st.Fundamental = o.fund.Value(sym, day, season, o.ledger)

		maturity := inst.DaysToMaturity(day)
		if inst.Kind != pricing.KindFutures {
			maturity = DaysLeftInSeason(day, o.cfg.Simulation.DaysPerSeason)
		}
		st.Target = o.daily.Next(st.Open, st.Fundamental, maturity, c.DailyVol, st.LastDayReturn, o.rng)

		st.FuturesQuote = inst.Quote(o.carry, st.Fundamental, day)

		o.books[sym].GenerateSyntheticDepth(st.Target, o.depthParams(c))

		observ.SetGauge("day_target", st.Target, map[string]string{"symbol": sym})
		observ.Log("day_advanced", map[string]any{
			"symbol": sym, "day": day, "season": season, "open": st.Open,
			"fundamental": st.Fundamental, "target": st.Target, "regime": o.regime.Name,
		})
	}
}

// StepTick runs one intraday tick: bridge the model price toward the
// (breaker-effective) target, update impact, and lean on the order book with
// a synthetic market order sized by the model/book divergence. Skipped when
// the market is closed or paused.
func (o *Orchestrator) StepTick(clock Clock) {
	if !clock.MarketOpen() || clock.Paused() {
		return
	}
	day, tick, total := clock.Day(), clock.Tick(), clock.TicksPerDay()
	if total <= 0 {
		return
	}
	elapsed := float64(tick) / float64(total)

	for _, sym := range o.symbols {
		st := o.states[sym]
		c := o.commodities[sym]

		target := o.breakers[sym].Check(day, st.Open, st.Target, elapsed)
		st.Current = o.bridge.Next(st.Current, target, tick, total-tick, total, c.IntradayVol*st.Current, o.rng)

		o.impacts[sym].Step(st.Current, st.Fundamental, o.regime)
		st.Displayed = o.impacts[sym].Displayed(st.Current)
		o.histories[sym].add(ImpactPoint{Day: day, Tick: tick, Impact: o.impacts[sym].Impact()})

		st.FuturesQuote = o.instruments[sym].Quote(o.carry, st.Displayed, day)

		o.applyPressure(sym, st, c)

		observ.SetGauge("price", st.Displayed, map[string]string{"symbol": sym})
	}
}

// applyPressure translates the divergence between the displayed model price
// and the book mid into a synthetic market order. Sizing is super-linear in
// the relative gap, so a large divergence closes much faster than a small
// one.
func (o *Orchestrator) applyPressure(sym string, st *PriceState, c config.Commodity) {
	b := o.books[sym]
	mid := b.MidPrice()
	if mid <= 0 {
		return
	}
	gap := st.Displayed - mid
	rel := math.Abs(gap) / mid
	if rel < 1e-6 {
		return
	}
	qty := o.cfg.Book.LevelQuantity * c.LiquiditySensitivity * math.Pow(rel*100, 1.5)
	if qty <= 0 {
		return
	}
	rep := b.ExecuteMarket(gap > 0, qty)
	if rep.Filled > 0 {
		observ.Observe("pressure_fill_qty", rep.Filled, map[string]string{"symbol": sym})
	}
}

func (o *Orchestrator) depthParams(c config.Commodity) book.DepthParams {
	return book.DepthParams{
		Levels:               o.cfg.Book.DepthLevels,
		SpreadBps:            o.cfg.Book.SpreadBps * o.regimeSpread(),
		LevelQuantity:        o.cfg.Book.LevelQuantity,
		LiquiditySensitivity: c.LiquiditySensitivity,
		RegimeLiquidity:      o.regimeLiquidity(),
	}
}

// regimeSpread widens quoted spreads in stressed regimes.
func (o *Orchestrator) regimeSpread() float64 {
	if o.regime.DownsideFactor > 1 {
		return o.regime.DownsideFactor
	}
	return 1
}

// regimeLiquidity thins the book when trend/FOMO agents dominate.
func (o *Orchestrator) regimeLiquidity() float64 {
	crowd := o.regime.TrendFollower + o.regime.Fomo
	if crowd <= 1 {
		return 1
	}
	return 1 / crowd
}

func (o *Orchestrator) regimeName(day int) string {
	name := ""
	for _, w := range o.cfg.Regimes {
		if w.FromDay <= day {
			name = w.Regime
		}
	}
	return name
}

// Symbols returns the instruments in iteration order.
func (o *Orchestrator) Symbols() []string {
	out := make([]string, len(o.symbols))
	copy(out, o.symbols)
	return out
}

// State returns a copy of an instrument's price state.
func (o *Orchestrator) State(symbol string) (PriceState, bool) {
	st, ok := o.states[symbol]
	if !ok {
		return PriceState{}, false
	}
	return *st, true
}

// ImpactHistory returns the last n impact samples for a symbol.
func (o *Orchestrator) ImpactHistory(symbol string, n int) []ImpactPoint {
	h, ok := o.histories[symbol]
	if !ok {
		return nil
	}
	return h.snapshot(n)
}

// Depth returns the best n levels per side of a symbol's book.
func (o *Orchestrator) Depth(symbol string, n int) (book.DepthSnapshot, bool) {
	b, ok := o.books[symbol]
	if !ok {
		return book.DepthSnapshot{}, false
	}
	return b.Depth(n), true
}

// Trades returns the last n tape entries for a symbol.
func (o *Orchestrator) Trades(symbol string, n int) []book.Trade {
	b, ok := o.books[symbol]
	if !ok {
		return nil
	}
	return b.Trades(n)
}

// Book exposes an instrument's order book for player order submission.
func (o *Orchestrator) Book(symbol string) (*book.Book, bool) {
	b, ok := o.books[symbol]
	return b, ok
}

// NewsEvents returns a copy of the current news ledger.
func (o *Orchestrator) NewsEvents() []news.Event {
	return o.ledger.Events()
}

// Regime returns the active scenario regime.
func (o *Orchestrator) Regime() impact.Regime {
	return o.regime
}
