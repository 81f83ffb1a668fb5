package sim

import (
	"fmt"

	"github.com/granary/futures-sim/internal/breaker"
	"github.com/granary/futures-sim/internal/news"
)

// InstrumentSnapshot captures one instrument's mutable state at a day
// boundary.
type InstrumentSnapshot struct {
	State PriceState `json:"state"`

	Impact        float64   `json:"impact"`
	ShadowPrice   float64   `json:"shadow_price"`
	ImpactReturns []float64 `json:"impact_returns"`

	BreakerState      breaker.State `json:"breaker_state"`
	BreakerTrippedDay int           `json:"breaker_tripped_day"`
	BreakerLocked     float64       `json:"breaker_locked"`
	BreakerGap        float64       `json:"breaker_gap"`
}

// Snapshot is the day-boundary save/restore contract: everything needed to
// resume a simulation bit-for-bit. The persistence collaborator owns framing;
// this struct is plain JSON-codable data.
type Snapshot struct {
	Day         int                  `json:"day"`
	Seed        uint64               `json:"seed"`
	RNGState    []byte               `json:"rng_state"`
	News        []news.Event         `json:"news"`
	FiredNews   map[string]int       `json:"fired_news"`
	Instruments []InstrumentSnapshot `json:"instruments"`
}

// Snapshot exports the orchestrator's mutable state. Call it at a day
// boundary (after StepDay, before the first StepTick) for a clean resume
// point.
func (o *Orchestrator) Snapshot() (Snapshot, error) {
	rngState, err := o.rng.State()
	if err != nil {
		return Snapshot{}, err
	}

	s := Snapshot{
		Day:       o.lastDay,
		Seed:      o.cfg.Simulation.Seed,
		RNGState:  rngState,
		News:      o.ledger.Events(),
		FiredNews: o.scheduler.Fired(),
	}
	for _, sym := range o.symbols {
		imp, shadow, returns := o.impacts[sym].State()
		bs, bd, bl, bg := o.breakers[sym].Export()
		s.Instruments = append(s.Instruments, InstrumentSnapshot{
			State:             *o.states[sym],
			Impact:            imp,
			ShadowPrice:       shadow,
			ImpactReturns:     returns,
			BreakerState:      bs,
			BreakerTrippedDay: bd,
			BreakerLocked:     bl,
			BreakerGap:        bg,
		})
	}
	return s, nil
}

// Restore replaces the orchestrator's mutable state from a snapshot taken
// with the same configuration.
func (o *Orchestrator) Restore(s Snapshot) error {
	if err := o.rng.Restore(s.RNGState); err != nil {
		return err
	}
	o.lastDay = s.Day
	o.ledger.Replace(s.News)
	o.scheduler.RestoreFired(s.FiredNews)

	for _, is := range s.Instruments {
		sym := is.State.Symbol
		st, ok := o.states[sym]
		if !ok {
			return fmt.Errorf("snapshot instrument %q not in configuration", sym)
		}
		*st = is.State
		o.impacts[sym].RestoreState(is.Impact, is.ShadowPrice, is.ImpactReturns)
		o.breakers[sym].Restore(is.BreakerState, is.BreakerTrippedDay, is.BreakerLocked, is.BreakerGap)
	}
	return nil
}
