// Package breaker implements the per-instrument price limit: end-of-day moves
// beyond the cap are truncated and the excess carried to the next open as a
// gap.
package breaker

import (
	"math"

	"github.com/granary/futures-sim/internal/config"
	"github.com/granary/futures-sim/internal/observ"
)

type State uint8

const (
	StateNormal State = iota
	StateTripped
)

func (s State) String() string {
	if s == StateTripped {
		return "TRIPPED"
	}
	return "NORMAL"
}

// Breaker is the limit state machine for one instrument. At most one trip per
// day; the gap is consumed in full at the next open and never compounds.
type Breaker struct {
	symbol           string
	enabled          bool
	maxMovePct       float64
	elapsedThreshold float64
	gapThreshold     float64

	state        State
	trippedDay   int
	lockedTarget float64
	gap          float64
}

func New(symbol string, cfg config.Breaker) *Breaker {
	return &Breaker{
		symbol:           symbol,
		enabled:          cfg.Enabled,
		maxMovePct:       cfg.MaxMovePct,
		elapsedThreshold: cfg.ElapsedThreshold,
		gapThreshold:     cfg.GapThreshold,
		trippedDay:       -1,
	}
}

// Check returns the effective day target. When the move from current to
// target exceeds the cap late in the day, the target is locked at
// current +/- maxMove and the remainder stored as the gap. Repeat calls on a
// tripped day return the locked target unchanged.
func (b *Breaker) Check(day int, current, target, elapsedRatio float64) float64 {
	if !b.enabled {
		return target
	}
	if b.trippedDay == day {
		return b.lockedTarget
	}
	if elapsedRatio < b.elapsedThreshold {
		return target
	}

	maxMove := b.maxMovePct * current
	diff := target - current
	if math.Abs(diff) <= maxMove {
		return target
	}

	locked := current + math.Copysign(maxMove, diff)
	b.state = StateTripped
	b.trippedDay = day
	b.lockedTarget = locked
	b.gap = target - locked

	observ.IncCounter("breaker_trips_total", map[string]string{"symbol": b.symbol})
	observ.Log("breaker_tripped", map[string]any{
		"symbol": b.symbol, "day": day, "target": target, "locked": locked, "gap": b.gap,
	})
	return locked
}

// OpenPrice resolves the next day's open. A material gap jumps the open by
// the stored amount; either way the gap is fully consumed and the state
// resets to normal.
func (b *Breaker) OpenPrice(prevClose float64) float64 {
	gap := b.gap
	b.gap = 0
	b.state = StateNormal

	if prevClose > 0 && math.Abs(gap/prevClose) > b.gapThreshold {
		observ.Log("breaker_gap_open", map[string]any{
			"symbol": b.symbol, "prev_close": prevClose, "gap": gap,
		})
		return prevClose + gap
	}
	return prevClose
}

// Tripped reports whether the breaker locked today's target.
func (b *Breaker) Tripped() bool { return b.state == StateTripped }

// Gap returns the unconsumed carry-over.
func (b *Breaker) Gap() float64 { return b.gap }

// Export sends the mutable state into a snapshot.
func (b *Breaker) Export() (state State, trippedDay int, lockedTarget, gap float64) {
	return b.state, b.trippedDay, b.lockedTarget, b.gap
}

// Restore replaces the mutable state from a snapshot.
func (b *Breaker) Restore(state State, trippedDay int, lockedTarget, gap float64) {
	b.state = state
	b.trippedDay = trippedDay
	b.lockedTarget = lockedTarget
	b.gap = gap
}
