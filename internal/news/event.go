package news

import (
	"fmt"

	"github.com/google/uuid"
)

// eventNamespace anchors deterministic event IDs. Using NewSHA1 instead of
// NewRandom keeps the ID stream identical across runs with the same seed.
var eventNamespace = uuid.MustParse("8a6f1cde-4b22-4c37-9d0e-5b1a2f9c7e41")

// Event is a scheduled news item. It is read-only after creation except for
// the Active flag, which the ledger toggles as the digestion window moves.
type Event struct {
	ID          string   `json:"id"`
	DefID       string   `json:"def_id"`
	Headline    string   `json:"headline"`
	Severity    float64  `json:"severity"`
	DemandDelta float64  `json:"demand_delta"`
	SupplyDelta float64  `json:"supply_delta"`
	Duration    int      `json:"duration_days"`
	Permanent   bool     `json:"permanent"`
	Symbols     []string `json:"symbols,omitempty"` // empty = global
	TriggerDay  int      `json:"trigger_day"`
	TriggerTick int      `json:"trigger_tick"`
	Active      bool     `json:"active"`
}

// NewEventID derives a stable event ID from the definition and trigger day.
func NewEventID(defID string, day int) string {
	return uuid.NewSHA1(eventNamespace, []byte(fmt.Sprintf("%s@%d", defID, day))).String()
}

// Weight returns the event's digestion factor on the given day.
func (e *Event) Weight(day int) float64 {
	return Weight(day, e.TriggerDay, e.Duration, e.Permanent)
}

// AppliesTo reports whether the event moves the given symbol.
func (e *Event) AppliesTo(symbol string) bool {
	if len(e.Symbols) == 0 {
		return true
	}
	for _, s := range e.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// Expired reports whether the event can no longer contribute any weight.
func (e *Event) Expired(day int) bool {
	if e.Permanent {
		return false
	}
	return day-e.TriggerDay >= 2*e.Duration
}
