package news

import (
	"sort"

	"github.com/granary/futures-sim/internal/config"
	"github.com/granary/futures-sim/internal/observ"
	"github.com/granary/futures-sim/internal/randx"
)

// Scheduler decides which news definitions fire on a given day. Definitions
// are evaluated in their configured order so the random draws consumed here
// are reproducible. Each definition fires at most once per run.
type Scheduler struct {
	defs  []config.NewsDef
	fired map[string]int // def id -> trigger day
	rng   *randx.Source
}

func NewScheduler(defs []config.NewsDef, rng *randx.Source) *Scheduler {
	return &Scheduler{defs: defs, fired: map[string]int{}, rng: rng}
}

// Advance evaluates all definitions for the day and appends triggered events
// to the ledger. Returns the events that fired, in definition order.
func (s *Scheduler) Advance(day int, season string, ledger *Ledger) []Event {
	var out []Event
	for _, def := range s.defs {
		if !s.eligible(def, day, season) {
			continue
		}
		// one draw per eligible definition per day
		if s.rng.Float64() >= def.Probability {
			continue
		}
		ev := Event{
			ID:          NewEventID(def.ID, day),
			DefID:       def.ID,
			Headline:    def.Headline,
			Severity:    def.Severity,
			DemandDelta: def.DemandDelta,
			SupplyDelta: def.SupplyDelta,
			Duration:    def.Duration,
			Permanent:   def.Permanent,
			Symbols:     def.Symbols,
			TriggerDay:  day,
			TriggerTick: def.TriggerTick,
			Active:      true,
		}
		s.fired[def.ID] = day
		ledger.Append(ev)
		out = append(out, ev)
		observ.IncCounter("news_triggered_total", map[string]string{"def": def.ID})
		observ.Log("news_triggered", map[string]any{
			"id": ev.ID, "def": def.ID, "day": day, "headline": def.Headline,
		})
	}
	return out
}

func (s *Scheduler) eligible(def config.NewsDef, day int, season string) bool {
	if _, done := s.fired[def.ID]; done {
		return false
	}
	if day < def.MinDay {
		return false
	}
	if def.MaxDay > 0 && day > def.MaxDay {
		return false
	}
	if len(def.Seasons) > 0 {
		ok := false
		for _, sn := range def.Seasons {
			if sn == season {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, req := range def.Requires {
		if _, ok := s.fired[req]; !ok {
			return false
		}
	}
	return true
}

// Fired exports the fired set for a snapshot, in stable order.
func (s *Scheduler) Fired() map[string]int {
	out := make(map[string]int, len(s.fired))
	for k, v := range s.fired {
		out[k] = v
	}
	return out
}

// RestoreFired replaces the fired set from a snapshot.
func (s *Scheduler) RestoreFired(fired map[string]int) {
	s.fired = make(map[string]int, len(fired))
	for k, v := range fired {
		s.fired[k] = v
	}
}

// FiredDefIDs returns the ids of definitions that have fired, sorted.
func (s *Scheduler) FiredDefIDs() []string {
	ids := make([]string, 0, len(s.fired))
	for id := range s.fired {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
