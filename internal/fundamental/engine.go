// Package fundamental computes the supply/demand-implied fair spot price that
// every stochastic process in the simulation pulls toward.
package fundamental

import (
	"math"

	"github.com/granary/futures-sim/internal/config"
	"github.com/granary/futures-sim/internal/news"
	"github.com/granary/futures-sim/internal/observ"
)

// minSide floors each side of the demand/supply ratio so that stacked news
// can never drive the quotient to infinity or below zero.
const minSide = 1e-6

// Engine holds the immutable commodity reference data.
type Engine struct {
	commodities map[string]config.Commodity
	warned      map[string]bool
}

func NewEngine(list []config.Commodity) *Engine {
	e := &Engine{
		commodities: make(map[string]config.Commodity, len(list)),
		warned:      map[string]bool{},
	}
	for _, c := range list {
		e.commodities[c.Symbol] = c
	}
	return e
}

// Commodity looks up reference data for a symbol.
func (e *Engine) Commodity(symbol string) (config.Commodity, bool) {
	c, ok := e.commodities[symbol]
	return c, ok
}

// Value returns the fundamental value S for a symbol on a day:
//
//	S = basePrice * seasonalMultiplier * (totalDemand / totalSupply)
//
// where each news event contributes its demand/supply deltas scaled by its
// digestion weight. A symbol without reference data falls back to a flat
// price of 1 with a one-time warning; the simulation keeps running.
func (e *Engine) Value(symbol string, day int, season string, ledger *news.Ledger) float64 {
	c, ok := e.commodities[symbol]
	if !ok {
		if !e.warned[symbol] {
			e.warned[symbol] = true
			observ.Log("commodity_config_missing", map[string]any{"symbol": symbol})
			observ.IncCounter("config_fallbacks_total", map[string]string{"symbol": symbol})
		}
		return 1.0
	}

	demand := c.BaseDemand
	supply := c.BaseSupply
	if ledger != nil {
		ledger.ForSymbol(symbol, func(ev *news.Event) {
			w := ev.Weight(day)
			if w == 0 {
				return
			}
			demand += ev.DemandDelta * w
			supply += ev.SupplyDelta * w
		})
	}
	demand = math.Max(demand, minSide)
	supply = math.Max(supply, minSide)

	return c.BasePrice * seasonalMultiplier(c, season) * (demand / supply)
}

// seasonalMultiplier is 1.0 in a growth season, the off-season multiplier
// otherwise. Greenhouse commodities are always in season, as is anything with
// no growth seasons configured.
func seasonalMultiplier(c config.Commodity, season string) float64 {
	if c.Greenhouse || len(c.GrowthSeasons) == 0 {
		return 1.0
	}
	for _, s := range c.GrowthSeasons {
		if s == season {
			return 1.0
		}
	}
	return c.OffSeasonMultiplier
}
