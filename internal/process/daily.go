// Package process implements the two-tier stochastic price model: a day-level
// mean-reverting geometric process and a tick-level bridge toward each day's
// target.
package process

import (
	"math"

	"github.com/granary/futures-sim/internal/randx"
)

// PriceFloor is the smallest price any process may emit. Prices never reach
// zero or negative, even under extreme news and impact stacking.
const PriceFloor = 1e-4

// Daily advances a day-level target price toward the fundamental anchor.
// Reversion strength is ln(S/P)/D, so the pull grows as maturity approaches
// and the process converges to the anchor exactly at D = 0.
type Daily struct {
	// ClusterGain scales volatility clustering: yesterday's large move widens
	// today's distribution.
	ClusterGain float64
	// MaxSigma caps the clustered volatility.
	MaxSigma float64
}

func NewDaily() *Daily {
	return &Daily{ClusterGain: 0.5, MaxSigma: 0.25}
}

// Next draws the next day's target price.
//
// current is today's target, anchor the fundamental value, daysToMaturity the
// remaining days D, sigma the base daily volatility, and lastReturn the
// previous day's log return (feeds the clustering term).
func (d *Daily) Next(current, anchor float64, daysToMaturity int, sigma, lastReturn float64, rng *randx.Source) float64 {
	if daysToMaturity <= 0 {
		return math.Max(anchor, PriceFloor)
	}
	current = math.Max(current, PriceFloor)
	anchor = math.Max(anchor, PriceFloor)

	drift := math.Log(anchor/current) / float64(daysToMaturity)

	eff := sigma
	if sigma > 0 && d.ClusterGain > 0 {
		eff = sigma * (1 + d.ClusterGain*math.Abs(lastReturn)/sigma)
	}
	if d.MaxSigma > 0 && eff > d.MaxSigma {
		eff = d.MaxSigma
	}

	next := current * math.Exp(drift-0.5*eff*eff+eff*rng.Norm())
	return math.Max(next, PriceFloor)
}
