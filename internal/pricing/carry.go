// Package pricing converts between spot and futures quotes via the
// cost-of-carry relation.
package pricing

import "math"

// TradingDaysPerYear converts day counts to year fractions for the
// annualized carry rates.
const TradingDaysPerYear = 252

// Carry bundles the annualized rates of the cost-of-carry relation.
type Carry struct {
	RiskFreeRate     float64
	StorageCost      float64
	ConvenienceYield float64
}

// netRate is r + u - y: positive means contango, negative backwardation.
func (c Carry) netRate() float64 {
	return c.RiskFreeRate + c.StorageCost - c.ConvenienceYield
}

// Futures returns F = S * exp((r + u - y) * D/252).
func (c Carry) Futures(spot float64, daysToMaturity int) float64 {
	if daysToMaturity <= 0 {
		return spot
	}
	return spot * math.Exp(c.netRate()*float64(daysToMaturity)/TradingDaysPerYear)
}

// ImpliedSpot inverts Futures, recovering the spot a futures quote implies.
func (c Carry) ImpliedSpot(futures float64, daysToMaturity int) float64 {
	if daysToMaturity <= 0 {
		return futures
	}
	return futures * math.Exp(-c.netRate()*float64(daysToMaturity)/TradingDaysPerYear)
}
