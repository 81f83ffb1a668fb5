package process

import (
	"math"

	"github.com/granary/futures-sim/internal/randx"
)

// Bridge interpolates tick prices from the day's open toward the day's
// target. Noise is shaped by an opening volatility smile that front-loads
// movement after the open and dies off toward the close; the final tick lands
// on the target exactly.
type Bridge struct {
	// SmileAlpha is the extra volatility multiple at the opening bell.
	SmileAlpha float64
	// SmileLambda is the per-tick decay rate of the opening smile.
	SmileLambda float64
}

func NewBridge() *Bridge {
	return &Bridge{SmileAlpha: 1.0, SmileLambda: 0.05}
}

// Next computes the price for the upcoming tick.
//
//	next = current + (target-current)/remaining + sigma * psi * eps
//
// remaining counts this tick, so remaining == 1 is the close and returns the
// target with no noise.
func (b *Bridge) Next(current, target float64, elapsed, remaining, total int, sigma float64, rng *randx.Source) float64 {
	if remaining <= 1 {
		return math.Max(target, PriceFloor)
	}
	step := (target - current) / float64(remaining)
	noise := sigma * b.envelope(elapsed, remaining, total) * rng.Norm()
	return math.Max(current+step+noise, PriceFloor)
}

// envelope is the volatility-smile shape: (1 + alpha*e^(-lambda*elapsed)) *
// sqrt((remaining-1)/total). The sqrt factor reaches zero on the final tick.
func (b *Bridge) envelope(elapsed, remaining, total int) float64 {
	if total <= 0 || remaining <= 1 {
		return 0
	}
	smile := 1 + b.SmileAlpha*math.Exp(-b.SmileLambda*float64(elapsed))
	return smile * math.Sqrt(float64(remaining-1)/float64(total))
}
