package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuturesContango(t *testing.T) {
	c := Carry{RiskFreeRate: 0.03, StorageCost: 0.02, ConvenienceYield: 0.01}
	f := c.Futures(100, 126) // half a trading year
	want := 100 * math.Exp(0.04*0.5)
	assert.InDelta(t, want, f, 1e-12)
	assert.Greater(t, f, 100.0, "positive net carry means contango")
}

func TestFuturesBackwardation(t *testing.T) {
	c := Carry{RiskFreeRate: 0.01, ConvenienceYield: 0.06}
	f := c.Futures(100, 252)
	assert.Less(t, f, 100.0)
}

func TestImpliedSpotInverts(t *testing.T) {
	c := Carry{RiskFreeRate: 0.05, StorageCost: 0.03, ConvenienceYield: 0.02}
	for _, days := range []int{0, 1, 30, 252, 504} {
		f := c.Futures(87.5, days)
		assert.InDelta(t, 87.5, c.ImpliedSpot(f, days), 1e-9, "days=%d", days)
	}
}

func TestFuturesAtMaturityEqualsSpot(t *testing.T) {
	c := Carry{RiskFreeRate: 0.05}
	assert.Equal(t, 42.0, c.Futures(42, 0))
	assert.Equal(t, 42.0, c.ImpliedSpot(42, -3))
}

func TestInstrumentQuote(t *testing.T) {
	carry := Carry{RiskFreeRate: 0.04}

	spot := Instrument{Symbol: "WHEAT", Kind: KindSpot}
	assert.Equal(t, 100.0, spot.Quote(carry, 100, 10))

	fut := Instrument{Symbol: "WHEAT-H", Kind: KindFutures, MaturityDay: 262}
	q := fut.Quote(carry, 100, 10)
	assert.InDelta(t, 100*math.Exp(0.04), q, 1e-12)

	// expired contract quotes at spot
	assert.Equal(t, 100.0, fut.Quote(carry, 100, 300))
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindFutures, ParseKind("futures"))
	assert.Equal(t, KindSpot, ParseKind("spot"))
	assert.Equal(t, KindSpot, ParseKind(""))
}
