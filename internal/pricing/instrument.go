package pricing

// Kind tags an instrument as spot or a futures contract. A tagged enum
// replaces subtype sniffing: anything that needs maturity handling switches
// on Kind exactly once at the edge.
type Kind uint8

const (
	KindSpot Kind = iota
	KindFutures
)

func (k Kind) String() string {
	switch k {
	case KindSpot:
		return "SPOT"
	case KindFutures:
		return "FUTURES"
	default:
		return "UNKNOWN"
	}
}

// ParseKind maps a config string to a Kind. Unrecognized values fall back to
// spot, which prices with no carry adjustment.
func ParseKind(s string) Kind {
	if s == "futures" {
		return KindFutures
	}
	return KindSpot
}

// Instrument is the pricing view of a commodity: its kind and, for futures,
// the day the contract matures.
type Instrument struct {
	Symbol      string
	Kind        Kind
	MaturityDay int
}

// DaysToMaturity returns the remaining days, never negative. Spot instruments
// have none.
func (i Instrument) DaysToMaturity(day int) int {
	if i.Kind != KindFutures {
		return 0
	}
	if d := i.MaturityDay - day; d > 0 {
		return d
	}
	return 0
}

// Quote converts a fundamental/spot value into the tradable quote for the
// instrument on the given day.
func (i Instrument) Quote(carry Carry, spot float64, day int) float64 {
	if i.Kind != KindFutures {
		return spot
	}
	return carry.Futures(spot, i.DaysToMaturity(day))
}
