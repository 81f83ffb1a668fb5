package book

// Side is the order side: buy or sell.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Kind is the order type: limit or market.
type Kind uint8

const (
	KindLimit Kind = iota
	KindMarket
)

func (k Kind) String() string {
	switch k {
	case KindLimit:
		return "LIMIT"
	case KindMarket:
		return "MARKET"
	default:
		return "UNKNOWN"
	}
}

// Order is a resting or incoming order. Synthetic orders are the liquidity
// the simulation seeds; real orders belong to a trader and settle through the
// fill-event stream.
type Order struct {
	ID        int64   `json:"id"`
	Side      Side    `json:"side"`
	Kind      Kind    `json:"kind"`
	Price     float64 `json:"price"` // limit only
	Quantity  float64 `json:"quantity"`
	Remaining float64 `json:"remaining"`
	Synthetic bool    `json:"synthetic"`
	Trader    string  `json:"trader,omitempty"`
	Seq       int64   `json:"seq"` // insertion sequence, price-time tie-break
}
