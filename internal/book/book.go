// Package book is the order-matching engine: price-time ordered bid/ask
// queues per instrument, synthetic depth seeding, and market/limit matching
// with VWAP and slippage reporting.
package book

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/granary/futures-sim/internal/observ"
)

// MarginFunc looks up a trader's available margin for order admission.
type MarginFunc func(trader string) decimal.Decimal

const tapeCap = 128

// Book holds one instrument's resting orders. Bids are kept best-first
// (highest price, then earliest seq), asks likewise (lowest price first).
// Orders never cross at rest; crossing resolves during matching.
type Book struct {
	symbol string
	bids   []*Order
	asks   []*Order
	byID   map[int64]*Order

	nextID  int64
	nextSeq int64

	margin MarginFunc
	onFill FillFunc
	tape   []Trade
}

func New(symbol string, margin MarginFunc, onFill FillFunc) *Book {
	return &Book{symbol: symbol, margin: margin, onFill: onFill, byID: map[int64]*Order{}}
}

// Fill is one matched slice of a taker order.
type Fill struct {
	Price          float64 `json:"price"`
	Quantity       float64 `json:"quantity"`
	MakerID        int64   `json:"maker_id"`
	MakerSynthetic bool    `json:"maker_synthetic"`
}

// ExecReport summarizes a matching pass.
type ExecReport struct {
	Requested   float64 `json:"requested"`
	Filled      float64 `json:"filled"`
	Remaining   float64 `json:"remaining"`
	VWAP        float64 `json:"vwap"`
	BestAtEntry float64 `json:"best_at_entry"`
	Slippage    float64 `json:"slippage"` // VWAP - best price at entry
	Fills       []Fill  `json:"fills"`
}

// SubmitReport is returned from Submit.
type SubmitReport struct {
	OrderID int64 `json:"order_id"`
	ExecReport
	Rested bool `json:"rested"`
}

// Submit validates and admits an order. Limit orders match any crossing
// liquidity immediately and rest the remainder; market orders match and are
// done. Rejection leaves the book untouched.
func (b *Book) Submit(o Order) (SubmitReport, error) {
	if o.Quantity <= 0 || math.IsNaN(o.Quantity) || math.IsInf(o.Quantity, 0) {
		return SubmitReport{}, ErrInvalidQuantity
	}
	if o.Kind == KindLimit && (o.Price <= 0 || math.IsNaN(o.Price) || math.IsInf(o.Price, 0)) {
		return SubmitReport{}, ErrInvalidPrice
	}
	if !o.Synthetic && b.margin != nil {
		if err := b.checkMargin(o); err != nil {
			return SubmitReport{}, err
		}
	}

	b.nextID++
	o.ID = b.nextID
	o.Remaining = o.Quantity

	var rep SubmitReport
	rep.OrderID = o.ID
	switch o.Kind {
	case KindMarket:
		rep.ExecReport = b.match(o.Side, o.Quantity, nil)
	default:
		limit := o.Price
		rep.ExecReport = b.match(o.Side, o.Quantity, &limit)
		o.Remaining = rep.ExecReport.Remaining
		if o.Remaining > 0 {
			b.rest(&o)
			rep.Rested = true
		}
	}

	// the taker settles too; match only covers consumed makers
	if !o.Synthetic && o.Trader != "" && b.onFill != nil {
		for _, f := range rep.Fills {
			b.onFill(FillEvent{
				Symbol: b.symbol, OrderID: o.ID, Trader: o.Trader,
				Side: o.Side, Quantity: f.Quantity, Price: f.Price,
			})
		}
	}
	return rep, nil
}

// checkMargin requires the order's notional to be covered. Market orders are
// priced against the best opposing level at admission time.
func (b *Book) checkMargin(o Order) error {
	price := o.Price
	if o.Kind == KindMarket {
		opp := *b.queue(o.Side.Opposite())
		if len(opp) == 0 {
			return nil // nothing to match against, nothing at risk
		}
		price = opp[0].Price
	}
	need := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(o.Quantity))
	if b.margin(o.Trader).LessThan(need) {
		observ.IncCounter("orders_rejected_total", map[string]string{
			"symbol": b.symbol, "reason": "margin",
		})
		return ErrInsufficientMargin
	}
	return nil
}

// ExecuteMarket matches a synthetic market order of the given size against
// the book. An empty opposing side is a normal state: the report simply shows
// nothing filled.
func (b *Book) ExecuteMarket(isBuy bool, quantity float64) ExecReport {
	if quantity <= 0 {
		return ExecReport{}
	}
	side := SideSell
	if isBuy {
		side = SideBuy
	}
	return b.match(side, quantity, nil)
}

// queue returns the resting queue for a side.
func (b *Book) queue(side Side) *[]*Order {
	if side == SideBuy {
		return &b.bids
	}
	return &b.asks
}

// match walks the opposing side from the best price outward, FIFO within each
// level. limit == nil means market.
func (b *Book) match(takerSide Side, quantity float64, limit *float64) ExecReport {
	opp := b.queue(takerSide.Opposite())

	rep := ExecReport{Requested: quantity, Remaining: quantity}
	if len(*opp) > 0 {
		rep.BestAtEntry = (*opp)[0].Price
	}

	notional := 0.0
	for rep.Remaining > 0 && len(*opp) > 0 {
		maker := (*opp)[0]
		if limit != nil {
			if takerSide == SideBuy && maker.Price > *limit {
				break
			}
			if takerSide == SideSell && maker.Price < *limit {
				break
			}
		}

		traded := math.Min(rep.Remaining, maker.Remaining)
		rep.Remaining -= traded
		maker.Remaining -= traded
		notional += traded * maker.Price
		rep.Fills = append(rep.Fills, Fill{
			Price: maker.Price, Quantity: traded,
			MakerID: maker.ID, MakerSynthetic: maker.Synthetic,
		})
		b.recordTrade(maker.Price, traded, takerSide)

		if !maker.Synthetic && b.onFill != nil {
			b.onFill(FillEvent{
				Symbol: b.symbol, OrderID: maker.ID, Trader: maker.Trader,
				Side: maker.Side, Quantity: traded, Price: maker.Price,
			})
		}

		if maker.Remaining <= 0 {
			*opp = (*opp)[1:]
			delete(b.byID, maker.ID)
		}
	}

	rep.Filled = rep.Requested - rep.Remaining
	if rep.Filled > 0 {
		rep.VWAP = notional / rep.Filled
		rep.Slippage = rep.VWAP - rep.BestAtEntry
	}
	return rep
}

// rest inserts an order preserving price-time priority: strictly ordered by
// (price, insertion sequence) within a side.
func (b *Book) rest(o *Order) {
	b.nextSeq++
	o.Seq = b.nextSeq

	side := b.queue(o.Side)
	i := sort.Search(len(*side), func(i int) bool {
		other := (*side)[i]
		if other.Price == o.Price {
			return other.Seq > o.Seq
		}
		if o.Side == SideBuy {
			return other.Price < o.Price
		}
		return other.Price > o.Price
	})
	*side = append(*side, nil)
	copy((*side)[i+1:], (*side)[i:])
	(*side)[i] = o
	b.byID[o.ID] = o
}

// Cancel removes a resting order.
func (b *Book) Cancel(id int64) error {
	o, ok := b.byID[id]
	if !ok {
		return ErrNotFound
	}
	side := b.queue(o.Side)
	for i, cur := range *side {
		if cur.ID == id {
			*side = append((*side)[:i], (*side)[i+1:]...)
			break
		}
	}
	delete(b.byID, id)
	return nil
}

// MidPrice is the average of best bid and best ask, 0 if either side is
// empty.
func (b *Book) MidPrice() float64 {
	if len(b.bids) == 0 || len(b.asks) == 0 {
		return 0
	}
	return (b.bids[0].Price + b.asks[0].Price) / 2
}

// BestBid returns the highest resting bid price.
func (b *Book) BestBid() (float64, bool) {
	if len(b.bids) == 0 {
		return 0, false
	}
	return b.bids[0].Price, true
}

// BestAsk returns the lowest resting ask price.
func (b *Book) BestAsk() (float64, bool) {
	if len(b.asks) == 0 {
		return 0, false
	}
	return b.asks[0].Price, true
}

func (b *Book) recordTrade(price, quantity float64, takerSide Side) {
	b.nextSeq++
	b.tape = append(b.tape, Trade{Price: price, Quantity: quantity, TakerSide: takerSide, Seq: b.nextSeq})
	if len(b.tape) > tapeCap {
		b.tape = b.tape[len(b.tape)-tapeCap:]
	}
	observ.IncCounter("trades_total", map[string]string{"symbol": b.symbol})
}

// Trades returns the last n tape entries, oldest first.
func (b *Book) Trades(n int) []Trade {
	if n <= 0 || len(b.tape) == 0 {
		return nil
	}
	if n > len(b.tape) {
		n = len(b.tape)
	}
	out := make([]Trade, n)
	copy(out, b.tape[len(b.tape)-n:])
	return out
}
