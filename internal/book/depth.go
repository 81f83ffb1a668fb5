package book

import "math"

// DepthParams shapes one round of synthetic depth seeding. The regime
// multiplier and liquidity sensitivity scale per-level quantity; the spread
// widens symmetrically around the mid.
type DepthParams struct {
	Levels               int
	SpreadBps            float64
	LevelQuantity        float64
	LiquiditySensitivity float64
	RegimeLiquidity      float64
}

// GenerateSyntheticDepth clears all synthetic resting orders on both sides
// and re-seeds Levels price levels per side around midPrice. Real orders are
// untouched.
func (b *Book) GenerateSyntheticDepth(midPrice float64, p DepthParams) {
	if midPrice <= 0 || p.Levels <= 0 {
		return
	}
	if p.RegimeLiquidity <= 0 {
		p.RegimeLiquidity = 1
	}
	if p.LiquiditySensitivity <= 0 {
		p.LiquiditySensitivity = 1
	}

	b.clearSynthetic()

	halfSpread := midPrice * p.SpreadBps / 10000 / 2
	if halfSpread <= 0 {
		halfSpread = midPrice * 0.0005
	}

	for i := 1; i <= p.Levels; i++ {
		offset := halfSpread * float64(i)
		qty := p.LevelQuantity * p.LiquiditySensitivity * p.RegimeLiquidity * float64(i)

		bid := math.Max(midPrice-offset, 1e-4)
		b.seed(SideBuy, bid, qty)
		b.seed(SideSell, midPrice+offset, qty)
	}
}

func (b *Book) seed(side Side, price, qty float64) {
	b.nextID++
	o := &Order{
		ID:        b.nextID,
		Side:      side,
		Kind:      KindLimit,
		Price:     price,
		Quantity:  qty,
		Remaining: qty,
		Synthetic: true,
	}
	b.rest(o)
}

func (b *Book) clearSynthetic() {
	filter := func(side []*Order) []*Order {
		kept := side[:0]
		for _, o := range side {
			if o.Synthetic {
				delete(b.byID, o.ID)
				continue
			}
			kept = append(kept, o)
		}
		return kept
	}
	b.bids = filter(b.bids)
	b.asks = filter(b.asks)
}

// Level is one aggregated price level in a depth snapshot.
type Level struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	HasReal  bool    `json:"has_real"`
}

// DepthSnapshot is a read-only copy of the best n levels per side.
type DepthSnapshot struct {
	Symbol string  `json:"symbol"`
	Bids   []Level `json:"bids"`
	Asks   []Level `json:"asks"`
}

// Depth aggregates the best n price levels per side.
func (b *Book) Depth(n int) DepthSnapshot {
	return DepthSnapshot{
		Symbol: b.symbol,
		Bids:   aggregate(b.bids, n),
		Asks:   aggregate(b.asks, n),
	}
}

func aggregate(side []*Order, n int) []Level {
	var out []Level
	for _, o := range side {
		if len(out) > 0 && out[len(out)-1].Price == o.Price {
			out[len(out)-1].Quantity += o.Remaining
			out[len(out)-1].HasReal = out[len(out)-1].HasReal || !o.Synthetic
			continue
		}
		if len(out) == n {
			break
		}
		out = append(out, Level{Price: o.Price, Quantity: o.Remaining, HasReal: !o.Synthetic})
	}
	return out
}
