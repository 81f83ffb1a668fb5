package book

// FillEvent is emitted once per matched slice for each real trader involved,
// maker and taker alike. The ledger subscribes to this stream for settlement;
// the book never calls back into the ledger directly.
type FillEvent struct {
	Symbol   string  `json:"symbol"`
	OrderID  int64   `json:"order_id"`
	Trader   string  `json:"trader"`
	Side     Side    `json:"side"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// FillFunc receives fill events synchronously, in match order.
type FillFunc func(FillEvent)

// Trade is one tape entry: a matched quantity at a price.
type Trade struct {
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	TakerSide Side    `json:"taker_side"`
	Seq       int64   `json:"seq"`
}
