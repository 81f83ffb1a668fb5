package sim

// PriceState is the mutable per-instrument price record. The orchestrator
// mutates it once per day (new target, gap application) and once per tick
// (bridge update, impact decay); readers get copies.
type PriceState struct {
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current"`   // latest tick model price
	Displayed     float64 `json:"displayed"` // model price + impact
	Open          float64 `json:"open"`
	Target        float64 `json:"target"` // raw day target before any breaker clamp
	Fundamental   float64 `json:"fundamental"`
	FuturesQuote  float64 `json:"futures_quote"`
	PrevClose     float64 `json:"prev_close"`
	LastDayReturn float64 `json:"last_day_return"`
}

// ImpactPoint is one sample of the impact time series.
type ImpactPoint struct {
	Day    int     `json:"day"`
	Tick   int     `json:"tick"`
	Impact float64 `json:"impact"`
}

const historyCap = 4096

// history is a bounded impact time series per instrument.
type history struct {
	points []ImpactPoint
}

func (h *history) add(p ImpactPoint) {
	h.points = append(h.points, p)
	if len(h.points) > historyCap {
		h.points = h.points[len(h.points)-historyCap:]
	}
}

func (h *history) snapshot(n int) []ImpactPoint {
	if n <= 0 || n > len(h.points) {
		n = len(h.points)
	}
	out := make([]ImpactPoint, n)
	copy(out, h.points[len(h.points)-n:])
	return out
}
