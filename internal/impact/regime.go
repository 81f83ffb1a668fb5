package impact

// Regime holds the per-agent strength multipliers and the asymmetric-downside
// factor for one named market mood. The regime schedule is an input to the
// orchestrator; this package only consumes it.
type Regime struct {
	Name           string  `json:"name"`
	SmartMoney     float64 `json:"smart_money"`
	TrendFollower  float64 `json:"trend_follower"`
	Fomo           float64 `json:"fomo"`
	DownsideFactor float64 `json:"downside_factor"` // >1 amplifies net selling
}

var (
	Quiet    = Regime{Name: "quiet", SmartMoney: 1.0, TrendFollower: 0.3, Fomo: 0.1, DownsideFactor: 1.0}
	Euphoric = Regime{Name: "euphoric", SmartMoney: 0.4, TrendFollower: 1.2, Fomo: 1.5, DownsideFactor: 0.8}
	Panic    = Regime{Name: "panic", SmartMoney: 0.6, TrendFollower: 1.5, Fomo: 1.2, DownsideFactor: 2.0}
	Squeeze  = Regime{Name: "squeeze", SmartMoney: 0.2, TrendFollower: 2.0, Fomo: 2.0, DownsideFactor: 1.2}
)

// ByName resolves a configured regime name, defaulting to quiet.
func ByName(name string) Regime {
	switch name {
	case Euphoric.Name:
		return Euphoric
	case Panic.Name:
		return Panic
	case Squeeze.Name:
		return Squeeze
	default:
		return Quiet
	}
}
