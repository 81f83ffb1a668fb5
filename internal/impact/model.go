// Package impact aggregates synthetic agent order flow into a decaying
// price-impact term layered on top of the model price.
package impact

import (
	"math"

	"github.com/granary/futures-sim/internal/config"
)

// Forces is the per-tick decomposition of synthetic flow, in relative
// (fraction-of-price) units. Recomputed every tick, never persisted.
type Forces struct {
	MeanReversion float64 `json:"mean_reversion"`
	Momentum      float64 `json:"momentum"`
	Extrapolation float64 `json:"extrapolation"`
	Net           float64 `json:"net"`
}

// Model maintains the impact accumulator for one instrument:
//
//	impact[t+1] = decay * impact[t] + clamp(netFlow) * price
//
// Three agents feed netFlow: smart money reverts toward the fundamental,
// trend followers chase a moving average of recent returns, and the FOMO
// agent amplifies whichever direction the other two establish.
type Model struct {
	decay   float64
	maxFlow float64
	smGain  float64
	trGain  float64
	fmGain  float64
	window  int

	returns []float64 // most recent last
	impact  float64
	shadow  float64
}

func NewModel(cfg config.Impact) *Model {
	return &Model{
		decay:   cfg.DecayRate,
		maxFlow: cfg.MaxFlow,
		smGain:  cfg.SmartMoneyGain,
		trGain:  cfg.TrendGain,
		fmGain:  cfg.FomoGain,
		window:  cfg.MomentumWindow,
	}
}

// Step aggregates flow for one tick. modelPrice is this tick's process price,
// fundamental the current anchor. Returns the force decomposition used.
func (m *Model) Step(modelPrice, fundamental float64, regime Regime) Forces {
	if m.shadow <= 0 {
		m.shadow = modelPrice
	}

	var f Forces
	f.MeanReversion = m.smGain * regime.SmartMoney * (fundamental - m.shadow) / math.Max(m.shadow, 1e-9)
	f.Momentum = m.trGain * regime.TrendFollower * m.avgReturn()

	directional := f.MeanReversion + f.Momentum
	f.Extrapolation = m.fmGain * regime.Fomo * directional

	net := directional + f.Extrapolation
	if net < 0 {
		net *= regime.DownsideFactor
	}
	if net > m.maxFlow {
		net = m.maxFlow
	} else if net < -m.maxFlow {
		net = -m.maxFlow
	}
	f.Net = net

	m.impact = m.decay*m.impact + net*modelPrice
	m.recordReturn(modelPrice)
	m.shadow = modelPrice
	return f
}

// Impact returns the accumulated price-impact term.
func (m *Model) Impact() float64 { return m.impact }

// ShadowPrice returns the last model price the agents reacted to. Reporting
// layers read it through this accessor; nothing pokes at internals.
func (m *Model) ShadowPrice() float64 { return m.shadow }

// Displayed layers impact on a model price, respecting the price floor.
func (m *Model) Displayed(modelPrice float64) float64 {
	return math.Max(modelPrice+m.impact, 1e-4)
}

func (m *Model) avgReturn() float64 {
	if len(m.returns) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range m.returns {
		sum += r
	}
	return sum / float64(len(m.returns))
}

func (m *Model) recordReturn(price float64) {
	if m.shadow > 0 {
		m.returns = append(m.returns, price/m.shadow-1)
		if len(m.returns) > m.window {
			m.returns = m.returns[len(m.returns)-m.window:]
		}
	}
}

// State exports the accumulator for a snapshot.
func (m *Model) State() (impact, shadow float64, returns []float64) {
	out := make([]float64, len(m.returns))
	copy(out, m.returns)
	return m.impact, m.shadow, out
}

// RestoreState replaces the accumulator from a snapshot.
func (m *Model) RestoreState(impact, shadow float64, returns []float64) {
	m.impact = impact
	m.shadow = shadow
	m.returns = make([]float64, len(returns))
	copy(m.returns, returns)
}
