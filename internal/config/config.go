package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Simulation holds the top-level run parameters.
type Simulation struct {
	Seed          uint64   `yaml:"seed"`
	DaysPerSeason int      `yaml:"days_per_season"`
	TicksPerDay   int      `yaml:"ticks_per_day"`
	SeasonOrder   []string `yaml:"season_order"`
}

// Breaker configures the end-of-day price limit.
type Breaker struct {
	Enabled          bool    `yaml:"enabled"`
	MaxMovePct       float64 `yaml:"max_move_pct"`      // max |target-current| as fraction of current
	ElapsedThreshold float64 `yaml:"elapsed_threshold"` // trip only this late in the day
	GapThreshold     float64 `yaml:"gap_threshold"`     // min |gap/prevClose| to gap the open
}

// Carry holds the annualized cost-of-carry rates.
type Carry struct {
	RiskFreeRate     float64 `yaml:"risk_free_rate"`
	StorageCost      float64 `yaml:"storage_cost"`
	ConvenienceYield float64 `yaml:"convenience_yield"`
}

// Book configures synthetic depth generation.
type Book struct {
	DepthLevels   int     `yaml:"depth_levels"`
	SpreadBps     float64 `yaml:"spread_bps"`
	LevelQuantity float64 `yaml:"level_quantity"`
}

// Impact configures the market impact model and agent flows.
type Impact struct {
	DecayRate      float64 `yaml:"decay_rate"`
	MaxFlow        float64 `yaml:"max_flow"`
	MomentumWindow int     `yaml:"momentum_window"`
	SmartMoneyGain float64 `yaml:"smart_money_gain"`
	TrendGain      float64 `yaml:"trend_gain"`
	FomoGain       float64 `yaml:"fomo_gain"`
}

// RegimeWindow assigns a named scenario regime from a given day onward.
type RegimeWindow struct {
	FromDay int    `yaml:"from_day"`
	Regime  string `yaml:"regime"`
}

// Commodity is immutable reference data for one tradable instrument.
type Commodity struct {
	Symbol               string   `yaml:"symbol"`
	Name                 string   `yaml:"name"`
	Kind                 string   `yaml:"kind"` // spot | futures
	MaturityDay          int      `yaml:"maturity_day"`
	BasePrice            float64  `yaml:"base_price"`
	BaseDemand           float64  `yaml:"base_demand"`
	BaseSupply           float64  `yaml:"base_supply"`
	GrowthSeasons        []string `yaml:"growth_seasons"`
	OffSeasonMultiplier  float64  `yaml:"off_season_multiplier"`
	Greenhouse           bool     `yaml:"greenhouse"` // exempt from the off-season discount
	DailyVol             float64  `yaml:"daily_vol"`
	IntradayVol          float64  `yaml:"intraday_vol"`
	LiquiditySensitivity float64  `yaml:"liquidity_sensitivity"`
}

// NewsDef is a schedulable news template. The scheduler instantiates a
// NewsEvent from it when its conditions are met.
type NewsDef struct {
	ID          string   `yaml:"id"`
	Headline    string   `yaml:"headline"`
	Severity    float64  `yaml:"severity"`
	DemandDelta float64  `yaml:"demand_delta"`
	SupplyDelta float64  `yaml:"supply_delta"`
	Duration    int      `yaml:"duration_days"`
	Permanent   bool     `yaml:"permanent"`
	Symbols     []string `yaml:"symbols"` // empty = global
	MinDay      int      `yaml:"min_day"`
	MaxDay      int      `yaml:"max_day"` // 0 = no upper bound
	Seasons     []string `yaml:"seasons"` // empty = any
	Probability float64  `yaml:"probability"`
	Requires    []string `yaml:"requires"` // prerequisite def ids, must have fired
	TriggerTick int      `yaml:"trigger_tick"`
}

// Root is the whole simulation configuration.
type Root struct {
	Simulation  Simulation     `yaml:"simulation"`
	Breaker     Breaker        `yaml:"breaker"`
	Carry       Carry          `yaml:"carry"`
	Book        Book           `yaml:"book"`
	Impact      Impact         `yaml:"impact"`
	Regimes     []RegimeWindow `yaml:"regimes"`
	Commodities []Commodity    `yaml:"commodities"`
	News        []NewsDef      `yaml:"news"`
}

func Load(path string) (Root, error) {
	var c Root
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&c)
	return c, nil
}

func applyDefaults(c *Root) {
	if c.Simulation.DaysPerSeason == 0 {
		c.Simulation.DaysPerSeason = 28
	}
	if c.Simulation.TicksPerDay == 0 {
		c.Simulation.TicksPerDay = 240
	}
	if len(c.Simulation.SeasonOrder) == 0 {
		c.Simulation.SeasonOrder = []string{"spring", "summer", "fall", "winter"}
	}

	if c.Breaker.MaxMovePct == 0 {
		c.Breaker.MaxMovePct = 0.10
	}
	if c.Breaker.ElapsedThreshold == 0 {
		c.Breaker.ElapsedThreshold = 0.95
	}
	if c.Breaker.GapThreshold == 0 {
		c.Breaker.GapThreshold = 0.005
	}

	if c.Carry.RiskFreeRate == 0 {
		c.Carry.RiskFreeRate = 0.03
	}

	if c.Book.DepthLevels == 0 {
		c.Book.DepthLevels = 5
	}
	if c.Book.SpreadBps == 0 {
		c.Book.SpreadBps = 20
	}
	if c.Book.LevelQuantity == 0 {
		c.Book.LevelQuantity = 50
	}

	if c.Impact.DecayRate == 0 {
		c.Impact.DecayRate = 0.9
	}
	if c.Impact.MaxFlow == 0 {
		c.Impact.MaxFlow = 1.0
	}
	if c.Impact.MomentumWindow == 0 {
		c.Impact.MomentumWindow = 10
	}
	if c.Impact.SmartMoneyGain == 0 {
		c.Impact.SmartMoneyGain = 0.3
	}
	if c.Impact.TrendGain == 0 {
		c.Impact.TrendGain = 0.2
	}
	if c.Impact.FomoGain == 0 {
		c.Impact.FomoGain = 0.1
	}

	for i := range c.Commodities {
		cm := &c.Commodities[i]
		if cm.Kind == "" {
			cm.Kind = "spot"
		}
		if cm.OffSeasonMultiplier == 0 {
			cm.OffSeasonMultiplier = 1.5
		}
		if cm.BaseDemand == 0 {
			cm.BaseDemand = 100
		}
		if cm.BaseSupply == 0 {
			cm.BaseSupply = 100
		}
		if cm.DailyVol == 0 {
			cm.DailyVol = 0.02
		}
		if cm.IntradayVol == 0 {
			cm.IntradayVol = 0.002
		}
		if cm.LiquiditySensitivity == 0 {
			cm.LiquiditySensitivity = 1.0
		}
	}

	for i := range c.News {
		n := &c.News[i]
		if n.Duration == 0 {
			n.Duration = 3
		}
		if n.MaxDay == 0 {
			n.MaxDay = 1 << 30
		}
	}
}
