// Command pregen runs the daily price model for a whole horizon with no
// intraday ticks and emits the trajectory as JSON. It shares the model code
// with the live driver, so a pre-generated path and a simulated one agree on
// semantics.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"
	"sort"

	"github.com/granary/futures-sim/internal/config"
	"github.com/granary/futures-sim/internal/fundamental"
	"github.com/granary/futures-sim/internal/news"
	"github.com/granary/futures-sim/internal/pricing"
	"github.com/granary/futures-sim/internal/process"
	"github.com/granary/futures-sim/internal/randx"
	"github.com/granary/futures-sim/internal/sim"
)

type dayRecord struct {
	Day         int     `json:"day"`
	Season      string  `json:"season"`
	Symbol      string  `json:"symbol"`
	Fundamental float64 `json:"fundamental"`
	Close       float64 `json:"close"`
	Futures     float64 `json:"futures,omitempty"`
}

type trajectory struct {
	Seed uint64       `json:"seed"`
	Days int          `json:"days"`
	Path []dayRecord  `json:"path"`
	News []news.Event `json:"news"`
}

func main() {
	var cfgPath string
	var days int
	var outPath string
	flag.StringVar(&cfgPath, "config", "config/simulation.yaml", "config path")
	flag.IntVar(&days, "days", 0, "days to generate (0 = one full season cycle)")
	flag.StringVar(&outPath, "out", "", "output path (default stdout)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if days <= 0 {
		days = cfg.Simulation.DaysPerSeason * len(cfg.Simulation.SeasonOrder)
	}

	traj := generate(cfg, days)

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(traj); err != nil {
		log.Fatalf("encode trajectory: %v", err)
	}
}

func generate(cfg config.Root, days int) trajectory {
	rng := randx.New(cfg.Simulation.Seed)
	fund := fundamental.NewEngine(cfg.Commodities)
	daily := process.NewDaily()
	carry := pricing.Carry{
		RiskFreeRate:     cfg.Carry.RiskFreeRate,
		StorageCost:      cfg.Carry.StorageCost,
		ConvenienceYield: cfg.Carry.ConvenienceYield,
	}
	ledger := news.NewLedger()
	scheduler := news.NewScheduler(cfg.News, rng)

	var symbols []string
	commodities := map[string]config.Commodity{}
	instruments := map[string]pricing.Instrument{}
	price := map[string]float64{}
	lastReturn := map[string]float64{}
	for _, c := range cfg.Commodities {
		symbols = append(symbols, c.Symbol)
		commodities[c.Symbol] = c
		instruments[c.Symbol] = pricing.Instrument{
			Symbol:      c.Symbol,
			Kind:        pricing.ParseKind(c.Kind),
			MaturityDay: c.MaturityDay,
		}
		price[c.Symbol] = c.BasePrice
	}
	sort.Strings(symbols)

	traj := trajectory{Seed: cfg.Simulation.Seed, Days: days}
	for day := 0; day < days; day++ {
		season := sim.SeasonForDay(day, cfg.Simulation.DaysPerSeason, cfg.Simulation.SeasonOrder)
		ledger.Refresh(day)
		scheduler.Advance(day, season, ledger)

		for _, sym := range symbols {
			c := commodities[sym]
			inst := instruments[sym]

			value := fund.Value(sym, day, season, ledger)
			maturity := sim.DaysLeftInSeason(day, cfg.Simulation.DaysPerSeason)
			if inst.Kind == pricing.KindFutures {
				maturity = inst.DaysToMaturity(day)
			}
			next := daily.Next(price[sym], value, maturity, c.DailyVol, lastReturn[sym], rng)
			if price[sym] > 0 && next > 0 {
				lastReturn[sym] = math.Log(next / price[sym])
			}
			price[sym] = next

			rec := dayRecord{
				Day:         day,
				Season:      season,
				Symbol:      sym,
				Fundamental: value,
				Close:       next,
			}
			if inst.Kind == pricing.KindFutures {
				rec.Futures = inst.Quote(carry, value, day)
			}
			traj.Path = append(traj.Path, rec)
		}
	}
	traj.News = ledger.Events()
	return traj
}
