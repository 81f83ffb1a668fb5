package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/granary/futures-sim/internal/config"
	"github.com/granary/futures-sim/internal/ledger"
	"github.com/granary/futures-sim/internal/observ"
	"github.com/granary/futures-sim/internal/sim"
)

// runner guards the orchestrator: the step loop and the HTTP handlers share
// it through one mutex.
type runner struct {
	mu       sync.Mutex
	sim      *sim.Orchestrator
	accounts *ledger.Accounts
}

func main() {
	var cfgPath string
	var days int
	var addr string
	var fast bool
	var tickRate float64
	var restorePath string
	var snapshotPath string
	flag.StringVar(&cfgPath, "config", "config/simulation.yaml", "config path")
	flag.IntVar(&days, "days", 0, "days to simulate (0 = one full season cycle)")
	flag.StringVar(&addr, "addr", ":8080", "HTTP listen address (empty to disable)")
	flag.BoolVar(&fast, "fast", false, "run without real-time pacing")
	flag.Float64Var(&tickRate, "tick-rate", 4, "ticks per second when pacing")
	flag.StringVar(&restorePath, "restore", "", "resume from a snapshot file")
	flag.StringVar(&snapshotPath, "snapshot", "", "write a snapshot file on exit")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v (did you copy config/simulation.example.yaml?)", err)
	}
	if days <= 0 {
		days = cfg.Simulation.DaysPerSeason * len(cfg.Simulation.SeasonOrder)
	}

	accounts := ledger.New()
	r := &runner{
		sim:      sim.New(cfg, accounts.AvailableMargin, accounts.ApplyFill),
		accounts: accounts,
	}

	startDay := 0
	if restorePath != "" {
		snap, err := readSnapshot(restorePath)
		if err != nil {
			log.Fatalf("read snapshot: %v", err)
		}
		if err := r.sim.Restore(snap); err != nil {
			log.Fatalf("restore snapshot: %v", err)
		}
		startDay = snap.Day + 1
	}

	observ.Log("startup", map[string]any{
		"config":    cfgPath,
		"seed":      cfg.Simulation.Seed,
		"days":      days,
		"start_day": startDay,
		"ticks":     cfg.Simulation.TicksPerDay,
		"fast":      fast,
		"addr":      addr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr != "" {
		go serve(addr, r)
	}

	limiter := rate.NewLimiter(rate.Limit(tickRate), 1)
	cal := &sim.Calendar{
		CurDay: startDay,
		PerDay: cfg.Simulation.TicksPerDay,
		Open:   true,
	}
	for cal.CurDay < startDay+days && ctx.Err() == nil {
		if cal.CurTick == 0 {
			r.mu.Lock()
			r.sim.StepDay(cal)
			r.mu.Unlock()
		}
		r.mu.Lock()
		r.sim.StepTick(cal)
		r.mu.Unlock()

		if !fast {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}
		cal.NextTick()
	}

	if snapshotPath != "" {
		r.mu.Lock()
		snap, err := r.sim.Snapshot()
		r.mu.Unlock()
		if err != nil {
			log.Fatalf("snapshot: %v", err)
		}
		if err := writeSnapshot(snapshotPath, snap); err != nil {
			log.Fatalf("write snapshot: %v", err)
		}
		observ.Log("snapshot_written", map[string]any{"path": snapshotPath, "day": snap.Day})
	}
	observ.Log("shutdown", map[string]any{"last_day": cal.CurDay})
}

func readSnapshot(path string) (sim.Snapshot, error) {
	var snap sim.Snapshot
	b, err := os.ReadFile(path)
	if err != nil {
		return snap, err
	}
	err = json.Unmarshal(b, &snap)
	return snap, err
}

func writeSnapshot(path string, snap sim.Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
