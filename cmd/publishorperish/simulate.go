package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/publishorperish/internal/simulator"
)

// SimulateCmd plays bot-only games in parallel.
type SimulateCmd struct {
	Games    int    `short:"g" default:"1000" help:"Number of games to play"`
	Players  int    `short:"p" default:"4" help:"Players per game"`
	Seed     string `short:"s" default:"sim" help:"Base seed; game i uses SEED-i"`
	Strategy string `default:"planner" enum:"planner,passive" help:"Bot strategy for every seat"`
	Years    int    `help:"Number of years per game (defaults to the config)"`
	Workers  int    `short:"w" help:"Parallel workers (defaults to GOMAXPROCS)"`
	Verify   bool   `help:"Replay every game and check it is deterministic"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := g.setupLogger(os.Stderr, cfg, "simulate")

	cat, err := loadCatalog(cfg.Game.Catalog)
	if err != nil {
		return err
	}
	years := cfg.Game.TotalYears
	if c.Years > 0 {
		years = c.Years
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	sim := simulator.New(simulator.Config{
		Games:      c.Games,
		Players:    c.Players,
		Seed:       c.Seed,
		Strategy:   c.Strategy,
		TotalYears: years,
		Workers:    c.Workers,
		Catalog:    cat,
		Verify:     c.Verify,
		Logger:     logger,
	})

	logger.Info("Starting simulation", "games", c.Games, "players", c.Players, "strategy", c.Strategy, "seed", c.Seed)
	start := time.Now()
	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	if err := report.Stats.Validate(); err != nil {
		return fmt.Errorf("inconsistent statistics: %w", err)
	}
	simulator.PrintSummary(os.Stdout, report, c.Players)
	logger.Info("Simulation complete", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
