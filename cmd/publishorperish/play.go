package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/publishorperish/internal/bot"
	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/config"
	"github.com/lox/publishorperish/internal/game"
	"github.com/lox/publishorperish/internal/savegame"
	"github.com/lox/publishorperish/internal/store"
	"github.com/lox/publishorperish/internal/tui"
)

// PlayCmd starts or resumes an interactive game.
type PlayCmd struct {
	Players  int      `short:"p" help:"Number of players (defaults to the config)"`
	Names    []string `short:"n" help:"Player names in seat order"`
	Seed     string   `short:"s" help:"Game seed (defaults to the config)"`
	Years    int      `help:"Number of years to play (defaults to the config)"`
	Slot     string   `help:"Save slot (defaults to the config)"`
	Resume   bool     `short:"r" help:"Resume the game saved in the slot"`
	Strategy string   `default:"planner" enum:"planner,passive" help:"Bot strategy for the other seats"`
	Manual   bool     `help:"Only let bots act when asked with the auto command"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)

	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()
	logger := g.setupLogger(logFile, cfg, "play")

	cat, err := loadCatalog(cfg.Game.Catalog)
	if err != nil {
		return err
	}

	backend, err := savegame.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close save backend", "error", err)
		}
	}()

	st := newStore(backend, cfg, logger)
	defer st.Close()

	ctx, cancel := signalContext(logger)
	defer cancel()

	if err := c.start(ctx, st, cfg, cat, logger); err != nil {
		return err
	}

	policy, err := bot.New(c.Strategy, logger)
	if err != nil {
		return err
	}

	waitAutosave := st.StartAutosave(ctx)
	model := tui.New(st,
		tui.WithLogger(logger),
		tui.WithPolicy(policy, !c.Manual),
		tui.WithContext(ctx),
	)
	runErr := tui.Run(ctx, model)

	cancel()
	if err := waitAutosave(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Autosave stopped", "error", err)
	}
	if st.Dirty() {
		saveCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := st.Save(saveCtx); err != nil {
			logger.Error("Final save failed", "error", err)
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// apply overrides config values with the flags that were set.
func (c *PlayCmd) apply(cfg *config.Config) {
	if c.Players > 0 {
		cfg.Game.Players = c.Players
	}
	if len(c.Names) > 0 {
		cfg.Game.Names = c.Names
	}
	if c.Seed != "" {
		cfg.Game.Seed = c.Seed
	}
	if c.Years > 0 {
		cfg.Game.TotalYears = c.Years
	}
	if c.Slot != "" {
		cfg.Storage.Slot = c.Slot
	}
}

// start resumes the saved game or deals a new one.
func (c *PlayCmd) start(ctx context.Context, st *store.Store, cfg *config.Config, cat *catalog.Catalog, logger *log.Logger) error {
	if c.Resume {
		state, err := st.Load(ctx)
		if err != nil {
			return err
		}
		logger.Info("Resumed game", "slot", st.Slot(), "phase", state.Phase, "year", state.Year)
		return nil
	}
	_, err := st.NewGame(cfg.Game.Players, cfg.Game.Names, cfg.Game.Seed,
		game.WithTotalYears(cfg.Game.TotalYears),
		game.WithCatalog(cat),
	)
	return err
}

func newStore(backend savegame.Backend, cfg *config.Config, logger *log.Logger) *store.Store {
	interval, debounce := cfg.Autosave.Interval, cfg.Autosave.Debounce
	if !cfg.Autosave.Enabled {
		interval, debounce = 0, 0
	}
	return store.New(backend,
		store.WithLogger(logger),
		store.WithSlot(cfg.Storage.Slot),
		store.WithRetry(cfg.Autosave.Attempts, cfg.Autosave.RetryDelay),
		store.WithAutosave(interval, debounce),
		store.WithHistoryLimit(cfg.Autosave.HistoryLimit),
		store.WithVersion(version),
	)
}
