package game

import (
	"github.com/charmbracelet/log"
	"github.com/lox/publishorperish/internal/catalog"
)

// GameOption configures a game during NewGame.
type GameOption func(*gameConfig)

type gameConfig struct {
	totalYears int
	catalog    *catalog.Catalog
}

// WithTotalYears sets the number of years played. Values below 1 are
// ignored.
func WithTotalYears(years int) GameOption {
	return func(c *gameConfig) {
		if years >= 1 {
			c.totalYears = years
		}
	}
}

// WithCatalog deals from a custom catalog instead of the embedded one.
func WithCatalog(cat *catalog.Catalog) GameOption {
	return func(c *gameConfig) {
		if cat != nil {
			c.catalog = cat
		}
	}
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
