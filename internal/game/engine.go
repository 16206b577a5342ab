package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/deck"
	"github.com/lox/publishorperish/internal/randutil"
)

// NewGame creates a game in the Boot phase. names is padded with
// "Player N" defaults and truncated to count. Every deck is shuffled once
// from the seed, so equal arguments yield equal games.
//
// Example usage:
//
//	state, err := NewGame(2, []string{"Alice", "Bob"}, "test-seed")
//	engine := NewEngine(state)
//	state, err = engine.Execute(RollAll{})
func NewGame(count int, names []string, seed string, opts ...GameOption) (*State, error) {
	cfg := &gameConfig{
		totalYears: DefaultTotalYears,
		catalog:    catalog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cat := cfg.catalog
	if count < MinPlayers {
		return nil, fmt.Errorf("%w: need at least %d players, got %d", ErrInvalidSetup, MinPlayers, count)
	}
	if limit := min(len(cat.Personalities), len(cat.Characters)); count > limit {
		return nil, fmt.Errorf("%w: catalog supports at most %d players, got %d", ErrInvalidSetup, limit, count)
	}

	rng := randutil.New(seed)
	players := make([]Player, count)
	for i := range players {
		name := fmt.Sprintf("Player %d", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		players[i] = newPlayer(fmt.Sprintf("player-%d", i), name)
	}

	s := &State{
		Phase:       PhaseBoot,
		Players:     players,
		Year:        1,
		TotalYears:  cfg.totalYears,
		Seed:        seed,
		RNG:         rng,
		NextTradeID: 1,
		Decks: Decks{
			Personalities: deck.New(cat.Personalities, rng),
			Characters:    deck.New(cat.Characters, rng),
			Research:      deck.New(cat.Research, rng),
			Funding:       deck.New(cat.Funding, rng),
			Collaboration: deck.New(cat.Collaboration, rng),
			Setbacks:      deck.New(cat.Setbacks, rng),
			Special:       deck.New(cat.Special, rng),
		},
	}
	s.Decks.Personalities.Shuffle()
	s.Decks.Characters.Shuffle()
	s.Decks.Research.Shuffle()
	s.Decks.Funding.Shuffle()
	s.Decks.Collaboration.Shuffle()
	s.Decks.Setbacks.Shuffle()
	s.Decks.Special.Shuffle()
	return s, nil
}

func newPlayer(id, name string) Player {
	return Player{
		ID:           id,
		Name:         name,
		Projects:     []Project{},
		Published:    []Publication{},
		History:      []YearResult{},
		Publications: newPublicationCounts(),
	}
}

// Engine applies actions to the current snapshot. It is not safe for
// concurrent use.
type Engine struct {
	state  *State
	logger *log.Logger
}

// NewEngine creates an engine positioned at state.
func NewEngine(state *State, opts ...EngineOption) *Engine {
	e := &Engine{
		state:  state,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithPrefix("engine")
	return e
}

// State returns the current snapshot.
func (e *Engine) State() *State {
	return e.state
}

// CanExecute reports whether t is legal in the current phase.
func (e *Engine) CanExecute(t ActionType) bool {
	return CanExecute(e.state.Phase, t)
}

type handler func(s *State, a Action) (changed bool, err error)

var handlers = map[ActionType]handler{
	ActionRollAll:         handleRollAll,
	ActionSetOrder:        handleSetOrder,
	ActionOrderByRoll:     handleOrderByRoll,
	ActionPickPersonality: handlePickPersonality,
	ActionPickCharacter:   handlePickCharacter,
	ActionDealStarters:    handleDealStarters,
	ActionNextPhase:       handleNextPhase,
	ActionStartTrade:      handleStartTrade,
	ActionResolveTrade:    handleResolveTrade,
	ActionPublish:         handlePublish,
	ActionYearEnd:         handleYearEnd,
	ActionEndGame:         handleEndGame,
}

// Execute applies a to the current snapshot and returns the resulting one.
// Illegal or invalid actions return the unchanged snapshot and an error.
// Actions that reference nothing applicable (an unknown player, a card no
// longer in the row) return the current snapshot unchanged and no error.
func (e *Engine) Execute(a Action) (*State, error) {
	a, err := Normalize(a)
	if err != nil {
		return e.state, err
	}
	if !e.CanExecute(a.Type()) {
		return e.state, fmt.Errorf("%w: cannot execute %s in phase %s", ErrIllegalTransition, a.Type(), e.state.Phase)
	}

	next := e.state.Clone()
	changed, err := handlers[a.Type()](next, a)
	if err != nil {
		e.logger.Debug("Rejected action", "action", a.Type(), "phase", e.state.Phase, "error", err)
		return e.state, err
	}
	if !changed {
		e.logger.Debug("Ignored action", "action", a.Type(), "phase", e.state.Phase)
		return e.state, nil
	}

	if next.Phase != e.state.Phase {
		e.logger.Info("Phase changed", "action", a.Type(), "from", e.state.Phase, "to", next.Phase, "year", next.Year)
	} else {
		e.logger.Debug("Applied action", "action", a.Type(), "phase", next.Phase)
	}
	e.state = next
	return next, nil
}
