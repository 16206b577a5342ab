// Package store is the boundary between a front-end and the game engine.
// It owns the single engine handle, keeps undo and redo history, records
// an event log and persists snapshots through an injected Persister.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/publishorperish/internal/game"
)

const (
	DefaultHistoryLimit     = 50
	DefaultSaveAttempts     = 3
	DefaultRetryDelay       = 100 * time.Millisecond
	DefaultAutosaveInterval = 30 * time.Second
	DefaultAutosaveDebounce = 2 * time.Second
	DefaultSlot             = "autosave"
)

// ErrNoGame is returned by operations that need a game before one exists.
var ErrNoGame = errors.New("no game in progress")

// ErrPermanent marks persister errors that retrying cannot fix, such as
// an invalid slot name. Save gives up on the first one.
var ErrPermanent = errors.New("not retryable")

// Persister stores opaque save blobs by slot name. Errors wrapping
// ErrPermanent are not retried.
type Persister interface {
	Save(ctx context.Context, slot string, data []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
}

// Event is one entry of the dispatch log.
type Event struct {
	Seq    int             `json:"seq"`
	Action game.ActionType `json:"action"`
	Phase  game.Phase      `json:"phase"`
	Year   int             `json:"year"`
	At     time.Time       `json:"at"`
	Err    string          `json:"error,omitempty"`
}

// Store guards an engine with a mutex. Autosave timers fire on clock
// goroutines, so every method is safe for concurrent use.
type Store struct {
	mu sync.Mutex
	// saveMu orders whole saves so an older snapshot never lands after a
	// newer one. It is taken before mu.
	saveMu sync.Mutex

	engine *game.Engine
	past   []*game.State
	future []*game.State
	events []Event
	seq    int
	saved  *game.State

	persister Persister
	clock     quartz.Clock
	logger    *log.Logger
	version   string

	slot             string
	historyLimit     int
	saveAttempts     int
	retryDelay       time.Duration
	autosaveInterval time.Duration
	autosaveDebounce time.Duration
	debounce         *quartz.Timer
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock driving retries and autosave.
func WithClock(clock quartz.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger sets the logger. The engine logs through a child of it.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithSlot sets the save slot name.
func WithSlot(slot string) Option {
	return func(s *Store) { s.slot = slot }
}

// WithRetry sets how often Save tries the persister and the pause between
// attempts. A delay of zero retries immediately.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(s *Store) {
		s.saveAttempts = max(attempts, 1)
		s.retryDelay = delay
	}
}

// WithAutosave sets the periodic save interval and the quiet period after
// a change before a save is triggered. Zero disables either trigger.
func WithAutosave(interval, debounce time.Duration) Option {
	return func(s *Store) {
		s.autosaveInterval = interval
		s.autosaveDebounce = debounce
	}
}

// WithHistoryLimit caps the undo stack and the event log.
func WithHistoryLimit(n int) Option {
	return func(s *Store) { s.historyLimit = max(n, 1) }
}

// WithVersion sets the application version written into save metadata.
func WithVersion(version string) Option {
	return func(s *Store) { s.version = version }
}

// New creates an empty store. persister may be nil, in which case Save and
// Load fail.
func New(persister Persister, opts ...Option) *Store {
	s := &Store{
		persister:        persister,
		clock:            quartz.NewReal(),
		logger:           log.NewWithOptions(io.Discard, log.Options{}),
		version:          "dev",
		slot:             DefaultSlot,
		historyLimit:     DefaultHistoryLimit,
		saveAttempts:     DefaultSaveAttempts,
		retryDelay:       DefaultRetryDelay,
		autosaveInterval: DefaultAutosaveInterval,
		autosaveDebounce: DefaultAutosaveDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("store")
	return s
}

// NewGame replaces the current game and clears history.
func (s *Store) NewGame(count int, names []string, seed string, opts ...game.GameOption) (*game.State, error) {
	state, err := game.NewGame(count, names, seed, opts...)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(state)
	s.logger.Info("New game", "players", len(state.Players), "seed", seed, "years", state.TotalYears)
	return state, nil
}

// Demo player names and seed.
var (
	DemoNames = []string{"Demo Player", "AI Alice", "AI Bob"}
	DemoSeed  = "demo-seed"
)

// NewDemoGame starts the three-player demo game.
func (s *Store) NewDemoGame(opts ...game.GameOption) (*game.State, error) {
	return s.NewGame(len(DemoNames), DemoNames, DemoSeed, opts...)
}

func (s *Store) reset(state *game.State) {
	s.engine = game.NewEngine(state, game.WithLogger(s.logger))
	s.past = nil
	s.future = nil
	s.events = nil
	s.saved = nil
	s.stopDebounce()
}

// State returns the current snapshot, or nil before a game exists.
func (s *Store) State() *game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil
	}
	return s.engine.State()
}

// CanExecute reports whether t is legal right now.
func (s *Store) CanExecute(t game.ActionType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine != nil && s.engine.CanExecute(t)
}

// Dispatch executes a against the current game. Applied actions become
// undoable, clear the redo stack and schedule a debounced autosave.
func (s *Store) Dispatch(a game.Action) (*game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil, ErrNoGame
	}
	a, err := game.Normalize(a)
	if err != nil {
		return s.engine.State(), err
	}

	before := s.engine.State()
	after, err := s.engine.Execute(a)
	if err != nil {
		s.record(a.Type(), before, err)
		return after, err
	}
	if after == before {
		return after, nil
	}

	s.past = appendCapped(s.past, before, s.historyLimit)
	s.future = nil
	s.record(a.Type(), after, nil)
	s.scheduleAutosave()
	return after, nil
}

func (s *Store) record(t game.ActionType, state *game.State, err error) {
	s.seq++
	ev := Event{
		Seq:    s.seq,
		Action: t,
		Phase:  state.Phase,
		Year:   state.Year,
		At:     s.clock.Now(),
	}
	if err != nil {
		ev.Err = err.Error()
	}
	s.events = appendCapped(s.events, ev, s.historyLimit)
}

func appendCapped[T any](items []T, item T, limit int) []T {
	items = append(items, item)
	if over := len(items) - limit; over > 0 {
		items = slices.Delete(items, 0, over)
	}
	return items
}

// Events returns the most recent log entries, oldest first.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

// CanUndo reports whether Undo would change the state.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.past) > 0
}

// CanRedo reports whether Redo would change the state.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.future) > 0
}

// Undo steps back one applied action.
func (s *Store) Undo() (*game.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.past) == 0 {
		return s.current(), false
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, s.engine.State())
	s.engine = game.NewEngine(prev, game.WithLogger(s.logger))
	s.scheduleAutosave()
	return prev, true
}

// Redo re-applies the last undone action.
func (s *Store) Redo() (*game.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.future) == 0 {
		return s.current(), false
	}
	next := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.past = appendCapped(s.past, s.engine.State(), s.historyLimit)
	s.engine = game.NewEngine(next, game.WithLogger(s.logger))
	s.scheduleAutosave()
	return next, true
}

func (s *Store) current() *game.State {
	if s.engine == nil {
		return nil
	}
	return s.engine.State()
}

// Dirty reports whether the current state differs from the last save.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine != nil && s.engine.State() != s.saved
}

// Slot returns the save slot name.
func (s *Store) Slot() string {
	return s.slot
}

func (s *Store) String() string {
	state := s.State()
	if state == nil {
		return "no game"
	}
	return fmt.Sprintf("%s (slot %s)", state, s.slot)
}
