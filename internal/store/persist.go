package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lox/publishorperish/internal/game"
)

// SaveFormat is the version of the save envelope.
const SaveFormat = 1

// ErrNoPersister is returned by Save and Load when the store has no
// Persister.
var ErrNoPersister = errors.New("no persister configured")

// Metadata describes a save without decoding the game.
type Metadata struct {
	Format        int        `json:"format"`
	Version       string     `json:"version"`
	SavedAt       time.Time  `json:"savedAt"`
	Phase         game.Phase `json:"phase"`
	Year          int        `json:"year"`
	TotalYears    int        `json:"totalYears"`
	CurrentPlayer string     `json:"currentPlayer"`
	PlayerCount   int        `json:"playerCount"`
	Seed          string     `json:"seed"`
}

type envelope struct {
	Metadata Metadata        `json:"metadata"`
	Game     json.RawMessage `json:"game"`
}

// Encode wraps a snapshot and its metadata into a save blob.
func Encode(state *game.State, version string, savedAt time.Time) ([]byte, error) {
	snap, err := game.Marshal(state)
	if err != nil {
		return nil, err
	}
	env := envelope{
		Metadata: Metadata{
			Format:        SaveFormat,
			Version:       version,
			SavedAt:       savedAt.UTC(),
			Phase:         state.Phase,
			Year:          state.Year,
			TotalYears:    state.TotalYears,
			CurrentPlayer: state.Current().ID,
			PlayerCount:   len(state.Players),
			Seed:          state.Seed,
		},
		Game: snap,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save: %w", err)
	}
	return data, nil
}

// Decode unwraps a save blob.
func Decode(data []byte) (Metadata, *game.State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Metadata{}, nil, fmt.Errorf("failed to unmarshal save: %w", err)
	}
	if env.Metadata.Format != SaveFormat {
		return env.Metadata, nil, fmt.Errorf("unsupported save format %d", env.Metadata.Format)
	}
	state, err := game.Unmarshal(env.Game)
	if err != nil {
		return env.Metadata, nil, err
	}
	return env.Metadata, state, nil
}

// Save writes the current state to the store's slot. Failed attempts are
// retried after the configured delay unless the error wraps ErrPermanent.
// Concurrent saves run one at a time. The in-memory game is never touched
// by a failed save.
func (s *Store) Save(ctx context.Context) error {
	if s.persister == nil {
		return ErrNoPersister
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.engine == nil {
		s.mu.Unlock()
		return ErrNoGame
	}
	state := s.engine.State()
	data, err := Encode(state, s.version, s.clock.Now())
	s.mu.Unlock()
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		err = s.persister.Save(ctx, s.slot, data)
		if err == nil {
			break
		}
		s.logger.Warn("Save failed", "slot", s.slot, "attempt", attempt, "error", err)
		if errors.Is(err, ErrPermanent) {
			return fmt.Errorf("save to slot %s: %w", s.slot, err)
		}
		if attempt >= s.saveAttempts {
			return fmt.Errorf("save to slot %s failed after %d attempts: %w", s.slot, attempt, err)
		}
		if err := s.wait(ctx, s.retryDelay); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.saved = state
	s.mu.Unlock()
	s.logger.Debug("Saved game", "slot", s.slot, "phase", state.Phase, "year", state.Year, "bytes", len(data))
	return nil
}

func (s *Store) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := s.clock.NewTimer(d, "store", "retry")
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Load replaces the current game with the one in the store's slot and
// clears history.
func (s *Store) Load(ctx context.Context) (*game.State, error) {
	if s.persister == nil {
		return nil, ErrNoPersister
	}
	data, err := s.persister.Load(ctx, s.slot)
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", s.slot, err)
	}
	meta, state, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", s.slot, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(state)
	s.saved = state
	s.logger.Info("Loaded game", "slot", s.slot, "phase", meta.Phase, "year", meta.Year, "savedAt", meta.SavedAt)
	return state, nil
}
