package game

import (
	"encoding/json"
	"fmt"

	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/deck"
	"github.com/lox/publishorperish/internal/randutil"
)

// SnapshotVersion is the current snapshot format.
const SnapshotVersion = 1

type snapshot struct {
	Version       int          `json:"version"`
	Phase         Phase        `json:"phase"`
	Players       []Player     `json:"players"`
	CurrentPlayer int          `json:"currentPlayer"`
	Year          int          `json:"year"`
	TotalYears    int          `json:"totalYears"`
	Seed          string       `json:"seed"`
	RNGState      uint32       `json:"rngState"`
	Decks         deckSnapshot `json:"decks"`
	Trades        []Trade      `json:"trades"`
	NextTradeID   int          `json:"nextTradeId"`
	Winner        string       `json:"winner,omitempty"`
}

type deckSnapshot struct {
	Personalities deck.Piles[catalog.Personality] `json:"personalities"`
	Characters    deck.Piles[catalog.Character]   `json:"characters"`
	Research      deck.Piles[catalog.Card]        `json:"research"`
	Funding       deck.Piles[catalog.Card]        `json:"funding"`
	Collaboration deck.Piles[catalog.Card]        `json:"collaboration"`
	Setbacks      deck.Piles[catalog.Card]        `json:"setbacks"`
	Special       deck.Piles[catalog.Card]        `json:"special"`
}

// Marshal serializes a snapshot, including every pile and the generator
// state, so that Unmarshal resumes with identical future randomness.
func Marshal(s *State) ([]byte, error) {
	trades := s.Trades
	if trades == nil {
		trades = []Trade{}
	}
	snap := snapshot{
		Version:       SnapshotVersion,
		Phase:         s.Phase,
		Players:       s.Players,
		CurrentPlayer: s.CurrentPlayer,
		Year:          s.Year,
		TotalYears:    s.TotalYears,
		Seed:          s.Seed,
		RNGState:      s.RNG.State(),
		Decks: deckSnapshot{
			Personalities: s.Decks.Personalities.Piles(),
			Characters:    s.Decks.Characters.Piles(),
			Research:      s.Decks.Research.Piles(),
			Funding:       s.Decks.Funding.Piles(),
			Collaboration: s.Decks.Collaboration.Piles(),
			Setbacks:      s.Decks.Setbacks.Piles(),
			Special:       s.Decks.Special.Piles(),
		},
		Trades:      trades,
		NextTradeID: s.NextTradeID,
		Winner:      s.Winner,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal restores a snapshot written by Marshal.
func Unmarshal(data []byte) (*State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}
	if len(snap.Players) < MinPlayers {
		return nil, fmt.Errorf("%w: snapshot has %d players", ErrInvalidSetup, len(snap.Players))
	}

	rng := randutil.FromState(snap.RNGState)
	s := &State{
		Phase:         snap.Phase,
		Players:       make([]Player, len(snap.Players)),
		CurrentPlayer: snap.CurrentPlayer,
		Year:          snap.Year,
		TotalYears:    snap.TotalYears,
		Seed:          snap.Seed,
		RNG:           rng,
		Decks: Decks{
			Personalities: deck.Restore(snap.Decks.Personalities, rng),
			Characters:    deck.Restore(snap.Decks.Characters, rng),
			Research:      deck.Restore(snap.Decks.Research, rng),
			Funding:       deck.Restore(snap.Decks.Funding, rng),
			Collaboration: deck.Restore(snap.Decks.Collaboration, rng),
			Setbacks:      deck.Restore(snap.Decks.Setbacks, rng),
			Special:       deck.Restore(snap.Decks.Special, rng),
		},
		Trades:      snap.Trades,
		NextTradeID: snap.NextTradeID,
		Winner:      snap.Winner,
	}
	for i, p := range snap.Players {
		p = p.clone()
		if p.Projects == nil {
			p.Projects = []Project{}
		}
		if p.Published == nil {
			p.Published = []Publication{}
		}
		if p.History == nil {
			p.History = []YearResult{}
		}
		s.Players[i] = p
	}
	return s, nil
}
