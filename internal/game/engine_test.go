package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestEngine(t *testing.T, count int, names []string, seed string, opts ...GameOption) *Engine {
	t.Helper()
	state, err := NewGame(count, names, seed, opts...)
	require.NoError(t, err)
	return NewEngine(state, WithLogger(quietLogger()))
}

func mustExecute(t *testing.T, e *Engine, a Action) *State {
	t.Helper()
	s, err := e.Execute(a)
	require.NoError(t, err, "executing %s in %s", a.Type(), e.State().Phase)
	return s
}

// draftAll runs the setup phases, every player taking the first card of
// each row.
func draftAll(t *testing.T, e *Engine) *State {
	t.Helper()
	mustExecute(t, e, RollAll{})
	mustExecute(t, e, OrderByRoll{})
	for e.State().Phase == PhasePersonalityDraft {
		s := e.State()
		row := s.Decks.Personalities.Revealed()
		mustExecute(t, e, PickPersonality{PlayerID: s.Current().ID, PersonalityID: row[0].ID})
	}
	for _, id := range e.State().UnassignedCharacters() {
		row := e.State().Decks.Characters.Revealed()
		mustExecute(t, e, PickCharacter{PlayerID: id, CharacterID: row[0].ID})
	}
	return mustExecute(t, e, DealStarters{})
}

func TestNewGame(t *testing.T) {
	t.Parallel()

	s, err := NewGame(2, []string{"Alice", "Bob"}, "test-seed")
	require.NoError(t, err)

	assert.Equal(t, PhaseBoot, s.Phase)
	assert.Equal(t, 1, s.Year)
	assert.Equal(t, DefaultTotalYears, s.TotalYears)
	require.Len(t, s.Players, 2)
	assert.Equal(t, "Alice", s.Players[0].Name)
	assert.Equal(t, "Bob", s.Players[1].Name)
	assert.Equal(t, "player-0", s.Players[0].ID)
	assert.Equal(t, "player-1", s.Players[1].ID)
	assert.Equal(t, 24, s.Decks.Research.Size())
	assert.Zero(t, s.Players[0].Tokens.Total())
}

func TestNewGameNames(t *testing.T) {
	t.Parallel()

	s, err := NewGame(3, []string{"Alice"}, "seed")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Player 2", "Player 3"}, []string{s.Players[0].Name, s.Players[1].Name, s.Players[2].Name})

	s, err = NewGame(2, []string{"A", "B", "C", "D"}, "seed")
	require.NoError(t, err)
	assert.Len(t, s.Players, 2)
	assert.Equal(t, "B", s.Players[1].Name)
}

func TestNewGameInvalid(t *testing.T) {
	t.Parallel()

	_, err := NewGame(1, nil, "seed")
	require.ErrorIs(t, err, ErrInvalidSetup)

	_, err = NewGame(7, nil, "seed")
	require.ErrorIs(t, err, ErrInvalidSetup)
}

func TestNewGameOptions(t *testing.T) {
	t.Parallel()

	s, err := NewGame(2, nil, "seed", WithTotalYears(5))
	require.NoError(t, err)
	assert.Equal(t, 5, s.TotalYears)

	s, err = NewGame(2, nil, "seed", WithTotalYears(0))
	require.NoError(t, err)
	assert.Equal(t, DefaultTotalYears, s.TotalYears)
}

func TestSetOrderScenario(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 2, []string{"Alice", "Bob"}, "test-seed")
	s := mustExecute(t, e, RollAll{})
	assert.Equal(t, PhaseDiceOrder, s.Phase)
	for _, p := range s.Players {
		assert.GreaterOrEqual(t, p.DiceRoll, 1)
		assert.LessOrEqual(t, p.DiceRoll, 6)
	}

	s = mustExecute(t, e, SetOrder{PlayerIDs: []string{"player-1", "player-0"}})
	assert.Equal(t, PhasePersonalityDraft, s.Phase)
	assert.Equal(t, "player-1", s.Players[0].ID)
	assert.Equal(t, "player-0", s.Players[1].ID)
	assert.Len(t, s.Decks.Personalities.Revealed(), 3)
}

func TestSetOrderRejectsNonPermutation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ids  []string
	}{
		{"too few", []string{"player-0"}},
		{"duplicate", []string{"player-0", "player-0"}},
		{"unknown", []string{"player-0", "player-9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, 2, nil, "seed")
			mustExecute(t, e, RollAll{})
			before := e.State()

			s, err := e.Execute(SetOrder{PlayerIDs: tt.ids})
			require.ErrorIs(t, err, ErrInvalidAction)
			assert.Same(t, before, s)
			assert.Equal(t, PhaseDiceOrder, e.State().Phase)
		})
	}
}

func TestOrderByRoll(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 4, nil, "order-by-roll")
	mustExecute(t, e, RollAll{})
	s := mustExecute(t, e, OrderByRoll{})

	for i := 1; i < len(s.Players); i++ {
		assert.GreaterOrEqual(t, s.Players[i-1].DiceRoll, s.Players[i].DiceRoll)
	}
}

func TestIllegalTransitionLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 2, nil, "seed")
	before := e.State()
	s, err := e.Execute(YearEnd{})
	require.ErrorIs(t, err, ErrIllegalTransition)
	assert.Same(t, before, s)
	assert.Same(t, before, e.State())

	_, err = e.Execute(nil)
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestExecuteAcceptsPointerActions(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 2, []string{"Alice", "Bob"}, "pointers")
	mustExecute(t, e, &RollAll{})
	s := mustExecute(t, e, &SetOrder{PlayerIDs: []string{"player-1", "player-0"}})
	require.Equal(t, PhasePersonalityDraft, s.Phase)
	assert.Equal(t, "player-1", s.Players[0].ID)

	for e.State().Phase == PhasePersonalityDraft {
		st := e.State()
		row := st.Decks.Personalities.Revealed()
		mustExecute(t, e, &PickPersonality{PlayerID: st.Current().ID, PersonalityID: row[0].ID})
	}
	for _, id := range e.State().UnassignedCharacters() {
		row := e.State().Decks.Characters.Revealed()
		mustExecute(t, e, &PickCharacter{PlayerID: id, CharacterID: row[0].ID})
	}
	mustExecute(t, e, &DealStarters{})
	for e.State().Phase != PhaseTradingRound {
		mustExecute(t, e, &NextPhase{})
	}
	mustExecute(t, e, &ResolveTrade{Close: true})
	mustExecute(t, e, &Publish{PlayerID: "player-0", Publish: true})
	s = mustExecute(t, e, &Publish{PlayerID: "player-1", Publish: false})
	assert.Equal(t, PhaseYearEndScoring, s.Phase)
	alice, _ := s.Player("player-0")
	bob, _ := s.Player("player-1")
	assert.Equal(t, DecisionPublish, alice.Decision)
	assert.Equal(t, DecisionHold, bob.Decision)
}

func TestExecuteRejectsNilPointerActions(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 2, nil, "seed")
	before := e.State()
	for _, a := range []Action{(*RollAll)(nil), (*SetOrder)(nil), (*Publish)(nil)} {
		var s *State
		var err error
		require.NotPanics(t, func() { s, err = e.Execute(a) })
		require.ErrorIs(t, err, ErrInvalidAction)
		assert.Same(t, before, s)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got, err := Normalize(&Publish{PlayerID: "player-0", Publish: true})
	require.NoError(t, err)
	assert.Equal(t, Publish{PlayerID: "player-0", Publish: true}, got)

	got, err = Normalize(YearEnd{})
	require.NoError(t, err)
	assert.Equal(t, YearEnd{}, got)

	_, err = Normalize(nil)
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestExecuteDoesNotMutatePreviousSnapshot(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 2, nil, "seed")
	before := e.State()
	rngBefore := before.RNG.State()

	after := mustExecute(t, e, RollAll{})
	assert.Equal(t, PhaseBoot, before.Phase)
	assert.Zero(t, before.Players[0].DiceRoll)
	assert.Equal(t, rngBefore, before.RNG.State())
	assert.NotEqual(t, rngBefore, after.RNG.State())
}

func TestPersonalityDraft(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 3, nil, "draft")
	mustExecute(t, e, RollAll{})
	s := mustExecute(t, e, SetOrder{PlayerIDs: []string{"player-0", "player-1", "player-2"}})
	row := s.Decks.Personalities.Revealed()
	require.Len(t, row, 4)

	t.Run("card not in row is ignored", func(t *testing.T) {
		got, err := e.Execute(PickPersonality{PlayerID: "player-0", PersonalityID: "no-such-card"})
		require.NoError(t, err)
		assert.Same(t, s, got)
	})

	t.Run("unknown player is ignored", func(t *testing.T) {
		got, err := e.Execute(PickPersonality{PlayerID: "player-9", PersonalityID: row[0].ID})
		require.NoError(t, err)
		assert.Same(t, s, got)
	})

	s = mustExecute(t, e, PickPersonality{PlayerID: "player-0", PersonalityID: row[0].ID})
	require.NotNil(t, s.Players[0].Personality)
	assert.Equal(t, row[0].ID, s.Players[0].Personality.ID)
	assert.Equal(t, 1, s.CurrentPlayer)
	assert.Len(t, s.Decks.Personalities.Revealed(), 3)

	t.Run("second pick is ignored", func(t *testing.T) {
		got, err := e.Execute(PickPersonality{PlayerID: "player-0", PersonalityID: row[1].ID})
		require.NoError(t, err)
		assert.Same(t, s, got)
	})

	t.Run("taken card is ignored", func(t *testing.T) {
		got, err := e.Execute(PickPersonality{PlayerID: "player-1", PersonalityID: row[0].ID})
		require.NoError(t, err)
		assert.Same(t, s, got)
	})

	// Out of turn picks are accepted; the turn moves to the next player
	// still without a personality.
	s = mustExecute(t, e, PickPersonality{PlayerID: "player-2", PersonalityID: row[2].ID})
	assert.Equal(t, 1, s.CurrentPlayer)
	assert.Equal(t, PhasePersonalityDraft, s.Phase)

	s = mustExecute(t, e, PickPersonality{PlayerID: "player-1", PersonalityID: row[1].ID})
	assert.Equal(t, PhaseCharacterDraft, s.Phase)
	assert.Empty(t, s.Decks.Personalities.Revealed())
	assert.Len(t, s.Decks.Characters.Revealed(), 4)
	assert.Equal(t, 6, s.Decks.Personalities.Total()+3)
}

func TestCharacterDraftAndStarters(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 2, nil, "characters")
	mustExecute(t, e, RollAll{})
	mustExecute(t, e, OrderByRoll{})
	for e.State().Phase == PhasePersonalityDraft {
		s := e.State()
		mustExecute(t, e, PickPersonality{PlayerID: s.Current().ID, PersonalityID: s.Decks.Personalities.Revealed()[0].ID})
	}

	s := e.State()
	row := s.Decks.Characters.Revealed()
	id := s.Players[0].ID
	s = mustExecute(t, e, PickCharacter{PlayerID: id, CharacterID: row[0].ID})
	assert.Equal(t, row[0].Tokens(), s.Players[0].Tokens)
	assert.Equal(t, 0, s.CurrentPlayer)
	assert.Equal(t, PhaseCharacterDraft, s.Phase)

	got, err := e.Execute(PickCharacter{PlayerID: id, CharacterID: row[1].ID})
	require.NoError(t, err)
	assert.Same(t, s, got)

	mustExecute(t, e, PickCharacter{PlayerID: s.Players[1].ID, CharacterID: row[1].ID})
	s = mustExecute(t, e, DealStarters{})
	assert.Equal(t, PhaseYearLoop, s.Phase)
	for _, p := range s.Players {
		assert.Len(t, p.Projects, StarterProjects)
		for _, pr := range p.Projects {
			assert.False(t, pr.Complete())
		}
	}
	assert.Equal(t, 24-2*StarterProjects, s.Decks.Research.Size())
}

func TestNextPhaseWalksTheYear(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 2, nil, "walk")
	draftAll(t, e)

	want := []Phase{PhaseResearchIdeas, PhaseFundingRound, PhaseCollaborationRound, PhaseProcessRound, PhaseTradingRound}
	for _, phase := range want {
		s := mustExecute(t, e, NextPhase{})
		assert.Equal(t, phase, s.Phase)
		switch phase {
		case PhaseFundingRound:
			assert.Len(t, s.Decks.Funding.Revealed(), fundingRowSize)
		case PhaseCollaborationRound:
			assert.Len(t, s.Decks.Collaboration.Revealed(), collaborationRowSize)
		}
	}

	_, err := e.Execute(NextPhase{})
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestDeterminism(t *testing.T) {
	t.Parallel()

	run := func() []byte {
		e := newTestEngine(t, 3, []string{"A", "B", "C"}, "determinism")
		draftAll(t, e)
		for range 5 {
			mustExecute(t, e, NextPhase{})
		}
		data, err := Marshal(e.State())
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, string(run()), string(run()))
}

func TestDifferentSeedsDiffer(t *testing.T) {
	t.Parallel()

	a, err := NewGame(2, nil, "seed-a")
	require.NoError(t, err)
	b, err := NewGame(2, nil, "seed-b")
	require.NoError(t, err)
	assert.NotEqual(t, a.Decks.Research.Piles(), b.Decks.Research.Piles())
}

func TestEndGameWinner(t *testing.T) {
	t.Parallel()

	s, err := NewGame(3, nil, "winner")
	require.NoError(t, err)
	s.Phase = PhaseEndGame
	s.Players[0].Score = 10
	s.Players[1].Score = 30
	s.Players[2].Score = 30

	e := NewEngine(s, WithLogger(quietLogger()))
	got := mustExecute(t, e, EndGame{})
	assert.Equal(t, "player-1", got.Winner)
	assert.Len(t, got.Leaders(), 2)

	w, ok := got.WinnerPlayer()
	require.True(t, ok)
	assert.Equal(t, 30, w.Score)

	again, err := e.Execute(EndGame{})
	require.NoError(t, err)
	assert.Same(t, got, again)
	assert.Equal(t, PhaseEndGame, again.Phase)
}
