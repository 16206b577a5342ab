package game

import (
	"testing"

	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/deck"
	"github.com/lox/publishorperish/internal/randutil"
	"github.com/lox/publishorperish/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id, typ string) catalog.Card {
	return catalog.Card{ID: id, Type: typ, Name: catalog.Name{EN: id}}
}

// fixtureState builds a two-player state with unshuffled decks. The
// funding and collaboration rows are set from the given cards.
func fixtureState(t *testing.T, phase Phase, fundingRow, collabRow []catalog.Card) *State {
	t.Helper()
	cat := catalog.Default()
	rng := randutil.New("fixture")
	s := &State{
		Phase:       phase,
		Players:     []Player{newPlayer("player-0", "Alice"), newPlayer("player-1", "Bob")},
		Year:        1,
		TotalYears:  DefaultTotalYears,
		Seed:        "fixture",
		RNG:         rng,
		NextTradeID: 1,
		Decks: Decks{
			Personalities: deck.New(cat.Personalities, rng),
			Characters:    deck.New(cat.Characters, rng),
			Research:      deck.New(cat.Research, rng),
			Funding:       deck.Restore(deck.Piles[catalog.Card]{Revealed: fundingRow}, rng),
			Collaboration: deck.Restore(deck.Piles[catalog.Card]{Revealed: collabRow}, rng),
			Setbacks:      deck.New(cat.Setbacks, rng),
			Special:       deck.New(cat.Special, rng),
		},
	}
	return s
}

func TestAllocateRows(t *testing.T) {
	t.Parallel()

	s := fixtureState(t, PhaseProcessRound,
		[]catalog.Card{card("f-small", catalog.TypeSmall), card("f-gov", catalog.TypeGovernment), card("f-large", catalog.TypeLarge)},
		[]catalog.Card{card("c-local", catalog.TypeLocal), card("c-intl", catalog.TypeInternational)},
	)
	s.Players[0].Tokens = catalog.Tokens{Funding: 2, Collaboration: 0, Special: 1}
	s.Players[0].Projects = []Project{{Research: card("r-1", catalog.TypeBasic)}, {Research: card("r-2", catalog.TypeTheory)}}
	s.Players[1].Tokens = catalog.Tokens{Funding: 1, Collaboration: 1}
	s.Players[1].Projects = []Project{{Research: card("r-3", catalog.TypeApplied)}}

	e := NewEngine(s, WithLogger(quietLogger()))
	got := mustExecute(t, e, NextPhase{})
	assert.Equal(t, PhaseTradingRound, got.Phase)

	alice, bob := got.Players[0], got.Players[1]
	// Round one: Alice takes government, Bob takes large. Round two: Alice
	// takes small for her second project.
	require.NotNil(t, alice.Projects[0].Funding)
	assert.Equal(t, "f-gov", alice.Projects[0].Funding.ID)
	require.NotNil(t, bob.Projects[0].Funding)
	assert.Equal(t, "f-large", bob.Projects[0].Funding.ID)
	require.NotNil(t, alice.Projects[1].Funding)
	assert.Equal(t, "f-small", alice.Projects[1].Funding.ID)
	assert.Empty(t, got.Decks.Funding.Revealed())

	// Alice has no collaboration token and pays with her special one.
	require.NotNil(t, alice.Projects[0].Collaboration)
	assert.Equal(t, "c-intl", alice.Projects[0].Collaboration.ID)
	require.NotNil(t, bob.Projects[0].Collaboration)
	assert.Equal(t, "c-local", bob.Projects[0].Collaboration.ID)
	assert.Nil(t, alice.Projects[1].Collaboration)

	assert.Equal(t, catalog.Tokens{}, alice.Tokens)
	assert.Equal(t, catalog.Tokens{}, bob.Tokens)
	assert.True(t, alice.Projects[0].Complete())
	assert.True(t, bob.Projects[0].Complete())
}

func TestAllocateWithoutTokens(t *testing.T) {
	t.Parallel()

	s := fixtureState(t, PhaseProcessRound,
		[]catalog.Card{card("f-small", catalog.TypeSmall)}, nil)
	s.Players[0].Projects = []Project{{Research: card("r-1", catalog.TypeBasic)}}

	e := NewEngine(s, WithLogger(quietLogger()))
	got := mustExecute(t, e, NextPhase{})
	assert.Nil(t, got.Players[0].Projects[0].Funding)
	assert.Len(t, got.Decks.Funding.Revealed(), 1)
}

func completeProject(research, funding, collab catalog.Card) Project {
	return Project{Research: research, Funding: &funding, Collaboration: &collab}
}

func TestPublishAndYearEnd(t *testing.T) {
	t.Parallel()

	s := fixtureState(t, PhasePublishDecision, nil, nil)
	s.Players[0].Projects = []Project{
		completeProject(card("r-1", catalog.TypeBreakthrough), card("f-1", catalog.TypeLarge), card("c-1", catalog.TypeInternational)),
		{Research: card("r-2", catalog.TypeBasic)},
	}
	s.Players[0].Tokens = catalog.Tokens{Funding: 1}
	s.Players[1].Projects = []Project{
		completeProject(card("r-3", catalog.TypeBasic), card("f-2", catalog.TypeSmall), card("c-2", catalog.TypeLocal)),
	}
	e := NewEngine(s, WithLogger(quietLogger()))

	got, err := e.Execute(Publish{PlayerID: "nobody", Publish: true})
	require.NoError(t, err)
	assert.Same(t, s, got)

	got = mustExecute(t, e, Publish{PlayerID: "player-0", Publish: true})
	assert.Equal(t, PhasePublishDecision, got.Phase)
	assert.Equal(t, 1, got.CurrentPlayer)

	got = mustExecute(t, e, Publish{PlayerID: "player-1", Publish: false})
	assert.Equal(t, PhaseYearEndScoring, got.Phase)

	got = mustExecute(t, e, YearEnd{})
	assert.Equal(t, PhaseResearchIdeas, got.Phase)
	assert.Equal(t, 2, got.Year)

	alice := got.Players[0]
	// 6+5+4 = 15 points, moderate band, doubled.
	assert.Equal(t, 30, alice.Score)
	assert.Equal(t, 1, alice.Publications[scoring.BandModerate])
	require.Len(t, alice.History, 1)
	assert.Equal(t, scoring.Result{ProjectPoints: 15, Band: scoring.BandModerate, Bonus: 2, FinalScore: 30, CarryOver: 3}, alice.History[0].Result)
	require.Len(t, alice.Published, 1)
	assert.Equal(t, "r-1", alice.Published[0].ProjectID)
	assert.Equal(t, 15, alice.Published[0].Points)
	assert.Equal(t, 1, alice.Published[0].Year)
	// Carry-over is credited as funding on entering the new year.
	assert.Equal(t, 4, alice.Tokens.Funding)
	assert.Zero(t, alice.CarryOver)
	assert.Len(t, alice.Projects, StarterProjects)
	assert.Equal(t, "r-2", alice.Projects[0].ID())

	bob := got.Players[1]
	assert.Zero(t, bob.Score)
	assert.Empty(t, bob.History)
	assert.True(t, bob.Projects[0].Complete())
	assert.Len(t, bob.Projects, StarterProjects)

	assert.Equal(t, 1, got.Decks.Funding.DiscardSize())
	assert.Equal(t, 1, got.Decks.Collaboration.DiscardSize())
	for _, p := range got.Players {
		assert.Equal(t, DecisionNone, p.Decision)
	}
}

func TestYearEndFinalYear(t *testing.T) {
	t.Parallel()

	s := fixtureState(t, PhaseYearEndScoring, nil, nil)
	s.Year = 3
	s.Players[0].Decision = DecisionPublish
	s.Players[1].Decision = DecisionHold

	e := NewEngine(s, WithLogger(quietLogger()))
	got := mustExecute(t, e, YearEnd{})
	assert.Equal(t, PhaseEndGame, got.Phase)
	assert.Equal(t, 3, got.Year)
	// Publishing nothing still records a low-band event.
	assert.Equal(t, 1, got.Players[0].Publications[scoring.BandLow])
	assert.Zero(t, got.Players[0].Score)
}
