package game

import (
	"testing"

	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradingEngine(t *testing.T) *Engine {
	t.Helper()
	s := fixtureState(t, PhaseTradingRound, nil, nil)
	s.Players[0].Tokens = catalog.Tokens{Funding: 2, Collaboration: 1, Special: 1}
	s.Players[1].Tokens = catalog.Tokens{Funding: 0, Collaboration: 3, Special: 0}
	return NewEngine(s, WithLogger(quietLogger()))
}

func TestStartTradeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		trade StartTrade
	}{
		{"self trade", StartTrade{From: "player-0", To: "player-0", Offer: catalog.Tokens{Funding: 1}}},
		{"unknown party", StartTrade{From: "player-0", To: "player-7", Offer: catalog.Tokens{Funding: 1}}},
		{"empty", StartTrade{From: "player-0", To: "player-1"}},
		{"negative", StartTrade{From: "player-0", To: "player-1", Offer: catalog.Tokens{Funding: -1}, Request: catalog.Tokens{Collaboration: 1}}},
		{"insufficient", StartTrade{From: "player-0", To: "player-1", Offer: catalog.Tokens{Funding: 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tradingEngine(t)
			before := e.State()
			got, err := e.Execute(tt.trade)
			require.ErrorIs(t, err, ErrInvalidAction)
			assert.Same(t, before, got)
		})
	}
}

func TestTradeAccept(t *testing.T) {
	t.Parallel()

	e := tradingEngine(t)
	s := mustExecute(t, e, StartTrade{
		From:    "player-0",
		To:      "player-1",
		Offer:   catalog.Tokens{Funding: 1},
		Request: catalog.Tokens{Collaboration: 2},
	})
	require.Len(t, s.PendingTrades(), 1)
	assert.Equal(t, "trade-1", s.Trades[0].ID)
	assert.Equal(t, 2, s.NextTradeID)
	// Offers do not escrow tokens.
	assert.Equal(t, 2, s.Players[0].Tokens.Funding)

	s = mustExecute(t, e, ResolveTrade{TradeID: "trade-1", Accept: true, Reward: scoring.RewardSpecial})
	assert.Equal(t, catalog.Tokens{Funding: 1, Collaboration: 3, Special: 2}, s.Players[0].Tokens)
	assert.Equal(t, catalog.Tokens{Funding: 1, Collaboration: 1}, s.Players[1].Tokens)
	trade, ok := s.Trade("trade-1")
	require.True(t, ok)
	assert.Equal(t, TradeAccepted, trade.Status)
	assert.Equal(t, scoring.RewardSpecial, trade.Reward)
	assert.Empty(t, s.PendingTrades())

	got, err := e.Execute(ResolveTrade{TradeID: "trade-1", Accept: true})
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestTradeCardReward(t *testing.T) {
	t.Parallel()

	e := tradingEngine(t)
	mustExecute(t, e, StartTrade{From: "player-0", To: "player-1", Offer: catalog.Tokens{Special: 1}})
	s := mustExecute(t, e, ResolveTrade{TradeID: "trade-1", Accept: true, Reward: scoring.RewardCard})
	assert.Len(t, s.Players[0].Projects, 1)
	assert.Equal(t, 23, s.Decks.Research.Size())
}

func TestTradeAcceptUncovered(t *testing.T) {
	t.Parallel()

	e := tradingEngine(t)
	mustExecute(t, e, StartTrade{From: "player-0", To: "player-1", Offer: catalog.Tokens{Funding: 1}, Request: catalog.Tokens{Special: 1}})
	before := e.State()

	got, err := e.Execute(ResolveTrade{TradeID: "trade-1", Accept: true})
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Same(t, before, got)

	_, err = e.Execute(ResolveTrade{TradeID: "trade-1", Accept: true, Reward: "gold"})
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestTradeRejectAndClose(t *testing.T) {
	t.Parallel()

	e := tradingEngine(t)
	mustExecute(t, e, StartTrade{From: "player-0", To: "player-1", Offer: catalog.Tokens{Funding: 1}})
	mustExecute(t, e, StartTrade{From: "player-1", To: "player-0", Offer: catalog.Tokens{Collaboration: 1}})

	s := mustExecute(t, e, ResolveTrade{TradeID: "trade-1"})
	trade, _ := s.Trade("trade-1")
	assert.Equal(t, TradeRejected, trade.Status)
	assert.Equal(t, 2, s.Players[0].Tokens.Funding)

	got, err := e.Execute(ResolveTrade{TradeID: "trade-9", Accept: true})
	require.NoError(t, err)
	assert.Same(t, s, got)

	s = mustExecute(t, e, ResolveTrade{Close: true})
	assert.Equal(t, PhasePublishDecision, s.Phase)
	assert.Empty(t, s.PendingTrades())
	trade, _ = s.Trade("trade-2")
	assert.Equal(t, TradeRejected, trade.Status)
}
