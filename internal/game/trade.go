package game

import (
	"fmt"
	"slices"

	"github.com/lox/publishorperish/internal/scoring"
)

func handleStartTrade(s *State, a Action) (bool, error) {
	st := a.(StartTrade)
	if st.From == st.To {
		return false, fmt.Errorf("%w: player %s cannot trade with themselves", ErrInvalidAction, st.From)
	}
	from := s.playerIndex(st.From)
	if from < 0 || s.playerIndex(st.To) < 0 {
		return false, fmt.Errorf("%w: unknown trade party %s -> %s", ErrInvalidAction, st.From, st.To)
	}
	if !st.Offer.Valid() || !st.Request.Valid() {
		return false, fmt.Errorf("%w: negative token amounts", ErrInvalidAction)
	}
	if st.Offer.IsZero() && st.Request.IsZero() {
		return false, fmt.Errorf("%w: empty trade", ErrInvalidAction)
	}
	if !s.Players[from].Tokens.Covers(st.Offer) {
		return false, fmt.Errorf("%w: %s cannot cover offer %s", ErrInvalidAction, st.From, st.Offer)
	}

	s.Trades = append(s.Trades, Trade{
		ID:      fmt.Sprintf("trade-%d", s.NextTradeID),
		From:    st.From,
		To:      st.To,
		Offer:   st.Offer,
		Request: st.Request,
		Status:  TradePending,
	})
	s.NextTradeID++
	return true, nil
}

func handleResolveTrade(s *State, a Action) (bool, error) {
	rt := a.(ResolveTrade)
	if rt.Close {
		for i := range s.Trades {
			if s.Trades[i].Status == TradePending {
				s.Trades[i].Status = TradeRejected
			}
		}
		s.Phase = PhasePublishDecision
		s.CurrentPlayer = 0
		return true, nil
	}

	ti := slices.IndexFunc(s.Trades, func(t Trade) bool { return t.ID == rt.TradeID })
	if ti < 0 || s.Trades[ti].Status != TradePending {
		return false, nil
	}
	trade := &s.Trades[ti]
	if !rt.Accept {
		trade.Status = TradeRejected
		return true, nil
	}

	var reward scoring.TradeReward
	if rt.Reward != "" {
		i := slices.IndexFunc(scoring.TradeRewards(true), func(r scoring.TradeReward) bool { return r.Type == rt.Reward })
		if i < 0 {
			return false, fmt.Errorf("%w: unknown trade reward %q", ErrInvalidAction, rt.Reward)
		}
		reward = scoring.TradeRewards(true)[i]
	}

	from := &s.Players[s.playerIndex(trade.From)]
	to := &s.Players[s.playerIndex(trade.To)]
	if !from.Tokens.Covers(trade.Offer) || !to.Tokens.Covers(trade.Request) {
		return false, fmt.Errorf("%w: %s no longer covered", ErrInvalidAction, trade.ID)
	}
	from.Tokens = from.Tokens.Sub(trade.Offer).Add(trade.Request)
	to.Tokens = to.Tokens.Sub(trade.Request).Add(trade.Offer)
	trade.Status = TradeAccepted
	trade.Reward = reward.Type

	switch reward.Type {
	case scoring.RewardFunding:
		from.Tokens.Funding += reward.Amount
	case scoring.RewardCollaboration:
		from.Tokens.Collaboration += reward.Amount
	case scoring.RewardSpecial:
		from.Tokens.Special += reward.Amount
	case scoring.RewardCard:
		if card, ok := s.Decks.Research.Draw(); ok {
			from.Projects = append(from.Projects, Project{Research: card})
		}
	}
	return true, nil
}
