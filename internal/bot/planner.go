package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/game"
	"github.com/lox/publishorperish/internal/scoring"
)

// Planner drafts for value, trades surplus funding for collaboration and
// publishes whenever it has something finished.
type Planner struct {
	logger *log.Logger
}

func (p *Planner) Decide(s *game.State) (Decision, bool) {
	d, ok := p.decide(s)
	if ok {
		p.logger.Debug("Decision", "phase", s.Phase, "action", d.Action.Type(), "reasoning", d.Reasoning)
	}
	return d, ok
}

func (p *Planner) decide(s *game.State) (Decision, bool) {
	if d, ok := common(s); ok || s.Phase == game.PhaseEndGame {
		return d, ok
	}

	switch s.Phase {
	case game.PhasePersonalityDraft:
		row := s.Decks.Personalities.Revealed()
		best := 0
		for i, c := range row {
			if c.InitialPoints > row[best].InitialPoints {
				best = i
			}
		}
		return Decision{
			game.PickPersonality{PlayerID: s.Current().ID, PersonalityID: row[best].ID},
			"highest initial points",
		}, true

	case game.PhaseCharacterDraft:
		ids := s.UnassignedCharacters()
		row := s.Decks.Characters.Revealed()
		if len(ids) == 0 || len(row) == 0 {
			return Decision{game.DealStarters{}, "everyone has a character"}, true
		}
		best := 0
		for i, c := range row {
			if c.Tokens().Total() > row[best].Tokens().Total() {
				best = i
			}
		}
		return Decision{
			game.PickCharacter{PlayerID: ids[0], CharacterID: row[best].ID},
			"most starting tokens",
		}, true

	case game.PhaseTradingRound:
		return p.trade(s), true

	case game.PhasePublishDecision:
		pl, ok := undecided(s)
		if !ok {
			return Decision{}, false
		}
		publish := completeProjects(pl) > 0
		reason := "nothing finished yet"
		if publish {
			reason = "publishing finished projects"
		}
		return Decision{game.Publish{PlayerID: pl.ID, Publish: publish}, reason}, true
	}
	return Decision{}, false
}

// trade answers pending offers first, then lets each player propose at most
// one swap of a funding token for a collaboration token per round.
func (p *Planner) trade(s *game.State) Decision {
	for _, t := range s.PendingTrades() {
		from, _ := s.Player(t.From)
		to, _ := s.Player(t.To)
		if from.Tokens.Covers(t.Offer) && to.Tokens.Covers(t.Request) {
			return Decision{game.ResolveTrade{TradeID: t.ID, Accept: true, Reward: scoring.RewardFunding}, "fair swap"}
		}
		return Decision{game.ResolveTrade{TradeID: t.ID}, "cannot cover"}
	}

	proposed := make(map[string]bool, len(s.Trades))
	for _, t := range s.Trades {
		proposed[t.From] = true
	}
	for i, pl := range s.Players {
		if proposed[pl.ID] || pl.Tokens.Funding < 2 || pl.Tokens.Collaboration > 0 {
			continue
		}
		for step := 1; step < len(s.Players); step++ {
			other := s.Players[(i+step)%len(s.Players)]
			if other.Tokens.Collaboration < 1 {
				continue
			}
			return Decision{game.StartTrade{
				From:    pl.ID,
				To:      other.ID,
				Offer:   catalog.Tokens{Funding: 1},
				Request: catalog.Tokens{Collaboration: 1},
			}, "swap surplus funding for collaboration"}
		}
	}
	return Decision{game.ResolveTrade{Close: true}, "no more useful trades"}
}
