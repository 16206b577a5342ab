package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/publishorperish/internal/game"
)

// Passive takes the first card offered, never trades and always publishes.
type Passive struct {
	logger *log.Logger
}

func (p *Passive) Decide(s *game.State) (Decision, bool) {
	if d, ok := common(s); ok || s.Phase == game.PhaseEndGame {
		return d, ok
	}

	switch s.Phase {
	case game.PhasePersonalityDraft:
		row := s.Decks.Personalities.Revealed()
		return Decision{game.PickPersonality{PlayerID: s.Current().ID, PersonalityID: row[0].ID}, "first card"}, true
	case game.PhaseCharacterDraft:
		ids := s.UnassignedCharacters()
		row := s.Decks.Characters.Revealed()
		if len(ids) == 0 || len(row) == 0 {
			return Decision{game.DealStarters{}, "everyone has a character"}, true
		}
		return Decision{game.PickCharacter{PlayerID: ids[0], CharacterID: row[0].ID}, "first card"}, true
	case game.PhaseTradingRound:
		return Decision{game.ResolveTrade{Close: true}, "never trades"}, true
	case game.PhasePublishDecision:
		if pl, ok := undecided(s); ok {
			return Decision{game.Publish{PlayerID: pl.ID, Publish: true}, "always publishes"}, true
		}
	}
	p.logger.Warn("No decision", "phase", s.Phase)
	return Decision{}, false
}
