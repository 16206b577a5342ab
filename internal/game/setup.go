package game

import (
	"fmt"
	"sort"
)

func handleRollAll(s *State, _ Action) (bool, error) {
	for i := range s.Players {
		s.Players[i].DiceRoll = s.RNG.RollDice()
	}
	s.Phase = PhaseDiceOrder
	return true, nil
}

func handleSetOrder(s *State, a Action) (bool, error) {
	ids := a.(SetOrder).PlayerIDs
	if len(ids) != len(s.Players) {
		return false, fmt.Errorf("%w: order has %d ids for %d players", ErrInvalidAction, len(ids), len(s.Players))
	}
	ordered := make([]Player, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		i := s.playerIndex(id)
		if i < 0 || seen[id] {
			return false, fmt.Errorf("%w: order is not a permutation of the players (%q)", ErrInvalidAction, id)
		}
		seen[id] = true
		ordered = append(ordered, s.Players[i])
	}
	s.Players = ordered
	startPersonalityDraft(s)
	return true, nil
}

func handleOrderByRoll(s *State, _ Action) (bool, error) {
	sort.SliceStable(s.Players, func(i, j int) bool {
		return s.Players[i].DiceRoll > s.Players[j].DiceRoll
	})
	startPersonalityDraft(s)
	return true, nil
}

func startPersonalityDraft(s *State) {
	s.CurrentPlayer = 0
	s.Decks.Personalities.RevealRow(len(s.Players) + 1)
	s.Phase = PhasePersonalityDraft
}

func handlePickPersonality(s *State, a Action) (bool, error) {
	pick := a.(PickPersonality)
	i := s.playerIndex(pick.PlayerID)
	if i < 0 || s.Players[i].Personality != nil {
		return false, nil
	}
	card, ok := s.Decks.Personalities.TakeFromRow(pick.PersonalityID)
	if !ok {
		return false, nil
	}
	s.Players[i].Personality = &card

	if s.all(func(p Player) bool { return p.Personality != nil }) {
		s.Decks.Personalities.RevealRow(0)
		s.Decks.Characters.RevealRow(len(s.Players) + 1)
		s.CurrentPlayer = 0
		s.Phase = PhaseCharacterDraft
		return true, nil
	}
	s.CurrentPlayer = s.nextWhere(i, func(p Player) bool { return p.Personality == nil })
	return true, nil
}

func handlePickCharacter(s *State, a Action) (bool, error) {
	pick := a.(PickCharacter)
	i := s.playerIndex(pick.PlayerID)
	if i < 0 || s.Players[i].Character != nil {
		return false, nil
	}
	card, ok := s.Decks.Characters.TakeFromRow(pick.CharacterID)
	if !ok {
		return false, nil
	}
	s.Players[i].Character = &card
	s.Players[i].Tokens = card.Tokens()
	return true, nil
}

func handleDealStarters(s *State, _ Action) (bool, error) {
	s.Decks.Characters.RevealRow(0)
	for i := range s.Players {
		for _, card := range s.Decks.Research.DrawMany(StarterProjects) {
			s.Players[i].Projects = append(s.Players[i].Projects, Project{Research: card})
		}
	}
	s.CurrentPlayer = 0
	s.Phase = PhaseYearLoop
	return true, nil
}

// UnassignedCharacters returns the ids of players still without a
// character, in turn order.
func (s *State) UnassignedCharacters() []string {
	var ids []string
	for _, p := range s.Players {
		if p.Character == nil {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
