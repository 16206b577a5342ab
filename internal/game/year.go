package game

import (
	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/deck"
	"github.com/lox/publishorperish/internal/scoring"
)

func handleNextPhase(s *State, _ Action) (bool, error) {
	next, ok := nextInYear(s.Phase)
	if !ok || next == s.Phase {
		return false, nil
	}
	if s.Phase == PhaseProcessRound {
		allocate(s)
	}
	enterPhase(s, next)
	return true, nil
}

// enterPhase moves to p and applies its entry effects.
func enterPhase(s *State, p Phase) {
	s.Phase = p
	s.CurrentPlayer = 0
	switch p {
	case PhaseResearchIdeas:
		for i := range s.Players {
			pl := &s.Players[i]
			if missing := StarterProjects - len(pl.Projects); missing > 0 {
				for _, card := range s.Decks.Research.DrawMany(missing) {
					pl.Projects = append(pl.Projects, Project{Research: card})
				}
			}
			pl.Tokens.Funding += pl.CarryOver
			pl.CarryOver = 0
		}
	case PhaseFundingRound:
		s.Decks.Funding.RevealRow(fundingRowSize)
	case PhaseCollaborationRound:
		s.Decks.Collaboration.RevealRow(collaborationRowSize)
	}
}

// allocate hands out the public funding and collaboration rows. Players
// claim one card per turn in turn order, paying one matching token or,
// failing that, one special token. Each claim takes the row's most
// valuable card and attaches it to the player's first project missing
// that component.
func allocate(s *State) {
	claimRow(s, s.Decks.Funding, scoring.FundingPoints,
		func(p *Project) **catalog.Card { return &p.Funding },
		func(t *catalog.Tokens) *int { return &t.Funding })
	claimRow(s, s.Decks.Collaboration, scoring.CollaborationPoints,
		func(p *Project) **catalog.Card { return &p.Collaboration },
		func(t *catalog.Tokens) *int { return &t.Collaboration })
}

func claimRow(
	s *State,
	d *deck.Deck[catalog.Card],
	points func(string) int,
	slot func(*Project) **catalog.Card,
	token func(*catalog.Tokens) *int,
) {
	for {
		claimed := false
		for i := range s.Players {
			row := d.Revealed()
			if len(row) == 0 {
				return
			}
			pl := &s.Players[i]
			target := -1
			for j := range pl.Projects {
				if *slot(&pl.Projects[j]) == nil {
					target = j
					break
				}
			}
			if target < 0 {
				continue
			}
			switch {
			case *token(&pl.Tokens) > 0:
				*token(&pl.Tokens)--
			case pl.Tokens.Special > 0:
				pl.Tokens.Special--
			default:
				continue
			}
			best := 0
			for j, c := range row {
				if points(c.Type) > points(row[best].Type) {
					best = j
				}
			}
			card, _ := d.TakeFromRow(row[best].ID)
			*slot(&pl.Projects[target]) = &card
			claimed = true
		}
		if !claimed {
			return
		}
	}
}

func handlePublish(s *State, a Action) (bool, error) {
	pub := a.(Publish)
	i := s.playerIndex(pub.PlayerID)
	if i < 0 {
		return false, nil
	}
	s.Players[i].Decision = DecisionHold
	if pub.Publish {
		s.Players[i].Decision = DecisionPublish
	}
	if s.all(func(p Player) bool { return p.Decision != DecisionNone }) {
		s.Phase = PhaseYearEndScoring
		s.CurrentPlayer = 0
		return true, nil
	}
	s.CurrentPlayer = s.nextWhere(i, func(p Player) bool { return p.Decision == DecisionNone })
	return true, nil
}

func handleYearEnd(s *State, _ Action) (bool, error) {
	for i := range s.Players {
		pl := &s.Players[i]
		if pl.Decision == DecisionPublish {
			publish(s, pl)
		}
		pl.Decision = DecisionNone
	}
	s.Trades = nil

	if s.Year+1 <= s.TotalYears {
		s.Year++
		enterPhase(s, PhaseResearchIdeas)
		return true, nil
	}
	s.Phase = PhaseEndGame
	s.CurrentPlayer = 0
	return true, nil
}

// publish scores the player's complete projects and returns their cards to
// the decks. Incomplete projects stay in hand.
func publish(s *State, pl *Player) {
	projects := make([]scoring.Project, 0, len(pl.Projects))
	kept := make([]Project, 0, len(pl.Projects))
	for _, pr := range pl.Projects {
		projects = append(projects, pr.Scoring())
		if !pr.Complete() {
			kept = append(kept, pr)
			continue
		}
		pl.Published = append(pl.Published, Publication{
			Year:      s.Year,
			ProjectID: pr.ID(),
			Title:     pr.Research.Name,
			Points:    pr.Points(),
		})
		s.Decks.Research.Discard(pr.Research)
		s.Decks.Funding.Discard(*pr.Funding)
		s.Decks.Collaboration.Discard(*pr.Collaboration)
	}
	pl.Projects = kept

	result := scoring.YearEndScore(projects)
	ledger := scoring.Ledger{Score: pl.Score, Publications: pl.Publications}.Apply(result)
	pl.Score = ledger.Score
	pl.Publications = ledger.Publications
	pl.CarryOver = result.CarryOver
	pl.History = append(pl.History, YearResult{Year: s.Year, Result: result})
}

func handleEndGame(s *State, _ Action) (bool, error) {
	leaders := s.Leaders()
	if len(leaders) == 0 {
		return false, nil
	}
	if s.Winner == leaders[0].ID {
		return false, nil
	}
	s.Winner = leaders[0].ID
	return true, nil
}
