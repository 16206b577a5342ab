package game

import (
	"fmt"
	"maps"
	"slices"

	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/deck"
	"github.com/lox/publishorperish/internal/randutil"
	"github.com/lox/publishorperish/internal/scoring"
)

const (
	// DefaultTotalYears is the length of a standard game.
	DefaultTotalYears = 3

	// MinPlayers is the smallest supported table.
	MinPlayers = 2

	// StarterProjects is the number of research projects a player holds at
	// the start of every year.
	StarterProjects = 3

	fundingRowSize       = 5
	collaborationRowSize = 4
)

// Decision is a player's publish choice for the current year.
type Decision string

const (
	DecisionNone    Decision = ""
	DecisionPublish Decision = "publish"
	DecisionHold    Decision = "hold"
)

// Project is a research card plus the funding and collaboration attached
// to it. The research card's type is the project's progress type.
type Project struct {
	Research      catalog.Card  `json:"research"`
	Funding       *catalog.Card `json:"funding,omitempty"`
	Collaboration *catalog.Card `json:"collaboration,omitempty"`
}

// ID returns the research card id.
func (p Project) ID() string {
	return p.Research.ID
}

// Complete reports whether both funding and collaboration are attached.
func (p Project) Complete() bool {
	return p.Funding != nil && p.Collaboration != nil
}

// Scoring returns the scoring view of the project.
func (p Project) Scoring() scoring.Project {
	sp := scoring.Project{Progress: p.Research.Type}
	if p.Funding != nil {
		sp.Funding = p.Funding.Type
	}
	if p.Collaboration != nil {
		sp.Collaboration = p.Collaboration.Type
	}
	return sp
}

// Points returns the project's point value.
func (p Project) Points() int {
	return scoring.ProjectPoints(p.Scoring())
}

// Publication records one published project.
type Publication struct {
	Year      int          `json:"year"`
	ProjectID string       `json:"projectId"`
	Title     catalog.Name `json:"title"`
	Points    int          `json:"points"`
}

// YearResult is the scoring outcome of one year for one player.
type YearResult struct {
	Year   int            `json:"year"`
	Result scoring.Result `json:"result"`
}

// Player is one seat at the table.
type Player struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	DiceRoll     int                  `json:"diceRoll,omitempty"`
	Personality  *catalog.Personality `json:"personality,omitempty"`
	Character    *catalog.Character   `json:"character,omitempty"`
	Tokens       catalog.Tokens       `json:"tokens"`
	Projects     []Project            `json:"projects"`
	Published    []Publication        `json:"published"`
	Score        int                  `json:"score"`
	Publications map[scoring.Band]int `json:"publications"`
	CarryOver    int                  `json:"carryOver,omitempty"`
	Decision     Decision             `json:"decision,omitempty"`
	History      []YearResult         `json:"history"`
}

func (p Player) clone() Player {
	p.Projects = slices.Clone(p.Projects)
	p.Published = slices.Clone(p.Published)
	p.History = slices.Clone(p.History)
	p.Publications = maps.Clone(p.Publications)
	if p.Publications == nil {
		p.Publications = map[scoring.Band]int{}
	}
	return p
}

// IncompleteProjects returns the number of projects still missing a
// component.
func (p Player) IncompleteProjects() int {
	n := 0
	for _, pr := range p.Projects {
		if !pr.Complete() {
			n++
		}
	}
	return n
}

// TradeStatus is the lifecycle state of a trade offer.
type TradeStatus string

const (
	TradePending  TradeStatus = "pending"
	TradeAccepted TradeStatus = "accepted"
	TradeRejected TradeStatus = "rejected"
)

// Trade is a token trade offer made during the trading round.
type Trade struct {
	ID      string             `json:"id"`
	From    string             `json:"from"`
	To      string             `json:"to"`
	Offer   catalog.Tokens     `json:"offer"`
	Request catalog.Tokens     `json:"request"`
	Status  TradeStatus        `json:"status"`
	Reward  scoring.RewardType `json:"reward,omitempty"`
}

// Decks holds every deck in play.
type Decks struct {
	Personalities *deck.Deck[catalog.Personality]
	Characters    *deck.Deck[catalog.Character]
	Research      *deck.Deck[catalog.Card]
	Funding       *deck.Deck[catalog.Card]
	Collaboration *deck.Deck[catalog.Card]
	Setbacks      *deck.Deck[catalog.Card]
	Special       *deck.Deck[catalog.Card]
}

func (d Decks) clone(rng *randutil.LCG) Decks {
	return Decks{
		Personalities: d.Personalities.Clone(rng),
		Characters:    d.Characters.Clone(rng),
		Research:      d.Research.Clone(rng),
		Funding:       d.Funding.Clone(rng),
		Collaboration: d.Collaboration.Clone(rng),
		Setbacks:      d.Setbacks.Clone(rng),
		Special:       d.Special.Clone(rng),
	}
}

// State is an immutable snapshot of a game. Snapshots returned by the
// engine must not be modified; use Clone to derive a private copy.
type State struct {
	Phase         Phase
	Players       []Player
	CurrentPlayer int
	Year          int
	TotalYears    int
	Seed          string
	Decks         Decks
	RNG           *randutil.LCG
	Trades        []Trade
	NextTradeID   int

	// Winner is the winning player's id once ENDGAME has run.
	Winner string
}

// Clone returns a deep copy with its own generator and decks.
func (s *State) Clone() *State {
	rng := s.RNG.Clone()
	c := *s
	c.RNG = rng
	c.Decks = s.Decks.clone(rng)
	c.Trades = slices.Clone(s.Trades)
	c.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	return &c
}

// Player returns the player with the given id.
func (s *State) Player(id string) (Player, bool) {
	i := s.playerIndex(id)
	if i < 0 {
		return Player{}, false
	}
	return s.Players[i], true
}

// Current returns the player whose turn it is.
func (s *State) Current() Player {
	if s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players) {
		return Player{}
	}
	return s.Players[s.CurrentPlayer]
}

// WinnerPlayer returns the winner once decided.
func (s *State) WinnerPlayer() (Player, bool) {
	if s.Winner == "" {
		return Player{}, false
	}
	return s.Player(s.Winner)
}

// Leaders returns every player sharing the highest score, in turn order.
func (s *State) Leaders() []Player {
	best := -1
	var leaders []Player
	for _, p := range s.Players {
		switch {
		case p.Score > best:
			best = p.Score
			leaders = []Player{p}
		case p.Score == best:
			leaders = append(leaders, p)
		}
	}
	return leaders
}

// Trade returns the trade with the given id.
func (s *State) Trade(id string) (Trade, bool) {
	for _, t := range s.Trades {
		if t.ID == id {
			return t, true
		}
	}
	return Trade{}, false
}

// PendingTrades returns the offers still awaiting an answer.
func (s *State) PendingTrades() []Trade {
	var pending []Trade
	for _, t := range s.Trades {
		if t.Status == TradePending {
			pending = append(pending, t)
		}
	}
	return pending
}

// Allowed returns the actions legal in the snapshot's phase.
func (s *State) Allowed() []ActionType {
	return AllowedActions(s.Phase)
}

func (s *State) String() string {
	return fmt.Sprintf("year %d/%d phase %s players %d", s.Year, s.TotalYears, s.Phase, len(s.Players))
}

func (s *State) playerIndex(id string) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}

// nextWhere returns the first player index after from (wrapping) that
// satisfies pred, or from itself if none does.
func (s *State) nextWhere(from int, pred func(Player) bool) int {
	n := len(s.Players)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if pred(s.Players[i]) {
			return i
		}
	}
	return from
}

func (s *State) all(pred func(Player) bool) bool {
	for _, p := range s.Players {
		if !pred(p) {
			return false
		}
	}
	return true
}

func newPublicationCounts() map[scoring.Band]int {
	counts := make(map[scoring.Band]int, len(scoring.Bands))
	for _, b := range scoring.Bands {
		counts[b] = 0
	}
	return counts
}
