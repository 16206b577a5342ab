package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/game"
	"github.com/lox/publishorperish/internal/scoring"
)

const maxAutoSteps = 1000

var errUsage = errors.New("usage")

// savedMsg reports the outcome of an asynchronous save.
type savedMsg struct {
	err error
}

var commandHelp = []string{
	"roll | order [ids...] | pick N | deal",
	"next | trade SEAT GIVE GET | accept ID [reward] | reject ID | close",
	"publish | hold | end | undo | redo | save | auto | help | quit",
}

// runCommand handles one line typed into the input.
func (m *Model) runCommand(input string) tea.Cmd {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return nil
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "quit", "q":
		m.quitting = true
		return tea.Quit
	case "help", "h":
		for _, line := range commandHelp {
			m.AddLogEntry(InfoStyle.Render(line))
		}
		return nil
	case "undo", "u":
		if _, ok := m.store.Undo(); !ok {
			m.AddLogEntry(WarningStyle.Render("Nothing to undo"))
			return nil
		}
		m.AddLogEntry(InfoStyle.Render("Undid last action"))
		return nil
	case "redo":
		if _, ok := m.store.Redo(); !ok {
			m.AddLogEntry(WarningStyle.Render("Nothing to redo"))
			return nil
		}
		m.AddLogEntry(InfoStyle.Render("Redid action"))
		return nil
	case "save", "s":
		return m.save()
	case "auto", "a":
		m.autoplay(true)
		return nil
	}

	state := m.store.State()
	if state == nil {
		m.AddLogEntry(ErrorStyle.Render("No game in progress"))
		return nil
	}
	action, err := m.parseAction(state, cmd, args)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		return nil
	}
	if m.dispatch(action) && m.autoplayEnabled {
		m.autoplay(false)
	}
	return nil
}

func (m *Model) parseAction(s *game.State, cmd string, args []string) (game.Action, error) {
	switch cmd {
	case "roll", "r":
		return game.RollAll{}, nil

	case "order", "o":
		if len(args) == 0 {
			return game.OrderByRoll{}, nil
		}
		ids := make([]string, len(args))
		for i, a := range args {
			id, err := m.playerRef(s, a)
			if err != nil {
				return nil, err
			}
			ids[i] = id
		}
		return game.SetOrder{PlayerIDs: ids}, nil

	case "pick", "p":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: pick N", errUsage)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: pick N, where N is a card number", errUsage)
		}
		switch s.Phase {
		case game.PhasePersonalityDraft:
			row := s.Decks.Personalities.Revealed()
			if n > len(row) {
				return nil, fmt.Errorf("no personality %d", n)
			}
			return game.PickPersonality{PlayerID: s.Current().ID, PersonalityID: row[n-1].ID}, nil
		case game.PhaseCharacterDraft:
			row := s.Decks.Characters.Revealed()
			ids := s.UnassignedCharacters()
			if n > len(row) || len(ids) == 0 {
				return nil, fmt.Errorf("no character %d", n)
			}
			return game.PickCharacter{PlayerID: ids[0], CharacterID: row[n-1].ID}, nil
		}
		return nil, fmt.Errorf("nothing to pick in %s", s.Phase)

	case "deal", "d":
		return game.DealStarters{}, nil

	case "next", "n":
		return game.NextPhase{}, nil

	case "trade", "t":
		if len(args) != 3 {
			return nil, fmt.Errorf("%w: trade SEAT GIVE GET, e.g. trade 2 funding collab", errUsage)
		}
		to, err := m.playerRef(s, args[0])
		if err != nil {
			return nil, err
		}
		give, err := parseToken(args[1])
		if err != nil {
			return nil, err
		}
		get, err := parseToken(args[2])
		if err != nil {
			return nil, err
		}
		return game.StartTrade{From: m.human, To: to, Offer: give, Request: get}, nil

	case "accept":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("%w: accept ID [funding|collaboration|special|card]", errUsage)
		}
		rt := game.ResolveTrade{TradeID: tradeRef(args[0]), Accept: true}
		if len(args) == 2 {
			rt.Reward = scoring.RewardType(args[1])
		}
		return rt, nil

	case "reject":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: reject ID", errUsage)
		}
		return game.ResolveTrade{TradeID: tradeRef(args[0])}, nil

	case "close", "c":
		return game.ResolveTrade{Close: true}, nil

	case "publish", "hold":
		return game.Publish{PlayerID: m.publisher(s), Publish: cmd == "publish"}, nil

	case "end", "e":
		if s.Phase == game.PhaseEndGame {
			return game.EndGame{}, nil
		}
		return game.YearEnd{}, nil
	}
	return nil, fmt.Errorf("unknown command %q, type help", cmd)
}

// playerRef accepts a player id or a 1-based seat in turn order.
func (m *Model) playerRef(s *game.State, ref string) (string, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(s.Players) {
			return "", fmt.Errorf("no seat %d", n)
		}
		return s.Players[n-1].ID, nil
	}
	if _, ok := s.Player(ref); !ok {
		return "", fmt.Errorf("no player %q", ref)
	}
	return ref, nil
}

func tradeRef(ref string) string {
	if _, err := strconv.Atoi(ref); err == nil {
		return "trade-" + ref
	}
	return ref
}

func parseToken(kind string) (catalog.Tokens, error) {
	switch kind {
	case "funding", "f":
		return catalog.Tokens{Funding: 1}, nil
	case "collaboration", "collab", "c":
		return catalog.Tokens{Collaboration: 1}, nil
	case "special", "s":
		return catalog.Tokens{Special: 1}, nil
	case "none", "-":
		return catalog.Tokens{}, nil
	}
	return catalog.Tokens{}, fmt.Errorf("unknown token kind %q", kind)
}

// publisher is the human while undecided, otherwise the next undecided
// player.
func (m *Model) publisher(s *game.State) string {
	if p, ok := s.Player(m.human); ok && p.Decision == game.DecisionNone {
		return p.ID
	}
	for _, p := range s.Players {
		if p.Decision == game.DecisionNone {
			return p.ID
		}
	}
	return m.human
}

// dispatch applies action and logs the outcome. It reports whether the
// state changed.
func (m *Model) dispatch(action game.Action) bool {
	before := m.store.State()
	after, err := m.store.Dispatch(action)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("%s: %v", action.Type(), err)))
		return false
	}
	if after == before {
		m.AddLogEntry(WarningStyle.Render(fmt.Sprintf("%s had no effect", action.Type())))
		return false
	}
	m.AddLogEntry(describe(before, after, action))
	return true
}

// humanTurn reports whether the next decision belongs to the human seat.
func (m *Model) humanTurn(s *game.State) bool {
	switch s.Phase {
	case game.PhasePersonalityDraft:
		return s.Current().ID == m.human
	case game.PhaseCharacterDraft:
		ids := s.UnassignedCharacters()
		return len(ids) > 0 && ids[0] == m.human
	case game.PhaseTradingRound:
		return true
	case game.PhasePublishDecision:
		p, ok := s.Player(m.human)
		return ok && p.Decision == game.DecisionNone
	}
	return false
}

// autoplay lets the bot policy act. With force set the policy takes the
// first decision even when it belongs to the human seat. It stops as soon
// as the human seat has a decision to make.
func (m *Model) autoplay(force bool) {
	if m.policy == nil {
		return
	}
	for i := range maxAutoSteps {
		s := m.store.State()
		if s == nil || ((i > 0 || !force) && m.humanTurn(s)) {
			return
		}
		d, ok := m.policy.Decide(s)
		if !ok {
			return
		}
		m.logger.Debug("bot decision", "action", d.Action.Type(), "reason", d.Reasoning)
		if !m.dispatch(d.Action) {
			return
		}
	}
}

func (m *Model) save() tea.Cmd {
	ctx := m.context()
	st := m.store
	return func() tea.Msg {
		return savedMsg{err: st.Save(ctx)}
	}
}

func (m *Model) context() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}

// describe renders one log line for an applied action.
func describe(before, after *game.State, action game.Action) string {
	line := fmt.Sprintf("Y%d %s", after.Year, action.Type())
	switch a := action.(type) {
	case game.RollAll:
		var rolls []string
		for _, p := range after.Players {
			rolls = append(rolls, fmt.Sprintf("%s %d", p.Name, p.DiceRoll))
		}
		line += ": " + strings.Join(rolls, ", ")
	case game.PickPersonality:
		if p, ok := after.Player(a.PlayerID); ok && p.Personality != nil {
			line += fmt.Sprintf(": %s is %s", p.Name, CardStyle.Render(p.Personality.Name.EN))
		}
	case game.PickCharacter:
		if p, ok := after.Player(a.PlayerID); ok && p.Character != nil {
			line += fmt.Sprintf(": %s plays %s (%s)", p.Name, CardStyle.Render(p.Character.Name.EN), p.Tokens)
		}
	case game.StartTrade:
		line += fmt.Sprintf(": %s offers %s to %s for %s", a.From, a.Offer, a.To, a.Request)
	case game.ResolveTrade:
		switch {
		case a.Close:
			line += ": trading closed"
		case a.Accept:
			line += ": " + a.TradeID + " accepted"
		default:
			line += ": " + a.TradeID + " rejected"
		}
	case game.Publish:
		verb := "holds"
		if a.Publish {
			verb = "publishes"
		}
		if p, ok := after.Player(a.PlayerID); ok {
			line += fmt.Sprintf(": %s %s", p.Name, verb)
		}
	case game.YearEnd:
		var scores []string
		for _, p := range after.Players {
			scores = append(scores, fmt.Sprintf("%s %d", p.Name, p.Score))
		}
		line += ": " + strings.Join(scores, ", ")
	case game.EndGame:
		if w, ok := after.WinnerPlayer(); ok {
			return SuccessStyle.Render(fmt.Sprintf("%s wins with %d points", w.Name, w.Score))
		}
	}
	if before.Phase != after.Phase {
		line += " " + PhaseStyle.Render("→ "+string(after.Phase))
	}
	return GameLogStyle.Render(line)
}
