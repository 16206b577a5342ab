// Package tui is the interactive terminal front end. One seat is played by
// a human through typed commands; the rest are driven by a bot policy.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/publishorperish/internal/bot"
	"github.com/lox/publishorperish/internal/game"
	"github.com/lox/publishorperish/internal/store"
)

const sidebarMinWidth = 32

// Model is the Bubble Tea model for a local game.
type Model struct {
	store  *store.Store
	logger *log.Logger
	ctx    context.Context

	human           string
	policy          bot.Policy
	autoplayEnabled bool

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model
	help        help.Model
	keys        keyMap

	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	width       int
	height      int
	initialized bool
}

// Option configures a Model.
type Option func(*Model)

// WithHuman sets the player id typed commands act for.
func WithHuman(id string) Option {
	return func(m *Model) { m.human = id }
}

// WithPolicy sets the policy for the other seats. With auto set the bots
// answer after every human action.
func WithPolicy(p bot.Policy, auto bool) Option {
	return func(m *Model) {
		m.policy = p
		m.autoplayEnabled = auto
	}
}

// WithLogger sets the logger. The TUI owns the terminal, so it should not
// write to stdout or stderr.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithContext sets the context used for saves.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// New creates a model over st.
func New(st *store.Store, opts ...Option) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Type a command (help for a list)"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		store:       st,
		human:       "player-0",
		logViewport: vp,
		actionInput: ti,
		help:        help.New(),
		keys:        defaultKeyMap(),
		focusedPane: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	m.logger = m.logger.WithPrefix("tui")
	m.AddLogEntry(HeaderStyle.Render(" Publish or Perish "))
	m.AddLogEntry(InfoStyle.Render("Type help for commands"))
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, m *Model) error {
	if m.ctx == nil {
		m.ctx = ctx
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// AddLogEntry appends a line to the game log and follows it.
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

// GameLog returns the log lines.
func (m *Model) GameLog() []string {
	return m.gameLog
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			m.logger.Error("Save failed", "error", msg.err)
			m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Save failed: %v", msg.err)))
		} else {
			m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("Saved to slot %s", m.store.Slot())))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case key.Matches(msg, m.keys.Focus):
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case key.Matches(msg, m.keys.Undo):
			return m, m.runCommand("undo")
		case key.Matches(msg, m.keys.Redo):
			return m, m.runCommand("redo")
		case key.Matches(msg, m.keys.Save):
			return m, m.runCommand("save")
		case key.Matches(msg, m.keys.Auto):
			return m, m.runCommand("auto")
		case key.Matches(msg, m.keys.Submit):
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if input != "" {
					m.AddLogEntry(InfoStyle.Render("> " + input))
				}
				cmds = append(cmds, m.runCommand(input))
			}
		case key.Matches(msg, m.keys.ScrollUp):
			m.logViewport.HalfPageUp()
		case key.Matches(msg, m.keys.ScrollDn):
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), sidebarMinWidth)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the phase, the players and any revealed row.
func (m *Model) renderSidebarPane() string {
	s := m.store.State()
	if s == nil {
		return WarningStyle.Render("No game loaded")
	}

	var b strings.Builder
	b.WriteString(PhaseStyle.Render(string(s.Phase)))
	fmt.Fprintf(&b, "  Year %d/%d\n\n", s.Year, s.TotalYears)

	for i, p := range s.Players {
		style := PlayerInfoStyle
		marker := "  "
		if i == s.CurrentPlayer {
			style = CurrentPlayerStyle
			marker = "> "
		}
		name := p.Name
		if p.ID == m.human {
			name += " (you)"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d. %s", marker, i+1, name)))
		b.WriteString("\n")
		fmt.Fprintf(&b, "     score %d  %s\n", p.Score, p.Tokens)
		complete := 0
		for _, pr := range p.Projects {
			if pr.Complete() {
				complete++
			}
		}
		fmt.Fprintf(&b, "     projects %d/%d", complete, len(p.Projects))
		if p.Decision != game.DecisionNone {
			fmt.Fprintf(&b, "  %s", p.Decision)
		}
		b.WriteString("\n")
	}

	if row := m.revealedRow(s); len(row) > 0 {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Revealed:"))
		b.WriteString("\n")
		for i, name := range row {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, CardStyle.Render(name))
		}
	}

	if pending := s.PendingTrades(); len(pending) > 0 {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Pending trades:"))
		b.WriteString("\n")
		for _, t := range pending {
			fmt.Fprintf(&b, "  %s %s→%s %s for %s\n", t.ID, t.From, t.To, t.Offer, t.Request)
		}
	}

	if w, ok := s.WinnerPlayer(); ok {
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render(fmt.Sprintf("Winner: %s (%d)", w.Name, w.Score)))
	}
	return b.String()
}

func (m *Model) revealedRow(s *game.State) []string {
	var names []string
	switch s.Phase {
	case game.PhasePersonalityDraft:
		for _, c := range s.Decks.Personalities.Revealed() {
			names = append(names, c.Name.String())
		}
	case game.PhaseCharacterDraft:
		for _, c := range s.Decks.Characters.Revealed() {
			names = append(names, c.Name.String())
		}
	case game.PhaseFundingRound, game.PhaseCollaborationRound, game.PhaseProcessRound:
		for _, c := range s.Decks.Funding.Revealed() {
			names = append(names, fmt.Sprintf("%s (%d)", c.Name, c.Points))
		}
		for _, c := range s.Decks.Collaboration.Revealed() {
			names = append(names, fmt.Sprintf("%s (%d)", c.Name, c.Points))
		}
	}
	return names
}

// renderActionPane renders the allowed actions, the input and key help.
func (m *Model) renderActionPane() string {
	var b strings.Builder
	if s := m.store.State(); s != nil {
		var allowed []string
		for _, t := range s.Allowed() {
			allowed = append(allowed, "["+strings.ToLower(string(t))+"]")
		}
		if len(allowed) == 0 {
			allowed = append(allowed, "[game over]")
		}
		b.WriteString(ActionsStyle.Render(strings.Join(allowed, " ")))
		if m.store.Dirty() {
			b.WriteString(WarningStyle.Render("  unsaved"))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}
