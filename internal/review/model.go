// Package review implements the interactive candidate review TUI.
// It steps through promotion candidates (patterns not yet promoted and
// not dismissed) and lets the user promote or dismiss each one.
package review

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/runger/skillforge/internal/pattern"
)

// Decider executes review decisions against the store. It is an
// interface so the model can be driven in tests without a real store.
type Decider interface {
	// Promote materializes the pattern as a skill and returns the
	// artifact path.
	Promote(ctx context.Context, rec pattern.Record) (string, error)

	// Dismiss marks the pattern as declined.
	Dismiss(ctx context.Context, id int64) error
}

// actionDoneMsg is sent when an async promote/dismiss completes.
type actionDoneMsg struct {
	id        int64
	skillPath string
	dismissed bool
	err       error
}

// keyMap defines the review key bindings.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Promote key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Promote, k.Dismiss, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Promote, k.Dismiss, k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Promote: key.NewBinding(key.WithKeys("p", "enter"), key.WithHelp("p", "promote")),
		Dismiss: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	countStyle    = lipgloss.NewStyle().Faint(true)
	statusStyle   = lipgloss.NewStyle().Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Model is the Bubble Tea model for the review TUI.
type Model struct {
	items   []pattern.Record
	cursor  int
	decider Decider
	keys    keyMap
	help    help.Model
	status  string
	busy    bool
	width   int
}

// NewModel creates a review model over the given candidates.
func NewModel(items []pattern.Record, decider Decider) Model {
	return Model{
		items:   items,
		decider: decider,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case actionDoneMsg:
		return m.handleActionDone(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		// A decision is in flight; only quitting is allowed.
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Promote):
		if len(m.items) == 0 {
			return m, nil
		}
		rec := m.items[m.cursor]
		m.busy = true
		return m, func() tea.Msg {
			path, err := m.decider.Promote(context.Background(), rec)
			return actionDoneMsg{id: rec.ID, skillPath: path, err: err}
		}

	case key.Matches(msg, m.keys.Dismiss):
		if len(m.items) == 0 {
			return m, nil
		}
		rec := m.items[m.cursor]
		m.busy = true
		return m, func() tea.Msg {
			err := m.decider.Dismiss(context.Background(), rec.ID)
			return actionDoneMsg{id: rec.ID, dismissed: true, err: err}
		}
	}

	return m, nil
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.err != nil {
		m.status = errorStyle.Render(fmt.Sprintf("error: %v", msg.err))
		return m, nil
	}

	if msg.dismissed {
		m.status = statusStyle.Render("dismissed")
	} else {
		m.status = statusStyle.Render("created skill: " + msg.skillPath)
	}

	m.items = removeByID(m.items, msg.id)
	if m.cursor >= len(m.items) && m.cursor > 0 {
		m.cursor--
	}
	if len(m.items) == 0 {
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if len(m.items) == 0 {
		return "No patterns to review.\n" + m.status + "\n"
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	s := titleStyle.Render("Review patterns") + "\n\n"
	for i, rec := range m.items {
		line := fmt.Sprintf("%s %s",
			countStyle.Render(fmt.Sprintf("%3d×", rec.Count)),
			truncateWidth(rec.Situation, width-8),
		)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		s += line + "\n"
	}

	s += "\n" + truncateWidth(m.items[m.cursor].Instruction, width-2) + "\n"
	if m.status != "" {
		s += m.status + "\n"
	}
	s += m.help.View(m.keys)
	return s
}

// removeByID drops the record with the given id, preserving order.
func removeByID(items []pattern.Record, id int64) []pattern.Record {
	out := items[:0]
	for _, rec := range items {
		if rec.ID != id {
			out = append(out, rec)
		}
	}
	return out
}

// truncateWidth caps a string at a display width, measured in terminal
// cells rather than runes so wide characters don't overflow the row.
func truncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
