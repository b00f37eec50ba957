package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snekgrid/game"
	"github.com/brensch/snekgrid/input"
	"github.com/brensch/snekgrid/render"
	"github.com/brensch/snekgrid/session"
)

// steerer is the part of session.Session the model drives.
type steerer interface {
	Start()
	Steer(game.Direction)
}

type model struct {
	sess    steerer
	updates <-chan session.Update
	styles  *render.Styles

	state   game.GameState
	control string
	score   int
	ready   bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(render.SnakeFill))
	controlStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

func newModel(sess steerer, updates <-chan session.Update, styles *render.Styles) model {
	return model{
		sess:    sess,
		updates: updates,
		styles:  styles,
		control: session.ControlStart,
	}
}

func waitForUpdate(updates <-chan session.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return u
	}
}

func (m model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch {
		case input.IsQuit(key):
			return m, tea.Quit
		case input.IsStart(key):
			m.sess.Start()
		default:
			if d, ok := input.Direction(key); ok {
				m.sess.Steer(d)
			}
		}
		return m, nil

	case session.Update:
		m.state = msg.State
		m.control = msg.Control
		m.ready = true
		if msg.ScoreChanged {
			m.score = msg.State.Score
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	if !m.ready {
		return "Loading...\n"
	}

	var sb strings.Builder
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("SNAKE"),
		fmt.Sprintf("   Score: %d   Speed: %d   ", m.score, m.state.Speed),
		controlStyle.Render(m.control),
	)
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(render.Board(m.state, m.styles))
	sb.WriteString("\n")
	if m.state.Status == game.StatusOver && m.state.Cause != game.CauseNone {
		sb.WriteString(fmt.Sprintf("Hit: %s\n", m.state.Cause))
	}
	sb.WriteString(helpStyle.Render("arrows: steer   enter/space: start   q: quit"))
	sb.WriteString("\n")
	return sb.String()
}
