// Package tui plays a game against the computer in the terminal.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea model for one player's session.
type Model struct {
	svc     *app.Service
	session app.Session
	cursor  int
	err     string
}

// New starts a session on svc and returns a model showing it.
func New(svc *app.Service, name string, d ai.Difficulty, aiFirst bool) (Model, error) {
	gs, err := svc.CreateSession(name, d, aiFirst)
	if err != nil {
		return Model{}, err
	}
	return Model{svc: svc, session: *gs, cursor: 4}, nil
}

// Session returns the last snapshot the model rendered.
func (m Model) Session() app.Session { return m.session }

// Cursor returns the highlighted cell.
func (m Model) Cursor() int { return m.cursor }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k := key.String(); k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor >= 3 {
			m.cursor -= 3
		}
	case "down", "j":
		if m.cursor < 6 {
			m.cursor += 3
		}
	case "left", "h":
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%3 < 2 {
			m.cursor++
		}
	case "enter", " ":
		m = m.play(m.cursor)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.cursor = int(k[0] - '1')
		m = m.play(m.cursor)
	case "n":
		m = m.apply(m.svc.Reset(m.session.ID))
	case "d":
		m = m.apply(m.svc.SetDifficulty(m.session.ID, m.session.Difficulty.Next()))
	}
	return m, nil
}

func (m Model) play(cell int) Model {
	return m.apply(m.svc.Play(m.session.ID, cell))
}

func (m Model) apply(gs *app.Session, err error) Model {
	if gs != nil {
		m.session = *gs
	}
	m.err = ""
	if err != nil {
		m.err = errorText(err)
	}
	return m
}

func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrOccupied):
		return "That cell is taken."
	case errors.Is(err, domain.ErrGameOver):
		return "Game over. Press n for a new game."
	default:
		return err.Error()
	}
}

func (m Model) View() string {
	var sb strings.Builder
	s := m.session
	sb.WriteString(titleStyle.Render("Tic Tac Toe") + "\n\n")
	sb.WriteString(statusStyle.Render(s.Status()) + "\n\n")
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			i := r*3 + c
			mark := s.Game.Board[i].String()
			if mark == "" {
				mark = " "
			}
			if i == m.cursor {
				sb.WriteString(cursorStyle.Render("[" + mark + "]"))
			} else {
				fmt.Fprintf(&sb, " %s ", mark)
			}
			if c < 2 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
		if r < 2 {
			sb.WriteString("---+---+---\n")
		}
	}
	if m.err != "" {
		sb.WriteString("\n" + errStyle.Render(m.err) + "\n")
	}
	sb.WriteString("\nScoreboard\n")
	for _, e := range s.Ranking() {
		fmt.Fprintf(&sb, "  %-12s %d\n", e.Name, e.Wins)
	}
	fmt.Fprintf(&sb, "\nDifficulty: %s\n", s.Difficulty)
	sb.WriteString("\n" + helpStyle.Render("arrows/1-9 move, enter play, n new game, d difficulty, q quit") + "\n")
	return sb.String()
}
