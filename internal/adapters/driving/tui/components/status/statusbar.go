// Package status provides the status bar component for the TUI.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/keymap"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateRendering State = "rendering"
	StateError     State = "error"
	StateHelp      State = "help"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model
	state   State
	message string
	hints   string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Secondary)

	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		state:   StateReady,
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update handles spinner ticks; everything else arrives via Set methods.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// SetState sets the displayed state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// SetMessage sets the status message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// SetHints sets the keybinding hints on the right side.
func (s *Bar) SetHints(hints string) {
	s.hints = hints
}

// SetWidth sets the bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.styles.Help.Render(s.hints)

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state indicator and message.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateRendering:
		return s.spinner.View() + " " + s.styles.Normal.Render(s.message)
	case StateError:
		return s.styles.Error.Render("✗ " + s.message)
	case StateHelp:
		return s.styles.Muted.Render(s.message)
	default:
		if s.message == "" {
			return s.styles.Muted.Render("ready")
		}
		return s.styles.Normal.Render(s.message)
	}
}
