package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/gh-runview/internal/tui/theme"
)

// Spinner is the loading line: an animated glyph and a label.
type Spinner struct {
	model  spinner.Model
	active bool
	label  string
	theme  *theme.Theme
}

func NewSpinner(t *theme.Theme) Spinner {
	m := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(t.Colors.Primary).Bold(true)),
	)
	return Spinner{model: m, theme: t}
}

// Start activates the spinner. The returned command must be run for the
// animation to advance.
func (s *Spinner) Start(label string) tea.Cmd {
	s.label = label
	if s.active {
		return nil
	}
	s.active = true
	return s.model.Tick
}

func (s *Spinner) Stop() {
	s.active = false
	s.label = ""
}

func (s *Spinner) IsActive() bool {
	return s.active
}

// Update advances the animation. Ticks for another spinner or after Stop
// are dropped so the tick chain ends.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !s.active || tick.ID != s.model.ID() {
		return nil
	}
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return cmd
}

func (s *Spinner) View() string {
	if !s.active {
		return ""
	}
	return s.model.View() + " " + s.theme.TextDim.Render(s.label)
}
