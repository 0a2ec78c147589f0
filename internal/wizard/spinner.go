package wizard

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	taskGlyphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	taskLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	taskSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	taskFailureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// taskDoneMsg carries the outcome of the background call
type taskDoneMsg[T any] struct {
	value T
	err   error
}

// taskModel shows a spinner next to label until the call reports back or the
// user aborts with ctrl+c or esc.
type taskModel[T any] struct {
	label   string
	spinner spinner.Model
	value   T
	err     error
	settled bool
}

func newTaskModel[T any](label string) taskModel[T] {
	return taskModel[T]{
		label: label,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(taskGlyphStyle),
		),
	}
}

func (m taskModel[T]) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m taskModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.err = context.Canceled
			m.settled = true
			return m, tea.Quit
		}
		return m, nil

	case taskDoneMsg[T]:
		m.value = msg.value
		m.err = msg.err
		m.settled = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m taskModel[T]) View() string {
	if !m.settled {
		return m.spinner.View() + " " + taskLabelStyle.Render(m.label) + "\n"
	}
	return outcomeLine(m.label, m.err) + "\n"
}

func outcomeLine(label string, err error) string {
	if err != nil {
		return taskFailureStyle.Render("✗ " + label + " failed: " + err.Error())
	}
	return taskSuccessStyle.Render("✓ " + label + " complete")
}

// RunWithSpinner runs fn while showing label. Without a terminal it prints
// the label and the outcome as plain lines.
func RunWithSpinner[T any](ctx context.Context, label string, fn func(context.Context) (T, error)) (T, error) {
	if !IsTTY() {
		return runPlain(ctx, os.Stdout, label, fn)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newTaskModel[T](label), tea.WithContext(ctx))
	go func() {
		value, err := fn(ctx)
		if ctx.Err() == nil {
			p.Send(taskDoneMsg[T]{value: value, err: err})
		}
	}()

	final, err := p.Run()
	var zero T
	if err != nil {
		return zero, err
	}
	m, ok := final.(taskModel[T])
	if !ok {
		return zero, fmt.Errorf("unexpected model type %T", final)
	}
	return m.value, m.err
}

func runPlain[T any](ctx context.Context, w io.Writer, label string, fn func(context.Context) (T, error)) (T, error) {
	fmt.Fprintln(w, taskLabelStyle.Render(label+"..."))
	value, err := fn(ctx)
	fmt.Fprintln(w, outcomeLine(label, err))
	return value, err
}
