package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/gh-runview/internal/tui/theme"
)

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

type Toast struct {
	ID      int
	Message string
	Level   ToastLevel
}

// ToastExpiredMsg removes the toast with the given ID
type ToastExpiredMsg struct {
	ID int
}

// Toaster keeps transient notifications; the newest one is shown.
type Toaster struct {
	toasts []Toast
	nextID int
	width  int
	theme  *theme.Theme
}

func NewToaster(t *theme.Theme) Toaster {
	return Toaster{theme: t}
}

func (t *Toaster) SetWidth(width int) {
	t.width = width
}

func (t *Toaster) Show(message string, level ToastLevel, duration time.Duration) tea.Cmd {
	t.nextID++
	id := t.nextID
	t.toasts = append(t.toasts, Toast{ID: id, Message: message, Level: level})

	return tea.Tick(duration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

func (t *Toaster) Info(message string) tea.Cmd {
	return t.Show(message, ToastInfo, 3*time.Second)
}

func (t *Toaster) Success(message string) tea.Cmd {
	return t.Show(message, ToastSuccess, 3*time.Second)
}

func (t *Toaster) Warning(message string) tea.Cmd {
	return t.Show(message, ToastWarning, 4*time.Second)
}

func (t *Toaster) Error(message string) tea.Cmd {
	return t.Show(message, ToastError, 5*time.Second)
}

func (t *Toaster) Update(msg tea.Msg) {
	expired, ok := msg.(ToastExpiredMsg)
	if !ok {
		return
	}
	for i, toast := range t.toasts {
		if toast.ID == expired.ID {
			t.toasts = append(t.toasts[:i], t.toasts[i+1:]...)
			return
		}
	}
}

func (t *Toaster) HasToasts() bool {
	return len(t.toasts) > 0
}

// Current returns the toast on screen, if any
func (t *Toaster) Current() (Toast, bool) {
	if len(t.toasts) == 0 {
		return Toast{}, false
	}
	return t.toasts[len(t.toasts)-1], true
}

func (t *Toaster) View() string {
	toast, ok := t.Current()
	if !ok {
		return ""
	}

	var style lipgloss.Style
	var icon string
	switch toast.Level {
	case ToastSuccess:
		style, icon = t.theme.StatusSuccess, t.theme.Icons.Success
	case ToastWarning:
		style, icon = t.theme.StatusWarning, t.theme.Icons.InProgress
	case ToastError:
		style, icon = t.theme.StatusError, t.theme.Icons.Error
	default:
		style, icon = t.theme.Text, "i"
	}

	rendered := style.Bold(true).Padding(0, 2).Render(icon + " " + toast.Message)
	if t.width <= 0 {
		return rendered
	}
	return lipgloss.PlaceHorizontal(t.width, lipgloss.Right, rendered)
}
