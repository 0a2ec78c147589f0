package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Cloudsky01/gh-runview/internal/tui/theme"
)

// StatusBar shows where the user is and what the app is doing
type StatusBar struct {
	width           int
	repository      string
	crumbs          []string
	loading         bool
	autoRefresh     bool
	refreshInterval int
	updatedAt       time.Time
	theme           *theme.Theme
}

func NewStatusBar(t *theme.Theme) StatusBar {
	return StatusBar{theme: t}
}

func (s *StatusBar) SetSize(width int) {
	s.width = width
}

func (s *StatusBar) SetRepository(repo string) {
	s.repository = repo
}

// SetCrumbs sets the breadcrumb after the repository, e.g. "Runs", "#42"
func (s *StatusBar) SetCrumbs(crumbs ...string) {
	s.crumbs = crumbs
}

func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

func (s *StatusBar) SetRefreshStatus(enabled bool, interval int) {
	s.autoRefresh = enabled
	s.refreshInterval = interval
}

// SetUpdated records when the visible data was fetched
func (s *StatusBar) SetUpdated(at time.Time) {
	s.updatedAt = at
}

func (s *StatusBar) breadcrumb() string {
	parts := make([]string, 0, len(s.crumbs)+1)
	if s.repository != "" {
		parts = append(parts, s.repository)
	}
	parts = append(parts, s.crumbs...)
	return strings.Join(parts, " > ")
}

func (s *StatusBar) status(now time.Time) string {
	var parts []string

	if s.loading {
		parts = append(parts, s.theme.StatusInProgress.Render(s.theme.Icons.InProgress+" Loading"))
	} else if !s.updatedAt.IsZero() {
		parts = append(parts, s.theme.TextMuted.Render("updated "+humanize.RelTime(s.updatedAt, now, "ago", "from now")))
	}

	if s.refreshInterval > 0 {
		symbol, style := s.theme.Icons.Error, s.theme.StatusError
		if s.autoRefresh {
			symbol, style = s.theme.Icons.Success, s.theme.StatusSuccess
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s Auto: %ds", symbol, s.refreshInterval)))
	}

	return strings.Join(parts, " | ")
}

func (s *StatusBar) View(now time.Time) string {
	breadcrumb := s.breadcrumb()
	status := s.status(now)

	spacer := s.width - lipgloss.Width(breadcrumb) - lipgloss.Width(status) - 2
	var content string
	if spacer > 0 {
		content = s.theme.Breadcrumb.Render(breadcrumb) + strings.Repeat(" ", spacer) + status
	} else {
		content = s.theme.Breadcrumb.Render(breadcrumb) + " " + status
	}

	style := s.theme.StatusBar
	if s.width > 0 {
		style = style.Width(s.width)
	}
	return style.Render(content)
}
