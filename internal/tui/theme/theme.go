// Package theme provides centralized styling for the TUI application.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors defines the color palette for the application
type Colors struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Text      lipgloss.Color
	TextDim   lipgloss.Color
	TextMuted lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	BgSecondary lipgloss.Color
	BgHighlight lipgloss.Color

	Border       lipgloss.Color
	BorderActive lipgloss.Color
}

// Theme contains all styling for the application
type Theme struct {
	Colors Colors

	Title       lipgloss.Style
	TitleActive lipgloss.Style
	Link        lipgloss.Style
	Label       lipgloss.Style
	Text        lipgloss.Style
	TextDim     lipgloss.Style
	TextMuted   lipgloss.Style
	Selected    lipgloss.Style
	StatusBar   lipgloss.Style
	Breadcrumb  lipgloss.Style
	Panel       lipgloss.Style

	// Job headers are styled by outcome only: success or anything else
	JobSuccess lipgloss.Style
	JobFailed  lipgloss.Style

	StatusSuccess    lipgloss.Style
	StatusWarning    lipgloss.Style
	StatusError      lipgloss.Style
	StatusInProgress lipgloss.Style

	Icons IconSet
}

// IconSet defines the icons used throughout the app
type IconSet struct {
	Success    string
	Error      string
	InProgress string
	Pending    string
	Expanded   string
	Collapsed  string
	Step       string
	Back       string
	Selected   string
	Unselected string
}

func DefaultColors() Colors {
	return Colors{
		Primary:   lipgloss.Color("39"),
		Secondary: lipgloss.Color("33"),
		Accent:    lipgloss.Color("141"),

		Text:      lipgloss.Color("252"),
		TextDim:   lipgloss.Color("245"),
		TextMuted: lipgloss.Color("240"),

		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("214"),
		Error:   lipgloss.Color("196"),

		BgSecondary: lipgloss.Color("236"),
		BgHighlight: lipgloss.Color("238"),

		Border:       lipgloss.Color("240"),
		BorderActive: lipgloss.Color("39"),
	}
}

func DefaultIcons() IconSet {
	return IconSet{
		Success:    "✓",
		Error:      "✗",
		InProgress: "⟳",
		Pending:    "○",
		Expanded:   "▾",
		Collapsed:  "▸",
		Step:       "•",
		Back:       "<",
		Selected:   "›",
		Unselected: " ",
	}
}

// Default returns the default theme
func Default() *Theme {
	colors := DefaultColors()

	return &Theme{
		Colors: colors,
		Icons:  DefaultIcons(),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Primary),

		TitleActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Text).
			Background(colors.Primary).
			Padding(0, 1),

		Link: lipgloss.NewStyle().
			Foreground(colors.Primary).
			Underline(true),

		Label: lipgloss.NewStyle().
			Foreground(colors.TextDim).
			Bold(true),

		Text:      lipgloss.NewStyle().Foreground(colors.Text),
		TextDim:   lipgloss.NewStyle().Foreground(colors.TextDim),
		TextMuted: lipgloss.NewStyle().Foreground(colors.TextMuted),

		Selected: lipgloss.NewStyle().
			Foreground(colors.Primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Background(colors.BgSecondary).
			Foreground(colors.TextDim).
			Padding(0, 1),

		Breadcrumb: lipgloss.NewStyle().
			Background(colors.BgSecondary).
			Foreground(colors.Accent),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		JobSuccess: lipgloss.NewStyle().
			Foreground(colors.Success).
			Bold(true),

		JobFailed: lipgloss.NewStyle().
			Foreground(colors.Error).
			Bold(true),

		StatusSuccess:    lipgloss.NewStyle().Foreground(colors.Success),
		StatusWarning:    lipgloss.NewStyle().Foreground(colors.Warning),
		StatusError:      lipgloss.NewStyle().Foreground(colors.Error),
		StatusInProgress: lipgloss.NewStyle().Foreground(colors.Warning),
	}
}

// StatusIcon returns the icon and style for a run/job status
func (t *Theme) StatusIcon(status, conclusion string) (string, lipgloss.Style) {
	switch status {
	case "completed", "success", "failure":
		if conclusion == "success" || (conclusion == "" && status == "success") {
			return t.Icons.Success, t.StatusSuccess
		}
		return t.Icons.Error, t.StatusError
	case "in_progress":
		return t.Icons.InProgress, t.StatusInProgress
	default:
		return t.Icons.Pending, t.TextDim
	}
}

// ItemPrefix returns the cursor prefix for an item
func (t *Theme) ItemPrefix(selected bool) string {
	if selected {
		return t.Icons.Selected + " "
	}
	return t.Icons.Unselected + " "
}

// Divider returns a horizontal divider line
func (t *Theme) Divider(width int) string {
	if width <= 0 {
		return ""
	}
	return t.TextMuted.Render(strings.Repeat("─", width))
}
