package components

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/gh-runview/internal/tui/theme"
)

// KeyMap holds every binding of the app
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Open        key.Binding
	Back        key.Binding
	Browser     key.Binding
	Refresh     key.Binding
	AutoRefresh key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Open:        key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "open run")),
		Back:        key.NewBinding(key.WithKeys("esc", "backspace", "h"), key.WithHelp("esc", "back")),
		Browser:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "open in browser")),
		Refresh:     key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		AutoRefresh: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "auto-refresh")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// DetailsKeys is the binding set of the run details view
type DetailsKeys struct{ KeyMap }

func (k DetailsKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Toggle, k.Back, k.Browser, k.Refresh, k.Help, k.Quit}
}

func (k DetailsKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Toggle, k.ExpandAll, k.CollapseAll},
		{k.Back, k.Browser, k.Refresh, k.AutoRefresh},
		{k.Help, k.Quit},
	}
}

// RunsKeys is the binding set of the runs list
type RunsKeys struct{ KeyMap }

func (k RunsKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Open, k.Browser, k.Refresh, k.Help, k.Quit}
}

func (k RunsKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Open, k.Browser},
		{k.Refresh, k.AutoRefresh},
		{k.Help, k.Quit},
	}
}

// HelpBar renders the short help line, or the full help when expanded
type HelpBar struct {
	model help.Model
	width int
	theme *theme.Theme
}

func NewHelpBar(t *theme.Theme) HelpBar {
	m := help.New()
	m.Styles.ShortKey = t.Selected
	m.Styles.ShortDesc = t.TextDim
	m.Styles.ShortSeparator = t.TextMuted
	m.Styles.FullKey = t.Selected
	m.Styles.FullDesc = t.Text
	m.Styles.FullSeparator = t.TextMuted
	return HelpBar{model: m, theme: t}
}

func (h *HelpBar) SetSize(width int) {
	h.width = width
	h.model.Width = width
}

func (h *HelpBar) ShowAll() bool {
	return h.model.ShowAll
}

func (h *HelpBar) Toggle() {
	h.model.ShowAll = !h.model.ShowAll
}

func (h *HelpBar) Close() {
	h.model.ShowAll = false
}

func (h *HelpBar) View(keys help.KeyMap) string {
	view := h.model.View(keys)
	if !h.model.ShowAll {
		return lipgloss.NewStyle().Padding(0, 1).Render(view)
	}
	return h.theme.Panel.Render(h.theme.Title.Render("Keyboard Shortcuts") + "\n\n" + view)
}
