package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.helpBar.ShowAll() {
		switch {
		case key.Matches(msg, a.keys.Help), msg.String() == "esc", msg.String() == "q":
			a.helpBar.Close()
		}
		return a, nil
	}

	switch {
	case msg.String() == "ctrl+c", key.Matches(msg, a.keys.Quit):
		return a, a.quit()
	case key.Matches(msg, a.keys.Help):
		a.helpBar.Toggle()
		return a, nil
	case key.Matches(msg, a.keys.AutoRefresh):
		return a, a.toggleAutoRefresh()
	case key.Matches(msg, a.keys.Refresh):
		return a, a.refresh()
	}

	var cmd tea.Cmd
	if a.route.View == ViewDetails {
		cmd = a.handleDetailsKey(msg)
	} else {
		cmd = a.handleRunsKey(msg)
	}
	a.syncViewport()
	return a, cmd
}

func (a *App) handleDetailsKey(msg tea.KeyMsg) tea.Cmd {
	jobs := a.details.Jobs()

	switch {
	case key.Matches(msg, a.keys.Up):
		jobs.MoveUp()
		a.followCursor = true
	case key.Matches(msg, a.keys.Down):
		jobs.MoveDown()
		a.followCursor = true
	case key.Matches(msg, a.keys.Toggle):
		jobs.Toggle()
		a.followCursor = true
		return a.ensureClock()
	case msg.String() == "l":
		jobs.SetExpanded(true)
		a.followCursor = true
	case msg.String() == "h" && a.cursorJobExpanded():
		jobs.SetExpanded(false)
		a.followCursor = true
	case key.Matches(msg, a.keys.ExpandAll):
		jobs.SetAllExpanded(true)
	case key.Matches(msg, a.keys.CollapseAll):
		jobs.SetAllExpanded(false)
	case key.Matches(msg, a.keys.Back):
		a.saveState()
		return a.navigate(Route{View: ViewRuns})
	case key.Matches(msg, a.keys.Browser):
		if run := a.details.Run(); run != nil {
			return a.openBrowserCmd(run.ID)
		}
		if id, err := strconv.ParseInt(a.route.RunID, 10, 64); err == nil {
			return a.openBrowserCmd(id)
		}
	case key.Matches(msg, a.keys.PageUp), key.Matches(msg, a.keys.PageDown):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) cursorJobExpanded() bool {
	jobs := a.details.Jobs()
	items := jobs.Items()
	return len(items) > 0 && items[jobs.Cursor()].Expanded
}

func (a *App) handleRunsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Open):
		id := a.runsTable.SelectedRunID()
		if id == 0 {
			return nil
		}
		return a.navigate(Route{View: ViewDetails, RunID: strconv.FormatInt(id, 10)})
	case key.Matches(msg, a.keys.Browser):
		if id := a.runsTable.SelectedRunID(); id != 0 {
			return a.openBrowserCmd(id)
		}
		return nil
	}
	return a.runsTable.Update(msg)
}

func (a *App) quit() tea.Cmd {
	a.saveState()
	a.Stop()
	return tea.Quit
}
