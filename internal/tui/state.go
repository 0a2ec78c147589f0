package tui

import (
	"strconv"

	"github.com/Cloudsky01/gh-runview/internal/state"
)

func (a *App) saveState() {
	if a.statePath == "" {
		return
	}

	s := &state.NavigationState{
		ViewState: state.ViewRuns,
		RunsIndex: a.runsTable.Cursor(),
	}
	if a.route.View == ViewDetails {
		if id, err := strconv.ParseInt(a.route.RunID, 10, 64); err == nil {
			s.ViewState = state.ViewRunDetails
			s.RunID = id
			s.ExpandedJobs = a.details.Jobs().ExpandedNames()
			s.JobIndex = a.details.Jobs().Cursor()
		}
	}

	if err := s.Save(a.statePath); err != nil {
		a.logger.Warn("failed to save state", "path", a.statePath, "err", err)
	}
}

func (a *App) clearPendingJobs() {
	a.pendingRunID = ""
	a.pendingExpanded = nil
	a.pendingJobIndex = 0
}

func (a *App) restoreState() {
	if a.statePath == "" {
		return
	}

	saved, err := state.Load(a.statePath)
	if err != nil {
		a.logger.Warn("failed to load state", "path", a.statePath, "err", err)
		return
	}

	a.pendingRunsIndex = saved.RunsIndex
	if saved.ViewState == state.ViewRunDetails && saved.RunID > 0 {
		a.route = Route{View: ViewDetails, RunID: strconv.FormatInt(saved.RunID, 10)}
		a.pendingRunID = a.route.RunID
		a.pendingExpanded = saved.ExpandedJobs
		a.pendingJobIndex = saved.JobIndex
	}
}
