package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cloudsky01/gh-runview/internal/config"
	"github.com/Cloudsky01/gh-runview/pkg/models"
)

type runLoadedMsg struct {
	gen   uint64
	run   *models.WorkflowRun
	token string
	err   error
}

type jobsLoadedMsg struct {
	gen  uint64
	jobs *models.Jobs
	err  error
}

type runsLoadedMsg struct {
	gen  uint64
	runs []models.WorkflowRun
	err  error
}

type clockTickMsg struct{}

type refreshTickMsg struct {
	seq int
}

type browserOpenedMsg struct {
	err error
}

// ConfigReloadedMsg is sent by the config watcher when the file changes
type ConfigReloadedMsg struct {
	Config *config.Config
}

// newGeneration cancels whatever is in flight and returns a fresh context.
func (a *App) newGeneration() (context.Context, uint64) {
	if a.cancel != nil {
		a.cancel()
	}
	a.ctx, a.cancel = context.WithCancel(a.baseCtx)
	a.gen++
	return a.ctx, a.gen
}

// Stop cancels in-flight requests
func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// navigate switches to route and starts its fetch chain from scratch.
func (a *App) navigate(route Route) tea.Cmd {
	if route.View != ViewDetails || route.RunID != a.pendingRunID {
		a.clearPendingJobs()
	}
	a.route = route
	ctx, gen := a.newGeneration()
	a.loading = true
	a.viewport.GotoTop()

	switch route.View {
	case ViewDetails:
		a.details.Reset()
		spin := a.details.SetLoading(true)
		a.logger.Info("opening run", "run", route.RunID, "gen", gen)
		return tea.Batch(spin, a.fetchRunCmd(ctx, gen, route.RunID))
	default:
		a.details.SetLoading(false)
		a.runsTable.SetLoading(true)
		return a.fetchRunsCmd(ctx, gen)
	}
}

// refresh re-runs the fetch chain of the current route. The previous
// snapshot stays on screen until the new one arrives.
func (a *App) refresh() tea.Cmd {
	if a.route.View == ViewDetails && a.details.Run() == nil && !a.details.IsLoading() {
		return a.navigate(a.route)
	}
	ctx, gen := a.newGeneration()
	a.loading = true
	if a.route.View == ViewDetails {
		return a.fetchRunCmd(ctx, gen, a.route.RunID)
	}
	return a.fetchRunsCmd(ctx, gen)
}

func (a *App) fetchRunCmd(ctx context.Context, gen uint64, runID string) tea.Cmd {
	return func() tea.Msg {
		run, token, err := a.backend.LoadRun(ctx, runID)
		return runLoadedMsg{gen: gen, run: run, token: token, err: err}
	}
}

func (a *App) fetchJobsCmd(ctx context.Context, gen uint64, run *models.WorkflowRun, token string) tea.Cmd {
	return func() tea.Msg {
		jobs, err := a.backend.LoadJobs(ctx, run, token)
		return jobsLoadedMsg{gen: gen, jobs: jobs, err: err}
	}
}

func (a *App) fetchRunsCmd(ctx context.Context, gen uint64) tea.Cmd {
	limit := a.runsLimit
	return func() tea.Msg {
		runs, err := a.backend.LoadRuns(ctx, limit)
		return runsLoadedMsg{gen: gen, runs: runs, err: err}
	}
}

func (a *App) openBrowserCmd(runID int64) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg{err: a.backend.OpenInBrowser(runID)}
	}
}

func (a *App) handleRunLoaded(msg runLoadedMsg) tea.Cmd {
	if msg.gen != a.gen {
		a.logger.Debug("dropping stale run result", "gen", msg.gen, "current", a.gen)
		return nil
	}

	if msg.err != nil {
		a.loading = false
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}
		a.logger.Error("failed to load run", "run", a.route.RunID, "err", msg.err)
		a.details.SetError(msg.err)
		return nil
	}

	a.details.SetRun(msg.run)
	a.statusBar.SetUpdated(a.now())
	return a.fetchJobsCmd(a.ctx, msg.gen, msg.run, msg.token)
}

func (a *App) handleJobsLoaded(msg jobsLoadedMsg) tea.Cmd {
	if msg.gen != a.gen {
		a.logger.Debug("dropping stale jobs result", "gen", msg.gen, "current", a.gen)
		return nil
	}
	a.loading = false

	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			a.logger.Error("failed to load jobs", "run", a.route.RunID, "err", msg.err)
		}
		a.details.Jobs().Clear()
		return nil
	}

	jobs := a.details.Jobs()
	jobs.SetJobs(msg.jobs)
	if a.pendingRunID != "" && a.pendingRunID == a.route.RunID {
		jobs.ExpandNamed(a.pendingExpanded)
		jobs.SetCursor(a.pendingJobIndex)
		a.clearPendingJobs()
	}
	a.statusBar.SetUpdated(a.now())
	return a.ensureClock()
}

func (a *App) handleRunsLoaded(msg runsLoadedMsg) {
	if msg.gen != a.gen {
		return
	}
	a.loading = false

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return
		}
		a.logger.Error("failed to load runs", "err", msg.err)
		a.runsTable.SetError(msg.err)
		return
	}
	a.runsTable.SetRuns(msg.runs)
	if a.pendingRunsIndex > 0 {
		a.runsTable.SetCursor(a.pendingRunsIndex)
		a.pendingRunsIndex = 0
	}
	a.statusBar.SetUpdated(a.now())
}

// ensureClock keeps a one second tick alive while something on screen is
// still running, so elapsed times advance.
func (a *App) ensureClock() tea.Cmd {
	if a.clockRunning || a.route.View != ViewDetails || !a.details.Running() {
		return nil
	}
	a.clockRunning = true
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return clockTickMsg{}
	})
}

func (a *App) scheduleRefresh() tea.Cmd {
	if !a.autoRefreshEnabled || a.refreshInterval <= 0 {
		return nil
	}
	seq := a.refreshSeq
	return tea.Tick(time.Duration(a.refreshInterval)*time.Second, func(time.Time) tea.Msg {
		return refreshTickMsg{seq: seq}
	})
}

func (a *App) toggleAutoRefresh() tea.Cmd {
	if a.refreshInterval <= 0 {
		return a.toaster.Warning("Set refresh_interval to enable auto-refresh")
	}
	a.autoRefreshEnabled = !a.autoRefreshEnabled
	a.refreshSeq++
	if a.autoRefreshEnabled {
		return tea.Batch(a.toaster.Info("Auto-refresh on"), a.scheduleRefresh())
	}
	return a.toaster.Info("Auto-refresh off")
}

func (a *App) applyConfig(msg ConfigReloadedMsg) tea.Cmd {
	if msg.Config == nil {
		return nil
	}
	a.refreshSeq++
	a.refreshInterval = msg.Config.RefreshInterval
	a.autoRefreshEnabled = a.refreshInterval > 0
	if limit := msg.Config.Limit(); limit != a.runsLimit {
		a.runsLimit = limit
	}
	return tea.Batch(a.toaster.Info("Configuration reloaded"), a.scheduleRefresh())
}
