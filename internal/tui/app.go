package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cloudsky01/gh-runview/internal/logging"
	"github.com/Cloudsky01/gh-runview/internal/tui/components"
	"github.com/Cloudsky01/gh-runview/internal/tui/theme"
	"github.com/Cloudsky01/gh-runview/pkg/models"
)

// Backend is the fetch chain the views are driven by.
type Backend interface {
	LoadRun(ctx context.Context, runID string) (*models.WorkflowRun, string, error)
	LoadJobs(ctx context.Context, run *models.WorkflowRun, token string) (*models.Jobs, error)
	LoadRuns(ctx context.Context, limit int) ([]models.WorkflowRun, error)
	OpenInBrowser(runID int64) error
	Repository() string
}

type View int

const (
	ViewRuns View = iota
	ViewDetails
)

func (v View) String() string {
	if v == ViewDetails {
		return "details"
	}
	return "runs"
}

// Route is the navigation context. RunID is the base-10 run identifier
// and is only meaningful for ViewDetails.
type Route struct {
	View  View
	RunID string
}

type App struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
	theme   *theme.Theme
	keys    components.KeyMap

	details   components.RunDetails
	runsTable components.RunsTable
	viewport  viewport.Model
	toaster   components.Toaster
	statusBar components.StatusBar
	helpBar   components.HelpBar

	route     Route
	runsLimit int
	width     int
	height    int

	// Each navigation or refresh bumps gen and replaces ctx. Messages from
	// an older generation are dropped.
	baseCtx context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	gen     uint64

	loading      bool
	clockRunning bool
	followCursor bool

	refreshInterval    int
	autoRefreshEnabled bool
	refreshSeq         int

	statePath        string
	pendingRunsIndex int

	// Restored job expansion and cursor, applied only to pendingRunID.
	pendingRunID    string
	pendingExpanded []string
	pendingJobIndex int
}

type Options struct {
	// RunID opens the details view directly; empty starts on the runs list
	RunID           string
	StatePath       string
	NoRestoreState  bool
	RefreshInterval int
	RunsLimit       int
	Logger          *slog.Logger
	Now             func() time.Time
	Context         context.Context
}

func NewApp(backend Backend, opts Options) *App {
	t := theme.Default()

	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.RunsLimit <= 0 {
		opts.RunsLimit = 20
	}

	app := &App{
		backend:            backend,
		logger:             opts.Logger,
		now:                opts.Now,
		theme:              t,
		keys:               components.DefaultKeyMap(),
		details:            components.NewRunDetails(t),
		runsTable:          components.NewRunsTable(t),
		viewport:           viewport.New(0, 0),
		toaster:            components.NewToaster(t),
		statusBar:          components.NewStatusBar(t),
		helpBar:            components.NewHelpBar(t),
		runsLimit:          opts.RunsLimit,
		baseCtx:            opts.Context,
		refreshInterval:    opts.RefreshInterval,
		autoRefreshEnabled: opts.RefreshInterval > 0,
		statePath:          opts.StatePath,
	}
	app.runsTable.SetClock(opts.Now)
	app.statusBar.SetRepository(backend.Repository())

	app.route = Route{View: ViewRuns}
	if opts.RunID != "" {
		app.route = Route{View: ViewDetails, RunID: opts.RunID}
	} else if !opts.NoRestoreState {
		app.restoreState()
	}

	return app
}

// Route returns the current navigation context
func (a *App) Route() Route {
	return a.route
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.navigate(a.route), a.scheduleRefresh())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case runLoadedMsg:
		cmd = a.handleRunLoaded(msg)

	case jobsLoadedMsg:
		cmd = a.handleJobsLoaded(msg)

	case runsLoadedMsg:
		a.handleRunsLoaded(msg)

	case clockTickMsg:
		a.clockRunning = false
		cmd = a.ensureClock()

	case refreshTickMsg:
		if msg.seq != a.refreshSeq {
			return a, nil
		}
		cmd = tea.Batch(a.refresh(), a.scheduleRefresh())

	case ConfigReloadedMsg:
		cmd = a.applyConfig(msg)

	case browserOpenedMsg:
		if msg.err != nil {
			a.logger.Warn("failed to open browser", "err", msg.err)
			cmd = a.toaster.Error("Failed to open browser: " + msg.err.Error())
		}

	case components.ToastExpiredMsg:
		a.toaster.Update(msg)

	case spinner.TickMsg:
		if a.details.Spinning() {
			cmd = a.details.Update(msg)
		}
	}

	a.syncViewport()
	return a, cmd
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}

	var body string
	switch {
	case a.helpBar.ShowAll():
		body = a.helpBar.View(a.helpKeys())
	case a.route.View == ViewDetails:
		body = a.viewport.View()
	default:
		body = a.runsTable.View()
	}

	a.updateStatusBar()
	sections := []string{
		fitHeight(body, a.bodyHeight()),
		a.toaster.View(),
		a.statusBar.View(a.now()),
	}
	if !a.helpBar.ShowAll() {
		sections = append(sections, a.helpBar.View(a.helpKeys()))
	}
	return strings.Join(sections, "\n")
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.statusBar.SetSize(width)
	a.helpBar.SetSize(width)
	a.toaster.SetWidth(width)
	a.details.SetWidth(width - 2)
	a.runsTable.SetSize(width, a.bodyHeight())
	a.viewport.Width = width
	a.viewport.Height = a.bodyHeight()
}

// bodyHeight leaves room for the toast line, status bar and help bar
func (a *App) bodyHeight() int {
	return max(1, a.height-3)
}

func (a *App) helpKeys() help.KeyMap {
	if a.route.View == ViewDetails {
		return components.DetailsKeys{KeyMap: a.keys}
	}
	return components.RunsKeys{KeyMap: a.keys}
}

func (a *App) updateStatusBar() {
	a.statusBar.SetLoading(a.loading)
	a.statusBar.SetRefreshStatus(a.autoRefreshEnabled, a.refreshInterval)
	if a.route.View == ViewDetails {
		a.statusBar.SetCrumbs("Runs", "#"+a.route.RunID)
	} else {
		a.statusBar.SetCrumbs("Runs")
	}
}

// syncViewport re-renders the details page into the viewport, keeping the
// job cursor visible after it moved.
func (a *App) syncViewport() {
	if a.route.View != ViewDetails {
		return
	}
	a.details.SetFocused(true)
	content, cursorLine := a.details.View(a.now())
	a.viewport.SetContent(content)

	if !a.followCursor || a.viewport.Height <= 0 {
		return
	}
	a.followCursor = false
	switch {
	case cursorLine < a.viewport.YOffset:
		a.viewport.SetYOffset(cursorLine)
	case cursorLine >= a.viewport.YOffset+a.viewport.Height:
		a.viewport.SetYOffset(cursorLine - a.viewport.Height + 1)
	}
}

func fitHeight(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
