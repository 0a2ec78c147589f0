package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Cloudsky01/gh-runview/internal/config"
	"github.com/Cloudsky01/gh-runview/internal/state"
	"github.com/Cloudsky01/gh-runview/pkg/models"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type stubBackend struct {
	run     *models.WorkflowRun
	runErr  error
	token   string
	jobs    *models.Jobs
	jobsErr error
	runs    []models.WorkflowRun

	jobsToken string
	opened    []int64
}

func (s *stubBackend) LoadRun(ctx context.Context, runID string) (*models.WorkflowRun, string, error) {
	if s.runErr != nil {
		return nil, "", s.runErr
	}
	return s.run, s.token, nil
}

func (s *stubBackend) LoadJobs(ctx context.Context, run *models.WorkflowRun, token string) (*models.Jobs, error) {
	s.jobsToken = token
	return s.jobs, s.jobsErr
}

func (s *stubBackend) LoadRuns(ctx context.Context, limit int) ([]models.WorkflowRun, error) {
	return s.runs, nil
}

func (s *stubBackend) OpenInBrowser(runID int64) error {
	s.opened = append(s.opened, runID)
	return nil
}

func (s *stubBackend) Repository() string {
	return "octo/demo"
}

func ts(s string) models.Timestamp {
	return models.ParseTimestamp(s)
}

func testRun() *models.WorkflowRun {
	return &models.WorkflowRun{
		ID:         42,
		HeadBranch: "main",
		HeadCommit: models.HeadCommit{
			ID:      "abc123",
			Message: "Fix things",
			Author:  models.CommitAuthor{Name: "A", Email: "a@x.com"},
		},
		Status:     "completed",
		Conclusion: "success",
		HTMLURL:    "https://github.com/octo/demo/actions/runs/42",
		JobsURL:    "https://api.github.com/repos/octo/demo/actions/runs/42/jobs",
	}
}

func testJobs() *models.Jobs {
	return &models.Jobs{
		TotalCount: 2,
		Jobs: []models.Job{
			{
				Name:        "build",
				Status:      "completed",
				Conclusion:  "success",
				StartedAt:   ts("2024-05-01T11:00:00Z"),
				CompletedAt: ts("2024-05-01T11:02:30Z"),
				Steps:       []models.Step{{Name: "checkout", StartedAt: ts("2024-05-01T11:00:00Z"), CompletedAt: ts("2024-05-01T11:00:05Z")}},
			},
			{
				Name:        "test",
				Status:      "completed",
				Conclusion:  "failure",
				StartedAt:   ts("2024-05-01T11:00:00Z"),
				CompletedAt: ts("2024-05-01T11:01:00Z"),
			},
		},
	}
}

func newTestApp(backend *stubBackend, opts Options) *App {
	opts.Now = func() time.Time { return fixedNow }
	if opts.StatePath == "" {
		opts.NoRestoreState = true
	}
	a := NewApp(backend, opts)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

// load runs the details fetch chain synchronously.
func load(t *testing.T, a *App) {
	t.Helper()
	a.navigate(a.route)

	msg := a.fetchRunCmd(a.ctx, a.gen, a.route.RunID)()
	_, cmd := a.Update(msg)
	if cmd == nil {
		if a.details.Err() != nil {
			return
		}
		t.Fatal("expected a jobs fetch after the run loaded")
	}
	jobsMsg, ok := cmd().(jobsLoadedMsg)
	if !ok {
		t.Fatal("expected jobsLoadedMsg")
	}
	a.Update(jobsMsg)
}

func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+t":
			msg = tea.KeyMsg{Type: tea.KeyCtrlT}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = a.Update(msg)
	}
	return cmd
}

func TestLoadChain(t *testing.T) {
	backend := &stubBackend{run: testRun(), token: "tok", jobs: testJobs()}
	a := newTestApp(backend, Options{RunID: "42"})

	load(t, a)

	if a.details.Run() == nil || a.details.Run().ID != 42 {
		t.Fatal("run should be loaded")
	}
	if backend.jobsToken != "tok" {
		t.Errorf("jobs fetch should receive the run token, got %q", backend.jobsToken)
	}
	items := a.details.Jobs().Items()
	if len(items) != 2 || items[0].Job.Name != "build" || items[1].Job.Name != "test" {
		t.Fatalf("unexpected jobs %+v", items)
	}
	if a.loading {
		t.Error("loading should be cleared")
	}

	view := a.View()
	for _, want := range []string{"Workflow Run Details", "A (a@x.com)", "build (2 minutes 30 seconds)", "octo/demo > Runs > #42"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRunErrorRendersMessage(t *testing.T) {
	backend := &stubBackend{runErr: errors.New("network down")}
	a := newTestApp(backend, Options{RunID: "42"})

	load(t, a)

	body, _ := a.details.View(fixedNow)
	if got := ansi.Strip(body); got != "Failed to load build, network down" {
		t.Errorf("unexpected error view %q", got)
	}
}

func TestJobsErrorLeavesEmptyList(t *testing.T) {
	backend := &stubBackend{run: testRun(), jobsErr: errors.New("boom")}
	a := newTestApp(backend, Options{RunID: "42"})

	load(t, a)

	if a.details.Err() != nil {
		t.Error("jobs failure should not fail the page")
	}
	if a.details.Jobs().Len() != 0 {
		t.Error("jobs failure should leave an empty list")
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	a := newTestApp(&stubBackend{}, Options{RunID: "1"})

	a.navigate(Route{View: ViewDetails, RunID: "1"})
	oldGen := a.gen
	oldCtx := a.ctx
	a.navigate(Route{View: ViewDetails, RunID: "2"})

	if oldCtx.Err() != context.Canceled {
		t.Error("navigating away should cancel the previous fetch")
	}

	if _, cmd := a.Update(runLoadedMsg{gen: oldGen, run: &models.WorkflowRun{ID: 1}}); cmd != nil {
		t.Error("stale run result should not trigger a jobs fetch")
	}
	if a.details.Run() != nil {
		t.Fatal("stale run result should be ignored")
	}

	a.Update(runLoadedMsg{gen: a.gen, run: &models.WorkflowRun{ID: 2}})
	if a.details.Run() == nil || a.details.Run().ID != 2 {
		t.Fatal("current run result should be applied")
	}

	a.Update(jobsLoadedMsg{gen: oldGen, jobs: testJobs()})
	if a.details.Jobs().Len() != 0 {
		t.Error("stale jobs result should be ignored")
	}
}

func TestDetailsKeys(t *testing.T) {
	a := newTestApp(&stubBackend{run: testRun(), jobs: testJobs()}, Options{RunID: "42"})
	load(t, a)
	jobs := a.details.Jobs()

	press(a, "enter")
	if !jobs.Items()[0].Expanded {
		t.Error("enter should expand the job under the cursor")
	}
	press(a, " ")
	if jobs.Items()[0].Expanded {
		t.Error("space should collapse it again")
	}

	press(a, "j")
	if jobs.Cursor() != 1 {
		t.Errorf("j should move down, cursor = %d", jobs.Cursor())
	}
	press(a, "k")
	if jobs.Cursor() != 0 {
		t.Errorf("k should move up, cursor = %d", jobs.Cursor())
	}

	press(a, "e")
	if len(jobs.ExpandedNames()) != 2 {
		t.Error("e should expand all jobs")
	}
	press(a, "h")
	if a.route.View != ViewDetails {
		t.Fatal("h on an expanded job should collapse it, not go back")
	}
	press(a, "c")
	if len(jobs.ExpandedNames()) != 0 {
		t.Error("c should collapse all jobs")
	}
}

func TestBackNavigatesToRuns(t *testing.T) {
	a := newTestApp(&stubBackend{run: testRun(), jobs: testJobs()}, Options{RunID: "42"})
	load(t, a)
	gen := a.gen

	if cmd := press(a, "esc"); cmd == nil {
		t.Error("going back should fetch the runs list")
	}
	if a.route.View != ViewRuns {
		t.Errorf("expected runs view, got %s", a.route.View)
	}
	if a.gen == gen {
		t.Error("going back should start a new generation")
	}
}

func TestOpenRunFromRunsTable(t *testing.T) {
	backend := &stubBackend{runs: []models.WorkflowRun{{ID: 100, Name: "CI"}, {ID: 200, Name: "CI"}}}
	a := newTestApp(backend, Options{})
	a.Init()

	a.Update(runsLoadedMsg{gen: a.gen, runs: backend.runs})
	press(a, "down")
	press(a, "enter")

	if a.route != (Route{View: ViewDetails, RunID: "200"}) {
		t.Errorf("unexpected route %+v", a.route)
	}
	if !a.details.IsLoading() {
		t.Error("details should be loading after navigation")
	}
}

func TestBrowserKey(t *testing.T) {
	backend := &stubBackend{run: testRun(), jobs: testJobs()}
	a := newTestApp(backend, Options{RunID: "42"})
	load(t, a)

	cmd := press(a, "w")
	if cmd == nil {
		t.Fatal("w should return a command")
	}
	a.Update(cmd())
	if len(backend.opened) != 1 || backend.opened[0] != 42 {
		t.Errorf("expected run 42 opened, got %v", backend.opened)
	}
}

func TestAutoRefreshToggle(t *testing.T) {
	a := newTestApp(&stubBackend{}, Options{RunID: "42", RefreshInterval: 30})

	if !a.autoRefreshEnabled {
		t.Fatal("auto-refresh should start enabled with an interval")
	}

	seq := a.refreshSeq
	press(a, "ctrl+t")
	if a.autoRefreshEnabled {
		t.Error("ctrl+t should disable auto-refresh")
	}

	gen := a.gen
	if _, cmd := a.Update(refreshTickMsg{seq: seq}); cmd != nil || a.gen != gen {
		t.Error("ticks from a cancelled schedule should be ignored")
	}

	press(a, "ctrl+t")
	if !a.autoRefreshEnabled {
		t.Error("second ctrl+t should re-enable auto-refresh")
	}
}

func TestAutoRefreshNeedsInterval(t *testing.T) {
	a := newTestApp(&stubBackend{}, Options{RunID: "42"})
	press(a, "ctrl+t")
	if a.autoRefreshEnabled {
		t.Error("auto-refresh cannot be enabled without an interval")
	}
	if !a.toaster.HasToasts() {
		t.Error("expected a toast explaining why")
	}
}

func TestRefreshKeepsSnapshot(t *testing.T) {
	a := newTestApp(&stubBackend{run: testRun(), jobs: testJobs()}, Options{RunID: "42"})
	load(t, a)
	gen := a.gen

	if cmd := press(a, "r"); cmd == nil {
		t.Fatal("r should start a fetch")
	}
	if a.gen == gen {
		t.Error("refresh should start a new generation")
	}
	if a.details.Run() == nil || a.details.Jobs().Len() != 2 {
		t.Error("refresh should keep the current snapshot visible")
	}
}

func TestConfigReload(t *testing.T) {
	a := newTestApp(&stubBackend{}, Options{RunID: "42"})

	a.Update(ConfigReloadedMsg{Config: &config.Config{RefreshInterval: 10, RunsLimit: 50}})
	if a.refreshInterval != 10 || !a.autoRefreshEnabled {
		t.Errorf("reload should enable auto-refresh at 10s, got %d/%v", a.refreshInterval, a.autoRefreshEnabled)
	}
	if a.runsLimit != 50 {
		t.Errorf("runs limit = %d, want 50", a.runsLimit)
	}
}

func TestClockTicksWhileRunning(t *testing.T) {
	jobs := &models.Jobs{TotalCount: 1, Jobs: []models.Job{{
		Name:      "build",
		Status:    "in_progress",
		StartedAt: ts("2024-05-01T11:59:00Z"),
	}}}
	run := testRun()
	run.Status = "in_progress"
	run.Conclusion = ""
	a := newTestApp(&stubBackend{run: run, jobs: jobs}, Options{RunID: "42"})

	load(t, a)
	if !a.clockRunning {
		t.Fatal("clock should run while a job is in progress")
	}

	a.now = func() time.Time { return fixedNow.Add(30 * time.Second) }
	if _, cmd := a.Update(clockTickMsg{}); cmd == nil {
		t.Error("clock should keep ticking")
	}
	if !strings.Contains(a.View(), "build (1 minutes 30 seconds)") {
		t.Error("elapsed time should advance with the clock")
	}
}

func TestClockStopsWhenComplete(t *testing.T) {
	a := newTestApp(&stubBackend{run: testRun(), jobs: testJobs()}, Options{RunID: "42"})
	load(t, a)
	if a.clockRunning {
		t.Error("clock should not run for a completed run")
	}
}

func TestQuitSavesState(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.yaml")
	a := newTestApp(&stubBackend{run: testRun(), jobs: testJobs()}, Options{RunID: "42", StatePath: statePath})
	load(t, a)
	press(a, "j", "enter")

	cmd := press(a, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if a.ctx.Err() == nil {
		t.Error("quitting should cancel in-flight requests")
	}

	saved, err := state.Load(statePath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if saved.ViewState != state.ViewRunDetails || saved.RunID != 42 {
		t.Errorf("unexpected saved state %+v", saved)
	}
	if !saved.IsExpanded("test") || saved.JobIndex != 1 {
		t.Errorf("expanded jobs not saved: %+v", saved)
	}
}

func TestRestoreState(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.yaml")
	saved := &state.NavigationState{
		ViewState:    state.ViewRunDetails,
		RunID:        42,
		ExpandedJobs: []string{"test"},
		JobIndex:     1,
	}
	if err := saved.Save(statePath); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(&stubBackend{run: testRun(), jobs: testJobs()}, Options{StatePath: statePath})
	if a.Route() != (Route{View: ViewDetails, RunID: "42"}) {
		t.Fatalf("route not restored: %+v", a.Route())
	}

	load(t, a)
	jobs := a.details.Jobs()
	if names := jobs.ExpandedNames(); len(names) != 1 || names[0] != "test" {
		t.Errorf("expanded jobs not restored: %v", names)
	}
	if jobs.Cursor() != 1 {
		t.Errorf("job cursor not restored: %d", jobs.Cursor())
	}
}

func TestRestoredJobsOnlyApplyToRestoredRun(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.yaml")
	saved := &state.NavigationState{
		ViewState:    state.ViewRunDetails,
		RunID:        7,
		ExpandedJobs: []string{"test"},
		JobIndex:     1,
	}
	if err := saved.Save(statePath); err != nil {
		t.Fatal(err)
	}

	backend := &stubBackend{runErr: errors.New("Not Found")}
	a := newTestApp(backend, Options{StatePath: statePath})
	load(t, a)
	if a.details.Err() == nil {
		t.Fatal("restored run should have failed")
	}

	backend.runErr = nil
	backend.run = testRun()
	backend.jobs = testJobs()
	press(a, "esc")
	a.route = Route{View: ViewDetails, RunID: "42"}
	load(t, a)

	jobs := a.details.Jobs()
	if names := jobs.ExpandedNames(); len(names) != 0 {
		t.Errorf("another run should not inherit restored expansion: %v", names)
	}
	if jobs.Cursor() != 0 {
		t.Errorf("another run should not inherit restored cursor: %d", jobs.Cursor())
	}
}

func TestBackStopsDetailsSpinner(t *testing.T) {
	a := newTestApp(&stubBackend{run: testRun(), jobs: testJobs()}, Options{RunID: "42"})
	a.navigate(a.route)
	if !a.details.Spinning() {
		t.Fatal("details should spin while the run loads")
	}

	press(a, "esc")
	if a.route.View != ViewRuns {
		t.Fatalf("esc should go back, got %v", a.route.View)
	}
	if a.details.Spinning() {
		t.Error("leaving the details view should stop its spinner")
	}
}

func TestExplicitRunIgnoresState(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.yaml")
	saved := &state.NavigationState{ViewState: state.ViewRunDetails, RunID: 7}
	if err := saved.Save(statePath); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(&stubBackend{}, Options{RunID: "42", StatePath: statePath})
	if a.Route().RunID != "42" {
		t.Errorf("explicit run id should win, got %+v", a.Route())
	}
}

func TestHelpToggle(t *testing.T) {
	a := newTestApp(&stubBackend{run: testRun(), jobs: testJobs()}, Options{RunID: "42"})
	load(t, a)

	press(a, "?")
	if !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Error("? should show the full help")
	}
	press(a, "esc")
	if a.helpBar.ShowAll() {
		t.Error("esc should close the help")
	}
	if a.route.View != ViewDetails {
		t.Error("esc in help should not navigate back")
	}
}
