package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Cloudsky01/gh-runview/internal/tui/theme"
	"github.com/Cloudsky01/gh-runview/pkg/models"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func ts(s string) models.Timestamp {
	return models.ParseTimestamp(s)
}

func sampleJobs() *models.Jobs {
	return &models.Jobs{
		TotalCount: 2,
		Jobs: []models.Job{
			{
				Name:        "build",
				Status:      "completed",
				Conclusion:  "success",
				StartedAt:   ts("2024-05-01T11:00:00Z"),
				CompletedAt: ts("2024-05-01T11:02:30Z"),
				Steps: []models.Step{
					{Name: "checkout", StartedAt: ts("2024-05-01T11:00:00Z"), CompletedAt: ts("2024-05-01T11:00:05Z")},
					{Name: "compile", StartedAt: ts("2024-05-01T11:00:05Z"), CompletedAt: ts("2024-05-01T11:02:30Z")},
				},
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

func TestJobsListSetJobs(t *testing.T) {
	tests := []struct {
		name      string
		jobs      *models.Jobs
		wantNames []string
	}{
		{name: "nil", jobs: nil},
		{name: "zero total count", jobs: &models.Jobs{TotalCount: 0, Jobs: []models.Job{{Name: "ignored"}}}},
		{name: "two jobs in order", jobs: sampleJobs(), wantNames: []string{"build", "test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewJobsList(theme.Default())
			l.SetJobs(tt.jobs)

			if l.Len() != len(tt.wantNames) {
				t.Fatalf("Len() = %d, want %d", l.Len(), len(tt.wantNames))
			}
			for i, it := range l.Items() {
				if it.Job.Name != tt.wantNames[i] {
					t.Errorf("item %d = %q, want %q", i, it.Job.Name, tt.wantNames[i])
				}
				if it.Expanded {
					t.Errorf("item %d should start collapsed", i)
				}
			}
		})
	}
}

func TestJobItemHeader(t *testing.T) {
	item := JobItem{Job: sampleJobs().Jobs[0]}
	if got := item.Header(testNow); got != "build (2 minutes 30 seconds)" {
		t.Errorf("Header() = %q", got)
	}
}

func TestJobsListToggleShowsSteps(t *testing.T) {
	l := NewJobsList(theme.Default())
	l.SetJobs(sampleJobs())

	view, _ := l.View(testNow, true)
	if strings.Contains(view, "checkout") {
		t.Fatal("collapsed job should not render steps")
	}

	l.Toggle()
	view, _ = l.View(testNow, true)
	if !strings.Contains(view, "checkout") || !strings.Contains(view, "compile") {
		t.Errorf("expanded job should render its steps, got:\n%s", view)
	}

	l.Toggle()
	view, _ = l.View(testNow, true)
	if strings.Contains(view, "checkout") {
		t.Error("second toggle should collapse the job")
	}
}

func TestJobsListCursorLine(t *testing.T) {
	l := NewJobsList(theme.Default())
	l.SetJobs(sampleJobs())
	l.Toggle()
	l.MoveDown()

	_, line := l.View(testNow, true)
	if line != 3 {
		t.Errorf("cursor line = %d, want 3 (header plus two steps)", line)
	}

	l.MoveDown()
	if l.Cursor() != 1 {
		t.Errorf("cursor should clamp at last item, got %d", l.Cursor())
	}
}

func TestJobsListKeepsExpansionOnRefresh(t *testing.T) {
	l := NewJobsList(theme.Default())
	l.SetJobs(sampleJobs())
	l.SetCursor(1)
	l.Toggle()

	l.SetJobs(sampleJobs())
	names := l.ExpandedNames()
	if len(names) != 1 || names[0] != "test" {
		t.Errorf("ExpandedNames() = %v, want [test]", names)
	}
}

func TestJobsListExpandAll(t *testing.T) {
	l := NewJobsList(theme.Default())
	l.SetJobs(sampleJobs())

	l.SetAllExpanded(true)
	if len(l.ExpandedNames()) != 2 {
		t.Errorf("expected all jobs expanded, got %v", l.ExpandedNames())
	}
	l.SetAllExpanded(false)
	if len(l.ExpandedNames()) != 0 {
		t.Errorf("expected all jobs collapsed, got %v", l.ExpandedNames())
	}

	l.ExpandNamed([]string{"build", "gone"})
	if names := l.ExpandedNames(); len(names) != 1 || names[0] != "build" {
		t.Errorf("ExpandNamed() left %v", names)
	}
}

func TestStepView(t *testing.T) {
	step := models.Step{Name: "lint", StartedAt: ts("2024-05-01T11:59:00Z")}
	got := StepView(theme.Default(), step, testNow)
	if !strings.Contains(got, "lint") || !strings.Contains(got, "1 minutes 0 seconds") {
		t.Errorf("StepView() = %q", got)
	}

	missing := StepView(theme.Default(), models.Step{Name: "queued"}, testNow)
	if !strings.Contains(missing, "queued") {
		t.Errorf("StepView() without timestamps = %q", missing)
	}
}

func TestRunDetailsError(t *testing.T) {
	d := NewRunDetails(theme.Default())
	d.SetError(errors.New("Not Found"))

	view, _ := d.View(testNow)
	if got := ansi.Strip(view); got != "Failed to load build, Not Found" {
		t.Errorf("error view = %q", got)
	}
}

func TestRunDetailsLoading(t *testing.T) {
	d := NewRunDetails(theme.Default())
	if cmd := d.SetLoading(true); cmd == nil {
		t.Error("SetLoading(true) should start the spinner")
	}

	view, _ := d.View(testNow)
	if !strings.Contains(view, "Loading workflow run") {
		t.Errorf("loading view = %q", view)
	}
}

func TestRunDetailsLoaded(t *testing.T) {
	d := NewRunDetails(theme.Default())
	d.SetRun(&models.WorkflowRun{
		ID:         42,
		HeadBranch: "main",
		HeadCommit: models.HeadCommit{
			ID:      "abc123",
			Message: "Fix things",
			Author:  models.CommitAuthor{Name: "A", Email: "a@x.com"},
		},
		Status:     "completed",
		Conclusion: "success",
		HTMLURL:    "https://github.com/o/r/actions/runs/42",
	})
	d.SetJobs(sampleJobs())

	view, _ := d.View(testNow)
	for _, want := range []string{
		"Workflow Run Details",
		"main",
		"Fix things",
		"abc123",
		"completed",
		"A (a@x.com)",
		"GitHub",
		"https://github.com/o/r/actions/runs/42",
		"build (2 minutes 30 seconds)",
		"test (1 minutes 0 seconds)",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRunDetailsLinksOnlyWithURL(t *testing.T) {
	d := NewRunDetails(theme.Default())
	d.SetRun(&models.WorkflowRun{ID: 1})

	view, _ := d.View(testNow)
	if strings.Contains(view, "GitHub") {
		t.Error("links row should be empty without html_url")
	}
}

func TestRunDetailsRunning(t *testing.T) {
	d := NewRunDetails(theme.Default())
	if d.Running() {
		t.Error("no run should not be running")
	}
	d.SetRun(&models.WorkflowRun{Status: "in_progress"})
	if !d.Running() {
		t.Error("in_progress run should be running")
	}
}

func TestAuthorCell(t *testing.T) {
	if got := AuthorCell(models.CommitAuthor{Name: "A", Email: "a@x.com"}); got != "A (a@x.com)" {
		t.Errorf("AuthorCell() = %q", got)
	}
}

func TestToasterRemovesByID(t *testing.T) {
	toaster := NewToaster(theme.Default())
	toaster.Info("first")
	toaster.Error("second")

	toaster.Update(ToastExpiredMsg{ID: 1})
	current, ok := toaster.Current()
	if !ok || current.Message != "second" {
		t.Fatalf("expected second toast to remain, got %+v", current)
	}

	toaster.Update(ToastExpiredMsg{ID: 2})
	if toaster.HasToasts() {
		t.Error("all toasts should be gone")
	}
}

func TestStatusBar(t *testing.T) {
	s := NewStatusBar(theme.Default())
	s.SetSize(120)
	s.SetRepository("octo/demo")
	s.SetCrumbs("Run #42")
	s.SetRefreshStatus(true, 30)
	s.SetUpdated(testNow.Add(-5 * time.Minute))

	view := s.View(testNow)
	for _, want := range []string{"octo/demo > Run #42", "Auto: 30s", "5 minutes ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("status bar missing %q in %q", want, view)
		}
	}
}

func TestRunsTableSelection(t *testing.T) {
	r := NewRunsTable(theme.Default())
	r.SetClock(func() time.Time { return testNow })
	r.SetSize(120, 30)

	if r.SelectedRunID() != 0 {
		t.Error("empty table should select nothing")
	}

	r.SetRuns([]models.WorkflowRun{
		{ID: 100, RunNumber: 7, Name: "CI", HeadBranch: "main", CreatedAt: ts("2024-05-01T11:00:00Z")},
		{ID: 200, RunNumber: 8, Name: "CI", HeadBranch: "dev"},
	})

	if got := r.SelectedRunID(); got != 100 {
		t.Errorf("SelectedRunID() = %d, want 100", got)
	}

	r.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := r.SelectedRunID(); got != 200 {
		t.Errorf("after down SelectedRunID() = %d, want 200", got)
	}

	view := r.View()
	if !strings.Contains(view, "1 hour ago") {
		t.Errorf("expected humanized created time in view")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Errorf("truncate() = %q", got)
	}
	if got := shortSHA("0123456789"); got != "0123456" {
		t.Errorf("shortSHA() = %q", got)
	}
}
