package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/gh-runview/internal/tui/theme"
	"github.com/Cloudsky01/gh-runview/pkg/models"
)

const labelWidth = 11

// ErrorPrefix starts the message shown when the run cannot be loaded
const ErrorPrefix = "Failed to load build, "

// RunDetails is the run details page: loading line, error line, or the
// metadata table followed by the jobs list.
type RunDetails struct {
	run     *models.WorkflowRun
	jobs    JobsList
	spinner Spinner
	loading bool
	err     error
	width   int
	focused bool
	theme   *theme.Theme
}

func NewRunDetails(t *theme.Theme) RunDetails {
	return RunDetails{
		jobs:    NewJobsList(t),
		spinner: NewSpinner(t),
		theme:   t,
	}
}

// SetLoading switches to the loading state and returns the spinner tick
func (d *RunDetails) SetLoading(loading bool) tea.Cmd {
	d.loading = loading
	if loading {
		d.err = nil
		return d.spinner.Start("Loading workflow run...")
	}
	d.spinner.Stop()
	return nil
}

func (d *RunDetails) SetError(err error) {
	d.loading = false
	d.spinner.Stop()
	d.err = err
}

func (d *RunDetails) SetRun(run *models.WorkflowRun) {
	d.loading = false
	d.spinner.Stop()
	d.err = nil
	d.run = run
}

func (d *RunDetails) SetJobs(jobs *models.Jobs) {
	d.jobs.SetJobs(jobs)
}

// Reset clears everything for a new run
func (d *RunDetails) Reset() {
	d.run = nil
	d.err = nil
	d.jobs.Clear()
}

func (d *RunDetails) SetWidth(width int) {
	d.width = width
}

func (d *RunDetails) SetFocused(focused bool) {
	d.focused = focused
}

func (d *RunDetails) Run() *models.WorkflowRun {
	return d.run
}

func (d *RunDetails) Err() error {
	return d.err
}

func (d *RunDetails) IsLoading() bool {
	return d.loading
}

// Spinning reports whether the loading animation is running
func (d *RunDetails) Spinning() bool {
	return d.spinner.IsActive()
}

func (d *RunDetails) Jobs() *JobsList {
	return &d.jobs
}

// Running reports whether elapsed times are still moving
func (d *RunDetails) Running() bool {
	if d.run == nil {
		return false
	}
	return d.run.Status == "in_progress" || d.run.Status == "queued" || d.jobs.Running()
}

// Update forwards spinner ticks
func (d *RunDetails) Update(msg tea.Msg) tea.Cmd {
	return d.spinner.Update(msg)
}

// View renders the page and the line the jobs cursor sits on.
func (d *RunDetails) View(now time.Time) (string, int) {
	if d.loading && d.run == nil {
		return d.spinner.View(), 0
	}
	if d.err != nil {
		return d.theme.StatusError.Bold(true).Render(ErrorPrefix + d.err.Error()), 0
	}

	var b strings.Builder

	b.WriteString(d.theme.Link.Render(d.theme.Icons.Back))
	b.WriteString(" ")
	b.WriteString(d.theme.Title.Render("Workflow Run Details"))
	b.WriteString("\n\n")

	for _, row := range d.rows() {
		b.WriteString(d.row(row[0], row[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(d.theme.Label.Render("Jobs"))
	b.WriteString("\n")

	header := strings.Count(b.String(), "\n")
	jobsView, cursorLine := d.jobs.View(now, d.focused)
	b.WriteString(jobsView)

	return b.String(), header + cursorLine
}

func (d *RunDetails) rows() [][2]string {
	run := d.run
	if run == nil {
		run = &models.WorkflowRun{}
	}

	return [][2]string{
		{"Branch", run.HeadBranch},
		{"Message", run.HeadCommit.Message},
		{"Commit ID", run.HeadCommit.ID},
		{"Status", d.statusCell(run)},
		{"Author", AuthorCell(run.HeadCommit.Author)},
		{"Links", d.linksCell(run)},
	}
}

func (d *RunDetails) row(label, value string) string {
	labelCell := d.theme.Label.Width(labelWidth).Render(label)
	valueStyle := d.theme.Text
	if d.width > labelWidth+1 {
		valueStyle = valueStyle.Width(d.width - labelWidth - 1)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labelCell, " ", valueStyle.Render(value))
}

func (d *RunDetails) statusCell(run *models.WorkflowRun) string {
	if run.Status == "" {
		return ""
	}
	icon, style := d.theme.StatusIcon(run.Status, run.Conclusion)
	cell := style.Render(icon) + " " + run.Status
	if run.Conclusion != "" {
		cell += " (" + run.Conclusion + ")"
	}
	return cell
}

func (d *RunDetails) linksCell(run *models.WorkflowRun) string {
	if run.HTMLURL == "" {
		return ""
	}
	return d.theme.Link.Render("GitHub") + " " + d.theme.TextMuted.Render(run.HTMLURL)
}

// AuthorCell renders "name (email)"
func AuthorCell(a models.CommitAuthor) string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Email)
}
