// Package plain prints runs without the TUI, for pipes and scripts.
package plain

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Cloudsky01/gh-runview/internal/elapsed"
	"github.com/Cloudsky01/gh-runview/pkg/models"
)

const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// ErrorLine is the single line printed when a run cannot be loaded
func ErrorLine(err error) string {
	return "Failed to load build, " + err.Error()
}

func RenderError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, ErrorLine(err))
}

// ValidFormat reports whether format is understood by the renderers
func ValidFormat(format string) bool {
	switch format {
	case "", FormatTable, FormatMarkdown, "md", FormatJSON:
		return true
	}
	return false
}

type runSnapshot struct {
	Run  *models.WorkflowRun `json:"run"`
	Jobs *models.Jobs        `json:"jobs,omitempty"`
}

// RenderRun prints the run metadata followed by its jobs and steps.
func RenderRun(w io.Writer, run *models.WorkflowRun, jobs *models.Jobs, now time.Time, format string) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runSnapshot{Run: run, Jobs: jobs})
	}

	meta := newWriter(w)
	meta.SetTitle("Workflow Run Details")
	meta.AppendRows([]table.Row{
		{"Branch", run.HeadBranch},
		{"Message", run.HeadCommit.Message},
		{"Commit ID", run.HeadCommit.ID},
		{"Status", statusText(run.Status, run.Conclusion)},
		{"Author", fmt.Sprintf("%s (%s)", run.HeadCommit.Author.Name, run.HeadCommit.Author.Email)},
		{"Links", links(run)},
	})
	render(meta, format)

	if jobs == nil || jobs.TotalCount == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w)

	jt := newWriter(w)
	jt.SetTitle("Jobs")
	jt.AppendHeader(table.Row{"Job", "Result", "Elapsed"})
	for i, job := range jobs.Jobs {
		if i > 0 {
			jt.AppendSeparator()
		}
		jt.AppendRow(table.Row{job.Name, jobResult(job), elapsed.Since(job.StartedAt, job.CompletedAt, now)})
		for _, step := range job.Steps {
			jt.AppendRow(table.Row{"  - " + step.Name, statusText(step.Status, step.Conclusion), elapsed.Since(step.StartedAt, step.CompletedAt, now)})
		}
	}
	render(jt, format)
	return nil
}

// RenderRuns prints a listing of recent runs.
func RenderRuns(w io.Writer, runs []models.WorkflowRun, now time.Time, format string) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "(0 runs)")
		return nil
	}

	t := newWriter(w)
	t.AppendHeader(table.Row{"ID", "#", "Workflow", "Branch", "Status", "Created"})
	for _, run := range runs {
		created := elapsed.Placeholder
		if run.CreatedAt.Valid() {
			created = humanize.RelTime(run.CreatedAt.Time, now, "ago", "from now")
		}
		t.AppendRow(table.Row{
			strconv.FormatInt(run.ID, 10),
			run.RunNumber,
			run.Name,
			run.HeadBranch,
			statusText(run.Status, run.Conclusion),
			created,
		})
	}
	render(t, format)
	return nil
}

func newWriter(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func render(t table.Writer, format string) {
	switch format {
	case FormatMarkdown, "md":
		t.RenderMarkdown()
	default:
		t.Render()
	}
}

func statusText(status, conclusion string) string {
	if conclusion == "" {
		return status
	}
	if status == "" {
		return conclusion
	}
	return status + " (" + conclusion + ")"
}

func jobResult(job models.Job) string {
	if job.Succeeded() {
		return "success"
	}
	return statusText(job.Status, job.Conclusion)
}

func links(run *models.WorkflowRun) string {
	if run.HTMLURL == "" {
		return ""
	}
	return "GitHub " + run.HTMLURL
}
