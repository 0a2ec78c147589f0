package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/Cloudsky01/gh-runview/internal/elapsed"
	"github.com/Cloudsky01/gh-runview/internal/tui/theme"
	"github.com/Cloudsky01/gh-runview/pkg/models"
)

// StepView renders one step: name and elapsed time, no interaction.
func StepView(t *theme.Theme, step models.Step, now time.Time) string {
	duration := elapsed.Since(step.StartedAt, step.CompletedAt, now)
	return fmt.Sprintf("%s %s  %s",
		t.TextMuted.Render(t.Icons.Step),
		t.Text.Render(step.Name),
		t.TextDim.Render(duration))
}

// JobItem is a collapsible job section, collapsed until toggled.
type JobItem struct {
	Job      models.Job
	Expanded bool
}

// Header is "name (elapsed)"
func (j JobItem) Header(now time.Time) string {
	return fmt.Sprintf("%s (%s)", j.Job.Name, elapsed.Since(j.Job.StartedAt, j.Job.CompletedAt, now))
}

func (j JobItem) render(t *theme.Theme, now time.Time, selected bool) []string {
	icon := t.Icons.Collapsed
	if j.Expanded {
		icon = t.Icons.Expanded
	}

	style := t.JobFailed
	if j.Job.Succeeded() {
		style = t.JobSuccess
	}

	lines := []string{t.ItemPrefix(selected) + icon + " " + style.Render(j.Header(now))}
	if !j.Expanded {
		return lines
	}
	for _, step := range j.Job.Steps {
		lines = append(lines, "      "+StepView(t, step, now))
	}
	return lines
}

// JobsList renders the jobs of a run in collection order.
type JobsList struct {
	items  []JobItem
	cursor int
	theme  *theme.Theme
}

func NewJobsList(t *theme.Theme) JobsList {
	return JobsList{theme: t}
}

// SetJobs replaces the listing. Expansion is carried over by job name so a
// refresh does not collapse what the user opened. A nil value or a zero
// total_count yields an empty list.
func (l *JobsList) SetJobs(jobs *models.Jobs) {
	expanded := make(map[string]bool, len(l.items))
	for _, it := range l.items {
		if it.Expanded {
			expanded[it.Job.Name] = true
		}
	}

	l.items = nil
	if jobs != nil && jobs.TotalCount > 0 {
		l.items = make([]JobItem, 0, len(jobs.Jobs))
		for _, job := range jobs.Jobs {
			l.items = append(l.items, JobItem{Job: job, Expanded: expanded[job.Name]})
		}
	}
	l.clampCursor()
}

// Clear drops all jobs
func (l *JobsList) Clear() {
	l.items = nil
	l.cursor = 0
}

func (l *JobsList) Items() []JobItem {
	return l.items
}

func (l *JobsList) Len() int {
	return len(l.items)
}

func (l *JobsList) Cursor() int {
	return l.cursor
}

func (l *JobsList) SetCursor(i int) {
	l.cursor = i
	l.clampCursor()
}

func (l *JobsList) clampCursor() {
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *JobsList) MoveUp() {
	l.SetCursor(l.cursor - 1)
}

func (l *JobsList) MoveDown() {
	l.SetCursor(l.cursor + 1)
}

// Toggle flips the job under the cursor
func (l *JobsList) Toggle() {
	if len(l.items) == 0 {
		return
	}
	l.items[l.cursor].Expanded = !l.items[l.cursor].Expanded
}

// SetExpanded opens or closes the job under the cursor
func (l *JobsList) SetExpanded(open bool) {
	if len(l.items) == 0 {
		return
	}
	l.items[l.cursor].Expanded = open
}

func (l *JobsList) SetAllExpanded(open bool) {
	for i := range l.items {
		l.items[i].Expanded = open
	}
}

// ExpandNamed expands the jobs whose names are listed
func (l *JobsList) ExpandNamed(names []string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for i := range l.items {
		if want[l.items[i].Job.Name] {
			l.items[i].Expanded = true
		}
	}
}

// ExpandedNames lists the names of expanded jobs
func (l *JobsList) ExpandedNames() []string {
	var names []string
	for _, it := range l.items {
		if it.Expanded {
			names = append(names, it.Job.Name)
		}
	}
	return names
}

// Running reports whether any listed job is still in progress
func (l *JobsList) Running() bool {
	for _, it := range l.items {
		if it.Job.Running() {
			return true
		}
	}
	return false
}

// View renders the list and returns the line index of the cursor row so the
// caller can keep it scrolled into view.
func (l *JobsList) View(now time.Time, focused bool) (string, int) {
	if len(l.items) == 0 {
		return "", 0
	}

	var lines []string
	cursorLine := 0
	for i, it := range l.items {
		if i == l.cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, it.render(l.theme, now, focused && i == l.cursor)...)
	}
	return strings.Join(lines, "\n"), cursorLine
}
