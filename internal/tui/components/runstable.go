package components

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/evertras/bubble-table/table"

	"github.com/Cloudsky01/gh-runview/internal/tui/theme"
	"github.com/Cloudsky01/gh-runview/pkg/models"
)

const (
	colStatus  = "status"
	colID      = "id"
	colNumber  = "number"
	colName    = "name"
	colBranch  = "branch"
	colCommit  = "commit"
	colCreated = "created"
)

// RunsTable lists recent workflow runs of the repository
type RunsTable struct {
	table    table.Model
	runs     []models.WorkflowRun
	cursor   int
	width    int
	height   int
	loading  bool
	err      error
	theme    *theme.Theme
	now      func() time.Time
	pageSize int
}

func NewRunsTable(t *theme.Theme) RunsTable {
	return RunsTable{
		theme:    t,
		now:      time.Now,
		pageSize: 15,
	}
}

// SetClock replaces the time source used for relative dates
func (r *RunsTable) SetClock(now func() time.Time) {
	r.now = now
}

func (r *RunsTable) SetRuns(runs []models.WorkflowRun) {
	r.runs = runs
	r.err = nil
	r.loading = false
	if r.cursor >= len(runs) {
		r.cursor = max(0, len(runs)-1)
	}
	r.rebuildTable()
}

func (r *RunsTable) SetSize(width, height int) {
	r.width = width
	r.height = height
	if height > 6 {
		r.pageSize = height - 6
	}
	r.rebuildTable()
}

func (r *RunsTable) SetLoading(loading bool) {
	r.loading = loading
}

func (r *RunsTable) SetError(err error) {
	r.loading = false
	r.err = err
}

func (r *RunsTable) Runs() []models.WorkflowRun {
	return r.runs
}

func (r *RunsTable) Cursor() int {
	return r.cursor
}

// SetCursor moves the highlight, clamped to the listing
func (r *RunsTable) SetCursor(i int) {
	r.cursor = max(0, min(i, len(r.runs)-1))
	r.rebuildTable()
}

// SelectedRunID returns the highlighted run ID, 0 when empty
func (r *RunsTable) SelectedRunID() int64 {
	if len(r.runs) == 0 {
		return 0
	}
	row := r.table.HighlightedRow()
	if row.Data == nil {
		return r.runs[r.cursor].ID
	}
	if idStr, ok := row.Data[colID].(string); ok {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err == nil {
			return id
		}
	}
	return 0
}

func (r *RunsTable) rebuildTable() {
	if len(r.runs) == 0 {
		return
	}

	idWidth := 12
	numberWidth := 7
	statusWidth := 4
	branchWidth := 20
	commitWidth := 9
	createdWidth := 16
	nameWidth := max(20, r.width-idWidth-numberWidth-statusWidth-branchWidth-commitWidth-createdWidth-10)

	columns := []table.Column{
		table.NewColumn(colStatus, "", statusWidth),
		table.NewColumn(colNumber, "#", numberWidth),
		table.NewColumn(colName, "Workflow", nameWidth),
		table.NewColumn(colBranch, "Branch", branchWidth),
		table.NewColumn(colCommit, "Commit", commitWidth),
		table.NewColumn(colCreated, "Created", createdWidth),
		table.NewColumn(colID, "ID", idWidth),
	}

	now := r.now()
	rows := make([]table.Row, len(r.runs))
	for i, run := range r.runs {
		icon, style := r.theme.StatusIcon(run.Status, run.Conclusion)

		created := "-"
		if run.CreatedAt.Valid() {
			created = humanize.RelTime(run.CreatedAt.Time, now, "ago", "from now")
		}

		rows[i] = table.NewRow(table.RowData{
			colStatus:  table.NewStyledCell(icon, style),
			colNumber:  strconv.Itoa(run.RunNumber),
			colName:    truncate(run.Name, nameWidth-2),
			colBranch:  truncate(run.HeadBranch, branchWidth-2),
			colCommit:  shortSHA(run.HeadCommit.ID),
			colCreated: created,
			colID:      strconv.FormatInt(run.ID, 10),
		})
	}

	highlightStyle := lipgloss.NewStyle().
		Background(r.theme.Colors.BgHighlight).
		Foreground(r.theme.Colors.Primary).
		Bold(true)

	r.table = table.New(columns).
		WithRows(rows).
		WithPageSize(r.pageSize).
		Focused(true).
		BorderRounded().
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(r.theme.Colors.Text).
			BorderForeground(r.theme.Colors.Border)).
		HighlightStyle(highlightStyle).
		HeaderStyle(r.theme.Title).
		WithHighlightedRow(r.cursor)
}

// Update forwards navigation keys to the table
func (r *RunsTable) Update(msg tea.Msg) tea.Cmd {
	if len(r.runs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	r.table, cmd = r.table.Update(msg)
	r.cursor = r.table.GetHighlightedRowIndex()
	return cmd
}

func (r *RunsTable) View() string {
	var b strings.Builder

	b.WriteString(r.theme.Title.Render("Workflow Runs"))
	b.WriteString("\n")
	b.WriteString(r.theme.TextMuted.Render(humanize.Comma(int64(len(r.runs))) + " runs"))
	b.WriteString("\n\n")

	switch {
	case r.loading && len(r.runs) == 0:
		b.WriteString(r.theme.StatusInProgress.Render(r.theme.Icons.InProgress + " Loading runs..."))
	case r.err != nil:
		b.WriteString(r.theme.StatusError.Render("Failed to load runs, " + r.err.Error()))
	case len(r.runs) == 0:
		b.WriteString(r.theme.TextMuted.Render("No workflow runs found"))
	default:
		b.WriteString(r.table.View())
	}

	return b.String()
}

func truncate(s string, width int) string {
	if width <= 3 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-3 {
		runes = runes[:width-3]
	}
	return string(runes) + "..."
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
