package plain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Cloudsky01/gh-runview/pkg/models"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleRun() *models.WorkflowRun {
	return &models.WorkflowRun{
		ID:         42,
		RunNumber:  7,
		Name:       "CI",
		HeadBranch: "main",
		HeadCommit: models.HeadCommit{
			ID:      "abc123",
			Message: "Fix things",
			Author:  models.CommitAuthor{Name: "A", Email: "a@x.com"},
		},
		Status:     "completed",
		Conclusion: "success",
		HTMLURL:    "https://github.com/o/r/actions/runs/42",
		CreatedAt:  models.ParseTimestamp("2024-05-01T10:00:00Z"),
	}
}

func sampleJobs() *models.Jobs {
	return &models.Jobs{
		TotalCount: 1,
		Jobs: []models.Job{{
			Name:        "build",
			Status:      "completed",
			Conclusion:  "success",
			StartedAt:   models.ParseTimestamp("2024-05-01T11:00:00Z"),
			CompletedAt: models.ParseTimestamp("2024-05-01T11:02:30Z"),
			Steps: []models.Step{{
				Name:        "compile",
				StartedAt:   models.ParseTimestamp("2024-05-01T11:00:00Z"),
				CompletedAt: models.ParseTimestamp("2024-05-01T11:01:00Z"),
			}},
		}},
	}
}

func TestRenderRunTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRun(&buf, sampleRun(), sampleJobs(), now, FormatTable); err != nil {
		t.Fatalf("RenderRun failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Branch", "main",
		"Commit ID", "abc123",
		"completed (success)",
		"A (a@x.com)",
		"GitHub https://github.com/o/r/actions/runs/42",
		"build", "2 minutes 30 seconds",
		"- compile", "1 minutes 0 seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRunWithoutJobs(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRun(&buf, sampleRun(), &models.Jobs{}, now, FormatTable); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Elapsed") {
		t.Error("zero total_count should not print a jobs table")
	}
}

func TestRenderRunMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRun(&buf, sampleRun(), sampleJobs(), now, FormatMarkdown); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "| Branch | main |") {
		t.Errorf("expected markdown rows, got:\n%s", buf.String())
	}
}

func TestRenderRunJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRun(&buf, sampleRun(), sampleJobs(), now, FormatJSON); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Run  models.WorkflowRun `json:"run"`
		Jobs models.Jobs        `json:"jobs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Run.ID != 42 || decoded.Jobs.TotalCount != 1 {
		t.Errorf("unexpected snapshot %+v", decoded)
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	RenderError(&buf, errors.New("network down"))
	if buf.String() != "Failed to load build, network down\n" {
		t.Errorf("RenderError() = %q", buf.String())
	}
}

func TestRenderRuns(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRuns(&buf, []models.WorkflowRun{*sampleRun()}, now, FormatTable); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"42", "CI", "main", "2 hours ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderRuns(&buf, nil, now, FormatTable); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "(0 runs)\n" {
		t.Errorf("empty listing = %q", buf.String())
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"", "table", "markdown", "md", "json"} {
		if !ValidFormat(f) {
			t.Errorf("%q should be valid", f)
		}
	}
	if ValidFormat("xml") {
		t.Error("xml should be invalid")
	}
}
