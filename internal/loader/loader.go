// Package loader runs the fetch chain behind the run details view: token,
// then run, then the run's jobs.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Cloudsky01/gh-runview/internal/auth"
	"github.com/Cloudsky01/gh-runview/internal/github"
	"github.com/Cloudsky01/gh-runview/pkg/models"
)

var tracer = otel.Tracer("github.com/Cloudsky01/gh-runview/internal/loader")

// Service is the subset of the GitHub client the views need.
type Service interface {
	GetWorkflowRun(ctx context.Context, req github.RunRequest) (*models.WorkflowRun, error)
	ListWorkflowRuns(ctx context.Context, req github.RunsRequest) ([]models.WorkflowRun, error)
	FetchJobs(ctx context.Context, jobsURL, token string) (*models.Jobs, error)
	OpenRunInBrowser(repo string, runID int64) error
}

type Loader struct {
	Tokens  auth.TokenSource
	Service Service
	Owner   string
	Repo    string
	Logger  *slog.Logger
}

func New(tokens auth.TokenSource, svc Service, repository string, logger *slog.Logger) (*Loader, error) {
	owner, repo, err := github.SplitRepository(repository)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{Tokens: tokens, Service: svc, Owner: owner, Repo: repo, Logger: logger}, nil
}

// Repository returns owner/repo.
func (l *Loader) Repository() string {
	return l.Owner + "/" + l.Repo
}

// ParseRunID parses a base-10 run identifier.
func ParseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}

// LoadRun acquires a token and fetches the run. The token is returned so the
// jobs fetch can reuse it.
func (l *Loader) LoadRun(ctx context.Context, runID string) (run *models.WorkflowRun, token string, err error) {
	ctx, span := tracer.Start(ctx, "LoadRun")
	span.SetAttributes(attribute.String("runview.repository", l.Repository()), attribute.String("runview.run_id", runID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	id, err := ParseRunID(runID)
	if err != nil {
		return nil, "", err
	}

	token, err = l.Tokens.AccessToken(ctx, auth.DefaultScopes)
	if err != nil {
		return nil, "", err
	}

	l.Logger.Debug("fetching workflow run", "repo", l.Repository(), "run", id)
	run, err = l.Service.GetWorkflowRun(ctx, github.RunRequest{
		Token: token,
		Owner: l.Owner,
		Repo:  l.Repo,
		ID:    id,
	})
	if err != nil {
		return nil, "", err
	}
	return run, token, nil
}

// LoadJobs fetches the jobs listing embedded in run.
func (l *Loader) LoadJobs(ctx context.Context, run *models.WorkflowRun, token string) (*models.Jobs, error) {
	if run == nil {
		return nil, fmt.Errorf("no run loaded")
	}

	ctx, span := tracer.Start(ctx, "LoadJobs")
	defer span.End()
	span.SetAttributes(attribute.Int64("runview.run_id", run.ID))

	l.Logger.Debug("fetching jobs", "run", run.ID, "url", run.JobsURL)
	jobs, err := l.Service.FetchJobs(ctx, run.JobsURL, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return jobs, nil
}

// LoadRuns lists recent runs for the parent listing view.
func (l *Loader) LoadRuns(ctx context.Context, limit int) ([]models.WorkflowRun, error) {
	token, err := l.Tokens.AccessToken(ctx, auth.DefaultScopes)
	if err != nil {
		return nil, err
	}
	return l.Service.ListWorkflowRuns(ctx, github.RunsRequest{
		Token:   token,
		Owner:   l.Owner,
		Repo:    l.Repo,
		PerPage: limit,
	})
}

// OpenInBrowser opens a run's page.
func (l *Loader) OpenInBrowser(runID int64) error {
	return l.Service.OpenRunInBrowser(l.Repository(), runID)
}
