package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Cloudsky01/gh-runview/pkg/models"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultAPIURL  = "https://api.github.com"

	apiVersion = "2022-11-28"
)

var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response. Error returns the API's own message so it
// can be shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// RunRequest identifies one workflow run.
type RunRequest struct {
	Token string
	Owner string
	Repo  string
	ID    int64
}

// RunsRequest selects recent runs of a repository.
type RunsRequest struct {
	Token   string
	Owner   string
	Repo    string
	PerPage int
}

type Client struct {
	baseURL          string
	timeout          time.Duration
	httpClient       *http.Client
	authenticateJobs bool
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAuthenticatedJobs makes FetchJobs send the run token as well.
func WithAuthenticatedJobs(enabled bool) Option {
	return func(c *Client) {
		c.authenticateJobs = enabled
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultAPIURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// GetWorkflowRun fetches a single run's details.
func (c *Client) GetWorkflowRun(ctx context.Context, req RunRequest) (*models.WorkflowRun, error) {
	if req.Owner == "" || req.Repo == "" {
		return nil, fmt.Errorf("repository owner and name are required")
	}
	endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/runs/%d",
		c.baseURL, url.PathEscape(req.Owner), url.PathEscape(req.Repo), req.ID)

	var run models.WorkflowRun
	if err := c.getJSON(ctx, endpoint, req.Token, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListWorkflowRuns returns the most recent runs of a repository, newest first.
func (c *Client) ListWorkflowRuns(ctx context.Context, req RunsRequest) ([]models.WorkflowRun, error) {
	if req.Owner == "" || req.Repo == "" {
		return nil, fmt.Errorf("repository owner and name are required")
	}
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/runs?per_page=%s",
		c.baseURL, url.PathEscape(req.Owner), url.PathEscape(req.Repo), strconv.Itoa(perPage))

	var runs models.WorkflowRuns
	if err := c.getJSON(ctx, endpoint, req.Token, &runs); err != nil {
		return nil, err
	}
	return runs.WorkflowRuns, nil
}

// FetchJobs reads the jobs listing from a run's embedded jobs_url. The token
// is only attached when the client was built WithAuthenticatedJobs.
func (c *Client) FetchJobs(ctx context.Context, jobsURL, token string) (*models.Jobs, error) {
	if jobsURL == "" {
		return nil, fmt.Errorf("run has no jobs url")
	}
	if !c.authenticateJobs {
		token = ""
	}

	var jobs models.Jobs
	if err := c.getJSON(ctx, jobsURL, token, &jobs); err != nil {
		return nil, err
	}
	return &jobs, nil
}

// RepositoryExists checks if a repository is visible with the given token
func (c *Client) RepositoryExists(ctx context.Context, repo, token string) (bool, error) {
	var result map[string]any
	err := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s", c.baseURL, repo), token, &result)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, token string, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return fmt.Errorf("request timed out after %v", c.timeout)
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, endpoint, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func newAPIError(status int, endpoint string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, URL: endpoint}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// OpenRunInBrowser opens a run page via the GitHub CLI.
func (c *Client) OpenRunInBrowser(repo string, runID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	args := []string{"run", "view", strconv.FormatInt(runID, 10), "-w"}

	if repo != "" {
		args = append(args, "--repo", repo)
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("gh run view timed out after %v", c.timeout)
		}
		return fmt.Errorf("failed to open run in browser: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// SplitRepository splits an owner/repo string.
func SplitRepository(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository format %q, expected owner/repo", repo)
	}
	return owner, name, nil
}
