package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultScopes are requested for reading workflow runs.
var DefaultScopes = []string{"repo", "user"}

var ErrNoToken = errors.New("no GitHub token available")

// TokenSource hands out access tokens for the given scopes. Implementations
// may block; they must honour ctx.
type TokenSource interface {
	AccessToken(ctx context.Context, scopes []string) (string, error)
}

// StaticSource always returns the same token.
type StaticSource string

func (s StaticSource) AccessToken(ctx context.Context, scopes []string) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// EnvSource reads a token from the first non-empty environment variable.
type EnvSource struct {
	Vars []string
}

func NewEnvSource() EnvSource {
	return EnvSource{Vars: []string{"GITHUB_TOKEN", "GH_TOKEN"}}
}

func (e EnvSource) AccessToken(ctx context.Context, scopes []string) (string, error) {
	for _, name := range e.Vars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: none of %s set", ErrNoToken, strings.Join(e.Vars, ", "))
}

// GHCLISource asks an authenticated GitHub CLI for its token.
type GHCLISource struct {
	Binary  string
	Timeout time.Duration
}

func NewGHCLISource(timeout time.Duration) GHCLISource {
	return GHCLISource{Binary: "gh", Timeout: timeout}
}

func (g GHCLISource) AccessToken(ctx context.Context, scopes []string) (string, error) {
	binary := g.Binary
	if binary == "" {
		binary = "gh"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return "", fmt.Errorf("%w: GitHub CLI (%s) is not installed", ErrNoToken, binary)
	}

	cmdCtx := ctx
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, binary, "auth", "token")
	output, err := cmd.Output()
	if err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("gh auth token timed out after %v", g.Timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: gh auth token failed: %s", ErrNoToken, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", fmt.Errorf("%w: gh returned an empty token, run: gh auth login", ErrNoToken)
	}
	return token, nil
}

// Chain tries each source in order and returns the first token found.
type Chain []TokenSource

func (c Chain) AccessToken(ctx context.Context, scopes []string) (string, error) {
	var errs []error
	for _, src := range c {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		token, err := src.AccessToken(ctx, scopes)
		if err == nil {
			return token, nil
		}
		slog.Debug("token source failed", "source", fmt.Sprintf("%T", src), "scopes", scopes, "err", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrNoToken
	}
	return "", errors.Join(errs...)
}

// FromNames builds a Chain from configured source names ("env", "gh").
func FromNames(names []string, timeout time.Duration) (Chain, error) {
	if len(names) == 0 {
		names = []string{"env", "gh"}
	}
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "env":
			chain = append(chain, NewEnvSource())
		case "gh":
			chain = append(chain, NewGHCLISource(timeout))
		default:
			return nil, fmt.Errorf("unknown token source %q (expected env or gh)", name)
		}
	}
	return chain, nil
}
