package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/Cloudsky01/gh-runview/internal/auth"
	"github.com/Cloudsky01/gh-runview/internal/config"
	"github.com/Cloudsky01/gh-runview/internal/git"
	"github.com/Cloudsky01/gh-runview/internal/github"
	"github.com/Cloudsky01/gh-runview/internal/loader"
	"github.com/Cloudsky01/gh-runview/internal/logging"
	"github.com/Cloudsky01/gh-runview/internal/paths"
	"github.com/Cloudsky01/gh-runview/internal/telemetry"
)

// session is everything a command needs to talk to GitHub
type session struct {
	paths      *paths.Paths
	cfg        *config.Config
	viper      *viper.Viper
	logger     *slog.Logger
	repository string
	client     *github.Client
	loader     *loader.Loader

	logCloser io.Closer
	shutdown  telemetry.Shutdown
}

func resolvePaths() (*paths.Paths, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return paths.New()
	}
	if root, err := git.FindRoot(cwd); err == nil {
		return paths.NewWithProject(root)
	}
	return paths.New()
}

func resolveRepository(cfg *config.Config) (string, error) {
	return git.ResolveRepository(repo, cfg.Repository, git.DetectRepository)
}

// newSession loads configuration and wires logging, tracing, auth and the
// API client. Interactive sessions log to a file since the TUI owns the
// terminal; otherwise logs go to stderr.
func newSession(ctx context.Context, interactive bool) (*session, error) {
	p, err := resolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize paths: %w", err)
	}

	cfg, v, err := config.LoadWithViper(p, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &session{paths: p, cfg: cfg, viper: v}

	level := logging.ParseLevel(cfg.Log.Level)
	switch {
	case cfg.Log.File != "":
		s.logger, s.logCloser, err = logging.OpenFile(cfg.Log.File, level)
	case interactive:
		if derr := p.EnsureDirs(); derr != nil {
			return nil, derr
		}
		s.logger, s.logCloser, err = logging.OpenFile(p.LogFile(), level)
	default:
		s.logger = logging.New(os.Stderr, max(level, slog.LevelWarn))
	}
	if err != nil {
		return nil, err
	}
	slog.SetDefault(s.logger)

	s.shutdown, err = telemetry.Init(ctx, "runview", version)
	if err != nil {
		s.logger.Warn("tracing disabled", "err", err)
	}

	s.repository, err = resolveRepository(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	tokens, err := auth.FromNames(cfg.TokenSources, cfg.TimeoutDuration())
	if err != nil {
		s.Close()
		return nil, err
	}

	s.client = github.NewClient(
		github.WithBaseURL(cfg.APIURL),
		github.WithTimeout(cfg.TimeoutDuration()),
		github.WithAuthenticatedJobs(cfg.AuthenticateJobs),
	)

	s.loader, err = loader.New(tokens, s.client, s.repository, s.logger)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.logger.Debug("session ready",
		"repo", s.repository,
		"api", s.client.BaseURL(),
		"timeout", s.client.GetTimeout(),
		"authenticate_jobs", cfg.AuthenticateJobs,
	)
	return s, nil
}

func (s *session) Close() {
	if s.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.shutdown(ctx); err != nil {
			s.logger.Warn("failed to flush traces", "err", err)
		}
	}
	if s.logCloser != nil {
		_ = s.logCloser.Close()
	}
}
