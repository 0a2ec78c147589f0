package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Cloudsky01/gh-runview/internal/config"
	"github.com/Cloudsky01/gh-runview/internal/plain"
	"github.com/Cloudsky01/gh-runview/internal/state"
	"github.com/Cloudsky01/gh-runview/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errReported marks failures already printed to the user
var errReported = errors.New("reported")

var (
	configPath string
	repo       string
	noState    bool
	plainOut   bool
	format     string

	rootCmd = &cobra.Command{
		Use:   "runview [run-id]",
		Short: "Terminal viewer for GitHub Actions workflow runs",
		Long: `runview shows the details of a GitHub Actions workflow run: branch,
commit, status, author, and every job with its steps and elapsed times.

Without a run id it opens the list of recent runs (or the run you were
looking at last time).

The repository comes from --repo, then the configured repository, then the
origin remote of the current git checkout.

Authentication:
  GITHUB_TOKEN / GH_TOKEN, or the GitHub CLI (gh auth token)

Get started:
  runview init            # Create a configuration file
  runview 1234567890      # Open a run
  runview show 123 --plain  # Print a run without the TUI`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runView,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a configuration file (default: merged XDG and project files)")
	rootCmd.PersistentFlags().StringVarP(&repo, "repo", "r", "", "Repository in OWNER/REPO format (defaults to the git origin remote)")

	rootCmd.Flags().BoolVar(&noState, "no-state", false, "Disable state persistence (don't save or restore navigation state)")
	rootCmd.Flags().BoolVar(&plainOut, "plain", false, "Print without the TUI")
	rootCmd.Flags().StringVarP(&format, "format", "f", plain.FormatTable, "Plain output format: table, markdown or json")

	rootCmd.SetVersionTemplate(fmt.Sprintf("runview %s (commit %s, built %s)\n", version, commit, date))
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func runView(cmd *cobra.Command, args []string) error {
	runID := ""
	if len(args) == 1 {
		runID = args[0]
	}

	if plainOut || !stdoutIsTerminal() {
		if runID != "" {
			return runShow(cmd, args)
		}
		return runList(cmd)
	}

	s, err := newSession(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	statePath := ""
	if !noState {
		statePath, err = state.PathFor(s.paths, s.repository)
		if err != nil {
			s.logger.Warn("state disabled", "err", err)
		}
	}

	app := tui.NewApp(s.loader, tui.Options{
		RunID:           runID,
		StatePath:       statePath,
		NoRestoreState:  noState,
		RefreshInterval: s.cfg.RefreshInterval,
		RunsLimit:       s.cfg.Limit(),
		Logger:          s.logger,
		Context:         cmd.Context(),
	})

	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	config.WatchConfig(s.viper, func(c *config.Config) {
		program.Send(tui.ConfigReloadedMsg{Config: c})
	})

	s.logger.Info("starting tui", "repo", s.repository, "run", runID, "version", version)
	_, err = program.Run()
	app.Stop()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
