package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cloudsky01/gh-runview/internal/plain"
)

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a workflow run without the TUI",
	Long: `Fetch a run and its jobs once and print them as a table, markdown or
JSON. Useful in scripts and CI logs.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print recent workflow runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd)
	},
}

func init() {
	for _, c := range []*cobra.Command{showCmd, listCmd} {
		c.Flags().StringVarP(&format, "format", "f", plain.FormatTable, "Output format: table, markdown or json")
		rootCmd.AddCommand(c)
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	if !plain.ValidFormat(format) {
		return fmt.Errorf("unknown format %q", format)
	}

	s, err := newSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	run, token, err := s.loader.LoadRun(ctx, args[0])
	if err != nil {
		s.logger.Debug("failed to load run", "run", args[0], "err", err)
		plain.RenderError(cmd.OutOrStdout(), err)
		return errReported
	}

	jobs, err := s.loader.LoadJobs(ctx, run, token)
	if err != nil {
		s.logger.Warn("failed to load jobs", "run", run.ID, "err", err)
		jobs = nil
	}

	return plain.RenderRun(cmd.OutOrStdout(), run, jobs, time.Now(), format)
}

func runList(cmd *cobra.Command) error {
	if !plain.ValidFormat(format) {
		return fmt.Errorf("unknown format %q", format)
	}

	s, err := newSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.loader.LoadRuns(cmd.Context(), s.cfg.Limit())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Failed to load runs, "+err.Error())
		return errReported
	}
	return plain.RenderRuns(cmd.OutOrStdout(), runs, time.Now(), format)
}
