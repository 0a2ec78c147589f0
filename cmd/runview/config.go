package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Cloudsky01/gh-runview/internal/config"
	"github.com/Cloudsky01/gh-runview/internal/state"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect runview configuration",
		Long: `Inspect runview configuration files.

Configuration Locations:
  Repo default:    .github/runview.yaml (team-shared defaults, optional)
  User config:     ~/.config/runview/config.yaml
  Project user:    .git/runview/config.yaml (per-clone overrides)
  Working dir:     ./.runview.yaml

Configuration Precedence (lowest to highest):
  1. Repository default
  2. User config
  3. Project user config
  4. Working directory file
  5. Environment variables (RUNVIEW_*)
  6. CLI flags`,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		RunE:  runConfigPath,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Display merged configuration",
		RunE:  runConfigShow,
	}

	configResetStateCmd = &cobra.Command{
		Use:   "reset-state",
		Short: "Forget the saved navigation state for the repository",
		RunE:  runConfigResetState,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configShowCmd, configResetStateCmd)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	p, err := resolvePaths()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration File Locations")
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "User Config:        %s %s\n", p.UserConfigFile(), existsIndicator(fileExists(p.UserConfigFile())))

	if p.ProjectRoot != "" {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Project Root:       %s\n", p.ProjectRoot)
		fmt.Fprintf(out, "Repo Default:       %s %s\n", p.RepoDefaultConfigPath, existsIndicator(fileExists(p.RepoDefaultConfigPath)))
		fmt.Fprintf(out, "Project User:       %s %s\n", p.ProjectUserConfigPath, existsIndicator(fileExists(p.ProjectUserConfigPath)))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "State Directory:    %s\n", p.UserStateDir)
	fmt.Fprintf(out, "Cache Directory:    %s\n", p.UserCacheDir)
	fmt.Fprintf(out, "Log File:           %s\n", p.LogFile())
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p, err := resolvePaths()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	cfg, err := config.Load(p, configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Merged Configuration")
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, string(data))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "⚠ Invalid: %v\n\n", err)
	}

	fmt.Fprintln(out, "Active Configuration Files:")
	if configPath != "" {
		fmt.Fprintf(out, "  • %s (--config)\n", configPath)
		return nil
	}
	for _, path := range p.GetConfigPaths() {
		fmt.Fprintf(out, "  • %s (%s)\n", path, p.GetConfigSource(path))
	}
	return nil
}

func runConfigResetState(cmd *cobra.Command, args []string) error {
	p, err := resolvePaths()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}
	cfg, err := config.Load(p, configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	repository, err := resolveRepository(cfg)
	if err != nil {
		return err
	}
	path, err := state.PathFor(p, repository)
	if err != nil {
		return err
	}
	if err := state.Clear(path); err != nil {
		return fmt.Errorf("failed to remove state: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Navigation state cleared for %s\n", repository)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func existsIndicator(exists bool) string {
	if exists {
		return "✓"
	}
	return "✗"
}
