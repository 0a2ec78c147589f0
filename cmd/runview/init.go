package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Cloudsky01/gh-runview/internal/ascii"
	"github.com/Cloudsky01/gh-runview/internal/auth"
	"github.com/Cloudsky01/gh-runview/internal/config"
	"github.com/Cloudsky01/gh-runview/internal/git"
	"github.com/Cloudsky01/gh-runview/internal/github"
	"github.com/Cloudsky01/gh-runview/internal/paths"
	"github.com/Cloudsky01/gh-runview/internal/wizard"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var (
	force bool

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Walk through the runview settings and write them to the user config
(~/.config/runview/config.yaml), this clone only (.git/runview/config.yaml)
or the team default (.github/runview.yaml). If the file already exists,
init asks before overwriting it; --force skips the question.`,
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

// determineConfigSaveTarget picks the file init writes to. An explicit
// --config path always wins.
func determineConfigSaveTarget(p *paths.Paths, explicit string, location wizard.SaveLocation) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	switch location {
	case wizard.SaveProject:
		if p.ProjectUserConfigPath == "" {
			return "", fmt.Errorf("not inside a git repository, cannot save a project config")
		}
		return p.ProjectUserConfigPath, nil
	case wizard.SaveTeam:
		if p.RepoDefaultConfigPath == "" {
			return "", fmt.Errorf("not inside a git repository, cannot save a team config")
		}
		return p.RepoDefaultConfigPath, nil
	default:
		return p.UserConfigFile(), nil
	}
}

// confirmOverwrite reports whether init may write target. Missing files and
// --force need no question.
func confirmOverwrite(target string, force bool, ask func(string) (bool, error)) (bool, error) {
	if force {
		return true, nil
	}
	if _, err := os.Stat(target); err != nil {
		return true, nil
	}
	ok, err := ask(target)
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		fmt.Println(infoStyle.Render("Keeping " + target + ". Nothing was written."))
	}
	return ok, nil
}

func askOverwrite(target string) (bool, error) {
	overwrite := false
	err := wizard.AskConfirm(
		"Overwrite existing configuration?",
		target+" already exists.",
		&overwrite,
	)
	return overwrite, err
}

func runInit(cmd *cobra.Command, args []string) error {
	if !wizard.IsTTY() {
		return fmt.Errorf("runview init needs an interactive terminal")
	}

	p, err := resolvePaths()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	current, err := config.Load(p, configPath)
	if err != nil {
		current = config.Default()
	}
	detected, _ := git.DetectRepository()

	fmt.Println(ascii.Banner(lipgloss.Color("39"), "GitHub Actions runs in your terminal"))

	// An explicit --config target is known up front, so ask before the wizard.
	if configPath != "" {
		ok, err := confirmOverwrite(configPath, force, askOverwrite)
		if err != nil || !ok {
			return err
		}
	}

	w := wizard.New(detected, current, p.ProjectRoot != "")
	cfg, location, err := w.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	target, err := determineConfigSaveTarget(p, configPath, location)
	if err != nil {
		return err
	}
	if target != configPath {
		ok, err := confirmOverwrite(target, force, askOverwrite)
		if err != nil || !ok {
			return err
		}
	}

	if cfg.Repository != "" {
		checkRepository(cmd.Context(), cfg)
	}

	if err := cfg.Save(target); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	printSuccessSummary(target, cfg)
	return nil
}

// checkRepository warns when the repository is not visible with the
// configured token. It never blocks saving.
func checkRepository(ctx context.Context, cfg *config.Config) {
	tokens, err := auth.FromNames(cfg.TokenSources, cfg.TimeoutDuration())
	if err != nil {
		return
	}
	client := github.NewClient(github.WithBaseURL(cfg.APIURL), github.WithTimeout(cfg.TimeoutDuration()))

	exists, err := wizard.RunWithSpinner(ctx, "Checking "+cfg.Repository, func(ctx context.Context) (bool, error) {
		token, err := tokens.AccessToken(ctx, auth.DefaultScopes)
		if err != nil {
			return false, err
		}
		return client.RepositoryExists(ctx, cfg.Repository, token)
	})
	if err != nil {
		fmt.Println(wizard.Warn("⚠ Could not verify repository: " + err.Error()))
		return
	}
	if !exists {
		fmt.Println(wizard.Warn("⚠ Repository " + cfg.Repository + " was not found or is not visible with your token"))
	}
}

func printSuccessSummary(target string, cfg *config.Config) {
	divider := dividerStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	repository := cfg.Repository
	if repository == "" {
		repository = "(git origin remote)"
	}
	refresh := "off"
	if cfg.RefreshInterval > 0 {
		refresh = fmt.Sprintf("every %ds", cfg.RefreshInterval)
	}

	fmt.Println()
	fmt.Println(divider)
	fmt.Println(successStyle.Render("✓ Configuration created"))
	fmt.Println(divider)
	fmt.Println()
	fmt.Println(labelStyle.Render("Config file:  ") + infoStyle.Render(target))
	fmt.Println(labelStyle.Render("Repository:   ") + infoStyle.Render(repository))
	fmt.Println(labelStyle.Render("Auto-refresh: ") + infoStyle.Render(refresh))
	fmt.Println()
	fmt.Println(headerStyle.Render("Next steps:"))
	fmt.Println(infoStyle.Render("   runview            # Browse recent runs"))
	fmt.Println(infoStyle.Render("   runview <run-id>   # Open a run"))
	fmt.Println(infoStyle.Render("   runview --help     # See all options"))
	if filepath.Base(target) == paths.RepoConfigName {
		fmt.Println()
		fmt.Println(wizard.Info("Commit " + target + " to share it with your team."))
	}
	fmt.Println()
}
