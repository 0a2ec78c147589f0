package wizard

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/Cloudsky01/gh-runview/internal/config"
	"github.com/Cloudsky01/gh-runview/internal/git"
)

// SaveLocation is where the wizard writes the resulting file
type SaveLocation string

const (
	SaveUser    SaveLocation = "user"
	SaveProject SaveLocation = "project"
	SaveTeam    SaveLocation = "team"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Answers collects the form values
type Answers struct {
	Repository       string
	RefreshInterval  string
	AuthenticateJobs bool
	TokenSources     []string
	Location         SaveLocation
}

// Wizard handles the interactive configuration creation
type Wizard struct {
	answers    Answers
	inProject  bool
	accessible bool
}

// New seeds the form with a detected repository and the current defaults.
// inProject enables the project and team save locations.
func New(detectedRepo string, current *config.Config, inProject bool) *Wizard {
	if current == nil {
		current = config.Default()
	}
	repo := current.Repository
	if repo == "" {
		repo = detectedRepo
	}
	return &Wizard{
		answers: Answers{
			Repository:       repo,
			RefreshInterval:  strconv.Itoa(current.RefreshInterval),
			AuthenticateJobs: current.AuthenticateJobs,
			TokenSources:     append([]string(nil), current.TokenSources...),
			Location:         SaveUser,
		},
		inProject:  inProject,
		accessible: os.Getenv("ACCESSIBLE") != "",
	}
}

// Run shows the form and returns the resulting config and save location.
func (w *Wizard) Run() (*config.Config, SaveLocation, error) {
	fmt.Println()
	fmt.Println(titleStyle.Render("runview configuration"))
	fmt.Println(infoStyle.Render("Press enter to accept a default, esc to go back."))
	fmt.Println()

	if err := w.form().Run(); err != nil {
		return nil, "", err
	}

	cfg, err := BuildConfig(w.answers)
	if err != nil {
		return nil, "", err
	}
	return cfg, w.answers.Location, nil
}

func (w *Wizard) form() *huh.Form {
	locations := []huh.Option[SaveLocation]{
		huh.NewOption("User config (~/.config/runview)", SaveUser),
	}
	if w.inProject {
		locations = append(locations,
			huh.NewOption("This clone only (.git/runview)", SaveProject),
			huh.NewOption("Team default (.github/runview.yaml)", SaveTeam),
		)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Repository").
				Description("owner/repo whose workflow runs you want to view").
				Placeholder("octocat/hello-world").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					return git.ValidateRepositoryFormat(s)
				}).
				Value(&w.answers.Repository),

			huh.NewSelect[string]().
				Title("Auto-refresh").
				Description("Re-fetch the open run periodically (toggle with ctrl+t)").
				Options(RefreshOptions()...).
				Value(&w.answers.RefreshInterval),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Token sources").
				Description("Tried in order until one returns a token").
				Options(
					huh.NewOption("Environment (GITHUB_TOKEN, GH_TOKEN)", "env"),
					huh.NewOption("GitHub CLI (gh auth token)", "gh"),
				).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("select at least one source")
					}
					return nil
				}).
				Value(&w.answers.TokenSources),

			huh.NewConfirm().
				Title("Authenticate the jobs request?").
				Description("Needed for private repositories").
				Affirmative("Yes").
				Negative("No").
				Value(&w.answers.AuthenticateJobs),

			huh.NewSelect[SaveLocation]().
				Title("Save to").
				Options(locations...).
				Value(&w.answers.Location),
		),
	).WithAccessible(w.accessible)
}

// RefreshOptions are the auto-refresh choices offered, values in seconds
func RefreshOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Off", "0"),
		huh.NewOption("Every 10 seconds", "10"),
		huh.NewOption("Every 30 seconds", "30"),
		huh.NewOption("Every minute", "60"),
	}
}

// BuildConfig turns form answers into a validated config
func BuildConfig(a Answers) (*config.Config, error) {
	cfg := config.Default()
	cfg.Repository = a.Repository
	cfg.AuthenticateJobs = a.AuthenticateJobs
	if len(a.TokenSources) > 0 {
		cfg.TokenSources = a.TokenSources
	}

	if a.RefreshInterval != "" {
		interval, err := strconv.Atoi(a.RefreshInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid refresh interval %q: %w", a.RefreshInterval, err)
		}
		cfg.RefreshInterval = interval
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AskConfirm shows a single yes/no question
func AskConfirm(title, description string, value *bool) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(value),
		),
	).Run()
}

// IsTTY reports whether stdin and stdout are both terminals
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func Warn(msg string) string {
	return warnStyle.Render(msg)
}

func Info(msg string) string {
	return infoStyle.Render(msg)
}
