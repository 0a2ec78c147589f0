package paths

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application name used in config paths
	AppName = "runview"

	ConfigFileName  = "config.yaml"
	StateFileName   = "state.yaml"
	LogFileName     = "runview.log"
	RepoConfigName  = "runview.yaml"
	LocalConfigName = ".runview.yaml"
)

// ConfigSource indicates where a config file came from
type ConfigSource int

const (
	SourceUnknown ConfigSource = iota
	SourceUserConfig
	SourceProjectConfig
	SourceRepoDefault
	SourceLocal
)

func (s ConfigSource) String() string {
	switch s {
	case SourceUserConfig:
		return "user config"
	case SourceProjectConfig:
		return "project config"
	case SourceRepoDefault:
		return "repository default"
	case SourceLocal:
		return "working directory"
	default:
		return "unknown"
	}
}

// Paths resolves XDG locations plus the optional per-project files.
type Paths struct {
	// UserConfigDir is ~/.config/runview
	UserConfigDir string

	// UserStateDir is ~/.local/state/runview
	UserStateDir string

	// UserCacheDir is ~/.cache/runview
	UserCacheDir string

	// ProjectRoot is the root of the current git repository (if any)
	ProjectRoot string

	// RepoDefaultConfigPath is the team-shared .github/runview.yaml
	RepoDefaultConfigPath string

	// ProjectUserConfigPath is .git/runview/config.yaml
	ProjectUserConfigPath string

	usingFallbacks map[string]bool
}

// New creates a Paths instance with XDG-compliant directories
func New() (*Paths, error) {
	p := &Paths{
		usingFallbacks: make(map[string]bool),
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config directory: %w", err)
	}
	p.UserConfigDir = filepath.Join(configDir, AppName)

	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	p.UserStateDir = filepath.Join(stateDir, AppName)

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user cache directory: %w", err)
	}
	p.UserCacheDir = filepath.Join(cacheDir, AppName)

	return p, nil
}

// NewWithProject adds project-specific config locations under projectRoot
func NewWithProject(projectRoot string) (*Paths, error) {
	p, err := New()
	if err != nil {
		return nil, err
	}
	p.setProject(projectRoot)
	return p, nil
}

func (p *Paths) setProject(projectRoot string) {
	p.ProjectRoot = projectRoot
	if projectRoot == "" {
		return
	}
	p.RepoDefaultConfigPath = filepath.Join(projectRoot, ".github", RepoConfigName)
	p.ProjectUserConfigPath = filepath.Join(projectRoot, ".git", AppName, ConfigFileName)
}

func (p *Paths) UserConfigFile() string {
	return filepath.Join(p.UserConfigDir, ConfigFileName)
}

func (p *Paths) LogFile() string {
	return filepath.Join(p.UserStateDir, LogFileName)
}

// UserStateFile returns the state file for one repository
func (p *Paths) UserStateFile(repoOwner, repoName string) string {
	if repoOwner == "" || repoName == "" {
		return filepath.Join(p.UserStateDir, StateFileName)
	}
	filename := fmt.Sprintf("%s_%s.%s", sanitizeForFilename(repoOwner), sanitizeForFilename(repoName), StateFileName)
	return filepath.Join(p.UserStateDir, filename)
}

type dirSpec struct {
	path     *string
	name     string
	critical bool
}

// EnsureDirs creates the app directories with 0700 permissions. Non-critical
// directories fall back to the temp dir on permission errors; only a missing
// config directory is fatal.
func (p *Paths) EnsureDirs() error {
	if p.usingFallbacks == nil {
		p.usingFallbacks = make(map[string]bool)
	}

	specs := []dirSpec{
		{&p.UserConfigDir, "config", true},
		{&p.UserStateDir, "state", false},
		{&p.UserCacheDir, "cache", false},
	}

	for _, spec := range specs {
		if *spec.path == "" {
			continue
		}
		if err := p.ensureDir(spec); err != nil {
			if spec.critical {
				return err
			}
			slog.Warn("directory unavailable", "dir", spec.name, "err", err)
		}
	}

	return nil
}

func (p *Paths) ensureDir(spec dirSpec) error {
	original := *spec.path
	err := os.MkdirAll(original, 0700)
	if err == nil {
		return nil
	}
	if !os.IsPermission(err) || spec.critical {
		return fmt.Errorf("failed to create %s directory %s: %w", spec.name, original, err)
	}

	fallback := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s", AppName, spec.name))
	if ferr := os.MkdirAll(fallback, 0700); ferr != nil {
		return fmt.Errorf("permission denied for %s and fallback %s failed: %w", original, fallback, ferr)
	}
	*spec.path = fallback
	p.usingFallbacks[spec.name] = true
	slog.Warn("using fallback directory", "dir", spec.name, "path", fallback, "denied", original)
	return nil
}

// UsingFallback reports whether the named directory was redirected to tmp.
func (p *Paths) UsingFallback(name string) bool {
	return p.usingFallbacks[name]
}

// GetConfigPaths returns existing config files, lowest precedence first
func (p *Paths) GetConfigPaths() []string {
	candidates := []string{
		p.RepoDefaultConfigPath,
		p.UserConfigFile(),
		p.ProjectUserConfigPath,
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, LocalConfigName))
	}

	var found []string
	seen := make(map[string]bool)
	for _, path := range candidates {
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}
	return found
}

// GetConfigSource determines which source a config path corresponds to
func (p *Paths) GetConfigSource(path string) ConfigSource {
	switch {
	case path == p.UserConfigFile():
		return SourceUserConfig
	case p.ProjectUserConfigPath != "" && path == p.ProjectUserConfigPath:
		return SourceProjectConfig
	case p.RepoDefaultConfigPath != "" && path == p.RepoDefaultConfigPath:
		return SourceRepoDefault
	case filepath.Base(path) == LocalConfigName:
		return SourceLocal
	default:
		return SourceUnknown
	}
}

var filenameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

func sanitizeForFilename(s string) string {
	return filenameReplacer.Replace(s)
}
