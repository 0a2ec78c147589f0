package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Cloudsky01/gh-runview/internal/github"
	"github.com/Cloudsky01/gh-runview/internal/paths"
)

const (
	DefaultRunsLimit = 20
	EnvPrefix        = "RUNVIEW"
)

var repoFormatRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

type Config struct {
	Repository       string    `yaml:"repository,omitempty" mapstructure:"repository"`
	APIURL           string    `yaml:"api_url,omitempty" mapstructure:"api_url"`
	Timeout          string    `yaml:"timeout,omitempty" mapstructure:"timeout"`
	RefreshInterval  int       `yaml:"refresh_interval,omitempty" mapstructure:"refresh_interval"`
	RunsLimit        int       `yaml:"runs_limit,omitempty" mapstructure:"runs_limit"`
	AuthenticateJobs bool      `yaml:"authenticate_jobs,omitempty" mapstructure:"authenticate_jobs"`
	TokenSources     []string  `yaml:"token_sources,omitempty" mapstructure:"token_sources"`
	Log              LogConfig `yaml:"log,omitempty" mapstructure:"log"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty" mapstructure:"level"`
	File  string `yaml:"file,omitempty" mapstructure:"file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		APIURL:       github.DefaultAPIURL,
		Timeout:      github.DefaultTimeout.String(),
		RunsLimit:    DefaultRunsLimit,
		TokenSources: []string{"env", "gh"},
		Log:          LogConfig{Level: "info"},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	def := Default()
	v.SetDefault("repository", "")
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("refresh_interval", 0)
	v.SetDefault("runs_limit", def.RunsLimit)
	v.SetDefault("authenticate_jobs", false)
	v.SetDefault("token_sources", def.TokenSources)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration. An explicit path must exist and is the only file
// read; otherwise every file from p.GetConfigPaths is merged in precedence
// order. Environment variables (RUNVIEW_*) override files.
func Load(p *paths.Paths, explicit string) (*Config, error) {
	cfg, _, err := LoadWithViper(p, explicit)
	return cfg, err
}

func LoadWithViper(p *paths.Paths, explicit string) (*Config, *viper.Viper, error) {
	v := newViper()

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if p != nil {
		for _, path := range p.GetConfigPaths() {
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				return nil, nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Debug("merged config", "path", path, "source", p.GetConfigSource(path).String())
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, v, nil
}

// WatchConfig re-reads the config file on change and hands the result to
// onConfigChange. Invalid reloads are logged and skipped.
func WatchConfig(v *viper.Viper, onConfigChange func(*Config)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		var newConfig Config
		if err := v.Unmarshal(&newConfig); err != nil {
			slog.Error("error reloading config", "file", e.Name, "err", err)
			return
		}
		if err := newConfig.Validate(); err != nil {
			slog.Warn("ignoring invalid config reload", "file", e.Name, "err", err)
			return
		}
		slog.Info("config reloaded", "file", e.Name, "op", e.Op.String())
		onConfigChange(&newConfig)
	})
	v.WatchConfig()
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# runview configuration
#
# - repository: GitHub repository in owner/repo format (defaults to the git origin remote)
# - api_url: GitHub REST API base URL
# - timeout: per-request timeout (e.g. 30s)
# - refresh_interval: seconds between automatic refreshes, 0 disables
# - authenticate_jobs: send the token when fetching a run's jobs_url
# - token_sources: where to look for a token, in order (env, gh)

`
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(header+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Repository != "" && !repoFormatRegex.MatchString(c.Repository) {
		errs = append(errs, fmt.Errorf("invalid repository format %q, expected owner/repo", c.Repository))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("invalid timeout %q", c.Timeout))
		}
	}
	if c.RefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("refresh_interval must not be negative"))
	}
	if c.RunsLimit < 0 || c.RunsLimit > 100 {
		errs = append(errs, fmt.Errorf("runs_limit must be between 0 and 100"))
	}
	for _, src := range c.TokenSources {
		switch strings.ToLower(src) {
		case "env", "gh":
		default:
			errs = append(errs, fmt.Errorf("unknown token source %q", src))
		}
	}

	return errors.Join(errs...)
}

// TimeoutDuration returns the parsed timeout or the client default.
func (c *Config) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return github.DefaultTimeout
}

func (c *Config) Limit() int {
	if c.RunsLimit <= 0 {
		return DefaultRunsLimit
	}
	return c.RunsLimit
}
