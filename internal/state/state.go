package state

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Cloudsky01/gh-runview/internal/github"
	"github.com/Cloudsky01/gh-runview/internal/paths"
)

// ViewState represents the current view in the TUI
type ViewState string

const (
	ViewRuns       ViewState = "runs"
	ViewRunDetails ViewState = "runDetails"
)

// NavigationState is what gets restored on the next launch. It never holds
// fetched run data, only where the user was.
type NavigationState struct {
	ViewState ViewState `yaml:"viewState"`

	// RunID is the run shown in the details view
	RunID int64 `yaml:"runId,omitempty"`

	// ExpandedJobs lists job names left expanded in the details view
	ExpandedJobs []string `yaml:"expandedJobs,omitempty"`

	// Cursor positions for better UX
	RunsIndex int `yaml:"runsIndex,omitempty"`
	JobIndex  int `yaml:"jobIndex,omitempty"`
}

// PathFor returns the per-repository state file, creating the state dir.
func PathFor(p *paths.Paths, repository string) (string, error) {
	owner, name, err := github.SplitRepository(repository)
	if err != nil {
		return "", err
	}

	if err := p.EnsureDirs(); err != nil {
		return "", fmt.Errorf("failed to ensure state directory: %w", err)
	}

	return p.UserStateFile(owner, name), nil
}

func defaultState() *NavigationState {
	return &NavigationState{ViewState: ViewRuns}
}

// Load reads the navigation state. A missing or corrupted file yields the
// default state.
func Load(path string) (*NavigationState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultState(), nil
		}
		return nil, err
	}

	var state NavigationState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return defaultState(), nil
	}
	if state.ViewState == "" {
		state.ViewState = ViewRuns
	}

	return &state, nil
}

// Save writes the navigation state to a file
func (s *NavigationState) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IsExpanded reports whether a job was left expanded
func (s *NavigationState) IsExpanded(jobName string) bool {
	return slices.Contains(s.ExpandedJobs, jobName)
}

// Clear removes the state file
func Clear(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
