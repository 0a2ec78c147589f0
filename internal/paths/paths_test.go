package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", filepath.Join(t.TempDir(), "state"))

	p, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if !strings.HasSuffix(p.UserConfigDir, AppName) {
		t.Errorf("UserConfigDir should end with %s, got %s", AppName, p.UserConfigDir)
	}
	if !strings.HasSuffix(p.UserStateDir, filepath.Join("state", AppName)) {
		t.Errorf("UserStateDir should honour XDG_STATE_HOME, got %s", p.UserStateDir)
	}
	if p.ProjectRoot != "" {
		t.Errorf("ProjectRoot should be empty, got %s", p.ProjectRoot)
	}
}

func TestNewWithProject(t *testing.T) {
	root := t.TempDir()

	p, err := NewWithProject(root)
	if err != nil {
		t.Fatalf("NewWithProject() failed: %v", err)
	}

	if p.RepoDefaultConfigPath != filepath.Join(root, ".github", RepoConfigName) {
		t.Errorf("unexpected repo default path %s", p.RepoDefaultConfigPath)
	}
	if p.ProjectUserConfigPath != filepath.Join(root, ".git", AppName, ConfigFileName) {
		t.Errorf("unexpected project user path %s", p.ProjectUserConfigPath)
	}
}

func TestUserStateFile(t *testing.T) {
	p := &Paths{UserStateDir: "/state"}

	tests := []struct {
		name      string
		owner     string
		repo      string
		wantMatch string
	}{
		{name: "with owner and repo", owner: "octocat", repo: "hello-world", wantMatch: "octocat_hello-world.state.yaml"},
		{name: "empty owner and repo", wantMatch: StateFileName},
		{name: "owner with special chars", owner: "owner/with/slashes", repo: "repo:name", wantMatch: "owner_with_slashes_repo_name.state.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stateFile := p.UserStateFile(tt.owner, tt.repo)
			if !strings.HasSuffix(stateFile, tt.wantMatch) {
				t.Errorf("UserStateFile() should end with '%s', got: %s", tt.wantMatch, stateFile)
			}
		})
	}
}

func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	p := &Paths{
		UserConfigDir: filepath.Join(tmpDir, "config", AppName),
		UserStateDir:  filepath.Join(tmpDir, "state", AppName),
		UserCacheDir:  filepath.Join(tmpDir, "cache", AppName),
	}

	if err := p.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() failed: %v", err)
	}

	for _, dir := range []string{p.UserConfigDir, p.UserStateDir, p.UserCacheDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("Directory %s was not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	if p.UsingFallback("state") {
		t.Error("state dir should not need a fallback")
	}
}

func TestGetConfigPathsOrder(t *testing.T) {
	tmpDir := t.TempDir()
	projectRoot := filepath.Join(tmpDir, "project")

	p := &Paths{UserConfigDir: filepath.Join(tmpDir, "config")}
	p.setProject(projectRoot)

	files := []string{p.UserConfigFile(), p.RepoDefaultConfigPath, p.ProjectUserConfigPath}
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(f, []byte("repository: a/b\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got := p.GetConfigPaths()
	want := []string{p.RepoDefaultConfigPath, p.UserConfigFile(), p.ProjectUserConfigPath}
	if len(got) < len(want) {
		t.Fatalf("expected at least %d paths, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path %d: got %s, want %s", i, got[i], want[i])
		}
	}

	if src := p.GetConfigSource(p.RepoDefaultConfigPath); src != SourceRepoDefault {
		t.Errorf("expected repository default source, got %s", src)
	}
	if src := p.GetConfigSource(p.UserConfigFile()); src != SourceUserConfig {
		t.Errorf("expected user config source, got %s", src)
	}
}

func TestSanitizeForFilename(t *testing.T) {
	if got := sanitizeForFilename(`a/b\c:d*e?f"g<h>i|j`); got != "a_b_c_d_e_f_g_h_i_j" {
		t.Errorf("unexpected sanitized name %q", got)
	}
}
