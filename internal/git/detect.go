package git

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxSearchDepth = 10

// DetectRepository returns owner/repo for the origin remote of the git
// repository containing the working directory.
func DetectRepository() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return DetectRepositoryFrom(cwd)
}

// DetectRepositoryFrom is DetectRepository starting at dir.
func DetectRepositoryFrom(dir string) (string, error) {
	root, err := FindRoot(dir)
	if err != nil {
		return "", err
	}
	return parseGitConfig(filepath.Join(root, ".git", "config"))
}

// FindRoot walks up from dir to the first directory holding .git/config
func FindRoot(dir string) (string, error) {
	current := dir
	for range maxSearchDepth {
		configPath := filepath.Join(current, ".git", "config")
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", fmt.Errorf("no .git/config found - not in a git repository")
}

// parseGitConfig extracts owner/repo from the origin remote url
func parseGitConfig(configPath string) (string, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to read git config: %w", err)
	}
	defer f.Close()

	var inOrigin bool
	var url string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "[") {
			inOrigin = line == `[remote "origin"]`
			continue
		}

		if !inOrigin {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(key) == "url" {
			url = strings.TrimSpace(value)
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read git config: %w", err)
	}

	if url == "" {
		return "", fmt.Errorf("no origin remote found in git config")
	}

	repo := extractRepoFromURL(url)
	if repo == "" {
		return "", fmt.Errorf("failed to extract owner/repo from URL: %s", url)
	}

	return repo, nil
}

// extractRepoFromURL converts GitHub remote URLs to owner/repo:
//   - https://github.com/owner/repo(.git)
//   - ssh://git@github.com/owner/repo(.git)
//   - git@github.com:owner/repo(.git)
func extractRepoFromURL(url string) string {
	var repo string

	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		repo = strings.TrimPrefix(url, "git@github.com:")
	default:
		idx := strings.Index(url, "github.com/")
		if idx == -1 {
			return ""
		}
		repo = url[idx+len("github.com/"):]
	}

	repo = strings.TrimSuffix(repo, "/")
	repo = strings.TrimSuffix(repo, ".git")

	if !isValidRepoFormat(repo) {
		return ""
	}
	return repo
}
