package git

import (
	"fmt"
	"regexp"
)

var repoPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

func isValidRepoFormat(repo string) bool {
	return repoPattern.MatchString(repo)
}

// ValidateRepositoryFormat validates that a repository string is in the correct owner/repo format
func ValidateRepositoryFormat(repo string) error {
	if !isValidRepoFormat(repo) {
		return fmt.Errorf("invalid repository format: %q - expected format: owner/repo", repo)
	}
	return nil
}

// ResolveRepository picks the repository to show: the flag wins over the
// configured value, which wins over the detected origin remote.
func ResolveRepository(flag, configured string, detect func() (string, error)) (string, error) {
	for _, candidate := range []string{flag, configured} {
		if candidate != "" {
			return candidate, ValidateRepositoryFormat(candidate)
		}
	}

	if detect == nil {
		detect = DetectRepository
	}
	repo, err := detect()
	if err != nil {
		return "", fmt.Errorf("no repository given and none detected, use --repo owner/repo: %w", err)
	}
	return repo, nil
}
