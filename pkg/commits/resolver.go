package commits

import (
	"errors"
	"fmt"

	"github.com/kellyselden/poll-pr-status/pkg/ci"
)

// ErrUnrecognizedCI is returned when a commit has to be derived from the CI
// environment, but no supported CI service was detected.
var ErrUnrecognizedCI = errors.New("CI server not recognized")

// Environment is implemented by ci.Environment.
type Environment interface {
	Product() ci.Product
	HeadCommit() string
}

// ParentFunc returns the second parent of HEAD in the repository containing
// dir.
type ParentFunc func(dir string) (string, error)

// Resolve returns the commit to look up statuses for.
//
// An explicit commit is returned as is. Otherwise Travis builds use the commit
// Travis reports, and GitHub Actions builds use the second parent of HEAD,
// which for pull requests is the tip of the branch rather than the merge
// commit GitHub created.
func Resolve(commit string, env Environment, parent ParentFunc, dir string) (string, error) {
	if commit != "" {
		return commit, nil
	}
	switch env.Product() {
	case ci.Travis:
		sha := env.HeadCommit()
		if sha == "" {
			return "", fmt.Errorf("no commit found in the %s environment", ci.Travis)
		}
		return sha, nil
	case ci.GitHubActions:
		sha, err := parent(dir)
		if err != nil {
			return "", fmt.Errorf("failed to find the commit under test: %w", err)
		}
		return sha, nil
	}
	return "", ErrUnrecognizedCI
}
