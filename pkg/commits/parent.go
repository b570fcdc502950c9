package commits

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var _ ParentFunc = SecondParent

// SecondParent opens the repository containing dir and resolves HEAD^2.
//
// This fails when HEAD is not a merge commit.
func SecondParent(dir string) (string, error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open the repository at %s: %w", dir, err)
	}
	h, err := r.ResolveRevision(plumbing.Revision("HEAD^2"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD^2: %w", err)
	}
	return h.String(), nil
}
