package commits

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestSecondParent(t *testing.T) {
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	base := commitFile(t, r, dir, "README.md", nil)
	feature := commitFile(t, r, dir, "feature.txt", nil)
	commitFile(t, r, dir, "merge.txt", []plumbing.Hash{base, feature})

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := SecondParent(sub)
	if err != nil {
		t.Fatal(err)
	}
	if got != feature.String() {
		t.Fatalf("SecondParent() got %s, want %s", got, feature)
	}
}

func TestSecondParentWithNoMerge(t *testing.T) {
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	commitFile(t, r, dir, "README.md", nil)
	commitFile(t, r, dir, "feature.txt", nil)

	if _, err := SecondParent(dir); err == nil {
		t.Fatal("SecondParent() of a non-merge commit did not fail")
	}
}

func TestSecondParentWithNoRepository(t *testing.T) {
	if _, err := SecondParent(t.TempDir()); err == nil {
		t.Fatal("SecondParent() outside a repository did not fail")
	}
}

func commitFile(t *testing.T, r *git.Repository, dir, name string, parents []plumbing.Hash) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
		t.Fatal(err)
	}
	wt, err := r.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatal(err)
	}
	h, err := wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Date(2020, time.May, 2, 20, 19, 44, 0, time.UTC),
		},
		Parents: parents,
	})
	if err != nil {
		t.Fatal(err)
	}
	return h
}
