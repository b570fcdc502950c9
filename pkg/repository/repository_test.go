package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testRepoURL = "https://github.com/example/example.git"

func TestFromPackageJSON(t *testing.T) {
	packageTests := []struct {
		name string
		pkg  string
		want Ref
	}{
		{"string", `{"name": "example", "repository": "https://github.com/example/example.git"}`, Ref{URL: testRepoURL}},
		{"object", `{"name": "example", "repository": {"type": "git", "url": "git+https://github.com/example/example.git"}}`, Ref{URL: "git+https://github.com/example/example.git"}},
	}

	for _, tt := range packageTests {
		t.Run(tt.name, func(rt *testing.T) {
			dir := rt.TempDir()
			writeFile(rt, filepath.Join(dir, "package.json"), tt.pkg)

			got, err := FromPackageJSON(dir)
			if err != nil {
				rt.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				rt.Fatalf("FromPackageJSON() ref:\n%s", diff)
			}
		})
	}
}

func TestFromPackageJSONSearchesParents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"repository": "https://github.com/example/example.git"}`)
	nested := filepath.Join(dir, "lib", "nested")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FromPackageJSON(nested)
	if err != nil {
		t.Fatal(err)
	}
	if got.URL != testRepoURL {
		t.Fatalf("FromPackageJSON() got %#v, want %#v", got.URL, testRepoURL)
	}
}

func TestFromPackageJSONErrors(t *testing.T) {
	errorTests := []struct {
		name string
		pkg  string
		want string
	}{
		{"no repository", `{"name": "example"}`, "no repository in "},
		{"bad repository", `{"repository": 42}`, "repository must be a string or an object with a url"},
		{"invalid json", `{"repository": `, "failed to parse "},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(rt *testing.T) {
			dir := rt.TempDir()
			writeFile(rt, filepath.Join(dir, "package.json"), tt.pkg)

			_, err := FromPackageJSON(dir)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				rt.Fatalf("FromPackageJSON() got error %v, want %#v", err, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	lookup := func(dir string) (Ref, error) {
		if dir != "/src/project" {
			t.Errorf("lookup got dir %#v", dir)
		}
		return Ref{URL: "git+https://github.com/example/lookup.git"}, nil
	}

	got, err := Resolve(testRepoURL, lookup, "/src/project")
	if err != nil {
		t.Fatal(err)
	}
	if got.Host != "github.com" || got.Path != "/example/example.git" {
		t.Fatalf("Resolve() got %s", got)
	}

	got, err = Resolve("", lookup, "/src/project")
	if err != nil {
		t.Fatal(err)
	}
	if got.Host != "github.com" || got.Path != "/example/lookup.git" {
		t.Fatalf("Resolve() got %s", got)
	}
}

func TestResolveWithLookupError(t *testing.T) {
	_, err := Resolve("", func(string) (Ref, error) { return Ref{}, ErrNoPackage }, "/src/project")
	if !errors.Is(err, ErrNoPackage) {
		t.Fatalf("Resolve() got error %v, want %v", err, ErrNoPackage)
	}
}

func TestResolveWithMalformedURL(t *testing.T) {
	malformedTests := []string{
		"example/example",
		"git@github.com:example/example.git",
		"https://%zz",
	}

	for _, tt := range malformedTests {
		if _, err := Resolve(tt, nil, "/src/project"); err == nil {
			t.Errorf("Resolve(%#v) did not fail", tt)
		}
	}
}

func writeFile(t *testing.T, filename, body string) {
	t.Helper()
	if err := os.WriteFile(filename, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}
