package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

const packageFile = "package.json"

// ErrNoPackage is returned when there is no package.json in the directory or
// any of its parents.
var ErrNoPackage = errors.New("no " + packageFile + " found")

// Ref is the repository field of a package.json, which is either a URL string
// or an object with a url key.
type Ref struct {
	URL string `json:"url"`
}

// UnmarshalJSON accepts both forms of the repository field.
func (r *Ref) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		r.URL = s
		return nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("repository must be a string or an object with a url: %w", err)
	}
	r.URL = obj.URL
	return nil
}

// MetadataFunc finds the repository for the project containing dir.
type MetadataFunc func(dir string) (Ref, error)

var _ MetadataFunc = FromPackageJSON

// FromPackageJSON reads the repository field from the package.json nearest to
// dir, looking in dir and then each of its parents.
func FromPackageJSON(dir string) (Ref, error) {
	filename, err := findUp(dir, packageFile)
	if err != nil {
		return Ref{}, err
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return Ref{}, err
	}
	var pkg struct {
		Repository *Ref `json:"repository"`
	}
	if err := json.Unmarshal(b, &pkg); err != nil {
		return Ref{}, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if pkg.Repository == nil || pkg.Repository.URL == "" {
		return Ref{}, fmt.Errorf("no repository in %s", filename)
	}
	return *pkg.Repository, nil
}

// Resolve returns the parsed repository URL, looking it up with lookup when
// repo is empty.
func Resolve(repo string, lookup MetadataFunc, dir string) (*url.URL, error) {
	if repo == "" {
		ref, err := lookup(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to find the repository: %w", err)
		}
		repo = ref.URL
	}
	parsed, err := url.Parse(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository URL %#v: %w", repo, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return nil, fmt.Errorf("failed to parse repository URL %#v: not an absolute URL", repo)
	}
	return parsed, nil
}

func findUp(dir, name string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoPackage
		}
		dir = parent
	}
}
