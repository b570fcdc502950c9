// Package ci detects the CI service a build is running under from the
// environment variables it sets.
package ci

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Product identifies a CI service.
type Product string

// Product values.
const (
	Unknown       Product = ""
	Travis        Product = "travis"
	GitHubActions Product = "github-actions"
)

const pullRequestEvent = "pull_request"

// Environment is the subset of CI environment variables needed to find the
// commit under test.
type Environment struct {
	Travis               string `env:"TRAVIS"`
	TravisPullRequest    string `env:"TRAVIS_PULL_REQUEST"`
	TravisPullRequestSHA string `env:"TRAVIS_PULL_REQUEST_SHA"`
	TravisCommit         string `env:"TRAVIS_COMMIT"`

	GitHubActions   string `env:"GITHUB_ACTIONS"`
	GitHubEventName string `env:"GITHUB_EVENT_NAME"`
	GitHubSHA       string `env:"GITHUB_SHA"`
}

// FromEnv loads the Environment from the process environment.
func FromEnv(ctx context.Context) (*Environment, error) {
	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper loads the Environment from the provided lookuper.
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Environment, error) {
	var e Environment
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &e, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to read the CI environment: %w", err)
	}
	return &e, nil
}

// Product returns the CI service the build is running under.
func (e *Environment) Product() Product {
	switch {
	case e.Travis != "":
		return Travis
	case e.GitHubActions != "":
		return GitHubActions
	}
	return Unknown
}

// IsPR returns true if the CI service reports the build as a pull request
// build.
func (e *Environment) IsPR() bool {
	switch e.Product() {
	case Travis:
		return e.TravisPullRequest != "" && e.TravisPullRequest != "false"
	case GitHubActions:
		return e.IsPullRequestEvent()
	}
	return false
}

// IsPullRequestEvent returns true if GitHub Actions reports that the workflow
// was triggered by a pull_request event.
func (e *Environment) IsPullRequestEvent() bool {
	return e.GitHubEventName == pullRequestEvent
}

// HeadCommit returns the commit the CI service says it is building.
//
// For Travis pull request builds this is the head of the pull request rather
// than the merge commit Travis tests.
func (e *Environment) HeadCommit() string {
	switch e.Product() {
	case Travis:
		if e.IsPR() {
			return e.TravisPullRequestSHA
		}
		return e.TravisCommit
	case GitHubActions:
		return e.GitHubSHA
	}
	return ""
}
