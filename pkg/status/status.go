// Package status waits for the CI status of a commit to be reported to the
// Git hosting service.
package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"

	"github.com/kellyselden/poll-pr-status/pkg/cel"
	"github.com/kellyselden/poll-pr-status/pkg/ci"
	"github.com/kellyselden/poll-pr-status/pkg/commits"
	"github.com/kellyselden/poll-pr-status/pkg/git"
	"github.com/kellyselden/poll-pr-status/pkg/repository"
	"github.com/kellyselden/poll-pr-status/pkg/secrets"
)

// ErrTimedOut is returned when no terminal status was found before the
// timeout.
var ErrTimedOut = errors.New("poll-pr-status has timed out")

// Environment is implemented by ci.Environment.
type Environment interface {
	commits.Environment
	IsPR() bool
	IsPullRequestEvent() bool
}

// Waiter polls the hosting service until a status reaches a terminal state.
//
// A Waiter holds no state between calls, so Wait can be called concurrently.
type Waiter struct {
	Client *http.Client
	Log    logr.Logger
	Clock  clockwork.Clock
	Env    Environment
	// The registry provides the poller for the repository's host.
	Pollers *git.Registry
	// Endpoint overrides the API endpoint of the hosting service.
	Endpoint string
	// Parent and Metadata find the commit and repository when the Request
	// doesn't provide them.
	Parent   commits.ParentFunc
	Metadata repository.MetadataFunc
	// Tokens is consulted when the Request has no token, it can be nil.
	Tokens secrets.TokenGetter
}

// New creates and returns a Waiter that uses the real clock and an HTTP
// client for the default registry.
func New(env Environment) *Waiter {
	return &Waiter{
		Client:   http.DefaultClient,
		Log:      logr.Discard(),
		Clock:    clockwork.NewRealClock(),
		Env:      env,
		Pollers:  git.DefaultRegistry(),
		Parent:   commits.SecondParent,
		Metadata: repository.FromPackageJSON,
	}
}

// GetStatus waits for the status described by the request, detecting the CI
// environment from the process environment.
func GetStatus(ctx context.Context, req Request) (*git.Status, error) {
	env, err := ci.FromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return New(env).Wait(ctx, req)
}

// Wait polls until the entry matching the request's context reaches a
// terminal state and returns it.
//
// If no matching entry exists and the build is not for a pull request, the
// entry will never be created, and Wait returns nil without an error.
func (w *Waiter) Wait(ctx context.Context, req Request) (*git.Status, error) {
	interval := req.GetInterval()
	deadline := w.Clock.Now().Add(req.GetTimeout())
	log := w.Log.WithValues("context", req.Context)

	var (
		p     *poll
		state git.PollStatus
	)
	for {
		if !w.Clock.Now().Before(deadline) {
			log.Info("Timed out waiting for status", "timeout", req.GetTimeout())
			return nil, ErrTimedOut
		}
		if p == nil {
			var err error
			p, err = w.setup(ctx, req)
			if err != nil {
				log.Error(err, "Resolving the status to poll failed")
				return nil, err
			}
			state.SHA = p.sha
			log = log.WithValues("repository", p.repo, "sha", p.sha)
		}

		res, err := p.poller.Poll(ctx, state)
		if err != nil {
			log.Error(err, "Status poll failed")
			return nil, err
		}

		if res.NotModified {
			log.Info("Statuses unchanged, requeueing next check", "interval", interval)
		} else {
			if res.ETag != "" {
				state.ETag = res.ETag
			}
			found, err := git.FindStatus(res.Statuses, req.Context, p.match)
			if err != nil {
				log.Error(err, "Matching statuses failed")
				return nil, err
			}
			if found != nil && found.Terminal() {
				log.Info("Status found", "state", found.State, "conclusion", found.Conclusion)
				return found, nil
			}
			if found == nil && !(w.Env.IsPR() || w.Env.IsPullRequestEvent()) {
				log.Info("No status found for a build that is not a pull request")
				return nil, nil
			}
			log.Info("Status not complete, requeueing next check", "interval", interval, "found", found != nil)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-w.Clock.After(interval):
		}
	}
}

// poll is the part of a Wait call resolved once before the first request.
type poll struct {
	sha    string
	repo   string
	poller git.StatusPoller
	match  func(*git.Status) (bool, error)
}

func (w *Waiter) setup(ctx context.Context, req Request) (*poll, error) {
	dir := req.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get the working directory: %w", err)
		}
		dir = wd
	}

	sha, err := commits.Resolve(req.Commit, w.Env, w.Parent, dir)
	if err != nil {
		return nil, err
	}
	repoURL, err := repository.Resolve(req.Repository, w.Metadata, dir)
	if err != nil {
		return nil, err
	}

	token := req.Token
	if token == "" && w.Tokens != nil {
		token, err = w.Tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
	}

	kind := git.CommitStatuses
	if req.CheckRuns {
		kind = git.CheckRuns
	}
	poller, err := w.Pollers.PollerFor(w.Client, repoURL, git.PollerOptions{
		Endpoint:  w.Endpoint,
		AuthToken: token,
		Kind:      kind,
		Log:       w.Log,
	})
	if err != nil {
		return nil, err
	}

	p := &poll{sha: sha, repo: repoURL.String(), poller: poller}
	if req.Filter != "" {
		f, err := cel.NewFilter(req.Filter)
		if err != nil {
			return nil, err
		}
		p.match = func(s *git.Status) (bool, error) {
			if len(s.Raw) > 0 {
				return f.Match(s.Raw)
			}
			return f.Match(s)
		}
	}
	return p, nil
}
