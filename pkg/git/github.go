package git

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"

	"github.com/go-logr/logr"
	"github.com/google/go-github/v75/github"
)

const (
	githubHost     = "github.com"
	githubEndpoint = "https://api.github.com"
	githubJSON     = "application/vnd.github+json"
)

var githubRepoPath = regexp.MustCompile(`^/(.+)/(.+)\.git$`)

// GitHubPoller fetches the commit statuses, or check runs, for commits in a
// single GitHub repository.
type GitHubPoller struct {
	client    *http.Client
	endpoint  string
	repo      string
	authToken string
	kind      Kind
	log       logr.Logger
}

// NewGitHubPoller creates and returns a new GitHub poller for the repo, which
// is in "org/name" form.
func NewGitHubPoller(c *http.Client, endpoint, repo, authToken string, kind Kind, log logr.Logger) *GitHubPoller {
	if endpoint == "" {
		endpoint = githubEndpoint
	}
	return &GitHubPoller{
		client:    c,
		endpoint:  endpoint,
		repo:      repo,
		authToken: authToken,
		kind:      kind,
		log:       log.WithValues("repo", repo, "kind", kind.String()),
	}
}

// Poll is an implementation of the StatusPoller interface.
func (g GitHubPoller) Poll(ctx context.Context, ps PollStatus) (*Result, error) {
	requestURL, err := makeGitHubURL(g.endpoint, g.repo, ps.SHA, g.kind)
	if err != nil {
		return nil, fmt.Errorf("failed to make the request URL: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create the request: %w", err)
	}
	req.Header.Add("User-Agent", g.repo)
	req.Header.Add("Accept", githubJSON)
	if ps.ETag != "" {
		req.Header.Add("If-None-Match", ps.ETag)
	}
	if g.authToken != "" {
		req.Header.Add("Authorization", fmt.Sprintf("token %s", g.authToken))
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", g.kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		g.log.V(1).Info("commit statuses not modified", "sha", ps.SHA, "etag", ps.ETag)
		return &Result{NotModified: true}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode == http.StatusForbidden {
		return nil, forbiddenError(body)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("server error: %d", resp.StatusCode)
	}
	g.log.V(1).Info("commit statuses response", "sha", ps.SHA, "body", string(body))

	statuses, err := decodeGitHubStatuses(body, g.kind)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return &Result{Statuses: statuses, ETag: resp.Header.Get("ETag")}, nil
}

func decodeGitHubStatuses(body []byte, kind Kind) ([]*Status, error) {
	var entries []json.RawMessage
	if kind == CheckRuns {
		var list struct {
			CheckRuns []json.RawMessage `json:"check_runs"`
		}
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
		entries = list.CheckRuns
	} else {
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, err
		}
	}

	statuses := make([]*Status, 0, len(entries))
	for _, raw := range entries {
		s, err := decodeGitHubEntry(raw, kind)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

func decodeGitHubEntry(raw json.RawMessage, kind Kind) (*Status, error) {
	if kind == CheckRuns {
		var cr github.CheckRun
		if err := json.Unmarshal(raw, &cr); err != nil {
			return nil, err
		}
		return &Status{
			Name:        cr.GetName(),
			State:       cr.GetStatus(),
			Conclusion:  cr.GetConclusion(),
			Description: cr.GetOutput().GetTitle(),
			TargetURL:   cr.GetDetailsURL(),
			Kind:        kind,
			Raw:         raw,
		}, nil
	}
	var rs github.RepoStatus
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, err
	}
	return &Status{
		Name:        rs.GetContext(),
		State:       rs.GetState(),
		Description: rs.GetDescription(),
		TargetURL:   rs.GetTargetURL(),
		Kind:        kind,
		Raw:         raw,
	}, nil
}

// The message of a 403 is passed through untouched, GitHub uses it to explain
// rate limiting.
func forbiddenError(body []byte) error {
	var er github.ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return &ForbiddenError{Message: string(body)}
	}
	return &ForbiddenError{Message: er.Message}
}

func makeGitHubURL(endpoint, repo, sha string, kind Kind) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if kind == CheckRuns {
		parsed.Path = path.Join(parsed.Path, "repos", repo, "commits", sha, "check-runs")
	} else {
		parsed.Path = path.Join(parsed.Path, "repos", repo, "statuses", sha)
	}
	return parsed.String(), nil
}

func newGitHubPoller(c *http.Client, repoURL *url.URL, opts PollerOptions) (StatusPoller, error) {
	m := githubRepoPath.FindStringSubmatch(repoURL.Path)
	if m == nil {
		return nil, &MalformedRepositoryError{Host: repoURL.Host, Path: repoURL.Path}
	}
	return NewGitHubPoller(c, opts.Endpoint, m[1]+"/"+m[2], opts.AuthToken, opts.Kind, opts.Log), nil
}
