package status

import (
	"time"
)

// Defaults for a Request.
const (
	DefaultInterval = time.Second
	DefaultTimeout  = 30 * time.Second
)

// Request identifies the status to wait for.
type Request struct {
	// Commit is the SHA to look up, derived from the CI environment if empty.
	Commit string `json:"commit,omitempty"`
	// Repository is the URL of the repository, read from the nearest
	// package.json if empty.
	Repository string `json:"repository,omitempty"`
	// Context is the status context, or check run name, to wait for.
	Context string `json:"context"`
	Token   string `json:"token,omitempty"`

	Interval *time.Duration `json:"interval,omitempty"`
	Timeout  *time.Duration `json:"timeout,omitempty"`

	// Dir is where the git repository and package.json are looked up, the
	// working directory if empty.
	Dir string `json:"dir,omitempty"`

	// CheckRuns selects check runs rather than commit statuses.
	CheckRuns bool `json:"checkRuns,omitempty"`
	// Filter is an optional CEL expression that a matching entry must also
	// satisfy.
	Filter string `json:"filter,omitempty"`
}

// GetInterval returns the configured delay between polls.
func (r Request) GetInterval() time.Duration {
	if r.Interval != nil {
		return *r.Interval
	}
	return DefaultInterval
}

// GetTimeout returns the configured limit on the total time spent waiting.
func (r Request) GetTimeout() time.Duration {
	if r.Timeout != nil {
		return *r.Timeout
	}
	return DefaultTimeout
}
