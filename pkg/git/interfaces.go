package git

import (
	"context"
)

// StatusPoller implementations can check with an upstream Git hosting service
// to fetch the statuses reported for a commit.
type StatusPoller interface {
	Poll(ctx context.Context, ps PollStatus) (*Result, error)
}

// PollStatus represents the last polled state of a commit.
type PollStatus struct {
	SHA  string `json:"sha"`
	ETag string `json:"etag"`
}

// Result is the outcome of a single poll.
//
// When NotModified is true the server confirmed that nothing changed since
// the ETag in the PollStatus, and Statuses is empty.
type Result struct {
	Statuses    []*Status
	ETag        string
	NotModified bool
}
