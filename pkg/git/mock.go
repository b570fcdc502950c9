package git

import (
	"context"
	"fmt"
	"sync"
)

var _ StatusPoller = (*MockPoller)(nil)

// NewMockPoller creates and returns a new mock Git poller.
func NewMockPoller() *MockPoller {
	return &MockPoller{}
}

// MockPoller is a mock Git poller that replays responses in the order they
// were added.
type MockPoller struct {
	mu        sync.Mutex
	pollError error
	responses []*Result
	polls     []PollStatus
}

// Poll is an implementation of the StatusPoller interface.
func (m *MockPoller) Poll(ctx context.Context, ps PollStatus) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls = append(m.polls, ps)
	if m.pollError != nil {
		return nil, m.pollError
	}
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("mock poller has no response for poll %d", len(m.polls))
	}
	res := m.responses[0]
	m.responses = m.responses[1:]
	return res, nil
}

// AddMockResponse queues up the response for a Poll call.
func (m *MockPoller) AddMockResponse(res *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, res)
}

// FailWithError configures the poller to return errors.
func (m *MockPoller) FailWithError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollError = err
}

// Polls returns the PollStatus of each Poll call so far.
func (m *MockPoller) Polls() []PollStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PollStatus(nil), m.polls...)
}
