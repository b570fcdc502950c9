package git

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/go-logr/logr"
)

// PollerOptions configures a poller created by a PollerFactory.
type PollerOptions struct {
	// Endpoint overrides the API endpoint of the hosting service.
	Endpoint  string
	AuthToken string
	Kind      Kind
	Log       logr.Logger
}

// PollerFactory creates a poller for a repository URL, or fails if the URL
// doesn't identify a repository on the host.
type PollerFactory func(c *http.Client, repoURL *url.URL, opts PollerOptions) (StatusPoller, error)

// Registry maps Git server hosts to the factory for their pollers.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]PollerFactory
}

// NewRegistry creates and returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]PollerFactory)}
}

// DefaultRegistry returns a Registry with all the built-in hosts.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(githubHost, newGitHubPoller)
	return r
}

// Register adds or replaces the factory for a host.
func (r *Registry) Register(host string, f PollerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[host] = f
}

// PollerFor creates a poller for the repository URL, looking at the host to
// pick the factory.
func (r *Registry) PollerFor(c *http.Client, repoURL *url.URL, opts PollerOptions) (StatusPoller, error) {
	r.mu.RLock()
	f, ok := r.factories[repoURL.Host]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnrecognizedProviderError{Host: repoURL.Host}
	}
	if c == nil {
		c = http.DefaultClient
	}
	return f(c, repoURL, opts)
}
