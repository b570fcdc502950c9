package secrets

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// DefaultTokenVars are the environment variables checked for a GitHub token,
// in order.
var DefaultTokenVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// EnvTokenGetter is an implementation of TokenGetter that reads the token from
// environment variables.
type EnvTokenGetter struct {
	lookuper envconfig.Lookuper
	names    []string
}

// New creates and returns an EnvTokenGetter that checks each of the names in
// turn.
func New(l envconfig.Lookuper, names ...string) *EnvTokenGetter {
	if len(names) == 0 {
		names = DefaultTokenVars
	}
	return &EnvTokenGetter{lookuper: l, names: names}
}

// FromEnv creates and returns an EnvTokenGetter that reads the process
// environment.
func FromEnv() *EnvTokenGetter {
	return New(envconfig.OsLookuper())
}

// Token returns the first non-empty variable.
func (e EnvTokenGetter) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("error getting token: %w", err)
	}
	for _, name := range e.names {
		if v, ok := e.lookuper.Lookup(name); ok && v != "" {
			return v, nil
		}
	}
	return "", nil
}
