package secrets

import (
	"context"
)

// TokenGetter finds the token used to authenticate to the hosting service, or
// returns an empty string if there is none.
type TokenGetter interface {
	Token(ctx context.Context) (string, error)
}
