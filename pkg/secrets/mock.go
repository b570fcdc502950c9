package secrets

import (
	"context"
)

var _ TokenGetter = (*MockToken)(nil)

// NewMock returns a simple token getter.
func NewMock(token string) *MockToken {
	return &MockToken{token: token}
}

// MockToken implements the TokenGetter interface.
type MockToken struct {
	token string
	err   error
}

// Token implements the TokenGetter interface.
func (k *MockToken) Token(ctx context.Context) (string, error) {
	if k.err != nil {
		return "", k.err
	}
	return k.token, nil
}

// FailWithError configures the getter to return errors.
func (k *MockToken) FailWithError(err error) {
	k.err = err
}
