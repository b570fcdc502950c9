package git

import "fmt"

// ForbiddenError is returned when the hosting service refuses the request,
// usually because the rate limit was exceeded.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// UnrecognizedProviderError is returned when no poller is registered for the
// host of a repository URL.
type UnrecognizedProviderError struct {
	Host string
}

func (e *UnrecognizedProviderError) Error() string {
	return fmt.Sprintf("git server %s not recognized", e.Host)
}

// MalformedRepositoryError is returned when the path of a repository URL does
// not have the shape the host expects.
type MalformedRepositoryError struct {
	Host string
	Path string
}

func (e *MalformedRepositoryError) Error() string {
	return fmt.Sprintf("repository path %#v is not valid for %s", e.Path, e.Host)
}
