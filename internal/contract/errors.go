package contract

import (
	"errors"
	"fmt"
)

// RepositoryError reports a path that cannot be scanned as a git repository,
// or a git invocation that failed for that repository.
type RepositoryError struct {
	Path   string
	Op     string
	Detail string
	Err    error
}

func (e *RepositoryError) Error() string {
	msg := fmt.Sprintf("%s %q", e.Op, e.Path)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// IsRepositoryError reports whether err wraps a RepositoryError.
func IsRepositoryError(err error) bool {
	var repoErr *RepositoryError
	return errors.As(err, &repoErr)
}
