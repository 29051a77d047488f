package port

import (
	"errors"
	"fmt"
)

// Sentinel errors used across ports.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrRepoNotFound  = errors.New("repository not found")
	ErrEntryNotFound = errors.New("changelog entry not found")
)

// UpstreamError is a non-2xx response from the source-control host. The
// status and body are carried so callers can report what the host said.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("host API error (%d): %s", e.Status, e.Body)
}

// DiffError is a failed working-copy sync or diff invocation. Output holds
// the captured command output for diagnostics.
type DiffError struct {
	Op     string
	Output string
	Err    error
}

func (e *DiffError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Output)
}

func (e *DiffError) Unwrap() error { return e.Err }
