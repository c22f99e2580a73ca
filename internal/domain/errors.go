package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy shared by the store, the remote client and the route layer.
// Callers test with errors.Is; the boundary maps each to a status code.
var (
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrRemoteRejected    = errors.New("remote service rejected request")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrStorage           = errors.New("storage fault")
)

// RemoteError is a non-2xx response from the remote metadata service.
type RemoteError struct {
	Body       string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrRemoteRejected, e.StatusCode, e.Body)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemoteRejected
}

// Temporary reports whether the rejection is worth trying again later.
func (e *RemoteError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
