package domain

import "errors"

// Sentinel errors for the platform's failure taxonomy. Callers classify with
// errors.Is; the handler maps the class to an HTTP status at the boundary.
var (
	// ErrValidation marks a structurally invalid request. Returned
	// synchronously, never retried.
	ErrValidation = errors.New("invalid translation request")

	// ErrPersistence marks a failure to durably write the result document.
	// The job cannot be considered complete without it.
	ErrPersistence = errors.New("failed to persist translation result")

	// ErrNotFound marks a storage read for a key that does not exist yet.
	// The poller treats it as transient.
	ErrNotFound = errors.New("object not found")

	// ErrNetwork marks a client-to-server transport failure. The batch is
	// aborted and no history record is written.
	ErrNetwork = errors.New("network error")
)
