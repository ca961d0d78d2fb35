package catalog

import "fmt"

// UpstreamError means the remote catalog answered with a non-2xx status.
// It carries the status and response body for the operator-facing report.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("remote catalog returned HTTP %d: %s", e.Status, e.Body)
}

// ValidationError means the request was malformed before any network call
// was made. Never retried: resending a bad request cannot succeed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
