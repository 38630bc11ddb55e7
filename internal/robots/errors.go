package robots

import "github.com/rohmanhakim/vertexcrawl/pkg/failure"

type ErrorCause string

const (
	ErrCauseNetwork      ErrorCause = "network"
	ErrCauseServerStatus ErrorCause = "server_status"
	ErrCauseBodyTooLarge ErrorCause = "body_too_large"
)

// FetchError classifies robots.txt fetch failures. 5xx/429 responses and
// network errors are retried; 5xx/429 report SeverityRecoverable and the
// rest SeverityFatal, which is fatal for this host's robots.txt only, never
// for the crawl as a whole: Allowed fails open once retries are exhausted.
type FetchError struct {
	Host  string
	Cause ErrorCause
	Err   error
}

func (e *FetchError) Error() string {
	return "robots: fetch " + e.Host + ": " + string(e.Cause) + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Severity() failure.Severity {
	if e.Cause == ErrCauseServerStatus {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *FetchError) IsRetryable() bool {
	return e.Cause == ErrCauseServerStatus || e.Cause == ErrCauseNetwork
}
