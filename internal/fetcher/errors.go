package fetcher

import "github.com/rohmanhakim/vertexcrawl/pkg/failure"

type FetchErrorCause string

const (
	CauseTimeout       FetchErrorCause = "timeout"
	CauseConnection    FetchErrorCause = "connection"
	CauseServerStatus  FetchErrorCause = "server_status"
	CauseClientStatus  FetchErrorCause = "client_status"
	CauseBodyTooLarge  FetchErrorCause = "body_too_large"
	CauseContextCancel FetchErrorCause = "context_cancel"
)

// FetchError classifies a failed fetch. 5xx/429/timeouts/connection resets
// are recoverable (retried; once retries run out the pipeline completes the
// URL as ignored); 4xx other than 429 and context cancellation are not.
type FetchError struct {
	URL   string
	Cause FetchErrorCause
	Err   error
}

func (e *FetchError) Error() string {
	return "fetcher: " + e.URL + ": " + string(e.Cause) + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Severity() failure.Severity {
	switch e.Cause {
	case CauseTimeout, CauseConnection, CauseServerStatus:
		return failure.SeverityRecoverable
	default:
		return failure.SeverityFatal
	}
}

func (e *FetchError) IsRetryable() bool {
	switch e.Cause {
	case CauseTimeout, CauseConnection, CauseServerStatus:
		return true
	default:
		return false
	}
}
