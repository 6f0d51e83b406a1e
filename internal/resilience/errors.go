package resilience

import (
	"errors"
	"net"
	"net/http"
	"syscall"

	"github.com/rotisserie/eris"
)

// TransientError marks a provider failure worth retrying: throttling, an
// upstream outage, or a provider-specific "try again" code.
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// NewTransientError wraps err as retryable. statusCode may be 0 when the
// failure did not come from an HTTP status.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// IsTransient reports whether err is a TransientError, a network timeout,
// or a reset/refused connection.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED)
}

// IsTransientStatus reports whether a provider HTTP status is retryable:
// 408, 429, or any 5xx.
func IsTransientStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
}

// StatusError is the error a provider client returns for a non-2xx
// response. The body is cut to 512 bytes.
func StatusError(provider string, code int, body []byte) error {
	const limit = 512
	msg := string(body)
	if len(body) > limit {
		msg = string(body[:limit]) + "..."
	}
	err := eris.Errorf("%s: unexpected status %d: %s", provider, code, msg)
	if IsTransientStatus(code) {
		return NewTransientError(err, code)
	}
	return err
}
