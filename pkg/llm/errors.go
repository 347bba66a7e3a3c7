package llm

import (
	"errors"
	"fmt"
)

// ProviderError wraps a provider API failure with enough classification for
// the caller to decide whether retrying could help.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Permanent reports whether retrying the same request cannot succeed.
// Client-side errors (bad request, auth, unknown model, unprocessable) are
// permanent; rate limits, timeouts and server errors are transient.
func (e *ProviderError) Permanent() bool {
	switch e.StatusCode {
	case 400, 401, 403, 404, 422:
		return true
	}
	return false
}

// IsPermanent reports whether err carries a permanent provider failure.
func IsPermanent(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Permanent()
}
