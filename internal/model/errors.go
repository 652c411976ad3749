package model

import "errors"

// Error taxonomy for the analysis engine. Sentinels are wrapped with
// fmt.Errorf("...: %w", err) at call sites so callers can classify with
// errors.Is while keeping stage context in the message.
var (
	// ErrInputDocument marks a malformed or empty document. Aborts the
	// analysis of that document only, never a whole batch.
	ErrInputDocument = errors.New("invalid input document")

	// ErrBackendUnavailable marks an unreachable embedding or inference
	// backend. Recovered locally through degradation paths; surfaces as a
	// result warning only when every fallback is exhausted.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrMalformedResponse marks inference output that failed structured
	// parsing. The specific finding is dropped and processing continues.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrConfiguration marks invalid weights or thresholds. Fatal at
	// startup, never raised per-document.
	ErrConfiguration = errors.New("invalid configuration")
)

// IsInputError reports whether err is an input-document error
func IsInputError(err error) bool {
	return errors.Is(err, ErrInputDocument)
}

// IsBackendUnavailable reports whether err is a backend-availability error
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// IsMalformedResponse reports whether err is a backend-parse error
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
