package repository

import "errors"

// Provider failure kinds. Client implementations wrap one of these so the
// aggregation pipeline can tell them apart with errors.Is.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrRateLimited       = errors.New("rate limited")
	ErrInvalidSymbol     = errors.New("invalid symbol")
	ErrProvider          = errors.New("provider error")
	ErrMalformedPayload  = errors.New("malformed payload")
)

// FailureKind names the error kind for logs and metrics labels.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrInvalidSymbol):
		return "invalid_symbol"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrProvider):
		return "provider_error"
	default:
		return "unknown"
	}
}
