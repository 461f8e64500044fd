package services

import "errors"

// Error kinds surfaced by the services. Callers test them with errors.Is; the
// wrapped message carries the detail.
var (
	// ErrContractViolation marks malformed input: answers that do not line up
	// with the question set, out-of-range answers, missing score fields.
	ErrContractViolation = errors.New("contract violation")

	// ErrGenerationUnavailable means the language model is not usable because
	// of configuration (missing API key or model). Retrying will not help.
	ErrGenerationUnavailable = errors.New("ai generation unavailable")

	// ErrGenerationTransient covers timeouts, upstream failures and empty
	// completions. The caller may retry.
	ErrGenerationTransient = errors.New("ai generation temporarily failed")

	// ErrNotFound and ErrForbidden classify lookups of another user's or a missing record.
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned by login when a stored password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
