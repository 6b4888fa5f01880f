package csrf

import "errors"

var (
	// ErrInvalidLength is returned when a token length is not positive.
	ErrInvalidLength = errors.New("csrf: token length must be positive")

	// ErrMissingDomain is returned when no cookie domain is configured and the
	// request carries no Host header.
	ErrMissingDomain = errors.New("csrf: missing cookie domain")

	// ErrInvalidDomain is returned when the request host contains characters
	// that cannot appear in a cookie Domain attribute.
	ErrInvalidDomain = errors.New("csrf: invalid cookie domain")

	// ErrSigningFailure wraps failures of the canonicalize or digest step.
	ErrSigningFailure = errors.New("csrf: signing failure")

	// ErrEmptySecret is returned by New when no secret is configured.
	ErrEmptySecret = errors.New("csrf: empty secret")

	// ErrInvalidConfig is returned by New for malformed cookie names or domains.
	ErrInvalidConfig = errors.New("csrf: invalid config")
)
