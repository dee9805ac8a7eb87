package domain

import "errors"

// Terminal outcomes of catalog operations. All remote failures collapse into
// exactly one of these; callers branch with errors.Is and decide whether to
// retry — nothing is retried automatically at this layer.
var (
	// ErrValidation marks a required local field missing or malformed,
	// detected before any remote call is made.
	ErrValidation = errors.New("invalid product fields")

	// ErrUnauthorized marks a mutation attempted without a session, or a
	// remote 401 response.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNetwork marks a transport failure: no response was received.
	ErrNetwork = errors.New("network failure")

	// ErrServer marks a remote response with a non-success status.
	ErrServer = errors.New("server error")
)
