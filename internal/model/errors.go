package model

import (
	"github.com/rotisserie/eris"
)

// Error taxonomy shared by the discovery and enrichment entry points. Callers
// distinguish them with errors.Is.
var (
	// ErrMissingCredentials is a configuration error: a provider key required
	// by a top-level operation is absent.
	ErrMissingCredentials = eris.New("missing provider credentials")

	// ErrInvalidRequest is a validation error raised before any network call.
	ErrInvalidRequest = eris.New("invalid request")

	// ErrNotFound is returned when a lookup completed but matched nothing.
	ErrNotFound = eris.New("not found")
)
