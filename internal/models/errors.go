package models

import "errors"

// Error taxonomy shared by every layer. Repositories wrap the cause with
// ErrStoreUnavailable; the API layer maps each sentinel to a status code.
var (
	// ErrNotFound means the requested session, driver, or telemetry does
	// not exist. Fallback synthesis was either inapplicable or already
	// considered by the time this is returned.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable means the relational store could not complete a
	// read. It is never converted into fallback data.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrValidation means malformed input parameters, rejected before any
	// store access.
	ErrValidation = errors.New("invalid parameters")

	// ErrUpstreamTimeout means an external collaborator exceeded its
	// timeout; callers degrade to a canned response instead of failing.
	ErrUpstreamTimeout = errors.New("upstream timeout")
)
