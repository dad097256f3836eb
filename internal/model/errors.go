// Package model wraps the trained classifier and the versioned artifact
// that pairs it with the exact preprocessing state it was fit against.
package model

import "errors"

var (
	// ErrModelUnavailable means no bundle is loaded. Scoring must surface
	// this as an operational failure. Defaulting to a SAFE verdict would
	// disguise an outage as a business decision.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrIncompatibleBundle means a persisted bundle's components disagree
	// with each other or with the current encoder contract.
	ErrIncompatibleBundle = errors.New("incompatible model bundle")
)
