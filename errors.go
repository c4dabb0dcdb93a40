package sightline

import "errors"

// Construction and validation errors. Every error returned by NewObserver,
// Observe, Unobserve, ParseRootMargin, ParseThresholds and LoadConfig wraps
// one of these; match them with errors.Is.
var (
	ErrInvalidCallback    = errors.New("sightline: callback must be non-nil")
	ErrInvalidOptions     = errors.New("sightline: invalid options")
	ErrInvalidRoot        = errors.New("sightline: root must be a live node")
	ErrMissingArgument    = errors.New("sightline: missing target argument")
	ErrInvalidTarget      = errors.New("sightline: target must be a live node")
	ErrThresholdRange     = errors.New("sightline: threshold values must be in the range [0, 1]")
	ErrThresholdNotFinite = errors.New("sightline: threshold values must be finite numbers")
	ErrMarginFormat       = errors.New("sightline: root margin must be specified in pixels or percent")
	ErrMarginTokenCount   = errors.New("sightline: root margin accepts at most 4 values")
)
