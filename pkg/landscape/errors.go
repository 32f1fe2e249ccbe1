package landscape

import "errors"

// Failures that abort a run. Wrapped with %w so callers can use errors.Is.
var (
	ErrNetwork = errors.New("network error")
	ErrParse   = errors.New("parse error")
	ErrIO      = errors.New("io error")
)
