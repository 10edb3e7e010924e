package timeseries

import "github.com/cockroachdb/errors"

// Error kinds shared by series operations and smoothing methods. Failures wrap
// exactly one of them, so callers can branch with errors.Is.
var (
	// ErrConfiguration reports a method parameter outside its domain.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrNotReady reports an execution attempt while required parameters are unset.
	ErrNotReady = errors.New("method not configured")
	// ErrNotImplemented reports Execute called on a method without an algorithm.
	ErrNotImplemented = errors.New("not implemented")
	// ErrPrecondition reports a series that does not satisfy a method's requirements.
	ErrPrecondition = errors.New("precondition failed")
	// ErrLookup reports an unset parameter or an out of range index.
	ErrLookup = errors.New("lookup failed")
)
