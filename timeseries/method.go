package timeseries

import "github.com/cockroachdb/errors"

// Method is a configured computation that turns one series into another.
type Method interface {
	// Execute runs the method on s and returns a new series. s is not modified.
	Execute(s *Series) (*Series, error)
	// CanBeExecuted reports whether every required parameter is set.
	CanBeExecuted() bool
	// HasToBeSorted reports whether input timestamps must be strictly increasing.
	HasToBeSorted() bool
	// HasToBeNormalized reports whether input must lie on a uniform grid.
	HasToBeNormalized() bool
}

// Apply checks the requirements of m against the series and executes it.
func (s *Series) Apply(m Method) (*Series, error) {
	if m == nil || !m.CanBeExecuted() {
		return nil, errors.Wrap(ErrNotReady, "apply")
	}
	if m.HasToBeSorted() && !s.IsSorted() {
		return nil, errors.Wrapf(ErrPrecondition, "series %q has to be sorted", s.Name)
	}
	if m.HasToBeNormalized() && !s.IsNormalized() {
		return nil, errors.Wrapf(ErrPrecondition, "series %q has to be normalized", s.Name)
	}
	return m.Execute(s)
}
