// Package accuracy measures how well a smoothed or forecasted series matches
// the original observations.
package accuracy

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/sartorproj/gosmoothing/timeseries"
)

// ErrAlreadyInitialized is returned when a measure is initialized twice.
var ErrAlreadyInitialized = errors.New("measure already initialized")

// Measure compares an original series with a calculated one.
//
// Initialize pairs observations with equal timestamps and computes their local
// errors. It returns false when too few original observations found a
// partner; the measure then stays uninitialized and may be initialized again.
type Measure interface {
	Initialize(original, calculated *timeseries.Series) (bool, error)
	Value() (float64, error)
	ValueRange(startPercentage, endPercentage float64) (float64, error)
}

type measure struct {
	minimalPercentage float64
	errorValues       []float64
	initialized       bool
}

func newMeasure(minimalPercentage float64) (measure, error) {
	if math.IsNaN(minimalPercentage) || minimalPercentage < 0 || minimalPercentage > 100 {
		return measure{}, errors.Wrapf(timeseries.ErrConfiguration,
			"minimal error calculation percentage must be in [0, 100], got %v", minimalPercentage)
	}
	return measure{minimalPercentage: minimalPercentage}, nil
}

// pair computes local errors for every original observation from index
// `from` on that has a calculated partner with the same timestamp.
func (m *measure) pair(original, calculated *timeseries.Series, from int, local func(o, c float64) float64) (bool, error) {
	if m.initialized {
		return false, ErrAlreadyInitialized
	}

	partners := make(map[float64]float64, calculated.Len())
	for _, o := range calculated.Observations() {
		if _, ok := partners[o.Timestamp]; !ok {
			partners[o.Timestamp] = o.Value
		}
	}

	obs := original.Observations()
	if from > len(obs) {
		from = len(obs)
	}
	var errorValues []float64
	for _, o := range obs[from:] {
		if c, ok := partners[o.Timestamp]; ok {
			errorValues = append(errorValues, local(o.Value, c))
		}
	}

	eligible := len(obs) - from
	if eligible == 0 || float64(len(errorValues)) < m.minimalPercentage/100*float64(eligible) {
		return false, nil
	}
	m.errorValues = errorValues
	m.initialized = true
	return true, nil
}

// window returns the local errors between the two percentages.
func (m *measure) window(startPercentage, endPercentage float64) ([]float64, error) {
	if !m.initialized {
		return nil, errors.Wrap(timeseries.ErrNotReady, "measure not initialized")
	}
	if math.IsNaN(startPercentage) || math.IsNaN(endPercentage) ||
		startPercentage < 0 || endPercentage > 100 || startPercentage >= endPercentage {
		return nil, errors.Wrapf(timeseries.ErrConfiguration,
			"need 0 <= start < end <= 100, got [%v, %v]", startPercentage, endPercentage)
	}
	n := float64(len(m.errorValues))
	values := m.errorValues[int(startPercentage*n/100):int(endPercentage*n/100)]
	if len(values) == 0 {
		return nil, errors.Wrap(timeseries.ErrPrecondition, "no local errors in range")
	}
	return values, nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
