package accuracy

import "github.com/sartorproj/gosmoothing/timeseries"

// MeanSquaredError is the mean of squared differences between matched points.
type MeanSquaredError struct {
	measure
}

// NewMeanSquaredError creates the measure. minimalPercentage is the share of
// original observations, in percent, that need a calculated partner.
func NewMeanSquaredError(minimalPercentage float64) (*MeanSquaredError, error) {
	m, err := newMeasure(minimalPercentage)
	if err != nil {
		return nil, err
	}
	return &MeanSquaredError{measure: m}, nil
}

// Initialize computes the squared local errors.
func (e *MeanSquaredError) Initialize(original, calculated *timeseries.Series) (bool, error) {
	return e.pair(original, calculated, 0, func(o, c float64) float64 {
		d := o - c
		return d * d
	})
}

// Value returns the mean over all local errors.
func (e *MeanSquaredError) Value() (float64, error) {
	return e.ValueRange(0, 100)
}

// ValueRange returns the mean over the local errors between two percentages.
func (e *MeanSquaredError) ValueRange(startPercentage, endPercentage float64) (float64, error) {
	values, err := e.window(startPercentage, endPercentage)
	if err != nil {
		return 0, err
	}
	return mean(values), nil
}
