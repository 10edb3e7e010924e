package accuracy

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/sartorproj/gosmoothing/timeseries"
)

// MeanAbsoluteScaledError divides the mean absolute error by the mean
// absolute one-step change of the original series over a history window.
//
// R. J. Hyndman and A. B. Koehler, "Another look at measures of forecast
// accuracy", 2006.
type MeanAbsoluteScaledError struct {
	measure

	historyLength   int
	historyFraction float64 // percent of the original length, when > 0
	historicMeans   []float64
}

// NewMeanAbsoluteScaledError uses the given number of leading observations as
// history. historyLength must lie in (0, 100).
func NewMeanAbsoluteScaledError(minimalPercentage float64, historyLength int) (*MeanAbsoluteScaledError, error) {
	if historyLength <= 0 || historyLength >= 100 {
		return nil, errors.Wrapf(timeseries.ErrConfiguration, "history length must be in (0, 100), got %d", historyLength)
	}
	m, err := newMeasure(minimalPercentage)
	if err != nil {
		return nil, err
	}
	return &MeanAbsoluteScaledError{measure: m, historyLength: historyLength}, nil
}

// NewFractionalMeanAbsoluteScaledError uses historyPercentage percent of the
// original series as history. historyPercentage must lie in (0, 100) and,
// added to minimalPercentage, must not exceed 100.
func NewFractionalMeanAbsoluteScaledError(minimalPercentage, historyPercentage float64) (*MeanAbsoluteScaledError, error) {
	if math.IsNaN(historyPercentage) || historyPercentage <= 0 || historyPercentage >= 100 {
		return nil, errors.Wrapf(timeseries.ErrConfiguration, "history percentage must be in (0, 100), got %v", historyPercentage)
	}
	if historyPercentage+minimalPercentage > 100 {
		return nil, errors.Wrapf(timeseries.ErrConfiguration,
			"history percentage plus minimal percentage must not exceed 100, got %v", historyPercentage+minimalPercentage)
	}
	m, err := newMeasure(minimalPercentage)
	if err != nil {
		return nil, err
	}
	return &MeanAbsoluteScaledError{measure: m, historyFraction: historyPercentage}, nil
}

// HistoryLength returns the history window in observations. For a fractional
// measure it is known only after Initialize.
func (e *MeanAbsoluteScaledError) HistoryLength() int {
	return e.historyLength
}

// Initialize computes the historic means of the original series and the
// absolute local errors of every observation after the first history window.
func (e *MeanAbsoluteScaledError) Initialize(original, calculated *timeseries.Series) (bool, error) {
	if e.initialized {
		return false, ErrAlreadyInitialized
	}
	if e.historyFraction > 0 {
		e.historyLength = int(e.historyFraction / 100 * float64(original.Len()))
		if e.historyLength < 1 {
			e.historyLength = 1
		}
	}

	e.historicMeans = historicMeans(original.Values(), e.historyLength)

	return e.pair(original, calculated, e.historyLength+1, func(o, c float64) float64 {
		return math.Abs(o - c)
	})
}

// historicMeans returns, for every window of length h, the mean absolute
// one-step change inside it.
func historicMeans(values []float64, h int) []float64 {
	var means []float64
	for start := 0; start < len(values)-h-1; start++ {
		sum := 0.0
		for i := start; i < start+h; i++ {
			sum += math.Abs(values[i+1] - values[i])
		}
		means = append(means, sum/float64(h))
	}
	return means
}

// Value returns the scaled error over all local errors.
func (e *MeanAbsoluteScaledError) Value() (float64, error) {
	return e.ValueRange(0, 100)
}

// ValueRange returns the scaled error over the local errors between two
// percentages, scaled by the historic mean at the start of the range.
func (e *MeanAbsoluteScaledError) ValueRange(startPercentage, endPercentage float64) (float64, error) {
	values, err := e.window(startPercentage, endPercentage)
	if err != nil {
		return 0, err
	}

	idx := int(startPercentage * float64(len(e.errorValues)) / 100)
	if idx >= len(e.historicMeans) {
		return 0, errors.Wrapf(timeseries.ErrPrecondition, "no historic mean for error index %d", idx)
	}
	scale := e.historicMeans[idx]
	if scale == 0 {
		return 0, errors.Wrap(timeseries.ErrPrecondition, "original series is constant over the history window")
	}
	return mean(values) / scale, nil
}
