package smoothing

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/sartorproj/gosmoothing/timeseries"
)

// SimpleMovingAverage is the unweighted mean over a sliding window.
type SimpleMovingAverage struct {
	windowSize int
}

// NewSimpleMovingAverage creates a moving average over windowSize observations.
func NewSimpleMovingAverage(windowSize int) (*SimpleMovingAverage, error) {
	if windowSize < 1 {
		return nil, errors.Wrapf(timeseries.ErrConfiguration, "%s must be at least 1, got %d", ParamWindowSize, windowSize)
	}
	return &SimpleMovingAverage{windowSize: windowSize}, nil
}

// WindowSize returns the window width.
func (m *SimpleMovingAverage) WindowSize() int { return m.windowSize }

func (m *SimpleMovingAverage) CanBeExecuted() bool     { return true }
func (m *SimpleMovingAverage) HasToBeSorted() bool     { return true }
func (m *SimpleMovingAverage) HasToBeNormalized() bool { return true }

func (m *SimpleMovingAverage) String() string {
	return fmt.Sprintf("SimpleMovingAverage(%s=%d)", ParamWindowSize, m.windowSize)
}

// Execute slides the window across s with stride 1. Each output carries the
// mean value and the mean timestamp of its window, so a series of length N
// yields N-windowSize+1 observations, or none if the window does not fit.
func (m *SimpleMovingAverage) Execute(s *timeseries.Series) (*timeseries.Series, error) {
	traceExecute("sma", s, 0)

	obs := s.Observations()
	w := m.windowSize
	if w > len(obs) {
		return result(s, "sma", nil), nil
	}

	out := make([]timeseries.Observation, 0, len(obs)-w+1)
	for start := 0; start+w <= len(obs); start++ {
		// Each window is summed afresh, left to right.
		var ts, sum float64
		for _, o := range obs[start : start+w] {
			ts += o.Timestamp
			sum += o.Value
		}
		out = append(out, timeseries.Observation{
			Timestamp: ts / float64(w),
			Value:     sum / float64(w),
		})
	}

	return result(s, "sma", out), nil
}
