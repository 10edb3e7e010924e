package timeseries

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// Granularity is the width of one grid unit, in timestamp units (seconds).
type Granularity float64

// Named granularities.
const (
	Second Granularity = 1
	Minute Granularity = 60 * Second
	Hour   Granularity = 60 * Minute
	Day    Granularity = 24 * Hour
	Week   Granularity = 7 * Day
)

var granularityNames = map[string]Granularity{
	"second": Second,
	"minute": Minute,
	"hour":   Hour,
	"day":    Day,
	"week":   Week,
}

// gridTolerance is the relative slack accepted on a grid step.
const gridTolerance = 1e-9

// ParseGranularity resolves a granularity by name ("second", "minute", ...).
func ParseGranularity(name string) (Granularity, error) {
	g, ok := granularityNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Wrapf(ErrConfiguration, "unknown granularity %q", name)
	}
	return g, nil
}

// Granularity returns the grid unit recorded by Normalize, or 0.
func (s *Series) Granularity() Granularity {
	return s.granularity
}

// IsNormalized reports whether the series was normalized and not changed since.
func (s *Series) IsNormalized() bool {
	return s.granularity > 0
}

// Normalize sorts the series and places it on a uniform grid of width g.
//
// Consecutive observations must be exactly one grid unit apart; gaps,
// duplicates and uneven spacing are rejected and the series is left untouched.
// On success every observation is moved to the center of its grid bucket,
// start + g/2 + i*g.
func (s *Series) Normalize(g Granularity) error {
	if g <= 0 || math.IsNaN(float64(g)) || math.IsInf(float64(g), 0) {
		return errors.Wrapf(ErrConfiguration, "granularity must be positive and finite, got %v", float64(g))
	}
	if s.granularity == g {
		return nil
	}

	obs := s.Observations()
	sorted := &Series{obs: obs}
	sorted.Sort()

	step := float64(g)
	for i := 1; i < len(obs); i++ {
		diff := obs[i].Timestamp - obs[i-1].Timestamp
		if math.Abs(diff-step) > gridTolerance*step {
			return errors.Wrapf(ErrPrecondition,
				"observations %d and %d are %v apart, expected one grid unit of %v", i-1, i, diff, step)
		}
	}

	if len(obs) > 0 {
		start := obs[0].Timestamp + step/2
		for i := range obs {
			obs[i].Timestamp = start + float64(i)*step
		}
	}

	s.obs = obs
	s.granularity = g
	return nil
}
