// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Observation is a single (timestamp, value) pair.
type Observation struct {
	Timestamp float64
	Value     float64
}

// Series represents an ordered sequence of observations.
type Series struct {
	Name string

	obs         []Observation
	granularity Granularity // set by a successful Normalize
}

// New creates a new time series from values with timestamps 0, 1, 2, ...
func New(values []float64) *Series {
	obs := make([]Observation, len(values))
	for i, v := range values {
		obs[i] = Observation{Timestamp: float64(i), Value: v}
	}
	return &Series{obs: obs}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.Wrapf(ErrPrecondition,
			"timestamps and values must have the same length, got %d and %d", len(timestamps), len(values))
	}
	obs := make([]Observation, len(values))
	for i := range values {
		obs[i] = Observation{Timestamp: timestamps[i], Value: values[i]}
	}
	return &Series{obs: obs}, nil
}

// FromPairs builds a series from (timestamp, value) pairs in the given order.
// It neither sorts nor validates the input.
func FromPairs(pairs [][2]float64) *Series {
	obs := make([]Observation, len(pairs))
	for i, p := range pairs {
		obs[i] = Observation{Timestamp: p[0], Value: p[1]}
	}
	return &Series{obs: obs}
}

// FromObservations builds a series that owns a copy of obs.
func FromObservations(obs []Observation) *Series {
	cp := make([]Observation, len(obs))
	copy(cp, obs)
	return &Series{obs: cp}
}

// Add appends an observation. The series is no longer considered normalized.
func (s *Series) Add(timestamp, value float64) {
	s.obs = append(s.obs, Observation{Timestamp: timestamp, Value: value})
	s.granularity = 0
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.obs)
}

// At returns the observation at index i.
func (s *Series) At(i int) (Observation, error) {
	if i < 0 || i >= len(s.obs) {
		return Observation{}, errors.Wrapf(ErrLookup, "index %d out of range [0, %d)", i, len(s.obs))
	}
	return s.obs[i], nil
}

// Observations returns a copy of the observations.
func (s *Series) Observations() []Observation {
	obs := make([]Observation, len(s.obs))
	copy(obs, s.obs)
	return obs
}

// Values returns a copy of the observed values.
func (s *Series) Values() []float64 {
	values := make([]float64, len(s.obs))
	for i, o := range s.obs {
		values[i] = o.Value
	}
	return values
}

// Timestamps returns a copy of the timestamps.
func (s *Series) Timestamps() []float64 {
	ts := make([]float64, len(s.obs))
	for i, o := range s.obs {
		ts[i] = o.Timestamp
	}
	return ts
}

// Equal reports whether both series hold the same observations in the same
// order. Values are compared exactly.
func (s *Series) Equal(other *Series) bool {
	if other == nil || len(s.obs) != len(other.obs) {
		return false
	}
	for i, o := range s.obs {
		if o != other.obs[i] {
			return false
		}
	}
	return true
}

// EqualWithin is Equal with an absolute tolerance on timestamps and values.
func (s *Series) EqualWithin(other *Series, tol float64) bool {
	if other == nil || len(s.obs) != len(other.obs) {
		return false
	}
	for i, o := range s.obs {
		p := other.obs[i]
		if math.Abs(o.Timestamp-p.Timestamp) > tol || math.Abs(o.Value-p.Value) > tol {
			return false
		}
	}
	return true
}

// IsSorted reports whether timestamps are strictly increasing.
func (s *Series) IsSorted() bool {
	for i := 1; i < len(s.obs); i++ {
		if s.obs[i].Timestamp <= s.obs[i-1].Timestamp {
			return false
		}
	}
	return true
}

// Sort orders the observations by timestamp. Equal timestamps keep their order.
func (s *Series) Sort() {
	sort.SliceStable(s.obs, func(i, j int) bool {
		return s.obs[i].Timestamp < s.obs[j].Timestamp
	})
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.obs) == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range s.obs {
		sum += o.Value
	}
	return sum / float64(len(s.obs))
}

// Variance calculates the variance of the series.
func (s *Series) Variance() float64 {
	if len(s.obs) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, o := range s.obs {
		diff := o.Value - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(s.obs)-1)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.obs) == 0 {
		return math.NaN()
	}
	min := s.obs[0].Value
	for _, o := range s.obs[1:] {
		if o.Value < min {
			min = o.Value
		}
	}
	return min
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.obs) == 0 {
		return math.NaN()
	}
	max := s.obs[0].Value
	for _, o := range s.obs[1:] {
		if o.Value > max {
			max = o.Value
		}
	}
	return max
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.obs) == 0 {
		return math.NaN()
	}
	sorted := s.Values()
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.obs) {
		end = len(s.obs)
	}
	if start >= end {
		return &Series{Name: s.Name}
	}

	out := FromObservations(s.obs[start:end])
	out.Name = s.Name
	out.granularity = s.granularity
	return out
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	out := FromObservations(s.obs)
	out.Name = s.Name
	out.granularity = s.granularity
	return out
}

// String renders the series as [(t, v), ...] with shortest round-trip floats.
func (s *Series) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, o := range s.obs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		b.WriteString(strconv.FormatFloat(o.Timestamp, 'g', -1, 64))
		b.WriteString(", ")
		b.WriteString(strconv.FormatFloat(o.Value, 'g', -1, 64))
		b.WriteByte(')')
	}
	b.WriteByte(']')
	return b.String()
}
