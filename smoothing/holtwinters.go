package smoothing

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/sartorproj/gosmoothing/timeseries"
)

// Seasonality selects how seasonal factors combine with the level.
type Seasonality int

const (
	// Multiplicative factors scale the level (observation = level * factor).
	Multiplicative Seasonality = iota
	// Additive factors shift the level (observation = level + factor).
	Additive
)

func (s Seasonality) String() string {
	if s == Additive {
		return "additive"
	}
	return "multiplicative"
}

// ParseSeasonality resolves "additive" or "multiplicative".
func ParseSeasonality(name string) (Seasonality, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "multiplicative", "mult", "":
		return Multiplicative, nil
	case "additive", "add":
		return Additive, nil
	}
	return 0, errors.Wrapf(timeseries.ErrConfiguration, "unknown seasonality %q", name)
}

func (s Seasonality) deseasonalize(x, factor float64) float64 {
	if s == Additive {
		return x - factor
	}
	return x / factor
}

func (s Seasonality) reseasonalize(level, factor float64) float64 {
	if s == Additive {
		return level + factor
	}
	return level * factor
}

// HoltWintersMethod is triple exponential smoothing with level, trend and a
// seasonal pattern of seasonLength phases.
type HoltWintersMethod struct {
	alpha            float64
	beta             float64
	gamma            float64
	seasonLength     int
	valuesToForecast int
	seasonality      Seasonality
}

// HoltWintersOption customizes a HoltWintersMethod.
type HoltWintersOption func(*HoltWintersMethod)

// WithSeasonality selects additive or multiplicative seasonal factors.
func WithSeasonality(s Seasonality) HoltWintersOption {
	return func(m *HoltWintersMethod) {
		m.seasonality = s
	}
}

// NewHoltWintersMethod creates Holt-Winters smoothing. alpha, beta and gamma
// weight the level, trend and seasonal updates and must lie in [0, 1].
func NewHoltWintersMethod(alpha, beta, gamma float64, seasonLength, valuesToForecast int, opts ...HoltWintersOption) (*HoltWintersMethod, error) {
	for _, w := range []struct {
		name  string
		value float64
	}{{ParamAlpha, alpha}, {ParamBeta, beta}, {ParamGamma, gamma}} {
		if err := checkWeight(w.name, w.value); err != nil {
			return nil, err
		}
	}
	if seasonLength < 1 {
		return nil, errors.Wrapf(timeseries.ErrConfiguration, "%s must be at least 1, got %d", ParamSeasonLength, seasonLength)
	}
	if err := checkHorizon(valuesToForecast); err != nil {
		return nil, err
	}

	m := &HoltWintersMethod{
		alpha:            alpha,
		beta:             beta,
		gamma:            gamma,
		seasonLength:     seasonLength,
		valuesToForecast: valuesToForecast,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.seasonality != Multiplicative && m.seasonality != Additive {
		return nil, errors.Wrapf(timeseries.ErrConfiguration, "unknown seasonality %d", int(m.seasonality))
	}
	return m, nil
}

func (m *HoltWintersMethod) Alpha() float64           { return m.alpha }
func (m *HoltWintersMethod) Beta() float64            { return m.beta }
func (m *HoltWintersMethod) Gamma() float64           { return m.gamma }
func (m *HoltWintersMethod) SeasonLength() int        { return m.seasonLength }
func (m *HoltWintersMethod) ValuesToForecast() int    { return m.valuesToForecast }
func (m *HoltWintersMethod) Seasonality() Seasonality { return m.seasonality }
func (m *HoltWintersMethod) CanBeExecuted() bool      { return true }
func (m *HoltWintersMethod) HasToBeSorted() bool      { return true }
func (m *HoltWintersMethod) HasToBeNormalized() bool  { return false }

func (m *HoltWintersMethod) String() string {
	return fmt.Sprintf("HoltWintersMethod(%s=%g, %s=%g, %s=%g, %s=%d, %s=%d, %s=%s)",
		ParamAlpha, m.alpha, ParamBeta, m.beta, ParamGamma, m.gamma,
		ParamSeasonLength, m.seasonLength, ParamValuesToForecast, m.valuesToForecast,
		ParamSeasonality, m.seasonality)
}

// ComputeA returns the mean of season j, the observations at indices
// j*seasonLength through (j+1)*seasonLength-1.
func (m *HoltWintersMethod) ComputeA(j int, s *timeseries.Series) (float64, error) {
	return seasonMean(s.Values(), j, m.seasonLength)
}

func seasonMean(values []float64, j, length int) (float64, error) {
	if j < 0 || (j+1)*length > len(values) {
		return 0, errors.Wrapf(timeseries.ErrPrecondition,
			"season %d is not complete in a series of %d observations", j, len(values))
	}
	sum := 0.0
	for _, v := range values[j*length : (j+1)*length] {
		sum += v
	}
	return sum / float64(length), nil
}

// InitialTrendSmoothingFactors estimates the initial trend as the mean
// per-step change between observations one season apart. It uses as many
// comparisons as the series supports, up to one full season, and returns 0
// when there is none.
func (m *HoltWintersMethod) InitialTrendSmoothingFactors(s *timeseries.Series) (float64, error) {
	return initialTrend(s.Values(), m.seasonLength), nil
}

func initialTrend(values []float64, length int) float64 {
	count := min(length, len(values)-length)
	if count <= 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < count; i++ {
		sum += (values[length+i] - values[i]) / float64(length)
	}
	return sum / float64(count)
}

// InitSeasonFactors derives one correction factor per phase by averaging,
// over all complete seasons, each observation relative to its season mean.
func (m *HoltWintersMethod) InitSeasonFactors(s *timeseries.Series) ([]float64, error) {
	return m.initSeasonFactors(s.Values())
}

func (m *HoltWintersMethod) initSeasonFactors(values []float64) ([]float64, error) {
	length := m.seasonLength
	seasons := len(values) / length
	if seasons == 0 {
		return nil, errors.Wrapf(timeseries.ErrPrecondition,
			"need at least one season of %d observations, got %d", length, len(values))
	}

	means := make([]float64, seasons)
	for j := range means {
		a, err := seasonMean(values, j, length)
		if err != nil {
			return nil, err
		}
		if m.seasonality == Multiplicative && a == 0 {
			return nil, errors.Wrapf(timeseries.ErrPrecondition, "season %d has a zero mean", j)
		}
		means[j] = a
	}

	factors := make([]float64, length)
	for i := range factors {
		sum := 0.0
		for j, a := range means {
			x := values[j*length+i]
			if m.seasonality == Additive {
				sum += x - a
			} else {
				sum += x / a
			}
		}
		factors[i] = sum / float64(seasons)
		if m.seasonality == Multiplicative && factors[i] == 0 {
			return nil, errors.Wrapf(timeseries.ErrPrecondition, "seasonal factor of phase %d is zero", i)
		}
	}
	return factors, nil
}

// Execute smooths s and appends a seasonal forecast.
//
// The first observation is emitted as is and seeds the level. Every later
// observation updates the level from its deseasonalized value, the trend from
// the level increment and the factor of its phase, and is emitted
// reseasonalized. The h-th forecast projects level + h*trend with the factor
// of the phase it falls on.
func (m *HoltWintersMethod) Execute(s *timeseries.Series) (*timeseries.Series, error) {
	traceExecute("holtwinters", s, m.valuesToForecast)

	obs := s.Observations()
	n, length := len(obs), m.seasonLength
	if n < length {
		return nil, errors.Wrapf(timeseries.ErrPrecondition,
			"series of %d observations is shorter than one season of %d", n, length)
	}

	values := s.Values()
	factors, err := m.initSeasonFactors(values)
	if err != nil {
		return nil, err
	}
	trend := initialTrend(values, length)
	level := m.seasonality.deseasonalize(obs[0].Value, factors[0])

	out := make([]timeseries.Observation, 0, n+m.valuesToForecast)
	out = append(out, obs[0])

	// Conversions keep products from being fused into the adds.
	for i := 1; i < n; i++ {
		x := obs[i].Value
		phase := i % length
		factor := factors[phase]

		next := float64(m.alpha*m.seasonality.deseasonalize(x, factor)) + float64((1-m.alpha)*(level+trend))
		trend = float64(m.beta*(next-level)) + float64((1-m.beta)*trend)
		if m.seasonality == Additive || next != 0 {
			factors[phase] = float64(m.gamma*m.seasonality.deseasonalize(x, next)) + float64((1-m.gamma)*factor)
		}
		level = next

		out = append(out, timeseries.Observation{
			Timestamp: obs[i].Timestamp,
			Value:     m.seasonality.reseasonalize(level, factors[phase]),
		})
	}

	last := obs[n-1].Timestamp
	step := forecastStep(obs, s.Granularity())
	for h := 1; h <= m.valuesToForecast; h++ {
		projected := level + float64(float64(h)*trend)
		out = append(out, timeseries.Observation{
			Timestamp: last + float64(h)*step,
			Value:     m.seasonality.reseasonalize(projected, factors[(n-1+h)%length]),
		})
	}

	return result(s, "hw", out), nil
}
