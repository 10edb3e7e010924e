package smoothing

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/sartorproj/gosmoothing/timeseries"
)

// HoltMethod is double exponential smoothing with a level and a trend.
type HoltMethod struct {
	alpha            float64
	beta             float64
	valuesToForecast int
}

// NewHoltMethod creates Holt smoothing with level weight alpha and trend
// weight beta, both in [0, 1].
func NewHoltMethod(alpha, beta float64, valuesToForecast int) (*HoltMethod, error) {
	if err := checkWeight(ParamAlpha, alpha); err != nil {
		return nil, err
	}
	if err := checkWeight(ParamBeta, beta); err != nil {
		return nil, err
	}
	if err := checkHorizon(valuesToForecast); err != nil {
		return nil, err
	}
	return &HoltMethod{alpha: alpha, beta: beta, valuesToForecast: valuesToForecast}, nil
}

func (m *HoltMethod) Alpha() float64        { return m.alpha }
func (m *HoltMethod) Beta() float64         { return m.beta }
func (m *HoltMethod) ValuesToForecast() int { return m.valuesToForecast }

func (m *HoltMethod) CanBeExecuted() bool     { return true }
func (m *HoltMethod) HasToBeSorted() bool     { return true }
func (m *HoltMethod) HasToBeNormalized() bool { return true }

func (m *HoltMethod) String() string {
	return fmt.Sprintf("HoltMethod(%s=%g, %s=%g, %s=%d)",
		ParamAlpha, m.alpha, ParamBeta, m.beta, ParamValuesToForecast, m.valuesToForecast)
}

// Execute smooths s and appends a linear forecast.
//
// The level starts at the first value and the trend at the first increment;
// that state is emitted at the second timestamp. From the third observation
// on, the level blends the observation with the projected level and the trend
// blends the level increment with the previous trend. The h-th forecast is
// level + h*trend.
func (m *HoltMethod) Execute(s *timeseries.Series) (*timeseries.Series, error) {
	traceExecute("holt", s, m.valuesToForecast)

	obs := s.Observations()
	if len(obs) < 2 {
		return nil, errors.Wrapf(timeseries.ErrPrecondition,
			"holt smoothing needs at least 2 observations, got %d", len(obs))
	}

	out := make([]timeseries.Observation, 0, len(obs)-1+m.valuesToForecast)
	level := obs[0].Value
	trend := obs[1].Value - obs[0].Value
	out = append(out, timeseries.Observation{Timestamp: obs[1].Timestamp, Value: level})

	// Conversions keep products from being fused into the adds.
	for _, o := range obs[2:] {
		prev := level
		level = float64(m.alpha*o.Value) + float64((1-m.alpha)*(level+trend))
		trend = float64(m.beta*(level-prev)) + float64((1-m.beta)*trend)
		out = append(out, timeseries.Observation{Timestamp: o.Timestamp, Value: level})
	}

	last := obs[len(obs)-1].Timestamp
	step := forecastStep(obs, s.Granularity())
	for h := 1; h <= m.valuesToForecast; h++ {
		out = append(out, timeseries.Observation{
			Timestamp: last + float64(h)*step,
			Value:     level + float64(float64(h)*trend),
		})
	}

	return result(s, "holt", out), nil
}
