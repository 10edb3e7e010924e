package smoothing

import (
	"fmt"

	"github.com/sartorproj/gosmoothing/timeseries"
)

// ExponentialSmoothing is single (Brown) exponential smoothing with a flat
// forecast.
type ExponentialSmoothing struct {
	alpha            float64
	valuesToForecast int
}

// NewExponentialSmoothing creates single exponential smoothing with weight
// alpha in [0, 1] and a forecast horizon of valuesToForecast points.
func NewExponentialSmoothing(alpha float64, valuesToForecast int) (*ExponentialSmoothing, error) {
	if err := checkWeight(ParamAlpha, alpha); err != nil {
		return nil, err
	}
	if err := checkHorizon(valuesToForecast); err != nil {
		return nil, err
	}
	return &ExponentialSmoothing{alpha: alpha, valuesToForecast: valuesToForecast}, nil
}

// Alpha returns the smoothing weight.
func (m *ExponentialSmoothing) Alpha() float64 { return m.alpha }

// ValuesToForecast returns the forecast horizon.
func (m *ExponentialSmoothing) ValuesToForecast() int { return m.valuesToForecast }

func (m *ExponentialSmoothing) CanBeExecuted() bool     { return true }
func (m *ExponentialSmoothing) HasToBeSorted() bool     { return true }
func (m *ExponentialSmoothing) HasToBeNormalized() bool { return true }

func (m *ExponentialSmoothing) String() string {
	return fmt.Sprintf("ExponentialSmoothing(%s=%g, %s=%d)",
		ParamAlpha, m.alpha, ParamValuesToForecast, m.valuesToForecast)
}

// Execute smooths s and appends the forecast.
//
// The level starts at the first value. Every later observation first emits
// the current level at its own timestamp, then pulls the level towards its
// value by alpha. The forecast repeats the final level.
func (m *ExponentialSmoothing) Execute(s *timeseries.Series) (*timeseries.Series, error) {
	traceExecute("exponential", s, m.valuesToForecast)

	obs := s.Observations()
	if len(obs) == 0 {
		return result(s, "es", nil), nil
	}

	out := make([]timeseries.Observation, 0, len(obs)-1+m.valuesToForecast)
	level := obs[0].Value
	for _, o := range obs[1:] {
		out = append(out, timeseries.Observation{Timestamp: o.Timestamp, Value: level})
		// The conversion keeps the product from being fused into the add.
		level += float64(m.alpha * (o.Value - level))
	}

	last := obs[len(obs)-1].Timestamp
	step := forecastStep(obs, s.Granularity())
	for h := 1; h <= m.valuesToForecast; h++ {
		out = append(out, timeseries.Observation{Timestamp: last + float64(h)*step, Value: level})
	}

	return result(s, "es", out), nil
}
