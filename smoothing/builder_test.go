package smoothing_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gosmoothing/smoothing"
	"github.com/sartorproj/gosmoothing/timeseries"
)

func TestBaseMethodParameters(t *testing.T) {
	for _, sorted := range []bool{true, false} {
		for _, norm := range []bool{true, false} {
			b := smoothing.NewBaseMethod([]string{"param1", "param2"}, sorted, norm)
			assert.Equal(t, sorted, b.HasToBeSorted())
			assert.Equal(t, norm, b.HasToBeNormalized())
		}
	}

	b := smoothing.NewBaseMethod([]string{"param1", "param2"}, true, true)
	assert.False(t, b.CanBeExecuted())
	assert.Equal(t, []string{"param1", "param2"}, b.Missing())

	b.SetParameter("param1", 1)
	assert.False(t, b.CanBeExecuted())

	b.SetParameter("param2", 2)
	b.SetParameter("param1", 1)
	assert.True(t, b.CanBeExecuted())
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"param1", "param2"}, b.Names())

	v, err := b.GetParameter("param2")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = b.GetParameter("param3")
	assert.True(t, errors.Is(err, timeseries.ErrLookup))
}

func TestBaseMethodIsNotImplemented(t *testing.T) {
	src := timeseries.FromPairs([][2]float64{{0, 0.0}, {1, 0.1}, {2, 0.2}, {3, 0.3}, {4, 0.4}})
	require.NoError(t, src.Normalize(timeseries.Second))

	b := smoothing.NewBaseMethod([]string{"param1"}, true, true)

	_, err := src.Apply(b)
	assert.True(t, errors.Is(err, timeseries.ErrNotReady))

	b.SetParameter("param1", 42.23)
	_, err = src.Apply(b)
	assert.True(t, errors.Is(err, timeseries.ErrNotImplemented))
}

func TestParametersCoercion(t *testing.T) {
	p := smoothing.NewParameters(nil, true, true)
	p.SetParameter(smoothing.ParamAlpha, "0.25")
	p.SetParameter(smoothing.ParamWindowSize, 3.0)
	p.SetParameter(smoothing.ParamBeta, "high")

	alpha, err := p.Float(smoothing.ParamAlpha)
	require.NoError(t, err)
	assert.Equal(t, 0.25, alpha)

	w, err := p.Int(smoothing.ParamWindowSize)
	require.NoError(t, err)
	assert.Equal(t, 3, w)

	_, err = p.Float(smoothing.ParamBeta)
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))

	_, err = p.Float(smoothing.ParamGamma)
	assert.True(t, errors.Is(err, timeseries.ErrLookup))

	h, err := p.IntOr(smoothing.ParamValuesToForecast, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, h)
}

func TestParametersRejectsInexactIntegers(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{"int", 3, 3, false},
		{"whole float", 3.0, 3, false},
		{"decimal string", "12", 12, false},
		{"padded string", " 7 ", 7, false},
		{"leading zero string", "010", 10, false},
		{"fraction", 2.5, 0, true},
		{"fraction float32", float32(1.7), 0, true},
		{"fractional string", "2.5", 0, true},
		{"bool", true, 0, true},
		{"hex string", "0x10", 0, true},
		{"word", "three", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := smoothing.NewParameters(nil, true, true)
			p.SetParameter(smoothing.ParamWindowSize, tt.value)

			got, err := p.Int(smoothing.ParamWindowSize)
			if tt.wantErr {
				assert.True(t, errors.Is(err, timeseries.ErrConfiguration), "got %d, %v", got, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	p := smoothing.NewParameters(nil, true, true)
	p.SetParameter(smoothing.ParamAlpha, true)
	_, err := p.Float(smoothing.ParamAlpha)
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    smoothing.Kind
		wantErr bool
	}{
		{"sma", smoothing.KindSimpleMovingAverage, false},
		{"simple_moving_average", smoothing.KindSimpleMovingAverage, false},
		{"Exponential-Smoothing", smoothing.KindExponentialSmoothing, false},
		{"HOLT", smoothing.KindHolt, false},
		{"Holt Winters", smoothing.KindHoltWinters, false},
		{"arima", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := smoothing.ParseKind(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, timeseries.ErrConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilder(t *testing.T) {
	_, err := smoothing.NewBuilder("arima")
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))

	b, err := smoothing.NewBuilder(smoothing.KindHolt)
	require.NoError(t, err)
	assert.False(t, b.CanBeExecuted())

	_, err = b.Build()
	assert.True(t, errors.Is(err, timeseries.ErrNotReady))

	m, err := b.Set(smoothing.ParamAlpha, "0.2").
		Set(smoothing.ParamBeta, 0.3).
		Set(smoothing.ParamValuesToForecast, "5").
		Build()
	require.NoError(t, err)

	holt, ok := m.(*smoothing.HoltMethod)
	require.True(t, ok)
	assert.Equal(t, 0.2, holt.Alpha())
	assert.Equal(t, 0.3, holt.Beta())
	assert.Equal(t, 5, holt.ValuesToForecast())
}

func TestBuilderKinds(t *testing.T) {
	tests := []struct {
		kind   smoothing.Kind
		params map[string]any
		check  func(t *testing.T, m timeseries.Method)
	}{
		{
			kind:   smoothing.KindSimpleMovingAverage,
			params: map[string]any{smoothing.ParamWindowSize: "4"},
			check: func(t *testing.T, m timeseries.Method) {
				assert.Equal(t, 4, m.(*smoothing.SimpleMovingAverage).WindowSize())
			},
		},
		{
			kind:   smoothing.KindExponentialSmoothing,
			params: map[string]any{smoothing.ParamAlpha: 0.3},
			check: func(t *testing.T, m timeseries.Method) {
				es := m.(*smoothing.ExponentialSmoothing)
				assert.Equal(t, smoothing.DefaultValuesToForecast, es.ValuesToForecast())
			},
		},
		{
			kind: smoothing.KindHoltWinters,
			params: map[string]any{
				smoothing.ParamAlpha:        0.5,
				smoothing.ParamBeta:         0.1,
				smoothing.ParamGamma:        0.2,
				smoothing.ParamSeasonLength: 12,
				smoothing.ParamSeasonality:  "additive",
			},
			check: func(t *testing.T, m timeseries.Method) {
				hw := m.(*smoothing.HoltWintersMethod)
				assert.Equal(t, 12, hw.SeasonLength())
				assert.Equal(t, smoothing.Additive, hw.Seasonality())
				assert.False(t, hw.HasToBeNormalized())
			},
		},
		{
			kind: smoothing.KindHoltWinters,
			params: map[string]any{
				smoothing.ParamAlpha:        0.5,
				smoothing.ParamBeta:         0.1,
				smoothing.ParamGamma:        0.2,
				smoothing.ParamSeasonLength: 4,
				smoothing.ParamSeasonality:  smoothing.Multiplicative,
			},
			check: func(t *testing.T, m timeseries.Method) {
				assert.Equal(t, smoothing.Multiplicative, m.(*smoothing.HoltWintersMethod).Seasonality())
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			b, err := smoothing.NewBuilder(tt.kind)
			require.NoError(t, err)
			for name, v := range tt.params {
				b.Set(name, v)
			}

			m, err := b.Build()
			require.NoError(t, err)
			assert.True(t, m.CanBeExecuted())
			tt.check(t, m)
		})
	}
}

func TestBuilderRejectsInvalidValues(t *testing.T) {
	b, err := smoothing.NewBuilder(smoothing.KindExponentialSmoothing)
	require.NoError(t, err)

	_, err = b.Set(smoothing.ParamAlpha, 1.5).Build()
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))

	_, err = b.Set(smoothing.ParamAlpha, "abc").Build()
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))

	_, err = b.Set(smoothing.ParamAlpha, 0.5).Set(smoothing.ParamValuesToForecast, 1.7).Build()
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))

	sma, err := smoothing.NewBuilder(smoothing.KindSimpleMovingAverage)
	require.NoError(t, err)
	for _, v := range []any{2.5, "010.0", true} {
		m, err := sma.Set(smoothing.ParamWindowSize, v).Build()
		assert.True(t, errors.Is(err, timeseries.ErrConfiguration), "windowsize %v built %v", v, m)
	}

	hw, err := smoothing.NewBuilder(smoothing.KindHoltWinters)
	require.NoError(t, err)
	hw.Set(smoothing.ParamAlpha, 0.5).
		Set(smoothing.ParamBeta, 0.5).
		Set(smoothing.ParamGamma, 0.5).
		Set(smoothing.ParamSeasonLength, 4).
		Set(smoothing.ParamSeasonality, "cubic")
	_, err = hw.Build()
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))
}

func TestExecuteLogsAtDebug(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	smoothing.SetLogger(logger)
	t.Cleanup(func() { smoothing.SetLogger(logrus.StandardLogger()) })

	src := timeseries.New([]float64{1, 2, 3})
	src.Name = "load"
	require.NoError(t, src.Normalize(timeseries.Second))

	sma, err := smoothing.NewSimpleMovingAverage(2)
	require.NoError(t, err)
	_, err = src.Apply(sma)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "executing", entry.Message)
	assert.Equal(t, "sma", entry.Data["method"])
	assert.Equal(t, "load", entry.Data["series"])
	assert.Equal(t, 3, entry.Data["points"])
}

func TestSetLoggerNilDiscards(t *testing.T) {
	smoothing.SetLogger(nil)
	t.Cleanup(func() { smoothing.SetLogger(logrus.StandardLogger()) })

	es, err := smoothing.NewExponentialSmoothing(0.5, 1)
	require.NoError(t, err)
	_, err = es.Execute(timeseries.New([]float64{1, 2}))
	assert.NoError(t, err)
}
