package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gosmoothing/smoothing"
	"github.com/sartorproj/gosmoothing/timeseries"
)

const sampleYAML = `
method: holt-winters
granularity: day
parameters:
  alpha: 0.5
  beta: 0.1
  gamma: 0.3
  seasonLength: 7
  seasonality: additive
input:
  path: sales.csv
  timestampColumn: ds
  delimiter: ";"
output:
  precision: 2
accuracy:
  measure: mase
  historyLength: 7
log:
  level: debug
  format: json
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smooth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "holt-winters", cfg.Method)
	assert.Equal(t, "day", cfg.Granularity)
	assert.Equal(t, 0.5, cfg.Parameters[smoothing.ParamAlpha])
	assert.Equal(t, 7, cfg.Parameters[smoothing.ParamSeasonLength])
	assert.Equal(t, "sales.csv", cfg.Input.Path)
	assert.Equal(t, "y", cfg.Input.ValueColumn)
	assert.Equal(t, 2, cfg.Output.Precision)
	assert.Equal(t, "mase", cfg.Accuracy.Measure)
	assert.Equal(t, 80.0, cfg.Accuracy.MinimalPercentage)

	opts := cfg.CSVOptions()
	assert.Equal(t, "ds", opts.TimestampColumn)
	assert.Equal(t, ';', opts.Delimiter)
	assert.Equal(t, "2006-01-02", opts.DateFormat)
	assert.True(t, opts.HasHeader)

	b, err := cfg.Builder()
	require.NoError(t, err)
	m, err := b.Build()
	require.NoError(t, err)

	hw, ok := m.(*smoothing.HoltWintersMethod)
	require.True(t, ok)
	assert.Equal(t, 7, hw.SeasonLength())
	assert.Equal(t, smoothing.Additive, hw.Seasonality())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.True(t, errors.Is(cfg.Validate(), timeseries.ErrConfiguration))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SMOOTH_METHOD", "exponential")
	t.Setenv("SMOOTH_ALPHA", "0.3")
	t.Setenv("SMOOTH_VALUES_TO_FORECAST", "4")
	t.Setenv("SMOOTH_PRECISION", "3")
	t.Setenv("SMOOTH_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "exponential", cfg.Method)
	assert.Equal(t, "0.3", cfg.Parameters[smoothing.ParamAlpha])
	assert.Equal(t, 3, cfg.Output.Precision)

	b, err := cfg.Builder()
	require.NoError(t, err)
	m, err := b.Build()
	require.NoError(t, err)

	es, ok := m.(*smoothing.ExponentialSmoothing)
	require.True(t, ok)
	assert.Equal(t, 0.3, es.Alpha())
	assert.Equal(t, 4, es.ValuesToForecast())
}

func TestEnvOverrideErrors(t *testing.T) {
	t.Setenv("SMOOTH_PRECISION", "many")

	_, err := Load("")
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(writeConfig(t, "method: [unclosed"))
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"unknown method", func(c *Config) { c.Method = "arima" }},
		{"unknown granularity", func(c *Config) { c.Granularity = "fortnight" }},
		{"long delimiter", func(c *Config) { c.Input.Delimiter = "::" }},
		{"unknown measure", func(c *Config) { c.Accuracy.Measure = "mape" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Method = "sma"
			require.NoError(t, cfg.Validate())

			tt.modify(cfg)
			assert.True(t, errors.Is(cfg.Validate(), timeseries.ErrConfiguration))
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	cfg := Default()
	cfg.Log = LogConfig{Level: "debug", Format: "json"}

	l := logrus.New()
	require.NoError(t, cfg.ConfigureLogger(l))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}
