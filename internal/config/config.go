// Package config loads the smoothing run configuration from a YAML file and
// SMOOTH_* environment variables.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/gosmoothing/smoothing"
	"github.com/sartorproj/gosmoothing/timeseries"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SMOOTH_"

// Config holds everything needed for one smoothing run.
type Config struct {
	// Method is a kind name understood by smoothing.ParseKind.
	Method string `yaml:"method"`
	// Parameters are passed to the method builder as is.
	Parameters map[string]any `yaml:"parameters"`
	// Granularity the input is normalized to, e.g. "second" or "day".
	Granularity string `yaml:"granularity"`

	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Accuracy AccuracyConfig `yaml:"accuracy"`
	Log      LogConfig      `yaml:"log"`
}

// InputConfig describes the CSV input.
type InputConfig struct {
	Path            string `yaml:"path"`
	TimestampColumn string `yaml:"timestampColumn"`
	ValueColumn     string `yaml:"valueColumn"`
	DateFormat      string `yaml:"dateFormat"`
	Delimiter       string `yaml:"delimiter"`
	SkipRows        int    `yaml:"skipRows"`
	NoHeader        bool   `yaml:"noHeader"`
}

// OutputConfig describes where results go. An empty path means stdout and a
// negative precision means full precision.
type OutputConfig struct {
	Path        string `yaml:"path"`
	Precision   int    `yaml:"precision"`
	MetricsFile string `yaml:"metricsFile"`
}

// AccuracyConfig selects an optional error measure reported after the run.
type AccuracyConfig struct {
	// Measure is "", "mse" or "mase".
	Measure           string  `yaml:"measure"`
	MinimalPercentage float64 `yaml:"minimalPercentage"`
	HistoryLength     int     `yaml:"historyLength"`
	// LjungBoxLags enables a residual autocorrelation test when positive.
	LjungBoxLags int `yaml:"ljungBoxLags"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Parameters:  map[string]any{},
		Granularity: "second",
		Input: InputConfig{
			ValueColumn: "y",
			Delimiter:   ",",
		},
		Output: OutputConfig{Precision: -1},
		Accuracy: AccuracyConfig{
			MinimalPercentage: 80,
			HistoryLength:     1,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path, if not empty, over the defaults and then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(timeseries.ErrConfiguration, "parse config %s: %v", path, err)
		}
		if cfg.Parameters == nil {
			cfg.Parameters = map[string]any{}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envParameters maps environment suffixes to method parameter names.
var envParameters = map[string]string{
	"WINDOWSIZE":         smoothing.ParamWindowSize,
	"ALPHA":              smoothing.ParamAlpha,
	"BETA":               smoothing.ParamBeta,
	"GAMMA":              smoothing.ParamGamma,
	"SEASON_LENGTH":      smoothing.ParamSeasonLength,
	"VALUES_TO_FORECAST": smoothing.ParamValuesToForecast,
	"SEASONALITY":        smoothing.ParamSeasonality,
}

func (c *Config) applyEnv() error {
	setString(&c.Method, "METHOD")
	setString(&c.Granularity, "GRANULARITY")
	setString(&c.Input.Path, "INPUT")
	setString(&c.Input.TimestampColumn, "TIMESTAMP_COLUMN")
	setString(&c.Input.ValueColumn, "VALUE_COLUMN")
	setString(&c.Output.Path, "OUTPUT")
	setString(&c.Output.MetricsFile, "METRICS_FILE")
	setString(&c.Accuracy.Measure, "ACCURACY")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	for suffix, name := range envParameters {
		if v, ok := os.LookupEnv(EnvPrefix + suffix); ok {
			c.Parameters[name] = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "PRECISION"); ok {
		p, err := cast.ToIntE(v)
		if err != nil {
			return errors.Wrapf(timeseries.ErrConfiguration, "%sPRECISION: %v", EnvPrefix, err)
		}
		c.Output.Precision = p
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MIN_PERCENTAGE"); ok {
		p, err := cast.ToFloat64E(v)
		if err != nil {
			return errors.Wrapf(timeseries.ErrConfiguration, "%sMIN_PERCENTAGE: %v", EnvPrefix, err)
		}
		c.Accuracy.MinimalPercentage = p
	}
	return nil
}

func setString(dst *string, suffix string) {
	if v, ok := os.LookupEnv(EnvPrefix + suffix); ok {
		*dst = v
	}
}

// Validate checks the fields that can be checked without input data.
func (c *Config) Validate() error {
	if c.Method == "" {
		return errors.Wrap(timeseries.ErrConfiguration, "no method configured")
	}
	if _, err := smoothing.ParseKind(c.Method); err != nil {
		return err
	}
	if _, err := timeseries.ParseGranularity(c.Granularity); err != nil {
		return err
	}
	if c.Input.Delimiter != "" && len([]rune(c.Input.Delimiter)) != 1 {
		return errors.Wrapf(timeseries.ErrConfiguration, "delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	switch strings.ToLower(c.Accuracy.Measure) {
	case "", "mse", "mase":
	default:
		return errors.Wrapf(timeseries.ErrConfiguration, "unknown accuracy measure %q", c.Accuracy.Measure)
	}
	if c.Accuracy.LjungBoxLags < 0 {
		return errors.Wrapf(timeseries.ErrConfiguration, "ljung-box lags must not be negative, got %d", c.Accuracy.LjungBoxLags)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(timeseries.ErrConfiguration, "log level: %v", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Wrapf(timeseries.ErrConfiguration, "unknown log format %q", c.Log.Format)
	}
	return nil
}

// Builder returns a smoothing builder primed with the configured parameters.
func (c *Config) Builder() (*smoothing.Builder, error) {
	kind, err := smoothing.ParseKind(c.Method)
	if err != nil {
		return nil, err
	}
	b, err := smoothing.NewBuilder(kind)
	if err != nil {
		return nil, err
	}
	for name, v := range c.Parameters {
		b.Set(name, v)
	}
	return b, nil
}

// CSVOptions converts the input section into loader options.
func (c *Config) CSVOptions() *timeseries.CSVOptions {
	opts := timeseries.DefaultCSVOptions()
	opts.TimestampColumn = c.Input.TimestampColumn
	if c.Input.ValueColumn != "" {
		opts.ValueColumn = c.Input.ValueColumn
	}
	if c.Input.DateFormat != "" {
		opts.DateFormat = c.Input.DateFormat
	}
	opts.HasHeader = !c.Input.NoHeader
	if c.Input.Delimiter != "" {
		opts.Delimiter = []rune(c.Input.Delimiter)[0]
	}
	opts.SkipRows = c.Input.SkipRows
	return opts
}

// ConfigureLogger applies the log section to l.
func (c *Config) ConfigureLogger(l *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return errors.Wrapf(timeseries.ErrConfiguration, "log level: %v", err)
	}
	l.SetLevel(level)
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
