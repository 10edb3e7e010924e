package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sartorproj/gosmoothing/accuracy"
	"github.com/sartorproj/gosmoothing/internal/config"
	"github.com/sartorproj/gosmoothing/smoothing"
	"github.com/sartorproj/gosmoothing/timeseries"
)

type runFlags struct {
	configPath      string
	method          string
	params          map[string]string
	input           string
	output          string
	granularity     string
	timestampColumn string
	valueColumn     string
	precision       int
	measure         string
	ljungBoxLags    int
	metricsFile     string
	logLevel        string
	debug           bool
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [input.csv]",
		Short: "Apply a smoothing method to a CSV series",
		Long: `Apply a smoothing method to a CSV series.

Settings are read from the config file, then SMOOTH_* environment variables,
then flags. The input is read from stdin when no path is given or the path is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			if len(args) == 1 {
				cfg.Input.Path = args[0]
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logrus.StandardLogger()
			if err := cfg.ConfigureLogger(log); err != nil {
				return err
			}
			if flags.debug {
				log.SetLevel(logrus.DebugLevel)
			}
			log.SetOutput(cmd.ErrOrStderr())
			smoothing.SetLogger(log)

			return run(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), log)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	f.StringVarP(&flags.method, "method", "m", "", "Method (sma, exponential, holt, holtwinters)")
	f.StringToStringVarP(&flags.params, "param", "p", nil, "Method parameters, e.g. alpha=0.3,valuesToForecast=2")
	f.StringVarP(&flags.input, "input", "i", "", "Input CSV file")
	f.StringVarP(&flags.output, "output", "o", "", "Output CSV file (default stdout)")
	f.StringVarP(&flags.granularity, "granularity", "g", "", "Grid unit (second, minute, hour, day, week)")
	f.StringVar(&flags.timestampColumn, "timestamp-column", "", "Timestamp column (default row index)")
	f.StringVar(&flags.valueColumn, "value-column", "", "Value column")
	f.IntVar(&flags.precision, "precision", -1, "Decimal places of output values, negative for full precision")
	f.StringVar(&flags.measure, "accuracy", "", "Report an error measure (mse, mase)")
	f.IntVar(&flags.ljungBoxLags, "ljung-box", 0, "Test residuals for autocorrelation up to this lag")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format")
	f.StringVarP(&flags.logLevel, "loglevel", "l", "", "Log level (debug, info, warn, error)")
	f.BoolVarP(&flags.debug, "debug", "d", false, "Debug mode")

	return cmd
}

// apply overrides cfg with every flag set on the command line.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("method") {
		cfg.Method = f.method
	}
	for name, v := range f.params {
		cfg.Parameters[name] = v
	}
	if changed("input") {
		cfg.Input.Path = f.input
	}
	if changed("output") {
		cfg.Output.Path = f.output
	}
	if changed("granularity") {
		cfg.Granularity = f.granularity
	}
	if changed("timestamp-column") {
		cfg.Input.TimestampColumn = f.timestampColumn
	}
	if changed("value-column") {
		cfg.Input.ValueColumn = f.valueColumn
	}
	if changed("precision") {
		cfg.Output.Precision = f.precision
	}
	if changed("accuracy") {
		cfg.Accuracy.Measure = f.measure
	}
	if changed("ljung-box") {
		cfg.Accuracy.LjungBoxLags = f.ljungBoxLags
	}
	if changed("metrics-file") {
		cfg.Output.MetricsFile = f.metricsFile
	}
	if changed("loglevel") {
		cfg.Log.Level = f.logLevel
	}
}

func run(cfg *config.Config, stdin io.Reader, stdout io.Writer, log logrus.FieldLogger) error {
	src, err := readInput(cfg, stdin)
	if err != nil {
		return err
	}

	b, err := cfg.Builder()
	if err != nil {
		return err
	}
	m, err := b.Build()
	if err != nil {
		return err
	}
	log.WithField("method", m).Info("method configured")

	if err := prepare(src, m, cfg.Granularity); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"points":   src.Len(),
		"mean":     src.Mean(),
		"variance": src.Variance(),
		"std":      src.Std(),
		"median":   src.Median(),
		"min":      src.Min(),
		"max":      src.Max(),
	}).Info("input summary")

	metrics := newRunMetrics(string(b.Kind()))
	metrics.inputPoints.Set(float64(src.Len()))

	start := time.Now()
	res, err := src.Apply(m)
	if err != nil {
		return errors.Wrapf(err, "apply %s", b.Kind())
	}
	metrics.duration.Set(time.Since(start).Seconds())
	metrics.outputPoints.Set(float64(res.Len()))

	log.WithFields(logrus.Fields{
		"input":  src.Len(),
		"output": res.Len(),
	}).Info("series smoothed")

	if err := writeOutput(cfg, res, stdout); err != nil {
		return err
	}

	if cfg.Accuracy.Measure != "" {
		v, ok, err := measureAccuracy(cfg.Accuracy, src, res)
		if err != nil {
			return err
		}
		if ok {
			metrics.accuracy.WithLabelValues(strings.ToLower(cfg.Accuracy.Measure)).Set(v)
			log.WithFields(logrus.Fields{
				"measure": cfg.Accuracy.Measure,
				"value":   v,
			}).Info("accuracy")
		} else {
			log.WithField("measure", cfg.Accuracy.Measure).
				Warn("too few matching observations for an accuracy measure")
		}
	}

	if lags := cfg.Accuracy.LjungBoxLags; lags > 0 {
		lb, err := accuracy.LjungBox(accuracy.Residuals(src, res), lags, 0)
		if err != nil {
			log.WithError(err).Warn("residual test skipped")
		} else {
			metrics.ljungBox.Set(lb.Statistic)
			metrics.ljungBoxPValue.Set(lb.PValue)
			log.WithFields(logrus.Fields{
				"q":    lb.Statistic,
				"p":    lb.PValue,
				"lags": lb.Lags,
			}).Info("ljung-box")
		}
	}

	if cfg.Output.MetricsFile != "" {
		if err := metrics.write(cfg.Output.MetricsFile); err != nil {
			return errors.Wrapf(err, "write metrics %s", cfg.Output.MetricsFile)
		}
	}
	return nil
}

func readInput(cfg *config.Config, stdin io.Reader) (*timeseries.Series, error) {
	path := cfg.Input.Path
	if path == "" || path == "-" {
		return timeseries.LoadCSVFromReader(stdin, cfg.CSVOptions())
	}
	s, err := timeseries.LoadCSV(path, cfg.CSVOptions())
	if err != nil {
		return nil, err
	}
	s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return s, nil
}

// prepare sorts and normalizes src as far as m requires.
func prepare(src *timeseries.Series, m timeseries.Method, granularity string) error {
	if m.HasToBeNormalized() {
		g, err := timeseries.ParseGranularity(granularity)
		if err != nil {
			return err
		}
		return src.Normalize(g)
	}
	if m.HasToBeSorted() && !src.IsSorted() {
		src.Sort()
	}
	return nil
}

func writeOutput(cfg *config.Config, res *timeseries.Series, stdout io.Writer) error {
	if cfg.Output.Path == "" || cfg.Output.Path == "-" {
		return writeSeries(cfg, res, stdout)
	}

	f, err := os.Create(cfg.Output.Path)
	if err != nil {
		return errors.Wrapf(err, "create %s", cfg.Output.Path)
	}
	if err := writeSeries(cfg, res, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", cfg.Output.Path)
	}
	return nil
}

func writeSeries(cfg *config.Config, res *timeseries.Series, w io.Writer) error {
	if cfg.Output.Precision >= 0 {
		return timeseries.WriteCSVRounded(res, w, int32(cfg.Output.Precision))
	}
	return timeseries.WriteCSV(res, w)
}

func measureAccuracy(cfg config.AccuracyConfig, original, calculated *timeseries.Series) (float64, bool, error) {
	var (
		m   accuracy.Measure
		err error
	)
	switch strings.ToLower(cfg.Measure) {
	case "mse":
		m, err = newMSE(cfg.MinimalPercentage)
	case "mase":
		m, err = newMASE(cfg.MinimalPercentage, cfg.HistoryLength)
	default:
		return 0, false, errors.Wrapf(timeseries.ErrConfiguration, "unknown accuracy measure %q", cfg.Measure)
	}
	if err != nil {
		return 0, false, err
	}

	ok, err := m.Initialize(original, calculated)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := m.Value()
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func newMSE(pct float64) (accuracy.Measure, error) {
	m, err := accuracy.NewMeanSquaredError(pct)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newMASE(pct float64, history int) (accuracy.Measure, error) {
	m, err := accuracy.NewMeanAbsoluteScaledError(pct, history)
	if err != nil {
		return nil, err
	}
	return m, nil
}
