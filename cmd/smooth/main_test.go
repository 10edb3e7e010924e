package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gosmoothing/internal/config"
	"github.com/sartorproj/gosmoothing/timeseries"
)

const esInput = "ds,y\n0,10\n1,18\n2,29\n3,15\n4,30\n5,30\n6,12\n7,16\n"

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRunExponentialSmoothing(t *testing.T) {
	out, err := execute(t, esInput, "run", "-m", "exponential", "-p", "alpha=0.3,valuesToForecast=1", "--precision", "4")
	require.NoError(t, err)

	assert.Equal(t,
		"timestamp,value\n1.5,10\n2.5,12.4\n3.5,17.38\n4.5,16.666\n5.5,20.6662\n6.5,23.4663\n7.5,20.0264\n8.5,18.8185\n",
		out)
}

func TestRunFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(input, []byte("ds,y\n0,152\n1,176\n2,160\n3,192\n4,220\n"), 0o644))

	cfgPath := filepath.Join(dir, "smooth.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
method: holt
parameters:
  alpha: 0.2
  beta: 0.3
  valuesToForecast: 5
input:
  path: `+input+`
output:
  path: `+filepath.Join(dir, "out.csv")+`
  metricsFile: `+filepath.Join(dir, "smooth.prom")+`
accuracy:
  measure: mse
  minimalPercentage: 50
`), 0o644))

	out, err := execute(t, "", "run", "-c", cfgPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	res, err := timeseries.LoadCSV(filepath.Join(dir, "out.csv"), &timeseries.CSVOptions{
		TimestampColumn: "timestamp",
		ValueColumn:     "value",
		HasHeader:       true,
		Delimiter:       ',',
	})
	require.NoError(t, err)
	require.Equal(t, 9, res.Len())

	first, err := res.At(4)
	require.NoError(t, err)
	assert.InDelta(t, 241.241984, first.Value, 1e-9)

	metrics, err := os.ReadFile(filepath.Join(dir, "smooth.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `smooth_input_points{method="holt"} 5`)
	assert.Contains(t, string(metrics), `smooth_output_points{method="holt"} 9`)
	assert.Contains(t, string(metrics), `smooth_accuracy{measure="mse",method="holt"}`)
}

func TestRunHoltWintersWithoutNormalization(t *testing.T) {
	var in strings.Builder
	in.WriteString("timestamp,value\n")
	for i, v := range []float64{362, 385, 432, 341, 382, 409, 498, 387} {
		in.WriteString(strconv.Itoa(i*10) + "," + strconv.FormatFloat(v, 'f', -1, 64) + "\n")
	}

	out, err := execute(t, in.String(), "run", "-m", "holt-winters",
		"-p", "alpha=0.5,beta=0.1,gamma=0.3,seasonLength=4,valuesToForecast=2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+8+2)
	assert.Equal(t, "0,362", lines[1])
	assert.True(t, strings.HasPrefix(lines[9], "80,"))
	assert.True(t, strings.HasPrefix(lines[10], "90,"))
}

func TestRunLogsInputSummary(t *testing.T) {
	cfg := config.Default()
	cfg.Method = "sma"
	cfg.Parameters["windowsize"] = 2

	log, hook := test.NewNullLogger()
	var out bytes.Buffer
	require.NoError(t, run(cfg, strings.NewReader(esInput), &out, log))

	var found bool
	for _, entry := range hook.AllEntries() {
		if entry.Message != "input summary" {
			continue
		}
		found = true
		assert.Equal(t, 8, entry.Data["points"])
		assert.Equal(t, 20.0, entry.Data["mean"])
		assert.Equal(t, 70.0, entry.Data["variance"])
		assert.Equal(t, 17.0, entry.Data["median"])
		assert.Equal(t, 10.0, entry.Data["min"])
		assert.Equal(t, 30.0, entry.Data["max"])
	}
	assert.True(t, found)
}

func TestWriteOutputFile(t *testing.T) {
	res := timeseries.FromPairs([][2]float64{{1.5, 0.125}, {2.5, 2}})

	cfg := config.Default()
	cfg.Output.Path = filepath.Join(t.TempDir(), "out.csv")
	cfg.Output.Precision = 2
	require.NoError(t, writeOutput(cfg, res, nil))

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,value\n1.5,0.13\n2.5,2\n", string(data))

	cfg.Output.Path = filepath.Join(t.TempDir(), "missing", "out.csv")
	assert.Error(t, writeOutput(cfg, res, nil))
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing parameter", []string{"run", "-m", "holt", "-p", "alpha=0.2"}, timeseries.ErrNotReady},
		{"weight out of range", []string{"run", "-m", "exponential", "-p", "alpha=1.5"}, timeseries.ErrConfiguration},
		{"no method", []string{"run"}, timeseries.ErrConfiguration},
		{"unknown method", []string{"run", "-m", "arima"}, timeseries.ErrConfiguration},
		{"irregular grid", []string{"run", "-m", "sma", "-p", "windowsize=2", "-g", "minute"}, timeseries.ErrPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, esInput, tt.args...)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestDescribe(t *testing.T) {
	out, err := execute(t, "", "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "alpha, beta, gamma, seasonLength")
	assert.Contains(t, out, "sma")

	out, err = execute(t, "", "describe", "Holt")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	_, err = execute(t, "", "describe", "arima")
	assert.True(t, errors.Is(err, timeseries.ErrConfiguration))
}
