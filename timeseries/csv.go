package timeseries

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	TimestampColumn string // Column name for timestamps (optional, default: row index)
	ValueColumn     string // Column name for values (default: "y")
	DateFormat      string // Layout tried first for non-numeric timestamps
	HasHeader       bool   // Whether CSV has header row (default: true)
	Delimiter       rune   // Field delimiter (default: ',')
	SkipRows        int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a time series from an io.Reader.
//
// Timestamps are either numbers or dates; dates are converted to Unix seconds.
// Without a timestamp column the row index is used. Rows with a missing or
// non-numeric value are skipped.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, errors.Wrap(err, "skip rows")
		}
	}

	valueIdx, tsIdx := -1, -1

	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, errors.Wrap(err, "read header")
		}

		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case h == opts.ValueColumn || (opts.ValueColumn == "" && (h == "y" || h == "value" || h == "Value")):
				valueIdx = i
			case opts.TimestampColumn != "" && h == opts.TimestampColumn:
				tsIdx = i
			case h == "ds" || h == "timestamp" || h == "time" || h == "date" || h == "Date":
				if tsIdx == -1 && opts.TimestampColumn == "" {
					tsIdx = i
				}
			}
		}

		if valueIdx == -1 {
			valueIdx = len(header) - 1
		}
	} else {
		// No header: timestamp, value
		tsIdx, valueIdx = 0, 1
	}

	series := &Series{}
	row := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read record")
		}

		if valueIdx >= len(record) {
			continue
		}
		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			continue
		}

		ts := float64(row)
		if tsIdx >= 0 && tsIdx < len(record) {
			ts, err = parseTimestamp(strings.TrimSpace(strings.Trim(record[tsIdx], "\"")), opts.DateFormat)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d", row+1)
			}
		}

		series.Add(ts, val)
		row++
	}

	if series.Len() == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	return series, nil
}

func parseTimestamp(raw, layout string) (float64, error) {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v, nil
	}

	formats := []string{
		layout,
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006/01/02",
		"01/02/2006",
		"02-Jan-2006",
	}
	for _, f := range formats {
		if f == "" {
			continue
		}
		if t, err := time.Parse(f, raw); err == nil {
			return float64(t.Unix()), nil
		}
	}
	return 0, errors.Newf("unparseable timestamp %q", raw)
}

// SaveCSV saves a time series to a CSV file.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	if err := WriteCSV(series, file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "close %s", filename)
	}
	return nil
}

// WriteCSV writes the series as "timestamp,value" rows with a header.
func WriteCSV(series *Series, w io.Writer) error {
	return writeCSV(series, w, func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	})
}

// WriteCSVRounded is WriteCSV with values rounded half away from zero to the
// given number of decimal places. Timestamps are written unrounded.
func WriteCSVRounded(series *Series, w io.Writer, places int32) error {
	return writeCSV(series, w, func(v float64) string {
		return decimal.NewFromFloat(v).Round(places).String()
	})
}

func writeCSV(series *Series, w io.Writer, format func(float64) string) error {
	writer := bufio.NewWriter(w)

	writer.WriteString("timestamp,value\n")
	for _, o := range series.obs {
		writer.WriteString(strconv.FormatFloat(o.Timestamp, 'f', -1, 64))
		writer.WriteString(",")
		writer.WriteString(format(o.Value))
		writer.WriteString("\n")
	}

	return writer.Flush()
}
