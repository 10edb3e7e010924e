// Package timeseries provides time series data structures and utilities.
//
// This package includes the Series type, an ordered sequence of
// (timestamp, value) observations, together with the Method interface that
// smoothing and forecasting methods implement.
//
// # Creating a Series
//
// Create a time series from pairs or values:
//
//	series := timeseries.FromPairs([][2]float64{{0, 10}, {1, 18}, {2, 29}})
//	series := timeseries.New([]float64{10, 18, 29}) // timestamps 0, 1, 2
//
// Or incrementally:
//
//	series := &timeseries.Series{Name: "load"}
//	series.Add(0, 10)
//	series.Add(1, 18)
//
// # Normalization
//
// Methods may require a sorted series on a uniform grid. Normalize sorts the
// series, checks that consecutive observations are one grid unit apart and
// moves each observation to the center of its grid bucket:
//
//	if err := series.Normalize(timeseries.Second); err != nil {
//	    // irregular spacing, errors.Is(err, timeseries.ErrPrecondition)
//	}
//
// # Applying a Method
//
//	result, err := series.Apply(method)
//
// Apply verifies that the method is configured and that the series meets its
// sortedness and normalization requirements before executing it. The
// receiver is never modified.
//
// # Loading from CSV
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.TimestampColumn = "ds"
//	series, err := timeseries.LoadCSV("data.csv", opts)
//
// Date timestamps are converted to Unix seconds.
//
// # Basic Statistics
//
//	mean := series.Mean()
//	std := series.Std()
//	median := series.Median()
package timeseries
