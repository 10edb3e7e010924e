// Package gosmoothing provides moving-average and exponential smoothing for
// time series, with forecasting.
//
// # Features
//
//   - Simple moving average over a sliding window
//   - Single exponential smoothing with a flat forecast
//   - Holt's method (level and trend) with a linear forecast
//   - Holt-Winters (level, trend and multiplicative or additive seasons)
//   - Accuracy measures (MSE, MASE) and residual diagnostics (Ljung-Box)
//   - CSV input and output
//
// # Quick Start
//
//	series := timeseries.New(values)
//	series.Normalize(timeseries.Second)
//
//	holt, _ := smoothing.NewHoltMethod(0.2, 0.3, 5)
//	smoothed, _ := series.Apply(holt)
//
// Methods can also be assembled from named parameters:
//
//	b, _ := smoothing.NewBuilder(smoothing.KindHoltWinters)
//	m, err := b.Set("alpha", 0.5).Set("beta", 0.1).Set("gamma", 0.3).
//	    Set("seasonLength", 12).Build()
//
// # Packages
//
//   - timeseries: Series type, normalization, CSV and the Method contract
//   - smoothing: The smoothing methods and the parameter builder
//   - accuracy: Error measures and residual tests
//
// The smooth command in cmd/smooth runs a method over a CSV file.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Holt, C. C. (1957). Forecasting seasonals and trends by exponentially weighted moving averages
//   - Winters, P. R. (1960). Forecasting sales by exponentially weighted moving averages
package gosmoothing
