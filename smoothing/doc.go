// Package smoothing implements moving-average and exponential smoothing
// methods for time series.
//
// Four methods are provided:
//   - SimpleMovingAverage: unweighted mean over a sliding window
//   - ExponentialSmoothing: single smoothing with a flat forecast
//   - HoltMethod: level and trend with a linear forecast
//   - HoltWintersMethod: level, trend and seasonal factors
//
// # Basic Usage
//
// Construct a method and apply it to a sorted, normalized series:
//
//	s := timeseries.New([]float64{10, 12.4, 20.7, 15.6, 26.6, 27.3})
//	if err := s.Normalize(timeseries.Second); err != nil {
//	    log.Fatal(err)
//	}
//
//	es, err := smoothing.NewExponentialSmoothing(0.3, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	smoothed, err := s.Apply(es)
//
// The result holds one smoothed value per observation after the first,
// followed by the forecast.
//
// # Building From Parameters
//
// A Builder collects named parameters, for example from a config file or the
// command line, and builds the method once all required ones are set:
//
//	b, _ := smoothing.NewBuilder(smoothing.KindHolt)
//	m, err := b.Set(smoothing.ParamAlpha, "0.5").
//	    Set(smoothing.ParamBeta, 0.3).
//	    Build()
//
// Build fails with timeseries.ErrNotReady while a required parameter is
// missing.
//
// # Holt-Winters
//
// HoltWintersMethod needs at least one full season of observations and does
// not require normalized input. Seasonal factors are multiplicative unless
// WithSeasonality(Additive) is given.
package smoothing
