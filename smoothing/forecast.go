package smoothing

import "github.com/sartorproj/gosmoothing/timeseries"

// forecastStep is the timestamp distance used to continue a series past its
// last observation: the last observed spacing, else the grid unit, else 1.
func forecastStep(obs []timeseries.Observation, g timeseries.Granularity) float64 {
	if n := len(obs); n >= 2 {
		return obs[n-1].Timestamp - obs[n-2].Timestamp
	}
	if g > 0 {
		return float64(g)
	}
	return 1
}

func result(src *timeseries.Series, suffix string, obs []timeseries.Observation) *timeseries.Series {
	out := timeseries.FromObservations(obs)
	if src.Name != "" {
		out.Name = src.Name + "_" + suffix
	}
	return out
}
