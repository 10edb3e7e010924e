package accuracy

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/sartorproj/gosmoothing/timeseries"
)

// Residuals returns original minus calculated for every original observation
// that has a calculated partner with the same timestamp, in original order.
func Residuals(original, calculated *timeseries.Series) []float64 {
	partners := make(map[float64]float64, calculated.Len())
	for _, o := range calculated.Observations() {
		if _, ok := partners[o.Timestamp]; !ok {
			partners[o.Timestamp] = o.Value
		}
	}

	var residuals []float64
	for _, o := range original.Observations() {
		if c, ok := partners[o.Timestamp]; ok {
			residuals = append(residuals, o.Value-c)
		}
	}
	return residuals
}

// Autocorrelation returns the sample autocorrelation of values for lags 0 to
// maxLag. It returns nil for constant or empty input.
func Autocorrelation(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	m := mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := range acf {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - m) * (values[i-k] - m)
		}
		acf[k] = sum / variance
	}
	return acf
}

// PortmanteauResult is the outcome of a test for residual autocorrelation.
// A small PValue rejects the hypothesis that the residuals are uncorrelated.
type PortmanteauResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// minPortmanteauLength is the shortest residual series the portmanteau tests
// accept.
const minPortmanteauLength = 10

// LjungBox tests residuals for autocorrelation up to lags. fitdf is the number
// of parameters the smoothing method estimated and is subtracted from the
// degrees of freedom.
func LjungBox(residuals []float64, lags, fitdf int) (*PortmanteauResult, error) {
	return portmanteau(residuals, lags, fitdf, func(acf []float64, n, lags int) float64 {
		q := 0.0
		for k := 1; k <= lags; k++ {
			q += acf[k] * acf[k] / float64(n-k)
		}
		return q * float64(n*(n+2))
	})
}

// BoxPierce is the simpler predecessor of LjungBox.
func BoxPierce(residuals []float64, lags, fitdf int) (*PortmanteauResult, error) {
	return portmanteau(residuals, lags, fitdf, func(acf []float64, n, lags int) float64 {
		q := 0.0
		for k := 1; k <= lags; k++ {
			q += acf[k] * acf[k]
		}
		return q * float64(n)
	})
}

func portmanteau(residuals []float64, lags, fitdf int, statistic func(acf []float64, n, lags int) float64) (*PortmanteauResult, error) {
	n := len(residuals)
	if lags < 1 {
		return nil, errors.Wrapf(timeseries.ErrConfiguration, "lags must be at least 1, got %d", lags)
	}
	if n < minPortmanteauLength {
		return nil, errors.Wrapf(timeseries.ErrPrecondition,
			"need at least %d residuals, got %d", minPortmanteauLength, n)
	}
	if lags >= n {
		lags = n - 1
	}

	acf := Autocorrelation(residuals, lags)
	if acf == nil {
		return nil, errors.Wrap(timeseries.ErrPrecondition, "residuals are constant")
	}

	q := statistic(acf, n, lags)
	dof := max(lags-fitdf, 1)
	return &PortmanteauResult{
		Statistic: q,
		PValue:    chiSquaredSurvival(q, dof),
		Lags:      lags,
		DOF:       dof,
	}, nil
}

// DurbinWatson returns the Durbin-Watson statistic of the residuals: about 2
// without first-order autocorrelation, towards 0 for positive and towards 4
// for negative autocorrelation.
func DurbinWatson(residuals []float64) (float64, error) {
	if len(residuals) < 2 {
		return 0, errors.Wrapf(timeseries.ErrPrecondition, "need at least 2 residuals, got %d", len(residuals))
	}

	num, den := 0.0, residuals[0]*residuals[0]
	for i := 1; i < len(residuals); i++ {
		d := residuals[i] - residuals[i-1]
		num += d * d
		den += residuals[i] * residuals[i]
	}
	if den == 0 {
		return 0, errors.Wrap(timeseries.ErrPrecondition, "residuals are all zero")
	}
	return num / den, nil
}

const (
	gammaMaxIter = 200
	gammaEpsilon = 1e-12
	gammaTiny    = 1e-300
)

// chiSquaredSurvival returns P(X > x) for X chi-squared with k degrees of
// freedom.
func chiSquaredSurvival(x float64, k int) float64 {
	return regularizedGammaQ(float64(k)/2, x/2)
}

// regularizedGammaQ is the regularized upper incomplete gamma function.
func regularizedGammaQ(a, x float64) float64 {
	if x <= 0 {
		return 1
	}
	if x < a+1 {
		return 1 - gammaSeries(a, x)
	}
	return gammaContinuedFraction(a, x)
}

// gammaSeries evaluates the regularized lower incomplete gamma function by its
// series expansion, which converges quickly for x < a+1.
func gammaSeries(a, x float64) float64 {
	lg, _ := math.Lgamma(a)
	ap := a
	sum := 1 / a
	del := sum
	for n := 1; n < gammaMaxIter; n++ {
		ap++
		del *= x / ap
		sum += del
		if math.Abs(del) < math.Abs(sum)*gammaEpsilon {
			break
		}
	}
	return sum * math.Exp(-x+a*math.Log(x)-lg)
}

// gammaContinuedFraction evaluates the regularized upper incomplete gamma
// function with the modified Lentz method.
func gammaContinuedFraction(a, x float64) float64 {
	lg, _ := math.Lgamma(a)
	b := x + 1 - a
	c := 1 / gammaTiny
	d := 1 / b
	h := d
	for i := 1; i < gammaMaxIter; i++ {
		an := -float64(i) * (float64(i) - a)
		b += 2
		d = an*d + b
		if math.Abs(d) < gammaTiny {
			d = gammaTiny
		}
		c = b + an/c
		if math.Abs(c) < gammaTiny {
			c = gammaTiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < gammaEpsilon {
			break
		}
	}
	return math.Exp(-x+a*math.Log(x)-lg) * h
}
