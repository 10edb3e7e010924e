package smoothing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"

	"github.com/sartorproj/gosmoothing/timeseries"
)

// Parameter names understood by the methods of this package.
const (
	ParamWindowSize       = "windowsize"
	ParamAlpha            = "alpha"
	ParamBeta             = "beta"
	ParamGamma            = "gamma"
	ParamSeasonLength     = "seasonLength"
	ParamValuesToForecast = "valuesToForecast"
	ParamSeasonality      = "seasonality"
)

// DefaultValuesToForecast is the forecast horizon used when none is given.
const DefaultValuesToForecast = 1

// Parameters is a set of named method parameters with a fixed list of
// required names. It is not safe for concurrent mutation.
type Parameters struct {
	required   []string
	values     map[string]any
	sorted     bool
	normalized bool
}

// NewParameters creates an empty parameter set.
func NewParameters(required []string, hasToBeSorted, hasToBeNormalized bool) *Parameters {
	req := make([]string, len(required))
	copy(req, required)
	return &Parameters{
		required:   req,
		values:     make(map[string]any),
		sorted:     hasToBeSorted,
		normalized: hasToBeNormalized,
	}
}

// SetParameter binds value to name, replacing any previous value.
func (p *Parameters) SetParameter(name string, value any) {
	p.values[name] = value
}

// GetParameter returns the value bound to name.
func (p *Parameters) GetParameter(name string) (any, error) {
	v, ok := p.values[name]
	if !ok {
		return nil, errors.Wrapf(timeseries.ErrLookup, "parameter %q not set", name)
	}
	return v, nil
}

// Len returns the number of distinct parameters set.
func (p *Parameters) Len() int {
	return len(p.values)
}

// Names returns the names of all set parameters in lexical order.
func (p *Parameters) Names() []string {
	names := make([]string, 0, len(p.values))
	for name := range p.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RequiredParameters returns the names that must be set before execution.
func (p *Parameters) RequiredParameters() []string {
	req := make([]string, len(p.required))
	copy(req, p.required)
	return req
}

// Missing returns the required names that are not set yet.
func (p *Parameters) Missing() []string {
	var missing []string
	for _, name := range p.required {
		if _, ok := p.values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// CanBeExecuted reports whether every required parameter is set.
func (p *Parameters) CanBeExecuted() bool {
	return len(p.Missing()) == 0
}

// HasToBeSorted reports whether input series must be sorted.
func (p *Parameters) HasToBeSorted() bool {
	return p.sorted
}

// HasToBeNormalized reports whether input series must be normalized.
func (p *Parameters) HasToBeNormalized() bool {
	return p.normalized
}

// Float returns the parameter as float64.
func (p *Parameters) Float(name string) (float64, error) {
	v, err := p.GetParameter(name)
	if err != nil {
		return 0, err
	}
	if _, ok := v.(bool); ok {
		return 0, errors.Wrapf(timeseries.ErrConfiguration, "parameter %q: boolean %v is not a number", name, v)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, errors.Wrapf(timeseries.ErrConfiguration, "parameter %q: %v", name, err)
	}
	return f, nil
}

// Int returns the parameter as int. Fractional numbers, booleans and strings
// that are not base 10 integers are rejected.
func (p *Parameters) Int(name string) (int, error) {
	v, err := p.GetParameter(name)
	if err != nil {
		return 0, err
	}
	i, err := toInt(v)
	if err != nil {
		return 0, errors.Wrapf(timeseries.ErrConfiguration, "parameter %q: %v", name, err)
	}
	return i, nil
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case bool:
		return 0, errors.Newf("boolean %v is not an integer", x)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 0)
		if err != nil {
			return 0, errors.Newf("%q is not an integer", x)
		}
		return int(i), nil
	case float32, float64:
		f := cast.ToFloat64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
			return 0, errors.Newf("%v is not an integer", x)
		}
		if f >= math.MaxInt || f < math.MinInt {
			return 0, errors.Newf("%v is out of range", x)
		}
		return int(f), nil
	}
	return cast.ToIntE(v)
}

// IntOr is Int with a default for an unset parameter.
func (p *Parameters) IntOr(name string, def int) (int, error) {
	if _, ok := p.values[name]; !ok {
		return def, nil
	}
	return p.Int(name)
}

// BaseMethod carries parameters but no algorithm. Concrete methods in this
// package are plain structs; BaseMethod serves callers that assemble
// parameters generically and supply their own Execute.
type BaseMethod struct {
	*Parameters
}

// NewBaseMethod creates a BaseMethod with the given required parameters.
func NewBaseMethod(required []string, hasToBeSorted, hasToBeNormalized bool) *BaseMethod {
	return &BaseMethod{Parameters: NewParameters(required, hasToBeSorted, hasToBeNormalized)}
}

// Execute always fails with timeseries.ErrNotImplemented.
func (b *BaseMethod) Execute(*timeseries.Series) (*timeseries.Series, error) {
	return nil, errors.Wrap(timeseries.ErrNotImplemented, "BaseMethod has no algorithm")
}

func checkWeight(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return errors.Wrapf(timeseries.ErrConfiguration, "%s must be in [0, 1], got %v", name, v)
	}
	return nil
}

func checkHorizon(v int) error {
	if v < 0 {
		return errors.Wrapf(timeseries.ErrConfiguration, "%s must not be negative, got %d", ParamValuesToForecast, v)
	}
	return nil
}
