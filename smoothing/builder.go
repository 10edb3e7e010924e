package smoothing

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"

	"github.com/sartorproj/gosmoothing/timeseries"
)

// Kind names a smoothing method.
type Kind string

// Supported kinds.
const (
	KindSimpleMovingAverage  Kind = "sma"
	KindExponentialSmoothing Kind = "exponential"
	KindHolt                 Kind = "holt"
	KindHoltWinters          Kind = "holtwinters"
)

var kindAliases = map[string]Kind{
	"sma":                  KindSimpleMovingAverage,
	"simplemovingaverage":  KindSimpleMovingAverage,
	"movingaverage":        KindSimpleMovingAverage,
	"exponential":          KindExponentialSmoothing,
	"exponentialsmoothing": KindExponentialSmoothing,
	"ses":                  KindExponentialSmoothing,
	"brown":                KindExponentialSmoothing,
	"holt":                 KindHolt,
	"holtmethod":           KindHolt,
	"double":               KindHolt,
	"holtwinters":          KindHoltWinters,
	"holtwintersmethod":    KindHoltWinters,
	"triple":               KindHoltWinters,
}

// ParseKind resolves a method name. Case, dashes and underscores are ignored.
func ParseKind(name string) (Kind, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	k, ok := kindAliases[key]
	if !ok {
		return "", errors.Wrapf(timeseries.ErrConfiguration, "unknown method %q", name)
	}
	return k, nil
}

// Kinds lists the supported kinds.
func Kinds() []Kind {
	return []Kind{KindSimpleMovingAverage, KindExponentialSmoothing, KindHolt, KindHoltWinters}
}

// RequiredParameters returns the parameter names a kind cannot do without.
func (k Kind) RequiredParameters() []string {
	switch k {
	case KindSimpleMovingAverage:
		return []string{ParamWindowSize}
	case KindExponentialSmoothing:
		return []string{ParamAlpha}
	case KindHolt:
		return []string{ParamAlpha, ParamBeta}
	case KindHoltWinters:
		return []string{ParamAlpha, ParamBeta, ParamGamma, ParamSeasonLength}
	}
	return nil
}

// Builder assembles a method from parameters set one at a time and turns
// them into an immutable method with Build.
type Builder struct {
	kind   Kind
	params *Parameters
}

// NewBuilder creates a builder for kind.
func NewBuilder(kind Kind) (*Builder, error) {
	if kind.RequiredParameters() == nil {
		return nil, errors.Wrapf(timeseries.ErrConfiguration, "unknown method %q", string(kind))
	}
	return &Builder{
		kind:   kind,
		params: NewParameters(kind.RequiredParameters(), true, kind != KindHoltWinters),
	}, nil
}

// Kind returns the kind being built.
func (b *Builder) Kind() Kind { return b.kind }

// Set binds a parameter. Values are coerced when the method is built, so
// strings such as "0.3" are accepted.
func (b *Builder) Set(name string, value any) *Builder {
	b.params.SetParameter(name, value)
	return b
}

// Parameters exposes the parameters collected so far.
func (b *Builder) Parameters() *Parameters { return b.params }

// CanBeExecuted reports whether every required parameter is set.
func (b *Builder) CanBeExecuted() bool { return b.params.CanBeExecuted() }

// Build validates the parameters and returns the method.
func (b *Builder) Build() (timeseries.Method, error) {
	if missing := b.params.Missing(); len(missing) > 0 {
		return nil, errors.Wrapf(timeseries.ErrNotReady, "%s: missing %s", b.kind, strings.Join(missing, ", "))
	}

	horizon, err := b.params.IntOr(ParamValuesToForecast, DefaultValuesToForecast)
	if err != nil {
		return nil, err
	}

	var m timeseries.Method
	switch b.kind {
	case KindSimpleMovingAverage:
		m, err = b.buildSimpleMovingAverage()
	case KindExponentialSmoothing:
		m, err = b.buildExponentialSmoothing(horizon)
	case KindHolt:
		m, err = b.buildHolt(horizon)
	default:
		m, err = b.buildHoltWinters(horizon)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Builder) buildSimpleMovingAverage() (timeseries.Method, error) {
	w, err := b.params.Int(ParamWindowSize)
	if err != nil {
		return nil, err
	}
	m, err := NewSimpleMovingAverage(w)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Builder) buildExponentialSmoothing(horizon int) (timeseries.Method, error) {
	alpha, err := b.params.Float(ParamAlpha)
	if err != nil {
		return nil, err
	}
	m, err := NewExponentialSmoothing(alpha, horizon)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Builder) buildHolt(horizon int) (timeseries.Method, error) {
	alpha, err := b.params.Float(ParamAlpha)
	if err != nil {
		return nil, err
	}
	beta, err := b.params.Float(ParamBeta)
	if err != nil {
		return nil, err
	}
	m, err := NewHoltMethod(alpha, beta, horizon)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Builder) buildHoltWinters(horizon int) (timeseries.Method, error) {
	weights := make([]float64, 3)
	for i, name := range []string{ParamAlpha, ParamBeta, ParamGamma} {
		w, err := b.params.Float(name)
		if err != nil {
			return nil, err
		}
		weights[i] = w
	}
	length, err := b.params.Int(ParamSeasonLength)
	if err != nil {
		return nil, err
	}

	seasonality := Multiplicative
	if v, err := b.params.GetParameter(ParamSeasonality); err == nil {
		if s, ok := v.(Seasonality); ok {
			seasonality = s
		} else if seasonality, err = ParseSeasonality(cast.ToString(v)); err != nil {
			return nil, err
		}
	}

	m, err := NewHoltWintersMethod(weights[0], weights[1], weights[2], length, horizon, WithSeasonality(seasonality))
	if err != nil {
		return nil, err
	}
	return m, nil
}
