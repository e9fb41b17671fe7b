package analytics

import (
	"fmt"
	"math"
)

// DefaultSeasonalFactors is the 12 step cyclical adjustment applied when seasonality is enabled.
// The table is indexed by position in the series modulo 12, not by calendar month:
// index 0 is the first observation's period whatever its date.
var DefaultSeasonalFactors = [12]float64{1.0, 0.95, 1.05, 1.1, 1.0, 0.9, 0.85, 0.9, 1.05, 1.1, 1.15, 1.2}

// Decay describes how forecast confidence falls off with distance into the future.
type Decay struct {
	Initial float64 `json:"initial"`
	Floor   float64 `json:"floor"`
	Range   float64 `json:"range"`
}

// DefaultDecay is used by trend forecasts when no decay is supplied.
var DefaultDecay = Decay{Initial: 0.9, Floor: 0.5, Range: 0.4}

// CustomerDecay is the independent confidence curve for customer count projections.
var CustomerDecay = Decay{Initial: 0.85, Floor: 0.3, Range: 0.55}

// At returns the confidence of 0-based step i of a horizon h.
func (d Decay) At(i, h int) float64 {
	c := d.Initial - (float64(i)/float64(h))*d.Range
	return round4(math.Max(d.Floor, c))
}

func (d Decay) validate() error {
	inUnit := func(v float64) bool { return isFinite(v) && v >= 0 && v <= 1 }
	if !inUnit(d.Initial) || !inUnit(d.Floor) || !isFinite(d.Range) || d.Range < 0 {
		return fmt.Errorf("%w: decay values must lie in [0,1]", ErrInvalidConfiguration)
	}
	if d.Floor > d.Initial {
		return fmt.Errorf("%w: decay floor %.2f exceeds initial %.2f", ErrInvalidConfiguration, d.Floor, d.Initial)
	}
	return nil
}

// ForecastOptions are the explicit parameters of a forecast call.
type ForecastOptions struct {
	Horizon         int       `json:"horizon"`
	Period          Period    `json:"period"`
	Seasonal        bool      `json:"seasonal"`
	SeasonalFactors []float64 `json:"seasonal_factors,omitempty"` // nil selects DefaultSeasonalFactors
	Decay           *Decay    `json:"decay,omitempty"`            // nil selects DefaultDecay
}

// Validate checks the options and resolves defaults.
func (o ForecastOptions) Validate() (ForecastOptions, error) {
	if o.Horizon <= 0 {
		return o, fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidConfiguration, o.Horizon)
	}
	if _, err := ParsePeriod(string(o.Period)); err != nil {
		return o, err
	}

	if o.SeasonalFactors == nil {
		o.SeasonalFactors = DefaultSeasonalFactors[:]
	}
	if len(o.SeasonalFactors) != 12 {
		return o, fmt.Errorf("%w: seasonal table needs 12 factors, got %d", ErrInvalidConfiguration, len(o.SeasonalFactors))
	}
	for i, f := range o.SeasonalFactors {
		if !isFinite(f) || f <= 0 {
			return o, fmt.Errorf("%w: seasonal factor %d is %v", ErrInvalidConfiguration, i, f)
		}
	}

	if o.Decay == nil {
		d := DefaultDecay
		o.Decay = &d
	}
	if err := o.Decay.validate(); err != nil {
		return o, err
	}
	return o, nil
}

// Forecast fits a linear trend to the series and projects it Horizon periods past
// the last observation. Fewer than three usable points yields an empty forecast.
func Forecast(series []SeriesPoint, opts ForecastOptions) ([]ForecastPoint, error) {
	opts, err := opts.Validate()
	if err != nil {
		return nil, err
	}

	// 1. Drop unusable observations
	clean := make([]SeriesPoint, 0, len(series))
	for _, p := range series {
		if isFinite(p.Value) {
			clean = append(clean, p)
		}
	}
	if len(clean) < 3 {
		return []ForecastPoint{}, nil
	}

	values := make([]float64, len(clean))
	for i, p := range clean {
		values[i] = p.Value
	}

	// 2. Fit trend over index positions
	fit := FitLinear(values)
	n := len(values)
	last := clean[n-1].Date

	// 3. Project
	points := make([]ForecastPoint, opts.Horizon)
	for i := 0; i < opts.Horizon; i++ {
		x := n + i
		v := fit.At(float64(x))
		if opts.Seasonal {
			v *= opts.SeasonalFactors[x%12]
		}
		if !isFinite(v) {
			v = 0
		}
		points[i] = ForecastPoint{
			Date:       opts.Period.Advance(last, i+1),
			Value:      round2(math.Max(0, v)),
			Confidence: opts.Decay.At(i, opts.Horizon),
		}
	}
	return points, nil
}

// ProjectAverageDelta extends a cumulative count series by its average absolute
// per-period change, starting from current. At least two points are required.
func ProjectAverageDelta(series []SeriesPoint, current float64, opts ForecastOptions, decay Decay) ([]ForecastPoint, error) {
	opts.Decay = &decay
	opts, err := opts.Validate()
	if err != nil {
		return nil, err
	}
	if len(series) < 2 {
		return []ForecastPoint{}, nil
	}

	n := len(series)
	avgDelta := (series[n-1].Value - series[0].Value) / float64(n-1)
	if !isFinite(avgDelta) {
		avgDelta = 0
	}
	last := series[n-1].Date

	points := make([]ForecastPoint, opts.Horizon)
	for i := 0; i < opts.Horizon; i++ {
		v := current + avgDelta*float64(i+1)
		points[i] = ForecastPoint{
			Date:       opts.Period.Advance(last, i+1),
			Value:      round2(math.Max(0, v)),
			Confidence: opts.Decay.At(i, opts.Horizon),
		}
	}
	return points, nil
}
