package analytics

import (
	"time"
)

// Forecast metric names returned by GenerateForecasts.
const (
	ForecastRevenue   = "revenue"
	ForecastSales     = "sales"
	ForecastCustomers = "customers"
)

// Engine orchestrates every model over one snapshot. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used when a snapshot carries no AsOf instant.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// resolve pins the snapshot's reference instant.
func (e *Engine) resolve(s Snapshot) Snapshot {
	if s.AsOf.IsZero() {
		s.AsOf = e.now().UTC()
	}
	return s
}

// GenerateInsights runs the domain analyses: revenue, customer, sales, marketing, product.
func (e *Engine) GenerateInsights(s Snapshot) []Insight {
	s = e.resolve(s)
	return RunAnalyses(s, s.AsOf)
}

// GenerateRecommendations maps insights to actionable recommendations.
func (e *Engine) GenerateRecommendations(insights []Insight, s Snapshot) []Recommendation {
	return RecommendAll(insights, e.resolve(s))
}

// GenerateForecasts projects revenue, closed sales and customer count. All three
// keys are always present; a metric without enough history maps to an empty slice.
func (e *Engine) GenerateForecasts(s Snapshot, opts ForecastOptions) (map[string][]ForecastPoint, error) {
	s = e.resolve(s)
	opts, err := opts.Validate()
	if err != nil {
		return nil, err
	}

	// 1. Revenue
	revenue, err := Forecast(s.Revenue, opts)
	if err != nil {
		return nil, err
	}

	// 2. Closed sales, bucketed per period
	var dates []time.Time
	var amounts []float64
	for _, o := range s.Sales {
		if o.Closed && isFinite(o.Amount) {
			dates = append(dates, o.Date)
			amounts = append(amounts, o.Amount)
		}
	}
	sales, err := Forecast(bucketize(opts.Period, dates, amounts), opts)
	if err != nil {
		return nil, err
	}

	// 3. Customer count by average growth
	customers, err := e.forecastCustomers(s.Customers, s.AsOf, opts)
	if err != nil {
		return nil, err
	}

	return map[string][]ForecastPoint{
		ForecastRevenue:   revenue,
		ForecastSales:     sales,
		ForecastCustomers: customers,
	}, nil
}

// forecastCustomers projects from the period containing asOf. Periods between the
// last signup and asOf count as zero growth.
func (e *Engine) forecastCustomers(customers []Customer, asOf time.Time, opts ForecastOptions) ([]ForecastPoint, error) {
	var dates []time.Time
	var ones []float64
	for _, c := range customers {
		dates = append(dates, c.SignupDate)
		ones = append(ones, 1)
	}
	buckets := bucketize(opts.Period, dates, ones)

	var running float64
	cumulative := make([]SeriesPoint, len(buckets))
	for i, b := range buckets {
		running += b.Value
		cumulative[i] = SeriesPoint{Date: b.Date, Value: running}
	}
	if len(cumulative) > 0 {
		anchor := opts.Period.SnapToStart(asOf)
		for next := opts.Period.Advance(cumulative[len(cumulative)-1].Date, 1); !next.After(anchor); next = opts.Period.Advance(next, 1) {
			cumulative = append(cumulative, SeriesPoint{Date: next, Value: running})
		}
	}
	return ProjectAverageDelta(cumulative, float64(len(customers)), opts, CustomerDecay)
}

// GenerateOptimizations runs the pricing and inventory heuristics.
func (e *Engine) GenerateOptimizations(s Snapshot) Optimizations {
	return Optimizations{
		Pricing:   SuggestPrices(s.Products),
		Inventory: PlanInventory(s.Inventory),
	}
}

// Segment partitions the snapshot's customers into RFM segments.
func (e *Engine) Segment(s Snapshot) map[Segment][]string {
	s = e.resolve(s)
	return SegmentCustomers(s.Customers, s.AsOf)
}

// ScoreLeads scores every lead in the snapshot.
func (e *Engine) ScoreLeads(s Snapshot) []LeadScore {
	return ScoreLeads(s.Leads)
}

// AssessChurn assesses every customer in the snapshot.
func (e *Engine) AssessChurn(s Snapshot) []ChurnAssessment {
	s = e.resolve(s)
	return AssessCustomers(s.Customers, s.AsOf)
}

// Attribution credits the snapshot's conversions to its campaigns.
func (e *Engine) Attribution(s Snapshot) map[string]AttributionResult {
	return Attribute(s.Marketing, s.Conversions)
}
