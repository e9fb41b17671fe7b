package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"crm-insights/internal/analytics"
	"crm-insights/internal/snapshot"
	"crm-insights/internal/visuals"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options control report assembly.
type Options struct {
	Forecast analytics.ForecastOptions `json:"forecast"`
	Charts   bool                      `json:"charts"`
}

// Report is the complete analysis of one snapshot.
type Report struct {
	GeneratedAt     time.Time                            `json:"generated_at"`
	AsOf            time.Time                            `json:"as_of"`
	SnapshotHash    string                               `json:"snapshot_hash"`
	Period          analytics.Period                     `json:"period"`
	Insights        []analytics.Insight                  `json:"insights"`
	Recommendations []analytics.Recommendation           `json:"recommendations"`
	Forecasts       map[string][]analytics.ForecastPoint `json:"forecasts"`
	Segments        map[analytics.Segment][]string       `json:"segments"`
	LeadScores      []analytics.LeadScore                `json:"lead_scores"`
	Churn           []analytics.ChurnAssessment          `json:"churn"`
	Attribution     []analytics.AttributionResult        `json:"attribution"`
	Optimizations   analytics.Optimizations              `json:"optimizations"`
	Charts          map[string]string                    `json:"charts,omitempty"`
}

// Chart keys.
const (
	ChartRevenueForecast  = "revenue_forecast"
	ChartSalesForecast    = "sales_forecast"
	ChartCustomerForecast = "customers_forecast"
	ChartSegments         = "segments"
	ChartAttribution      = "attribution"
	ChartLeadGrades       = "lead_grades"
)

// Build runs every model over the document. Independent stages run concurrently.
func Build(ctx context.Context, engine *analytics.Engine, doc *snapshot.Document, opts Options) (*Report, error) {
	start := time.Now()
	forecastOpts, err := opts.Forecast.Validate()
	if err != nil {
		return nil, err
	}
	s := doc.Snapshot
	if s.AsOf.IsZero() {
		s.AsOf = start.UTC()
	}

	r := &Report{
		GeneratedAt:  start.UTC(),
		AsOf:         s.AsOf,
		SnapshotHash: doc.Hash,
		Period:       forecastOpts.Period,
	}

	g, ctx := errgroup.WithContext(ctx)

	// 1. Insights and their recommendations
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Insights = engine.GenerateInsights(s)
		r.Recommendations = engine.GenerateRecommendations(r.Insights, s)
		return nil
	})

	// 2. Forecasts
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		forecasts, err := engine.GenerateForecasts(s, forecastOpts)
		if err != nil {
			return fmt.Errorf("failed to generate forecasts: %w", err)
		}
		r.Forecasts = forecasts
		return nil
	})

	// 3. Population models
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Segments = engine.Segment(s)
		r.LeadScores = engine.ScoreLeads(s)
		r.Churn = engine.AssessChurn(s)
		r.Attribution = analytics.RankAttribution(engine.Attribution(s), analytics.ModelTimeDecay)
		r.Optimizations = engine.GenerateOptimizations(s)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Charts {
		r.Charts = charts(r, s)
	}

	log.Info().
		Str("hash", short(doc.Hash)).
		Int("insights", len(r.Insights)).
		Int("recommendations", len(r.Recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("Report built")
	return r, nil
}

func charts(r *Report, s analytics.Snapshot) map[string]string {
	names := make(map[string]string, len(s.Marketing))
	for _, c := range s.Marketing {
		names[c.ID] = c.Name
	}
	attribution := make(map[string]analytics.AttributionResult, len(r.Attribution))
	for _, a := range r.Attribution {
		attribution[a.CampaignID] = a
	}

	out := map[string]string{
		ChartRevenueForecast:  visuals.GenerateForecastChart(analytics.ForecastRevenue, s.Revenue, r.Forecasts[analytics.ForecastRevenue], r.Period),
		ChartSalesForecast:    visuals.GenerateForecastChart(analytics.ForecastSales, nil, r.Forecasts[analytics.ForecastSales], r.Period),
		ChartCustomerForecast: visuals.GenerateForecastChart(analytics.ForecastCustomers, nil, r.Forecasts[analytics.ForecastCustomers], r.Period),
		ChartSegments:         visuals.GenerateSegmentPie(r.Segments),
		ChartAttribution:      visuals.GenerateAttributionChart(attribution, analytics.ModelTimeDecay, names),
		ChartLeadGrades:       visuals.GenerateLeadGradePie(r.LeadScores),
	}
	for k, v := range out {
		if v == "" {
			delete(out, k)
		}
	}
	return out
}

// ForecastKeys returns forecast metrics in a stable order.
func (r *Report) ForecastKeys() []string {
	keys := make([]string, 0, len(r.Forecasts))
	for k := range r.Forecasts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
