package mcp

import (
	"crm-insights/internal/analytics"
	"crm-insights/internal/snapshot"
)

// SnapshotInput selects the snapshot a tool runs on.
type SnapshotInput struct {
	SnapshotJSON string `json:"snapshot_json,omitempty" jsonschema:"Inline snapshot document (JSON text)"`
	SnapshotPath string `json:"snapshot_path,omitempty" jsonschema:"Path to a snapshot JSON file on the server"`
}

// ForecastInput adds forecast parameters to the snapshot selector.
type ForecastInput struct {
	SnapshotJSON    string      `json:"snapshot_json,omitempty" jsonschema:"Inline snapshot document (JSON text)"`
	SnapshotPath    string      `json:"snapshot_path,omitempty" jsonschema:"Path to a snapshot JSON file on the server"`
	Horizon         int         `json:"horizon,omitempty" jsonschema:"Number of periods to project (default from server configuration)"`
	Period          string      `json:"period,omitempty" jsonschema:"Period granularity: day, week, month, quarter or year"`
	Seasonal        *bool       `json:"seasonal,omitempty" jsonschema:"Apply monthly seasonal factors to the trend"`
	SeasonalFactors []float64   `json:"seasonal_factors,omitempty" jsonschema:"Optional 12 positive multipliers overriding the default seasonal table"`
	Decay           *DecayInput `json:"decay,omitempty" jsonschema:"Optional confidence decay for revenue and sales forecasts"`
}

// DecayInput is the confidence curve of a trend forecast.
type DecayInput struct {
	Initial float64 `json:"initial" jsonschema:"Confidence of the first projected period, in [0,1]"`
	Floor   float64 `json:"floor" jsonschema:"Lowest confidence any period may reach, in [0,1] and not above initial"`
	Range   float64 `json:"range" jsonschema:"Total confidence drop across the horizon before the floor applies"`
}

func (d *DecayInput) toDecay() *analytics.Decay {
	if d == nil {
		return nil
	}
	return &analytics.Decay{Initial: d.Initial, Floor: d.Floor, Range: d.Range}
}

// AttributionInput adds the ranking model to the snapshot selector.
type AttributionInput struct {
	SnapshotJSON string `json:"snapshot_json,omitempty" jsonschema:"Inline snapshot document (JSON text)"`
	SnapshotPath string `json:"snapshot_path,omitempty" jsonschema:"Path to a snapshot JSON file on the server"`
	Model        string `json:"model,omitempty" jsonschema:"Ranking model: first_touch, last_touch, linear or time_decay (default)"`
}

// ReportInput selects the snapshot, forecast parameters and output format of a report.
type ReportInput struct {
	SnapshotJSON string      `json:"snapshot_json,omitempty" jsonschema:"Inline snapshot document (JSON text)"`
	SnapshotPath string      `json:"snapshot_path,omitempty" jsonschema:"Path to a snapshot JSON file on the server"`
	Horizon      int         `json:"horizon,omitempty" jsonschema:"Number of periods to project"`
	Period       string      `json:"period,omitempty" jsonschema:"Period granularity: day, week, month, quarter or year"`
	Seasonal     *bool       `json:"seasonal,omitempty" jsonschema:"Apply monthly seasonal factors to the trend"`
	Decay        *DecayInput `json:"decay,omitempty" jsonschema:"Optional confidence decay for revenue and sales forecasts"`
	Format       string      `json:"format,omitempty" jsonschema:"Output format: markdown (default), html, text or json"`
	Charts       *bool       `json:"charts,omitempty" jsonschema:"Embed Mermaid charts (default from server configuration)"`
}

// InsightOutput is an insight with its timestamp rendered as text.
type InsightOutput struct {
	ID             string             `json:"id"`
	Type           string             `json:"type"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Impact         string             `json:"impact"`
	Trend          string             `json:"trend"`
	Confidence     float64            `json:"confidence"`
	Recommendation string             `json:"recommendation"`
	Timestamp      string             `json:"timestamp"`
	Metrics        map[string]float64 `json:"metrics"`
}

type InsightsOutput struct {
	SnapshotHash string          `json:"snapshot_hash"`
	AsOf         string          `json:"as_of"`
	Insights     []InsightOutput `json:"insights"`
}

type RecommendationsOutput struct {
	SnapshotHash    string                     `json:"snapshot_hash"`
	Recommendations []analytics.Recommendation `json:"recommendations"`
}

type ForecastPointOutput struct {
	Date       string  `json:"date"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

type ForecastsOutput struct {
	SnapshotHash string                           `json:"snapshot_hash"`
	Period       string                           `json:"period"`
	Horizon      int                              `json:"horizon"`
	Forecasts    map[string][]ForecastPointOutput `json:"forecasts"`
}

type SegmentsOutput struct {
	SnapshotHash string              `json:"snapshot_hash"`
	Segments     map[string][]string `json:"segments"`
	Counts       map[string]int      `json:"counts"`
}

type LeadScoresOutput struct {
	SnapshotHash string                `json:"snapshot_hash"`
	Leads        []analytics.LeadScore `json:"leads"`
	Grades       map[string]int        `json:"grades"`
}

type ChurnOutput struct {
	SnapshotHash string                      `json:"snapshot_hash"`
	Customers    []analytics.ChurnAssessment `json:"customers"`
	HighRisk     int                         `json:"high_risk"`
	MediumRisk   int                         `json:"medium_risk"`
}

// CampaignCreditOutput is one campaign's attribution with the selected model's credit lifted out.
type CampaignCreditOutput struct {
	CampaignID string                `json:"campaign_id"`
	Name       string                `json:"name,omitempty"`
	Credit     analytics.ModelCredit `json:"credit"`
	FirstTouch analytics.ModelCredit `json:"first_touch"`
	LastTouch  analytics.ModelCredit `json:"last_touch"`
	Linear     analytics.ModelCredit `json:"linear"`
	TimeDecay  analytics.ModelCredit `json:"time_decay"`
}

type AttributionOutput struct {
	SnapshotHash string                 `json:"snapshot_hash"`
	Model        string                 `json:"model"`
	Campaigns    []CampaignCreditOutput `json:"campaigns"`
}

type OptimizationsOutput struct {
	SnapshotHash string                      `json:"snapshot_hash"`
	Pricing      []analytics.PriceSuggestion `json:"pricing"`
	Inventory    []analytics.InventoryAlert  `json:"inventory"`
}

type ReportOutput struct {
	SnapshotHash string `json:"snapshot_hash"`
	Format       string `json:"format"`
	Content      string `json:"content"`
}

func insightOutputs(insights []analytics.Insight) []InsightOutput {
	out := make([]InsightOutput, 0, len(insights))
	for _, ins := range insights {
		out = append(out, InsightOutput{
			ID:             ins.ID,
			Type:           string(ins.Type),
			Title:          ins.Title,
			Description:    ins.Description,
			Impact:         string(ins.Impact),
			Trend:          string(ins.Trend),
			Confidence:     ins.Confidence,
			Recommendation: ins.Recommendation,
			Timestamp:      snapshot.FormatTime(ins.Timestamp),
			Metrics:        ins.Metrics,
		})
	}
	return out
}

func forecastOutputs(period analytics.Period, forecasts map[string][]analytics.ForecastPoint) map[string][]ForecastPointOutput {
	out := make(map[string][]ForecastPointOutput, len(forecasts))
	for key, points := range forecasts {
		series := make([]ForecastPointOutput, 0, len(points))
		for _, p := range points {
			series = append(series, ForecastPointOutput{
				Date:       snapshot.FormatTime(p.Date),
				Label:      period.Label(p.Date),
				Value:      p.Value,
				Confidence: p.Confidence,
			})
		}
		out[key] = series
	}
	return out
}
