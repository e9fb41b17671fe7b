package mcp

import (
	"bytes"
	"context"
	"fmt"

	"crm-insights/internal/analytics"
	"crm-insights/internal/report"
	"crm-insights/internal/snapshot"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultReport resolves a snapshot and builds its report with the configured forecast options.
func (s *Server) defaultReport(ctx context.Context, in SnapshotInput) (*report.Report, error) {
	doc, err := s.resolveSnapshot(in.SnapshotJSON, in.SnapshotPath)
	if err != nil {
		return nil, err
	}
	return s.report(ctx, doc, report.Options{Forecast: s.forecastOptions(ForecastInput{})})
}

func (s *Server) GenerateInsights(ctx context.Context, _ *mcp.CallToolRequest, in SnapshotInput) (*mcp.CallToolResult, InsightsOutput, error) {
	r, err := s.defaultReport(ctx, in)
	if err != nil {
		return nil, InsightsOutput{}, err
	}
	return nil, InsightsOutput{
		SnapshotHash: r.SnapshotHash,
		AsOf:         snapshot.FormatTime(r.AsOf),
		Insights:     insightOutputs(r.Insights),
	}, nil
}

func (s *Server) GenerateRecommendations(ctx context.Context, _ *mcp.CallToolRequest, in SnapshotInput) (*mcp.CallToolResult, RecommendationsOutput, error) {
	r, err := s.defaultReport(ctx, in)
	if err != nil {
		return nil, RecommendationsOutput{}, err
	}
	return nil, RecommendationsOutput{SnapshotHash: r.SnapshotHash, Recommendations: r.Recommendations}, nil
}

func (s *Server) GenerateForecasts(ctx context.Context, _ *mcp.CallToolRequest, in ForecastInput) (*mcp.CallToolResult, ForecastsOutput, error) {
	doc, err := s.resolveSnapshot(in.SnapshotJSON, in.SnapshotPath)
	if err != nil {
		return nil, ForecastsOutput{}, err
	}
	opts := s.forecastOptions(in)
	r, err := s.report(ctx, doc, report.Options{Forecast: opts})
	if err != nil {
		return nil, ForecastsOutput{}, err
	}
	return nil, ForecastsOutput{
		SnapshotHash: r.SnapshotHash,
		Period:       string(r.Period),
		Horizon:      opts.Horizon,
		Forecasts:    forecastOutputs(r.Period, r.Forecasts),
	}, nil
}

func (s *Server) SegmentCustomers(ctx context.Context, _ *mcp.CallToolRequest, in SnapshotInput) (*mcp.CallToolResult, SegmentsOutput, error) {
	r, err := s.defaultReport(ctx, in)
	if err != nil {
		return nil, SegmentsOutput{}, err
	}
	out := SegmentsOutput{
		SnapshotHash: r.SnapshotHash,
		Segments:     make(map[string][]string, len(r.Segments)),
		Counts:       make(map[string]int, len(r.Segments)),
	}
	for seg, ids := range r.Segments {
		out.Segments[string(seg)] = ids
		out.Counts[string(seg)] = len(ids)
	}
	return nil, out, nil
}

func (s *Server) ScoreLeads(ctx context.Context, _ *mcp.CallToolRequest, in SnapshotInput) (*mcp.CallToolResult, LeadScoresOutput, error) {
	r, err := s.defaultReport(ctx, in)
	if err != nil {
		return nil, LeadScoresOutput{}, err
	}
	grades := map[string]int{"A": 0, "B": 0, "C": 0, "D": 0}
	for _, l := range r.LeadScores {
		grades[l.Grade]++
	}
	return nil, LeadScoresOutput{SnapshotHash: r.SnapshotHash, Leads: r.LeadScores, Grades: grades}, nil
}

func (s *Server) AssessChurn(ctx context.Context, _ *mcp.CallToolRequest, in SnapshotInput) (*mcp.CallToolResult, ChurnOutput, error) {
	r, err := s.defaultReport(ctx, in)
	if err != nil {
		return nil, ChurnOutput{}, err
	}
	out := ChurnOutput{SnapshotHash: r.SnapshotHash, Customers: r.Churn}
	for _, c := range r.Churn {
		switch c.RiskLevel {
		case analytics.LevelHigh:
			out.HighRisk++
		case analytics.LevelMedium:
			out.MediumRisk++
		}
	}
	return nil, out, nil
}

func (s *Server) AnalyzeAttribution(ctx context.Context, _ *mcp.CallToolRequest, in AttributionInput) (*mcp.CallToolResult, AttributionOutput, error) {
	model, err := analytics.ParseAttributionModel(in.Model)
	if err != nil {
		return nil, AttributionOutput{}, err
	}
	doc, err := s.resolveSnapshot(in.SnapshotJSON, in.SnapshotPath)
	if err != nil {
		return nil, AttributionOutput{}, err
	}
	r, err := s.report(ctx, doc, report.Options{Forecast: s.forecastOptions(ForecastInput{})})
	if err != nil {
		return nil, AttributionOutput{}, err
	}

	names := make(map[string]string, len(doc.Snapshot.Marketing))
	for _, c := range doc.Snapshot.Marketing {
		names[c.ID] = c.Name
	}
	byID := make(map[string]analytics.AttributionResult, len(r.Attribution))
	for _, a := range r.Attribution {
		byID[a.CampaignID] = a
	}

	out := AttributionOutput{SnapshotHash: r.SnapshotHash, Model: string(model), Campaigns: []CampaignCreditOutput{}}
	for _, a := range analytics.RankAttribution(byID, model) {
		out.Campaigns = append(out.Campaigns, CampaignCreditOutput{
			CampaignID: a.CampaignID,
			Name:       names[a.CampaignID],
			Credit:     a.Credit(model),
			FirstTouch: a.FirstTouch,
			LastTouch:  a.LastTouch,
			Linear:     a.Linear,
			TimeDecay:  a.TimeDecay,
		})
	}
	return nil, out, nil
}

func (s *Server) SuggestOptimizations(ctx context.Context, _ *mcp.CallToolRequest, in SnapshotInput) (*mcp.CallToolResult, OptimizationsOutput, error) {
	r, err := s.defaultReport(ctx, in)
	if err != nil {
		return nil, OptimizationsOutput{}, err
	}
	return nil, OptimizationsOutput{
		SnapshotHash: r.SnapshotHash,
		Pricing:      r.Optimizations.Pricing,
		Inventory:    r.Optimizations.Inventory,
	}, nil
}

func (s *Server) BuildReport(ctx context.Context, _ *mcp.CallToolRequest, in ReportInput) (*mcp.CallToolResult, ReportOutput, error) {
	format := report.FormatMarkdown
	if in.Format != "" {
		f, err := report.ParseFormat(in.Format)
		if err != nil {
			return nil, ReportOutput{}, err
		}
		format = f
	}

	doc, err := s.resolveSnapshot(in.SnapshotJSON, in.SnapshotPath)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	r, err := s.report(ctx, doc, report.Options{
		Forecast: s.forecastOptions(ForecastInput{Horizon: in.Horizon, Period: in.Period, Seasonal: in.Seasonal, Decay: in.Decay}),
		Charts:   s.chartsEnabled(in.Charts),
	})
	if err != nil {
		return nil, ReportOutput{}, err
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, r, format); err != nil {
		return nil, ReportOutput{}, fmt.Errorf("failed to render report: %w", err)
	}
	return nil, ReportOutput{SnapshotHash: r.SnapshotHash, Format: string(format), Content: buf.String()}, nil
}
