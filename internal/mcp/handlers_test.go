package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-insights/internal/analytics"
	"crm-insights/internal/cache"
	"crm-insights/internal/config"
	"crm-insights/internal/report"
)

const fixturePath = "../testdata/snapshot.json"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.AppConfig{
		SnapshotPath:    fixturePath,
		ForecastHorizon: 6,
		ForecastPeriod:  analytics.PeriodMonth,
	}
	return NewServer(cfg, analytics.New(), cache.New[*report.Report](time.Minute))
}

func TestGenerateInsights_ConfiguredSnapshot(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.GenerateInsights(context.Background(), nil, SnapshotInput{})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", out.AsOf)
	assert.Len(t, out.Insights, 5)
	assert.Len(t, out.SnapshotHash, 64)
	for _, ins := range out.Insights {
		assert.NotEmpty(t, ins.ID)
		assert.Equal(t, "2024-06-30", ins.Timestamp)
	}
}

func TestResolveSnapshot(t *testing.T) {
	s := NewServer(&config.AppConfig{}, analytics.New(), nil)

	_, err := s.resolveSnapshot("", "")
	assert.ErrorIs(t, err, errNoSnapshot)

	_, err = s.resolveSnapshot(`{}`, fixturePath)
	assert.Error(t, err)

	doc, err := s.resolveSnapshot(`{"customers": []}`, "")
	require.NoError(t, err)
	assert.NotNil(t, doc.Snapshot.Customers)

	_, err = s.resolveSnapshot("", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestGenerateForecasts_Overrides(t *testing.T) {
	s := newTestServer(t)

	seasonal := true
	_, out, err := s.GenerateForecasts(context.Background(), nil, ForecastInput{Horizon: 3, Period: "month", Seasonal: &seasonal})
	require.NoError(t, err)
	assert.Equal(t, "month", out.Period)
	assert.Equal(t, 3, out.Horizon)
	require.Len(t, out.Forecasts[analytics.ForecastRevenue], 3)
	assert.Equal(t, "2024-07", out.Forecasts[analytics.ForecastRevenue][0].Label)
	assert.Contains(t, out.Forecasts, analytics.ForecastSales)
	assert.Contains(t, out.Forecasts, analytics.ForecastCustomers)

	_, _, err = s.GenerateForecasts(context.Background(), nil, ForecastInput{Period: "fortnight"})
	assert.ErrorIs(t, err, analytics.ErrInvalidConfiguration)
}

func TestSegmentCustomers_AllSegmentsListed(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.SegmentCustomers(context.Background(), nil, SnapshotInput{})
	require.NoError(t, err)
	assert.Len(t, out.Segments, len(analytics.Segments))

	total := 0
	for _, n := range out.Counts {
		total += n
	}
	assert.Equal(t, 8, total)
}

func TestScoreLeadsAndChurn(t *testing.T) {
	s := newTestServer(t)

	_, leads, err := s.ScoreLeads(context.Background(), nil, SnapshotInput{})
	require.NoError(t, err)
	require.Len(t, leads.Leads, 3)
	assert.Equal(t, "lead-1", leads.Leads[0].LeadID)
	assert.Equal(t, 3, leads.Grades["A"]+leads.Grades["B"]+leads.Grades["C"]+leads.Grades["D"])

	_, churn, err := s.AssessChurn(context.Background(), nil, SnapshotInput{})
	require.NoError(t, err)
	assert.Len(t, churn.Customers, 8)
	assert.GreaterOrEqual(t, churn.HighRisk, 1)
}

func TestAnalyzeAttribution_Models(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.AnalyzeAttribution(context.Background(), nil, AttributionInput{Model: "first_touch"})
	require.NoError(t, err)
	assert.Equal(t, "first_touch", out.Model)
	require.NotEmpty(t, out.Campaigns)
	for i := 1; i < len(out.Campaigns); i++ {
		assert.GreaterOrEqual(t, out.Campaigns[i-1].Credit.Revenue, out.Campaigns[i].Credit.Revenue)
	}
	assert.Equal(t, out.Campaigns[0].FirstTouch, out.Campaigns[0].Credit)
	assert.NotEmpty(t, out.Campaigns[0].Name)

	_, _, err = s.AnalyzeAttribution(context.Background(), nil, AttributionInput{Model: "u_shaped"})
	assert.ErrorIs(t, err, analytics.ErrInvalidConfiguration)
}

func TestBuildReport_Formats(t *testing.T) {
	s := newTestServer(t)

	charts := true
	_, out, err := s.BuildReport(context.Background(), nil, ReportInput{Charts: &charts})
	require.NoError(t, err)
	assert.Equal(t, "markdown", out.Format)
	assert.Contains(t, out.Content, "```mermaid")

	_, out, err = s.BuildReport(context.Background(), nil, ReportInput{Format: "html"})
	require.NoError(t, err)
	assert.Contains(t, out.Content, "<!DOCTYPE html>")

	_, _, err = s.BuildReport(context.Background(), nil, ReportInput{Format: "pdf"})
	assert.Error(t, err)
}

func TestReportCache_SharedAcrossTools(t *testing.T) {
	reports := cache.New[*report.Report](time.Minute)
	s := NewServer(&config.AppConfig{SnapshotPath: fixturePath, ForecastHorizon: 6, ForecastPeriod: analytics.PeriodMonth}, analytics.New(), reports)

	_, _, err := s.GenerateInsights(context.Background(), nil, SnapshotInput{})
	require.NoError(t, err)
	_, _, err = s.SuggestOptimizations(context.Background(), nil, SnapshotInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, reports.Len())

	_, _, err = s.GenerateForecasts(context.Background(), nil, ForecastInput{Horizon: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, reports.Len())
}

func TestGenerateForecasts_Decay(t *testing.T) {
	reports := cache.New[*report.Report](time.Minute)
	s := NewServer(&config.AppConfig{SnapshotPath: fixturePath, ForecastHorizon: 4, ForecastPeriod: analytics.PeriodMonth}, analytics.New(), reports)

	_, def, err := s.GenerateForecasts(context.Background(), nil, ForecastInput{})
	require.NoError(t, err)
	_, custom, err := s.GenerateForecasts(context.Background(), nil, ForecastInput{Decay: &DecayInput{Initial: 0.8, Floor: 0.6, Range: 0.2}})
	require.NoError(t, err)
	assert.Equal(t, 2, reports.Len(), "decay must be part of the cache key")

	revenue := custom.Forecasts[analytics.ForecastRevenue]
	require.Len(t, revenue, 4)
	assert.Equal(t, analytics.DefaultDecay.Initial, def.Forecasts[analytics.ForecastRevenue][0].Confidence)
	assert.Equal(t, 0.8, revenue[0].Confidence)
	assert.Equal(t, 0.65, revenue[3].Confidence)
	assert.Equal(t, analytics.CustomerDecay.Initial, custom.Forecasts[analytics.ForecastCustomers][0].Confidence)

	_, _, err = s.GenerateForecasts(context.Background(), nil, ForecastInput{Decay: &DecayInput{Initial: 0.4, Floor: 0.6}})
	assert.ErrorIs(t, err, analytics.ErrInvalidConfiguration)
}

func TestReport_CancelledCallerStillBuilds(t *testing.T) {
	s := newTestServer(t)
	doc, err := s.resolveSnapshot("", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := s.report(ctx, doc, report.Options{Forecast: s.forecastOptions(ForecastInput{})})
	require.NoError(t, err)
	assert.NotEmpty(t, r.Insights)

	_, out, err := s.GenerateInsights(context.Background(), nil, SnapshotInput{})
	require.NoError(t, err)
	assert.Equal(t, r.SnapshotHash, out.SnapshotHash)
}

func TestServer_ToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	s := NewServer(&config.AppConfig{ForecastHorizon: 6, ForecastPeriod: analytics.PeriodMonth}, analytics.New(), nil)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.MCP().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"generate_insights", "generate_recommendations", "generate_forecasts",
		"segment_customers", "score_leads", "assess_churn",
		"analyze_attribution", "suggest_optimizations", "build_report",
	}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "generate_recommendations",
		Arguments: map[string]any{"snapshot_json": string(data)},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "recommendations")

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "generate_insights",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
