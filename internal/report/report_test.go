package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-insights/internal/analytics"
	"crm-insights/internal/snapshot"
)

func buildFixture(t *testing.T, charts bool) *Report {
	t.Helper()
	doc, err := snapshot.LoadFile("../testdata/snapshot.json")
	require.NoError(t, err)

	r, err := Build(context.Background(), analytics.New(), doc, Options{
		Forecast: analytics.ForecastOptions{Horizon: 6, Period: analytics.PeriodMonth},
		Charts:   charts,
	})
	require.NoError(t, err)
	return r
}

func TestBuild_Fixture(t *testing.T) {
	r := buildFixture(t, false)

	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), r.AsOf)
	assert.Len(t, r.SnapshotHash, 64)
	assert.Equal(t, analytics.PeriodMonth, r.Period)
	assert.Len(t, r.Insights, 5)
	assert.NotEmpty(t, r.Recommendations)
	assert.Len(t, r.Forecasts[analytics.ForecastRevenue], 6)
	assert.Len(t, r.Segments, len(analytics.Segments))
	assert.Len(t, r.LeadScores, 3)
	assert.Len(t, r.Churn, 8)
	assert.Len(t, r.Attribution, 3)
	assert.Nil(t, r.Charts)

	for i := 1; i < len(r.Attribution); i++ {
		assert.GreaterOrEqual(t, r.Attribution[i-1].TimeDecay.Revenue, r.Attribution[i].TimeDecay.Revenue)
	}
	for _, rec := range r.Recommendations {
		assert.NotEmpty(t, rec.InsightID)
	}
}

func TestBuild_InvalidHorizon(t *testing.T) {
	doc, err := snapshot.LoadFile("../testdata/snapshot.json")
	require.NoError(t, err)

	_, err = Build(context.Background(), analytics.New(), doc, Options{
		Forecast: analytics.ForecastOptions{Horizon: 0, Period: analytics.PeriodMonth},
	})
	assert.ErrorIs(t, err, analytics.ErrInvalidConfiguration)
}

func TestBuild_CancelledContext(t *testing.T) {
	doc, err := snapshot.LoadFile("../testdata/snapshot.json")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, analytics.New(), doc, Options{
		Forecast: analytics.ForecastOptions{Horizon: 3, Period: analytics.PeriodMonth},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_Charts(t *testing.T) {
	r := buildFixture(t, true)

	for _, key := range []string{ChartRevenueForecast, ChartSegments, ChartAttribution, ChartLeadGrades} {
		chart, ok := r.Charts[key]
		require.True(t, ok, key)
		assert.True(t, strings.HasPrefix(chart, "```mermaid\n"), key)
	}
}

func TestRender_AllFormats(t *testing.T) {
	r := buildFixture(t, true)

	tests := []struct {
		format Format
		want   []string
	}{
		{FormatMarkdown, []string{"# Business Insights Report", "## Forecasts", "```mermaid", "| cmp-search |"}},
		{FormatHTML, []string{"<!DOCTYPE html>", `<pre class="mermaid">`, "mermaid.initialize", "cmp-search"}},
		{FormatText, []string{"BUSINESS INSIGHTS REPORT", "Recommendations", "cmp-search"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, r, tt.format))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestRender_JSONRoundTrip(t *testing.T) {
	r := buildFixture(t, false)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "insights")
	assert.Contains(t, decoded, "forecasts")
	assert.NotContains(t, decoded, "charts")
}

func TestRenderHTML_EscapesContent(t *testing.T) {
	r := &Report{
		Insights: []analytics.Insight{{Title: "<script>alert(1)</script>", Impact: analytics.LevelHigh}},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, r))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.NotContains(t, buf.String(), "mermaid.initialize")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("MD")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
	assert.Equal(t, ".md", f.Extension())

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
