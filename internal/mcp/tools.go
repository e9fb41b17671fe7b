package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const snapshotGuidance = " Provide the business data either inline as 'snapshot_json' or as a file path in 'snapshot_path'; " +
	"when neither is given the server's configured snapshot is used. Run 'crm-insights schema' for the document format."

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "generate_insights",
		Description: "Analyze a CRM snapshot and return structured insights for revenue, customers, sales, marketing and products. " +
			"Each insight carries an impact level, a trend, a confidence and the metrics it was derived from." + snapshotGuidance,
	}, s.GenerateInsights)

	mcp.AddTool(server, &mcp.Tool{
		Name: "generate_recommendations",
		Description: "Derive prioritized, actionable recommendations from the snapshot's insights. " +
			"Only insights that cross an alert threshold produce a recommendation; an empty list means no action is required." + snapshotGuidance,
	}, s.GenerateRecommendations)

	mcp.AddTool(server, &mcp.Tool{
		Name: "generate_forecasts",
		Description: "Project revenue, closed sales and customer count over the requested horizon using a linear trend. " +
			"Confidence decays with distance. A metric with fewer than three periods of history returns an empty series; " +
			"DO NOT extrapolate it yourself." + snapshotGuidance,
	}, s.GenerateForecasts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "segment_customers",
		Description: "Partition customers into RFM segments (champions, loyal customers, at risk, hibernating, ...). Every segment is listed, empty ones included." + snapshotGuidance,
	}, s.SegmentCustomers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_leads",
		Description: "Score leads from 0 to 100 on company size, seniority, engagement, demo interest and budget, and grade them A to D." + snapshotGuidance,
	}, s.ScoreLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "assess_churn",
		Description: "Estimate each customer's churn probability and risk level with the contributing factors, highest risk first." + snapshotGuidance,
	}, s.AssessChurn)

	mcp.AddTool(server, &mcp.Tool{
		Name: "analyze_attribution",
		Description: "Credit conversions to campaigns under first touch, last touch, linear and time decay models. " +
			"Campaigns are ranked by revenue under the selected model (default time_decay)." + snapshotGuidance,
	}, s.AnalyzeAttribution)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_optimizations",
		Description: "Suggest price moves from relative demand and flag inventory positions that need reordering or are overstocked." + snapshotGuidance,
	}, s.SuggestOptimizations)

	mcp.AddTool(server, &mcp.Tool{
		Name: "build_report",
		Description: "Run every model and render one complete report as markdown (default), html, text or json. " +
			"Set 'charts' to embed Mermaid charts." + snapshotGuidance,
	}, s.BuildReport)
}
