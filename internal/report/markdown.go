package report

import (
	"fmt"
	"strings"

	"crm-insights/internal/analytics"
)

// RenderMarkdown renders the report as a Markdown document. Charts are embedded
// as Mermaid blocks when present.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Business Insights Report\n\n")
	sb.WriteString(fmt.Sprintf("As of **%s** · snapshot `%s`\n\n", r.AsOf.Format("2006-01-02"), short(r.SnapshotHash)))

	// 1. Insights
	sb.WriteString("## Insights\n\n")
	if len(r.Insights) == 0 {
		sb.WriteString("_Not enough data for any insight._\n\n")
	}
	for _, ins := range r.Insights {
		sb.WriteString(fmt.Sprintf("### %s\n\n", ins.Title))
		sb.WriteString(fmt.Sprintf("- **Type:** %s\n- **Impact:** %s\n- **Trend:** %s\n- **Confidence:** %.0f%%\n\n",
			ins.Type, ins.Impact, ins.Trend, ins.Confidence*100))
		sb.WriteString(ins.Description + "\n\n")
		sb.WriteString(fmt.Sprintf("> %s\n\n", ins.Recommendation))
	}

	// 2. Recommendations
	sb.WriteString("## Recommendations\n\n")
	if len(r.Recommendations) == 0 {
		sb.WriteString("_No action required._\n\n")
	}
	for _, rec := range r.Recommendations {
		sb.WriteString(fmt.Sprintf("### %s (%s priority)\n\n", rec.Title, rec.Priority))
		sb.WriteString(fmt.Sprintf("%s\n\n*Impact:* %s · *Effort:* %s\n\n", rec.Description, rec.Impact, rec.Effort))
		for _, a := range rec.Actions {
			sb.WriteString(fmt.Sprintf("- [ ] %s\n", a))
		}
		sb.WriteString("\n")
	}

	// 3. Forecasts
	sb.WriteString("## Forecasts\n\n")
	for _, key := range r.ForecastKeys() {
		points := r.Forecasts[key]
		sb.WriteString(fmt.Sprintf("### %s\n\n", titleCase(key)))
		if len(points) == 0 {
			sb.WriteString("_Insufficient history._\n\n")
			continue
		}
		if chart, ok := r.Charts[key+"_forecast"]; ok {
			sb.WriteString(chart + "\n\n")
		}
		sb.WriteString("| Period | Value | Confidence |\n|---|---:|---:|\n")
		for _, p := range points {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.0f%% |\n", r.Period.Label(p.Date), p.Value, p.Confidence*100))
		}
		sb.WriteString("\n")
	}

	// 4. Segments
	sb.WriteString("## Customer Segments\n\n")
	if chart, ok := r.Charts[ChartSegments]; ok {
		sb.WriteString(chart + "\n\n")
	}
	sb.WriteString("| Segment | Customers |\n|---|---:|\n")
	for _, seg := range analytics.Segments {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", seg, len(r.Segments[seg])))
	}
	sb.WriteString("\n")

	// 5. Leads and churn
	if len(r.LeadScores) > 0 {
		sb.WriteString("## Lead Scores\n\n")
		if chart, ok := r.Charts[ChartLeadGrades]; ok {
			sb.WriteString(chart + "\n\n")
		}
		sb.WriteString("| Lead | Score | Grade | Factors |\n|---|---:|:---:|---|\n")
		for _, l := range r.LeadScores {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n", l.LeadID, l.Score, l.Grade, strings.Join(l.Factors, "; ")))
		}
		sb.WriteString("\n")
	}
	if len(r.Churn) > 0 {
		sb.WriteString("## Churn Risk\n\n| Customer | Probability | Risk | Factors |\n|---|---:|:---:|---|\n")
		for _, c := range r.Churn {
			sb.WriteString(fmt.Sprintf("| %s | %.0f%% | %s | %s |\n", c.CustomerID, c.ChurnProbability*100, c.RiskLevel, strings.Join(c.Factors, "; ")))
		}
		sb.WriteString("\n")
	}

	// 6. Attribution
	if len(r.Attribution) > 0 {
		sb.WriteString("## Attribution\n\n")
		if chart, ok := r.Charts[ChartAttribution]; ok {
			sb.WriteString(chart + "\n\n")
		}
		sb.WriteString("| Campaign | First touch | Last touch | Linear | Time decay |\n|---|---:|---:|---:|---:|\n")
		for _, a := range r.Attribution {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %.2f |\n",
				a.CampaignID, a.FirstTouch.Revenue, a.LastTouch.Revenue, a.Linear.Revenue, a.TimeDecay.Revenue))
		}
		sb.WriteString("\n")
	}

	// 7. Optimizations
	if len(r.Optimizations.Pricing) > 0 || len(r.Optimizations.Inventory) > 0 {
		sb.WriteString("## Optimizations\n\n")
		for _, p := range r.Optimizations.Pricing {
			sb.WriteString(fmt.Sprintf("- **%s** price %.2f → %.2f (%+.2f%%): %s\n", p.ProductID, p.CurrentPrice, p.SuggestedPrice, p.ChangePercent, p.Reason))
		}
		for _, a := range r.Optimizations.Inventory {
			line := fmt.Sprintf("- **%s** stock %s", a.ProductID, a.Status)
			if a.SuggestedQuantity > 0 {
				line += fmt.Sprintf(", order %d units", a.SuggestedQuantity)
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
