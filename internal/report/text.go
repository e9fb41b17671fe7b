package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"crm-insights/internal/analytics"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	levelStyles = map[analytics.Level]lipgloss.Style{
		analytics.LevelHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		analytics.LevelMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		analytics.LevelLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(78)
)

func level(l analytics.Level) string {
	if st, ok := levelStyles[l]; ok {
		return st.Render(strings.ToUpper(string(l)))
	}
	return string(l)
}

// RenderText renders the report for a terminal. Colors degrade to plain text
// when the output is not a TTY.
func RenderText(r *Report) string {
	var sb strings.Builder

	sb.WriteString(headingStyle.Render("BUSINESS INSIGHTS REPORT"))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("as of %s · snapshot %s", r.AsOf.Format("2006-01-02"), short(r.SnapshotHash))))
	sb.WriteString("\n")

	// 1. Insights
	sb.WriteString(sectionStyle.Render("Insights"))
	sb.WriteString("\n")
	if len(r.Insights) == 0 {
		sb.WriteString(mutedStyle.Render("Not enough data for any insight.") + "\n")
	}
	for _, ins := range r.Insights {
		body := fmt.Sprintf("%s  %s\n%s\n%s",
			level(ins.Impact), lipgloss.NewStyle().Bold(true).Render(ins.Title),
			ins.Description,
			mutedStyle.Render(fmt.Sprintf("%s trend · %.0f%% confidence · %s", ins.Trend, ins.Confidence*100, ins.Recommendation)))
		sb.WriteString(cardStyle.Render(body) + "\n")
	}

	// 2. Recommendations
	sb.WriteString(sectionStyle.Render("Recommendations"))
	sb.WriteString("\n")
	if len(r.Recommendations) == 0 {
		sb.WriteString(mutedStyle.Render("No action required.") + "\n")
	}
	for _, rec := range r.Recommendations {
		var body strings.Builder
		body.WriteString(fmt.Sprintf("%s  %s\n%s\n", level(rec.Priority), lipgloss.NewStyle().Bold(true).Render(rec.Title), rec.Description))
		body.WriteString(mutedStyle.Render(fmt.Sprintf("impact: %s · effort: %s", rec.Impact, rec.Effort)))
		for _, a := range rec.Actions {
			body.WriteString("\n  • " + a)
		}
		sb.WriteString(cardStyle.Render(body.String()) + "\n")
	}

	// 3. Forecasts
	sb.WriteString(sectionStyle.Render("Forecasts"))
	sb.WriteString("\n")
	for _, key := range r.ForecastKeys() {
		points := r.Forecasts[key]
		if len(points) == 0 {
			sb.WriteString(fmt.Sprintf("  %-10s %s\n", key, mutedStyle.Render("insufficient history")))
			continue
		}
		cells := make([]string, 0, len(points))
		for _, p := range points {
			cells = append(cells, fmt.Sprintf("%s %.0f (%.0f%%)", r.Period.Label(p.Date), p.Value, p.Confidence*100))
		}
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", key, strings.Join(cells, " → ")))
	}

	// 4. Segments
	sb.WriteString(sectionStyle.Render("Customer Segments"))
	sb.WriteString("\n")
	for _, seg := range analytics.Segments {
		if n := len(r.Segments[seg]); n > 0 {
			sb.WriteString(fmt.Sprintf("  %-22s %d\n", seg, n))
		}
	}

	// 5. Churn
	if len(r.Churn) > 0 {
		sb.WriteString(sectionStyle.Render("Churn Risk"))
		sb.WriteString("\n")
		for _, c := range r.Churn {
			if c.RiskLevel == analytics.LevelLow {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %-12s %3.0f%% %s %s\n", c.CustomerID, c.ChurnProbability*100, level(c.RiskLevel),
				mutedStyle.Render(strings.Join(c.Factors, "; "))))
		}
	}

	// 6. Leads
	if len(r.LeadScores) > 0 {
		sb.WriteString(sectionStyle.Render("Lead Scores"))
		sb.WriteString("\n")
		for _, l := range r.LeadScores {
			sb.WriteString(fmt.Sprintf("  %-12s %3d  %s\n", l.LeadID, l.Score, l.Grade))
		}
	}

	// 7. Attribution
	if len(r.Attribution) > 0 {
		sb.WriteString(sectionStyle.Render("Attribution (time decay)"))
		sb.WriteString("\n")
		for _, a := range r.Attribution {
			sb.WriteString(fmt.Sprintf("  %-14s %10.2f  %5.1f%%\n", a.CampaignID, a.TimeDecay.Revenue, a.TimeDecay.Attribution*100))
		}
	}

	// 8. Optimizations
	if len(r.Optimizations.Pricing) > 0 || len(r.Optimizations.Inventory) > 0 {
		sb.WriteString(sectionStyle.Render("Optimizations"))
		sb.WriteString("\n")
		for _, p := range r.Optimizations.Pricing {
			sb.WriteString(fmt.Sprintf("  %-14s %8.2f → %8.2f (%+.2f%%)\n", p.ProductID, p.CurrentPrice, p.SuggestedPrice, p.ChangePercent))
		}
		for _, a := range r.Optimizations.Inventory {
			sb.WriteString("  " + a.String() + "\n")
		}
	}

	return sb.String()
}
