package visuals

import (
	"fmt"
	"math"
	"strings"

	"crm-insights/internal/analytics"
)

// GenerateForecastChart creates a Mermaid xychart-beta of a metric's history followed by its projection.
// The bar series marks the projected periods.
func GenerateForecastChart(metric string, history []analytics.SeriesPoint, forecast []analytics.ForecastPoint, period analytics.Period) string {
	if len(forecast) == 0 {
		return ""
	}

	var labels []string
	var values []string
	var projected []string
	maxY := 0.0

	for _, p := range history {
		labels = append(labels, quote(period.Label(p.Date)))
		values = append(values, fmt.Sprintf("%.1f", p.Value))
		projected = append(projected, "0")
		maxY = math.Max(maxY, p.Value)
	}
	for _, p := range forecast {
		labels = append(labels, quote(period.Label(p.Date)))
		values = append(values, fmt.Sprintf("%.1f", p.Value))
		projected = append(projected, fmt.Sprintf("%.1f", p.Value))
		maxY = math.Max(maxY, p.Value)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %s\n", quote(titleCase(metric)+" Forecast")))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %s 0 --> %d\n", quote(titleCase(metric)), int(math.Ceil(math.Max(1, maxY*1.2)))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(projected, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateSegmentPie creates a Mermaid pie chart of customers per RFM segment. Empty segments are omitted.
func GenerateSegmentPie(segments map[analytics.Segment][]string) string {
	total := 0
	for _, ids := range segments {
		total += len(ids)
	}
	if total == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Customer Segments (RFM)\n")
	for _, seg := range analytics.Segments {
		if n := len(segments[seg]); n > 0 {
			sb.WriteString(fmt.Sprintf("    %s : %d\n", quote(string(seg)), n))
		}
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateAttributionChart creates a Mermaid bar chart of credited revenue per campaign under one model.
func GenerateAttributionChart(results map[string]analytics.AttributionResult, model analytics.AttributionModel, names map[string]string) string {
	ranked := analytics.RankAttribution(results, model)
	if len(ranked) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0
	for _, r := range ranked {
		label := r.CampaignID
		if n, ok := names[r.CampaignID]; ok && n != "" {
			label = n
		}
		rev := r.Credit(model).Revenue
		labels = append(labels, quote(label))
		values = append(values, fmt.Sprintf("%.1f", rev))
		maxVal = math.Max(maxVal, rev)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %s\n", quote("Attributed Revenue ("+strings.ReplaceAll(string(model), "_", " ")+")")))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Revenue\" 0 --> %d\n", int(math.Ceil(math.Max(1, maxVal*1.2)))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateLeadGradePie creates a Mermaid pie chart of leads per grade.
func GenerateLeadGradePie(scores []analytics.LeadScore) string {
	if len(scores) == 0 {
		return ""
	}
	counts := map[string]int{}
	for _, s := range scores {
		counts[s.Grade]++
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Lead Grades\n")
	for _, g := range []string{"A", "B", "C", "D"} {
		if counts[g] > 0 {
			sb.WriteString(fmt.Sprintf("    \"Grade %s\" : %d\n", g, counts[g]))
		}
	}
	sb.WriteString("```")
	return sb.String()
}

var labelReplacer = strings.NewReplacer("\"", "'", "\r", " ", "\n", " ")

// quote renders s as a double-quoted Mermaid string.
func quote(s string) string {
	return "\"" + labelReplacer.Replace(s) + "\""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
