package report

import (
	"html/template"
	"io"
	"strings"

	"crm-insights/internal/analytics"
)

const mermaidScript = "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs"

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":   func(v float64) float64 { return v * 100 },
	"title": titleCase,
	"label": func(p analytics.Period, f analytics.ForecastPoint) string { return p.Label(f.Date) },
	"day":   func(r *Report) string { return r.AsOf.Format("2006-01-02") },
	"short": short,
	"join":  strings.Join,
	"count": func(ids []string) int { return len(ids) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Business Insights Report {{day .Report}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 960px; color: #1f2933; }
table { border-collapse: collapse; margin: 1rem 0; width: 100%; }
th, td { border-bottom: 1px solid #d9e2ec; padding: .35rem .6rem; text-align: left; }
td.num { text-align: right; }
.card { border: 1px solid #d9e2ec; border-radius: 6px; padding: .8rem 1rem; margin: .8rem 0; }
.high { border-left: 4px solid #d64545; }
.medium { border-left: 4px solid #f0b429; }
.low { border-left: 4px solid #3ebd93; }
</style>
</head>
<body>
<h1>Business Insights Report</h1>
<p>As of <strong>{{day .Report}}</strong> &middot; snapshot <code>{{short .Report.SnapshotHash}}</code></p>

<h2>Insights</h2>
{{range .Report.Insights}}<div class="card {{.Impact}}">
<h3>{{.Title}}</h3>
<p>{{.Description}}</p>
<p><em>{{.Type}} &middot; {{.Impact}} impact &middot; {{.Trend}} trend &middot; {{printf "%.0f" (pct .Confidence)}}% confidence</em></p>
<p>{{.Recommendation}}</p>
</div>
{{else}}<p>Not enough data for any insight.</p>
{{end}}
<h2>Recommendations</h2>
{{range .Report.Recommendations}}<div class="card {{.Priority}}">
<h3>{{.Title}}</h3>
<p>{{.Description}}</p>
<p><em>Impact: {{.Impact}} &middot; Effort: {{.Effort}}</em></p>
<ul>{{range .Actions}}<li>{{.}}</li>{{end}}</ul>
</div>
{{else}}<p>No action required.</p>
{{end}}
<h2>Forecasts</h2>
{{$period := .Report.Period}}{{range .Forecasts}}<h3>{{title .Key}}</h3>
{{if .Chart}}<pre class="mermaid">{{.Chart}}</pre>{{end}}
{{if .Points}}<table><tr><th>Period</th><th>Value</th><th>Confidence</th></tr>
{{range .Points}}<tr><td>{{label $period .}}</td><td class="num">{{printf "%.2f" .Value}}</td><td class="num">{{printf "%.0f" (pct .Confidence)}}%</td></tr>
{{end}}</table>{{else}}<p>Insufficient history.</p>{{end}}
{{end}}
<h2>Customer Segments</h2>
{{with .SegmentChart}}<pre class="mermaid">{{.}}</pre>{{end}}
<table><tr><th>Segment</th><th>Customers</th></tr>
{{range .Segments}}<tr><td>{{.Name}}</td><td class="num">{{count .IDs}}</td></tr>
{{end}}</table>
{{if .Report.LeadScores}}<h2>Lead Scores</h2>
{{with .LeadChart}}<pre class="mermaid">{{.}}</pre>{{end}}
<table><tr><th>Lead</th><th>Score</th><th>Grade</th><th>Factors</th></tr>
{{range .Report.LeadScores}}<tr><td>{{.LeadID}}</td><td class="num">{{.Score}}</td><td>{{.Grade}}</td><td>{{join .Factors "; "}}</td></tr>
{{end}}</table>{{end}}
{{if .Report.Churn}}<h2>Churn Risk</h2>
<table><tr><th>Customer</th><th>Probability</th><th>Risk</th><th>Factors</th></tr>
{{range .Report.Churn}}<tr><td>{{.CustomerID}}</td><td class="num">{{printf "%.0f" (pct .ChurnProbability)}}%</td><td>{{.RiskLevel}}</td><td>{{join .Factors "; "}}</td></tr>
{{end}}</table>{{end}}
{{if .Report.Attribution}}<h2>Attribution</h2>
{{with .AttributionChart}}<pre class="mermaid">{{.}}</pre>{{end}}
<table><tr><th>Campaign</th><th>First touch</th><th>Last touch</th><th>Linear</th><th>Time decay</th></tr>
{{range .Report.Attribution}}<tr><td>{{.CampaignID}}</td><td class="num">{{printf "%.2f" .FirstTouch.Revenue}}</td><td class="num">{{printf "%.2f" .LastTouch.Revenue}}</td><td class="num">{{printf "%.2f" .Linear.Revenue}}</td><td class="num">{{printf "%.2f" .TimeDecay.Revenue}}</td></tr>
{{end}}</table>{{end}}
{{if or .Report.Optimizations.Pricing .Report.Optimizations.Inventory}}<h2>Optimizations</h2>
<ul>
{{range .Report.Optimizations.Pricing}}<li><strong>{{.ProductID}}</strong> price {{printf "%.2f" .CurrentPrice}} &rarr; {{printf "%.2f" .SuggestedPrice}} ({{printf "%+.2f" .ChangePercent}}%): {{.Reason}}</li>
{{end}}{{range .Report.Optimizations.Inventory}}<li><strong>{{.ProductID}}</strong> stock {{.Status}}{{if .SuggestedQuantity}}, order {{.SuggestedQuantity}} units{{end}}</li>
{{end}}</ul>{{end}}
{{if .HasCharts}}<script type="module">
import mermaid from "{{.Script}}";
mermaid.initialize({ startOnLoad: true });
</script>{{end}}
</body>
</html>
`))

type htmlForecast struct {
	Key    string
	Chart  string
	Points []analytics.ForecastPoint
}

type htmlSegment struct {
	Name analytics.Segment
	IDs  []string
}

type htmlView struct {
	Report           *Report
	Forecasts        []htmlForecast
	Segments         []htmlSegment
	SegmentChart     string
	LeadChart        string
	AttributionChart string
	HasCharts        bool
	Script           string
}

// RenderHTML renders the report as a standalone HTML page. Mermaid charts are
// drawn client side.
func RenderHTML(w io.Writer, r *Report) error {
	v := htmlView{
		Report:           r,
		SegmentChart:     mermaidBody(r.Charts[ChartSegments]),
		LeadChart:        mermaidBody(r.Charts[ChartLeadGrades]),
		AttributionChart: mermaidBody(r.Charts[ChartAttribution]),
		HasCharts:        len(r.Charts) > 0,
		Script:           mermaidScript,
	}
	for _, key := range r.ForecastKeys() {
		v.Forecasts = append(v.Forecasts, htmlForecast{
			Key:    key,
			Chart:  mermaidBody(r.Charts[key+"_forecast"]),
			Points: r.Forecasts[key],
		})
	}
	for _, seg := range analytics.Segments {
		v.Segments = append(v.Segments, htmlSegment{Name: seg, IDs: r.Segments[seg]})
	}
	return htmlTemplate.Execute(w, v)
}

// mermaidBody strips the Markdown code fence around a chart.
func mermaidBody(chart string) string {
	chart = strings.TrimPrefix(chart, "```mermaid\n")
	return strings.TrimSuffix(chart, "```")
}
