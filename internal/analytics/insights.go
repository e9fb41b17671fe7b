package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Fixed confidence of each analysis.
const (
	ConfidenceRevenue          = 0.85
	ConfidenceCustomer         = 0.78
	ConfidenceSalesWithTarget  = 0.92
	ConfidenceSales            = 0.82
	ConfidenceMarketing        = 0.81
	ConfidenceMarketingNoConv  = 0.75
	ConfidenceProductBroad     = 0.88
	ConfidenceProduct          = 0.75
	DefaultConversionBenchmark = 0.20
)

// Metric keys carried on insights.
const (
	MetricGrowthPercent     = "growth_percent"
	MetricCurrent           = "current"
	MetricPrevious          = "previous"
	MetricChurnRate         = "churn_rate"
	MetricChurnedCount      = "churned_count"
	MetricAvgLifetimeValue  = "avg_lifetime_value"
	MetricConversionRate    = "conversion_rate"
	MetricClosedRevenue     = "closed_revenue"
	MetricAttainment        = "attainment"
	MetricTarget            = "target"
	MetricROIPercent        = "roi_percent"
	MetricCostPerConversion = "cost_per_conversion"
	MetricSpend             = "spend"
	MetricRevenue           = "revenue"
	MetricTopShare          = "top_share"
	MetricTopRevenue        = "top_revenue"
	MetricTotalRevenue      = "total_revenue"
)

// Analysis derives at most one insight from a snapshot. The boolean is false
// when the data the analysis needs is missing or too small.
type Analysis func(s Snapshot) (Insight, bool)

// Analyses lists the domain analyses in output order.
var Analyses = []Analysis{
	AnalyzeRevenue,
	AnalyzeCustomers,
	AnalyzeSales,
	AnalyzeMarketing,
	AnalyzeProducts,
}

// AnalyzeRevenue compares the two most recent revenue observations.
func AnalyzeRevenue(s Snapshot) (Insight, bool) {
	var values []float64
	for _, p := range s.Revenue {
		if isFinite(p.Value) {
			values = append(values, p.Value)
		}
	}
	if len(values) < 2 {
		return Insight{}, false
	}
	cur, prev := values[len(values)-1], values[len(values)-2]
	if prev == 0 {
		return Insight{}, false
	}

	growth := round2((cur - prev) / math.Abs(prev) * 100)
	if !isFinite(growth) {
		return Insight{}, false
	}
	ins := Insight{
		Type:       InsightRevenue,
		Impact:     magnitude(math.Abs(growth), 20, 10),
		Trend:      signTrend(growth),
		Confidence: ConfidenceRevenue,
		Metrics: map[string]float64{
			MetricGrowthPercent: growth,
			MetricCurrent:       cur,
			MetricPrevious:      prev,
		},
	}

	switch ins.Trend {
	case TrendPositive:
		ins.Title = "Revenue Growth Detected"
		ins.Description = fmt.Sprintf("Revenue grew %.2f%% from %.2f to %.2f in the latest period.", growth, prev, cur)
		ins.Recommendation = "Reinvest in the channels and products driving the increase."
	case TrendNegative:
		ins.Title = "Revenue Decline Detected"
		ins.Description = fmt.Sprintf("Revenue fell %.2f%% from %.2f to %.2f in the latest period.", math.Abs(growth), prev, cur)
		ins.Recommendation = "Review pipeline health and pricing to find the source of the decline."
	default:
		ins.Title = "Revenue Stable"
		ins.Description = fmt.Sprintf("Revenue held at %.2f in the latest period.", cur)
		ins.Recommendation = "Look for new growth levers to move revenue off its plateau."
	}
	return ins, true
}

// IsChurned reports whether a customer counts toward the churn rate.
func IsChurned(c Customer) bool {
	return c.RiskScore > 70 || c.Status == "churned"
}

// AnalyzeCustomers measures the share of churned or high risk customers.
func AnalyzeCustomers(s Snapshot) (Insight, bool) {
	if len(s.Customers) == 0 {
		return Insight{}, false
	}

	churned := 0
	var ltv float64
	for _, c := range s.Customers {
		if IsChurned(c) {
			churned++
		}
		if isFinite(c.LifetimeValue) {
			ltv += c.LifetimeValue
		}
	}
	n := float64(len(s.Customers))
	rate := float64(churned) / n
	pct := round2(rate * 100)

	ins := Insight{
		Type:       InsightCustomer,
		Impact:     magnitudeAbove(rate, 0.20, 0.10),
		Trend:      TrendPositive,
		Confidence: ConfidenceCustomer,
		Metrics: map[string]float64{
			MetricChurnRate:        round4(rate),
			MetricChurnedCount:     float64(churned),
			MetricAvgLifetimeValue: round2(ltv / n),
		},
	}
	if rate > 0.10 {
		ins.Trend = TrendNegative
	}

	switch ins.Impact {
	case LevelHigh:
		ins.Title = "High Customer Churn Risk"
		ins.Description = fmt.Sprintf("%d of %d customers (%.2f%%) are churned or at high risk.", churned, len(s.Customers), pct)
		ins.Recommendation = "Start a retention campaign for at-risk accounts immediately."
	case LevelMedium:
		ins.Title = "Elevated Customer Churn"
		ins.Description = fmt.Sprintf("%d of %d customers (%.2f%%) show churn signals.", churned, len(s.Customers), pct)
		ins.Recommendation = "Schedule check-ins with accounts showing declining engagement."
	default:
		ins.Title = "Healthy Customer Retention"
		ins.Description = fmt.Sprintf("Only %.2f%% of customers show churn signals.", pct)
		ins.Recommendation = "Keep nurturing loyal customers and ask them for referrals."
	}
	return ins, true
}

// AnalyzeSales reports conversion and, when a monthly target exists, attainment.
func AnalyzeSales(s Snapshot) (Insight, bool) {
	if len(s.Sales) == 0 {
		return Insight{}, false
	}

	closed := 0
	var closedRevenue float64
	for _, o := range s.Sales {
		if o.Closed {
			closed++
			if isFinite(o.Amount) {
				closedRevenue += o.Amount
			}
		}
	}
	rate := float64(closed) / float64(len(s.Sales))

	ins := Insight{
		Type: InsightSales,
		Metrics: map[string]float64{
			MetricConversionRate: round4(rate),
			MetricClosedRevenue:  round2(closedRevenue),
		},
	}

	// 1. Target attainment
	if s.Targets != nil && s.Targets.MonthlyRevenue > 0 {
		target := s.Targets.MonthlyRevenue
		attainment := closedRevenue / target
		ins.Metrics[MetricAttainment] = round4(attainment)
		ins.Metrics[MetricTarget] = target
		ins.Impact = magnitudeAbove(math.Abs(attainment-1), 0.2, 0.1)
		ins.Trend = TrendPositive
		if attainment < 1 {
			ins.Trend = TrendNegative
		}
		ins.Confidence = ConfidenceSalesWithTarget
		if attainment >= 1 {
			ins.Title = "Sales Target Exceeded"
		} else {
			ins.Title = "Sales Below Target"
		}
		ins.Description = fmt.Sprintf("Closed revenue of %.2f reached %.2f%% of the %.2f target with a %.2f%% conversion rate.",
			closedRevenue, attainment*100, target, rate*100)
		if attainment >= 1 {
			ins.Recommendation = "Raise targets for top performers and document what is working."
		} else {
			ins.Recommendation = "Focus the team on late stage deals to close the gap to target."
		}
		return ins, true
	}

	// 2. Conversion benchmark
	bench := DefaultConversionBenchmark
	if s.Targets != nil && s.Targets.ConversionRate > 0 {
		bench = s.Targets.ConversionRate
	}
	ins.Confidence = ConfidenceSales
	switch {
	case rate < bench*0.5:
		ins.Impact = LevelHigh
	case rate < bench:
		ins.Impact = LevelMedium
	default:
		ins.Impact = LevelLow
	}
	if rate >= bench {
		ins.Trend = TrendPositive
		ins.Title = "Strong Sales Conversion"
		ins.Recommendation = "Increase pipeline volume to take advantage of the conversion rate."
	} else {
		ins.Trend = TrendNegative
		ins.Title = "Low Sales Conversion"
		ins.Recommendation = "Review qualification criteria and coach reps on closing."
	}
	ins.Description = fmt.Sprintf("%d of %d opportunities closed (%.2f%% against a %.2f%% benchmark).",
		closed, len(s.Sales), rate*100, bench*100)
	return ins, true
}

// AnalyzeMarketing measures aggregate campaign ROI and cost per conversion.
func AnalyzeMarketing(s Snapshot) (Insight, bool) {
	var spend, revenue float64
	conversions := 0
	for _, c := range s.Marketing {
		if isFinite(c.Spend) {
			spend += c.Spend
		}
		if isFinite(c.Revenue) {
			revenue += c.Revenue
		}
		conversions += c.Conversions
	}
	if spend <= 0 {
		return Insight{}, false
	}

	roi := round2((revenue - spend) / spend * 100)
	cpc := round2(ratio(spend, float64(conversions)))
	if !isFinite(roi) || !isFinite(cpc) || !isFinite(revenue) {
		return Insight{}, false
	}

	ins := Insight{
		Type:       InsightMarketing,
		Impact:     LevelLow,
		Trend:      signTrend(roi),
		Confidence: ConfidenceMarketing,
		Metrics: map[string]float64{
			MetricROIPercent:        roi,
			MetricCostPerConversion: cpc,
			MetricSpend:             round2(spend),
			MetricRevenue:           round2(revenue),
		},
	}
	if conversions == 0 {
		ins.Confidence = ConfidenceMarketingNoConv
	}
	switch {
	case roi < 200:
		ins.Impact = LevelHigh
	case roi < 400:
		ins.Impact = LevelMedium
	}

	if ins.Impact == LevelLow {
		ins.Title = "Marketing Performing Well"
		ins.Recommendation = "Scale budget on the best returning campaigns."
	} else {
		ins.Title = "Marketing ROI Below Expectations"
		ins.Recommendation = "Shift spend away from low-return campaigns and retest creatives."
	}
	ins.Description = fmt.Sprintf("Campaigns returned %.2f%% ROI on %.2f spend at %.2f per conversion.", roi, spend, cpc)

	if len(s.Conversions) > 0 {
		ranked := RankAttribution(Attribute(s.Marketing, s.Conversions), ModelTimeDecay)
		if len(ranked) > 0 && ranked[0].TimeDecay.Revenue > 0 {
			ins.Description += fmt.Sprintf(" %s earns the most time-decay credit (%.2f).",
				campaignName(s.Marketing, ranked[0].CampaignID), ranked[0].TimeDecay.Revenue)
		}
	}
	return ins, true
}

// AnalyzeProducts reports revenue concentration on the top product.
func AnalyzeProducts(s Snapshot) (Insight, bool) {
	if len(s.Products) == 0 {
		return Insight{}, false
	}

	orderRevenue := make(map[string]float64)
	for _, o := range s.Sales {
		if o.Closed && isFinite(o.Amount) {
			orderRevenue[o.ProductID] += o.Amount
		}
	}

	type productRevenue struct {
		id, name string
		revenue  float64
	}
	rows := make([]productRevenue, 0, len(s.Products))
	var total float64
	for _, p := range s.Products {
		r := p.Revenue
		if !isFinite(r) || r <= 0 {
			r = orderRevenue[p.ID]
		}
		rows = append(rows, productRevenue{id: p.ID, name: p.Name, revenue: r})
		total += r
	}
	if total <= 0 {
		return Insight{}, false
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].revenue > rows[j].revenue })
	top := rows[0]
	share := top.revenue / total

	ins := Insight{
		Type:       InsightProduct,
		Impact:     magnitudeAbove(share, 0.5, 0.3),
		Confidence: ConfidenceProduct,
		Metrics: map[string]float64{
			MetricTopShare:     round4(share),
			MetricTopRevenue:   round2(top.revenue),
			MetricTotalRevenue: round2(total),
		},
	}
	if len(s.Products) >= 3 {
		ins.Confidence = ConfidenceProductBroad
	}

	name := top.name
	if name == "" {
		name = top.id
	}
	switch ins.Impact {
	case LevelHigh:
		ins.Trend = TrendNegative
		ins.Title = "Revenue Concentration Risk"
		ins.Recommendation = "Reduce dependence on a single product by promoting the rest of the catalog."
	case LevelMedium:
		ins.Trend = TrendNeutral
		ins.Title = "Top Product Leads Revenue"
		ins.Recommendation = "Bundle the top product with slower sellers."
	default:
		ins.Trend = TrendPositive
		ins.Title = "Balanced Product Revenue"
		ins.Recommendation = "Keep the catalog balanced while testing new offerings."
	}
	ins.Description = fmt.Sprintf("%s accounts for %.2f%% of %.2f product revenue.", name, share*100, total)
	return ins, true
}

// RunAnalyses runs every analysis and stamps the results with ts.
func RunAnalyses(s Snapshot, ts time.Time) []Insight {
	out := []Insight{}
	for _, a := range Analyses {
		ins, ok := a(s)
		if !ok {
			continue
		}
		ins.Timestamp = ts
		ins.ID = insightID(ins.Type, ts)
		out = append(out, ins)
	}
	return out
}

// magnitude rates v with inclusive thresholds.
func magnitude(v, high, medium float64) Level {
	switch {
	case v >= high:
		return LevelHigh
	case v >= medium:
		return LevelMedium
	}
	return LevelLow
}

// magnitudeAbove rates v with exclusive thresholds.
func magnitudeAbove(v, high, medium float64) Level {
	switch {
	case v > high:
		return LevelHigh
	case v > medium:
		return LevelMedium
	}
	return LevelLow
}

func signTrend(v float64) Trend {
	switch {
	case v > 0:
		return TrendPositive
	case v < 0:
		return TrendNegative
	}
	return TrendNeutral
}

func campaignName(campaigns []Campaign, id string) string {
	for _, c := range campaigns {
		if c.ID == id && c.Name != "" {
			return c.Name
		}
	}
	return id
}
