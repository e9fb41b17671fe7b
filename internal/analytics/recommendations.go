package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rule thresholds.
const (
	RevenueGrowthOpportunity = 20.0 // percent
	ChurnRateAlert           = 0.15
	ConversionRateAlert      = 0.20
	AttainmentAlert          = 0.9
	ROIAlert                 = 200.0 // percent
	ProductShareAlert        = 0.5
)

var actionChecklists = map[string][]string{
	"revenue_decline": {
		"Audit the sales pipeline for stalled opportunities",
		"Review recent pricing and discount changes",
		"Contact top accounts with declining spend",
		"Launch a targeted win-back promotion",
	},
	"revenue_growth": {
		"Identify the products and channels driving growth",
		"Increase budget on the highest performing campaigns",
		"Expand capacity to meet rising demand",
		"Introduce upsell offers for new buyers",
	},
	"customer": {
		"Segment at-risk customers by churn drivers",
		"Assign account managers to high value at-risk accounts",
		"Offer loyalty incentives to disengaged customers",
		"Resolve open support tickets and payment issues",
	},
	"sales": {
		"Review lead qualification criteria",
		"Run deal reviews on stalled opportunities",
		"Provide closing and objection handling training",
		"Align incentives with conversion goals",
	},
	"marketing": {
		"Pause campaigns with negative return",
		"Reallocate budget to top attributed channels",
		"A/B test creatives and landing pages",
		"Tighten audience targeting",
	},
	"product": {
		"Promote secondary products through bundles",
		"Analyze demand for under performing products",
		"Develop complementary offerings",
		"Review pricing across the catalog",
	},
}

// Recommend maps an insight to at most one recommendation.
func Recommend(ins Insight, s Snapshot) (Recommendation, bool) {
	m := ins.Metrics
	rec := Recommendation{InsightID: ins.ID, Category: ins.Type}

	switch ins.Type {
	case InsightRevenue:
		growth := m[MetricGrowthPercent]
		switch {
		case ins.Trend == TrendNegative:
			rec.Title = "Reverse Revenue Decline"
			rec.Description = fmt.Sprintf("Revenue dropped %.2f%%; stabilize the pipeline before the next period closes.", -growth)
			rec.Priority, rec.Effort = LevelHigh, LevelMedium
			rec.Impact = fmt.Sprintf("Recover up to %.2f in period revenue", m[MetricPrevious]-m[MetricCurrent])
			rec.Actions = checklist("revenue_decline")
		case growth >= RevenueGrowthOpportunity:
			rec.Title = "Capitalize on Revenue Growth"
			rec.Description = fmt.Sprintf("Revenue grew %.2f%%; invest to sustain the momentum.", growth)
			rec.Priority, rec.Effort = LevelMedium, LevelMedium
			rec.Impact = "Sustain above-trend revenue growth"
			rec.Actions = checklist("revenue_growth")
		default:
			return Recommendation{}, false
		}

	case InsightCustomer:
		rate := m[MetricChurnRate]
		if rate <= ChurnRateAlert {
			return Recommendation{}, false
		}
		rec.Title = "Launch Customer Retention Program"
		rec.Description = fmt.Sprintf("%.2f%% of customers show churn signals.", rate*100)
		if high := highRiskCount(s); high > 0 {
			rec.Description += fmt.Sprintf(" %d customers are assessed as high churn risk.", high)
		}
		rec.Priority, rec.Effort = LevelHigh, LevelMedium
		rec.Impact = fmt.Sprintf("Protect %.2f average lifetime value per retained customer", m[MetricAvgLifetimeValue])
		rec.Actions = checklist("customer")

	case InsightSales:
		rate := m[MetricConversionRate]
		attainment, hasTarget := m[MetricAttainment]
		lowConversion := rate < ConversionRateAlert
		lowAttainment := hasTarget && attainment < AttainmentAlert
		if !lowConversion && !lowAttainment {
			return Recommendation{}, false
		}
		rec.Title = "Improve Sales Conversion"
		if lowAttainment {
			rec.Description = fmt.Sprintf("Closed revenue is at %.2f%% of target.", attainment*100)
			rec.Priority = LevelHigh
		} else {
			rec.Description = fmt.Sprintf("Only %.2f%% of opportunities convert.", rate*100)
			rec.Priority = LevelMedium
		}
		rec.Effort = LevelMedium
		rec.Impact = "Higher win rate on the existing pipeline"
		rec.Actions = checklist("sales")

	case InsightMarketing:
		roi := m[MetricROIPercent]
		if roi >= ROIAlert {
			return Recommendation{}, false
		}
		rec.Title = "Optimize Marketing Spend"
		rec.Description = fmt.Sprintf("Marketing ROI of %.2f%% is below the %.0f%% goal.", roi, ROIAlert)
		rec.Priority, rec.Effort = LevelHigh, LevelLow
		rec.Impact = fmt.Sprintf("Lower the %.2f cost per conversion", m[MetricCostPerConversion])
		rec.Actions = checklist("marketing")

	case InsightProduct:
		share := m[MetricTopShare]
		if share <= ProductShareAlert {
			return Recommendation{}, false
		}
		rec.Title = "Diversify Product Revenue"
		rec.Description = fmt.Sprintf("The top product carries %.2f%% of revenue.", share*100)
		rec.Priority, rec.Effort = LevelMedium, LevelHigh
		rec.Impact = "Reduced revenue concentration risk"
		rec.Actions = checklist("product")

	default:
		return Recommendation{}, false
	}

	rec.ID = recommendationID(ins.ID)
	return rec, true
}

// RecommendAll maps every qualifying insight to its recommendation, in insight order.
func RecommendAll(insights []Insight, s Snapshot) []Recommendation {
	out := []Recommendation{}
	for _, ins := range insights {
		if rec, ok := Recommend(ins, s); ok {
			out = append(out, rec)
		}
	}
	return out
}

func checklist(key string) []string {
	return append([]string(nil), actionChecklists[key]...)
}

func highRiskCount(s Snapshot) int {
	asOf := s.AsOf
	if asOf.IsZero() {
		return 0
	}
	n := 0
	for _, c := range s.Customers {
		if AssessChurn(c, asOf).RiskLevel == LevelHigh {
			n++
		}
	}
	return n
}

func insightID(t InsightType, ts time.Time) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("insight:"+string(t)+":"+ts.UTC().Format(time.RFC3339Nano))).String()
}

func recommendationID(insightID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("recommendation:"+insightID)).String()
}
