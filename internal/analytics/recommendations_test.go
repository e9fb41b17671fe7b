package analytics

import (
	"strings"
	"testing"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		name     string
		insight  Insight
		expected bool
		priority Level
	}{
		{"RevenueDecline", Insight{Type: InsightRevenue, Trend: TrendNegative, Metrics: map[string]float64{MetricGrowthPercent: -5}}, true, LevelHigh},
		{"RevenueSurge", Insight{Type: InsightRevenue, Trend: TrendPositive, Metrics: map[string]float64{MetricGrowthPercent: 20}}, true, LevelMedium},
		{"RevenueModest", Insight{Type: InsightRevenue, Trend: TrendPositive, Metrics: map[string]float64{MetricGrowthPercent: 10}}, false, ""},
		{"ChurnAlert", Insight{Type: InsightCustomer, Metrics: map[string]float64{MetricChurnRate: 0.2}}, true, LevelHigh},
		{"ChurnAtThreshold", Insight{Type: InsightCustomer, Metrics: map[string]float64{MetricChurnRate: 0.15}}, false, ""},
		{"LowConversion", Insight{Type: InsightSales, Metrics: map[string]float64{MetricConversionRate: 0.1}}, true, LevelMedium},
		{"MissedTarget", Insight{Type: InsightSales, Metrics: map[string]float64{MetricConversionRate: 0.5, MetricAttainment: 0.85}}, true, LevelHigh},
		{"HealthySales", Insight{Type: InsightSales, Metrics: map[string]float64{MetricConversionRate: 0.3, MetricAttainment: 0.95}}, false, ""},
		{"WeakROI", Insight{Type: InsightMarketing, Metrics: map[string]float64{MetricROIPercent: 150}}, true, LevelHigh},
		{"StrongROI", Insight{Type: InsightMarketing, Metrics: map[string]float64{MetricROIPercent: 200}}, false, ""},
		{"Concentrated", Insight{Type: InsightProduct, Metrics: map[string]float64{MetricTopShare: 0.6}}, true, LevelMedium},
		{"Balanced", Insight{Type: InsightProduct, Metrics: map[string]float64{MetricTopShare: 0.5}}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.insight.ID = "insight-" + tt.name
			rec, ok := Recommend(tt.insight, Snapshot{})
			if ok != tt.expected {
				t.Fatalf("Recommend() ok = %v, want %v", ok, tt.expected)
			}
			if !ok {
				return
			}
			if rec.Priority != tt.priority {
				t.Errorf("priority = %s, want %s", rec.Priority, tt.priority)
			}
			if len(rec.Actions) != 4 {
				t.Errorf("expected 4 actions, got %d", len(rec.Actions))
			}
			if rec.InsightID != tt.insight.ID || rec.Category != tt.insight.Type {
				t.Errorf("recommendation not linked to its insight: %+v", rec)
			}
			if rec.ID == "" || rec.ID != recommendationID(tt.insight.ID) {
				t.Errorf("unexpected recommendation id %q", rec.ID)
			}
		})
	}
}

func TestRecommend_ActionsAreCopies(t *testing.T) {
	ins := Insight{ID: "x", Type: InsightMarketing, Metrics: map[string]float64{MetricROIPercent: 10}}
	a, _ := Recommend(ins, Snapshot{})
	a.Actions[0] = "mutated"

	b, _ := Recommend(ins, Snapshot{})
	if b.Actions[0] == "mutated" {
		t.Error("mutating one recommendation leaked into the shared checklist")
	}
}

func TestRecommend_CountsHighRiskCustomers(t *testing.T) {
	asOf := date(2024, 6, 30)
	s := Snapshot{
		AsOf:      asOf,
		Customers: []Customer{{ID: "a", EngagementScore: 10, PaymentIssues: 1}, {ID: "b", LastPurchaseAt: asOf, EngagementScore: 90}},
	}
	ins := Insight{ID: "x", Type: InsightCustomer, Metrics: map[string]float64{MetricChurnRate: 0.5}}

	rec, ok := Recommend(ins, s)
	if !ok {
		t.Fatal("expected a recommendation")
	}
	if want := "1 customers are assessed as high churn risk."; !strings.Contains(rec.Description, want) {
		t.Errorf("expected description to mention high risk count, got %q", rec.Description)
	}
}

func TestRecommendAll_PreservesOrder(t *testing.T) {
	insights := []Insight{
		{ID: "1", Type: InsightRevenue, Trend: TrendNegative, Metrics: map[string]float64{MetricGrowthPercent: -30}},
		{ID: "2", Type: InsightCustomer, Metrics: map[string]float64{MetricChurnRate: 0.01}},
		{ID: "3", Type: InsightMarketing, Metrics: map[string]float64{MetricROIPercent: 20}},
	}

	recs := RecommendAll(insights, Snapshot{})
	if len(recs) != 2 || recs[0].InsightID != "1" || recs[1].InsightID != "3" {
		t.Errorf("unexpected recommendations: %+v", recs)
	}
	if empty := RecommendAll(nil, Snapshot{}); empty == nil {
		t.Error("expected empty, non-nil recommendations")
	}
}
