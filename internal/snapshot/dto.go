package snapshot

import (
	"fmt"
	"strings"
	"time"
)

// File is the JSON wire format of a business data snapshot. Dates are strings
// in RFC 3339 or YYYY-MM-DD form.
type File struct {
	AsOf        string          `json:"as_of,omitempty" jsonschema:"Reference instant for recency calculations; defaults to now"`
	Revenue     []RevenueDTO    `json:"revenue,omitempty" jsonschema:"Revenue series ordered by date"`
	Customers   []CustomerDTO   `json:"customers,omitempty" jsonschema:"Customer records"`
	Sales       []OrderDTO      `json:"sales,omitempty" jsonschema:"Sales orders and opportunities"`
	Marketing   []CampaignDTO   `json:"marketing,omitempty" jsonschema:"Marketing campaigns"`
	Conversions []ConversionDTO `json:"conversions,omitempty" jsonschema:"Converted customer journeys with ordered touchpoints"`
	Leads       []LeadDTO       `json:"leads,omitempty" jsonschema:"Sales leads to score"`
	Products    []ProductDTO    `json:"products,omitempty" jsonschema:"Product catalog"`
	Inventory   []InventoryDTO  `json:"inventory,omitempty" jsonschema:"Stock positions"`
	Targets     *TargetsDTO     `json:"targets,omitempty" jsonschema:"Period goals"`
}

type RevenueDTO struct {
	Date   string  `json:"date" jsonschema:"Period date"`
	Amount float64 `json:"amount" jsonschema:"Revenue for the period"`
}

type CustomerDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name,omitempty"`
	Status          string  `json:"status,omitempty" jsonschema:"Lifecycle status such as active or churned"`
	LifetimeValue   float64 `json:"lifetime_value,omitempty"`
	SignupDate      string  `json:"signup_date,omitempty"`
	LastPurchase    string  `json:"last_purchase,omitempty"`
	LastActivity    string  `json:"last_activity,omitempty"`
	TotalOrders     int     `json:"total_orders,omitempty"`
	TotalSpent      float64 `json:"total_spent,omitempty"`
	RiskScore       float64 `json:"risk_score,omitempty" jsonschema:"Risk score from 0 to 100"`
	EngagementScore float64 `json:"engagement_score,omitempty" jsonschema:"Engagement score from 0 to 100"`
	SupportTickets  int     `json:"support_tickets,omitempty"`
	PaymentIssues   int     `json:"payment_issues,omitempty"`
}

type OrderDTO struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id,omitempty"`
	ProductID  string  `json:"product_id,omitempty"`
	Amount     float64 `json:"amount"`
	Closed     bool    `json:"closed,omitempty"`
	Date       string  `json:"date,omitempty"`
}

type CampaignDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Channel     string  `json:"channel,omitempty"`
	Spend       float64 `json:"spend,omitempty"`
	Revenue     float64 `json:"revenue,omitempty"`
	ROI         float64 `json:"roi,omitempty"`
	Conversions int     `json:"conversions,omitempty"`
	Touchpoints int     `json:"touchpoints,omitempty"`
}

type ConversionDTO struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id,omitempty"`
	Value       float64         `json:"value"`
	Date        string          `json:"date,omitempty"`
	Touchpoints []TouchpointDTO `json:"touchpoints" jsonschema:"Touchpoints ordered oldest first"`
}

type TouchpointDTO struct {
	CampaignID string `json:"campaign_id"`
	Channel    string `json:"channel,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

type LeadDTO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name,omitempty"`
	JobTitle         string  `json:"job_title,omitempty"`
	CompanySize      int     `json:"company_size,omitempty"`
	EmailOpens       int     `json:"email_opens,omitempty"`
	WebsiteVisits    int     `json:"website_visits,omitempty"`
	ContentDownloads int     `json:"content_downloads,omitempty"`
	DemoRequested    bool    `json:"demo_requested,omitempty"`
	Budget           float64 `json:"budget,omitempty"`
}

type ProductDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name,omitempty"`
	Price           float64 `json:"price,omitempty"`
	Cost            float64 `json:"cost,omitempty"`
	CompetitorPrice float64 `json:"competitor_price,omitempty"`
	Demand          float64 `json:"demand,omitempty"`
	Revenue         float64 `json:"revenue,omitempty"`
}

type InventoryDTO struct {
	ProductID       string  `json:"product_id"`
	Stock           float64 `json:"stock"`
	LeadTimeDays    float64 `json:"lead_time_days,omitempty"`
	AvgDailySales   float64 `json:"avg_daily_sales,omitempty"`
	SafetyStockDays float64 `json:"safety_stock_days,omitempty"`
}

type TargetsDTO struct {
	MonthlyRevenue float64 `json:"monthly_revenue,omitempty"`
	ConversionRate float64 `json:"conversion_rate,omitempty" jsonschema:"Target conversion rate between 0 and 1"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses a wire date. An empty string yields the zero time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// FormatTime renders a date for the wire, using the short form at midnight.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
