package analytics

import "time"

// Snapshot is the complete business data handed to the engine for one invocation.
// A nil collection means the data is absent; analyses that need it produce nothing.
type Snapshot struct {
	AsOf        time.Time       `json:"as_of"`
	Revenue     []SeriesPoint   `json:"revenue,omitempty"`
	Customers   []Customer      `json:"customers,omitempty"`
	Sales       []Order         `json:"sales,omitempty"`
	Marketing   []Campaign      `json:"marketing,omitempty"`
	Conversions []Conversion    `json:"conversions,omitempty"`
	Leads       []Lead          `json:"leads,omitempty"`
	Products    []Product       `json:"products,omitempty"`
	Inventory   []InventoryItem `json:"inventory,omitempty"`
	Targets     *Targets        `json:"targets,omitempty"`
}

// SeriesPoint is one observation of a numeric time series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Customer is an account with its purchase history and health signals.
type Customer struct {
	ID              string    `json:"id"`
	Name            string    `json:"name,omitempty"`
	Status          string    `json:"status,omitempty"` // "active", "churned", ...
	LifetimeValue   float64   `json:"lifetime_value"`
	SignupDate      time.Time `json:"signup_date"`
	LastPurchaseAt  time.Time `json:"last_purchase_at"`
	LastActivityAt  time.Time `json:"last_activity_at"`
	TotalOrders     int       `json:"total_orders"`
	TotalSpent      float64   `json:"total_spent"`
	RiskScore       float64   `json:"risk_score"`       // 0-100
	EngagementScore float64   `json:"engagement_score"` // 0-100
	SupportTickets  int       `json:"support_tickets"`
	PaymentIssues   int       `json:"payment_issues"`
}

// LastSeen returns the last purchase date, falling back to the last activity date.
func (c Customer) LastSeen() time.Time {
	if !c.LastPurchaseAt.IsZero() {
		return c.LastPurchaseAt
	}
	return c.LastActivityAt
}

// Order is a single sales opportunity or order.
type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id,omitempty"`
	ProductID  string    `json:"product_id,omitempty"`
	Amount     float64   `json:"amount"`
	Closed     bool      `json:"closed"`
	Date       time.Time `json:"date"`
}

// Campaign is a marketing campaign with its aggregate performance.
type Campaign struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Channel     string  `json:"channel,omitempty"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Conversions int     `json:"conversions"`
	Touchpoints int     `json:"touchpoints"`
	ROI         float64 `json:"roi"` // as reported by the source system, informational only
}

// Conversion is a converted customer journey. Touchpoints are ordered oldest first.
type Conversion struct {
	ID          string       `json:"id"`
	CustomerID  string       `json:"customer_id,omitempty"`
	Value       float64      `json:"value"`
	Date        time.Time    `json:"date"`
	Touchpoints []Touchpoint `json:"touchpoints"`
}

// Touchpoint is one marketing interaction inside a conversion journey.
type Touchpoint struct {
	CampaignID string    `json:"campaign_id"`
	Channel    string    `json:"channel,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Lead is a prospective customer with firmographic and engagement signals.
type Lead struct {
	ID               string  `json:"id"`
	Name             string  `json:"name,omitempty"`
	JobTitle         string  `json:"job_title,omitempty"`
	CompanySize      int     `json:"company_size"`
	EmailOpens       int     `json:"email_opens"`
	WebsiteVisits    int     `json:"website_visits"`
	ContentDownloads int     `json:"content_downloads"`
	DemoRequested    bool    `json:"demo_requested"`
	Budget           float64 `json:"budget"`
}

// Product is a catalog entry with its commercial performance.
type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name,omitempty"`
	Price           float64 `json:"price"`
	Cost            float64 `json:"cost,omitempty"`
	CompetitorPrice float64 `json:"competitor_price,omitempty"`
	Demand          float64 `json:"demand"` // units per period
	Revenue         float64 `json:"revenue"`
}

// InventoryItem is the stock position of one product.
type InventoryItem struct {
	ProductID       string  `json:"product_id"`
	Stock           float64 `json:"stock"`
	LeadTimeDays    float64 `json:"lead_time_days"`
	AvgDailySales   float64 `json:"avg_daily_sales"`
	SafetyStockDays float64 `json:"safety_stock_days,omitempty"`
}

// Targets are the period goals the business measures itself against.
type Targets struct {
	MonthlyRevenue float64 `json:"monthly_revenue,omitempty"`
	ConversionRate float64 `json:"conversion_rate,omitempty"` // 0-1
}

// InsightType names the analysis domain an insight belongs to.
type InsightType string

const (
	InsightRevenue   InsightType = "revenue"
	InsightCustomer  InsightType = "customer"
	InsightSales     InsightType = "sales"
	InsightMarketing InsightType = "marketing"
	InsightProduct   InsightType = "product"
)

// Level is a low/medium/high rating used for impact, priority and effort.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Trend is the direction an insight points to.
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
	TrendNeutral  Trend = "neutral"
)

// Insight is a structured finding produced by one domain analysis.
type Insight struct {
	ID             string             `json:"id"`
	Type           InsightType        `json:"type"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Impact         Level              `json:"impact"`
	Trend          Trend              `json:"trend"`
	Confidence     float64            `json:"confidence"`
	Recommendation string             `json:"recommendation"`
	Timestamp      time.Time          `json:"timestamp"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

// Recommendation is an actionable follow-up derived from an insight.
type Recommendation struct {
	ID          string      `json:"id"`
	InsightID   string      `json:"insight_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    Level       `json:"priority"`
	Impact      string      `json:"impact"`
	Effort      Level       `json:"effort"`
	Category    InsightType `json:"category"`
	Actions     []string    `json:"actions"`
}

// ForecastPoint is one projected period.
type ForecastPoint struct {
	Date       time.Time `json:"date"`
	Value      float64   `json:"value"`
	Confidence float64   `json:"confidence"`
}

// LeadScore is the result of scoring a single lead.
type LeadScore struct {
	LeadID  string   `json:"lead_id"`
	Score   int      `json:"score"`
	Grade   string   `json:"grade"`
	Factors []string `json:"factors"`
}

// ChurnAssessment is the churn estimate for a single customer.
type ChurnAssessment struct {
	CustomerID       string   `json:"customer_id"`
	ChurnProbability float64  `json:"churn_probability"`
	RiskLevel        Level    `json:"risk_level"`
	Factors          []string `json:"factors"`
}

// ModelCredit is the credit one attribution rule assigns to a campaign.
type ModelCredit struct {
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	Attribution float64 `json:"attribution"`
}

// AttributionResult holds the credit of one campaign under each attribution rule.
type AttributionResult struct {
	CampaignID string      `json:"campaign_id"`
	FirstTouch ModelCredit `json:"first_touch"`
	LastTouch  ModelCredit `json:"last_touch"`
	Linear     ModelCredit `json:"linear"`
	TimeDecay  ModelCredit `json:"time_decay"`
}
