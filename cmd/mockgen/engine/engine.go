package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"crm-insights/internal/analytics"
	"crm-insights/internal/snapshot"
)

// Scenarios supported by Generate.
const (
	ScenarioGrowth  = "growth"
	ScenarioDecline = "decline"
	ScenarioChurn   = "churn"
)

type GeneratorConfig struct {
	Scenario  string
	Months    int
	Customers int
	Leads     int
	Seed      int64
	Now       time.Time
}

type scenarioParams struct {
	monthlyGrowth float64 // revenue multiplier per month
	closeRate     float64
	churnShare    float64 // share of customers with stale activity
	demandSkew    float64 // demand multiplier of the flagship product
}

var scenarios = map[string]scenarioParams{
	ScenarioGrowth:  {monthlyGrowth: 1.06, closeRate: 0.55, churnShare: 0.05, demandSkew: 2.2},
	ScenarioDecline: {monthlyGrowth: 0.94, closeRate: 0.25, churnShare: 0.15, demandSkew: 1.0},
	ScenarioChurn:   {monthlyGrowth: 0.99, closeRate: 0.40, churnShare: 0.40, demandSkew: 1.3},
}

var (
	companyNames = []string{"Northwind", "Contoso", "Fabrikam", "Tailspin", "Adatum", "Litware", "Proseware", "Woodgrove", "Lucerne", "Alpine", "Coho", "Wingtip"}
	jobTitles    = []string{"CEO", "VP of Sales", "Director of Marketing", "Head of Operations", "Sales Manager", "Analyst", "Engineer", "Chief Revenue Officer", "Coordinator"}
	leadNames    = []string{"Dana Ruiz", "Sam Okafor", "Lee Park", "Alex Kim", "Rene Dubois", "Priya Shah", "Jo Martins", "Kai Weber", "Noa Levi", "Ari Costa"}
	products     = []analytics.Product{
		{ID: "prd-crm", Name: "CRM Suite", Price: 1200, Cost: 400, CompetitorPrice: 1250},
		{ID: "prd-analytics", Name: "Analytics Add-on", Price: 450, Cost: 150, CompetitorPrice: 500},
		{ID: "prd-support", Name: "Premium Support", Price: 300, Cost: 220},
		{ID: "prd-training", Name: "Training Pack", Price: 180, Cost: 60, CompetitorPrice: 150},
	}
	campaigns = []analytics.Campaign{
		{ID: "cmp-search", Name: "Paid Search", Channel: "search"},
		{ID: "cmp-social", Name: "Social Ads", Channel: "social"},
		{ID: "cmp-email", Name: "Email Nurture", Channel: "email"},
		{ID: "cmp-webinar", Name: "Webinar Series", Channel: "events"},
	}
)

// Scenarios returns the supported scenario names.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate builds a synthetic snapshot. Equal configs produce equal snapshots.
func Generate(cfg GeneratorConfig) (snapshot.File, error) {
	p, ok := scenarios[cfg.Scenario]
	if !ok {
		return snapshot.File{}, fmt.Errorf("unknown scenario %q (expected one of %v)", cfg.Scenario, Scenarios())
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Months <= 0 {
		cfg.Months = 12
	}
	if cfg.Customers <= 0 {
		cfg.Customers = 40
	}
	if cfg.Leads <= 0 {
		cfg.Leads = 10
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	asOf := time.Date(cfg.Now.Year(), cfg.Now.Month(), cfg.Now.Day(), 0, 0, 0, 0, time.UTC)
	start := monthEnd(asOf.AddDate(0, -(cfg.Months - 1), 0))

	s := analytics.Snapshot{AsOf: asOf}

	// 1. Revenue trend with noise
	level := 40000.0
	for i := 0; i < cfg.Months; i++ {
		s.Revenue = append(s.Revenue, analytics.SeriesPoint{
			Date:  monthEnd(start.AddDate(0, i, 0)),
			Value: math.Round(level * (0.96 + rng.Float64()*0.08)),
		})
		level *= p.monthlyGrowth
	}

	// 2. Customers
	span := asOf.Sub(start.AddDate(0, -1, 0))
	for i := 0; i < cfg.Customers; i++ {
		c := analytics.Customer{
			ID:         fmt.Sprintf("cus-%03d", i+1),
			Name:       fmt.Sprintf("%s %d", companyNames[i%len(companyNames)], i/len(companyNames)+1),
			Status:     "active",
			SignupDate: asOf.Add(-time.Duration(rng.Int63n(int64(span)))).Truncate(24 * time.Hour),
		}
		stale := rng.Float64() < p.churnShare
		idle := rng.Intn(45)
		if stale {
			idle = 100 + rng.Intn(150)
		}
		c.LastPurchaseAt = asOf.AddDate(0, 0, -idle)
		if c.LastPurchaseAt.Before(c.SignupDate) {
			c.SignupDate = c.LastPurchaseAt.AddDate(0, 0, -rng.Intn(30))
		}
		c.TotalOrders = 1 + rng.Intn(15)
		c.TotalSpent = math.Round(float64(c.TotalOrders) * (200 + rng.Float64()*900))
		c.LifetimeValue = math.Round(c.TotalSpent * (1.2 + rng.Float64()))
		c.EngagementScore = math.Round(40 + rng.Float64()*55)
		c.RiskScore = math.Round(rng.Float64() * 45)
		c.SupportTickets = rng.Intn(4)
		if stale {
			c.EngagementScore = math.Round(rng.Float64() * 35)
			c.RiskScore = math.Round(65 + rng.Float64()*35)
			c.SupportTickets += rng.Intn(6)
			if rng.Float64() < 0.5 {
				c.Status = "churned"
			}
		}
		if rng.Float64() < 0.1 {
			c.PaymentIssues = 1 + rng.Intn(2)
		}
		s.Customers = append(s.Customers, c)
	}

	// 3. Orders and converted journeys
	weights := make([]float64, len(products))
	for i := range products {
		weights[i] = 1
	}
	weights[0] = p.demandSkew
	demand := make(map[string]float64, len(products))
	revenue := make(map[string]float64, len(products))
	campaignStats := make(map[string]*analytics.Campaign, len(campaigns))
	for i := range campaigns {
		c := campaigns[i]
		campaignStats[c.ID] = &c
	}

	for i := 0; i < cfg.Customers*2; i++ {
		cust := s.Customers[rng.Intn(len(s.Customers))]
		prod := products[pick(rng, weights)]
		date := asOf.AddDate(0, 0, -rng.Intn(cfg.Months*30))
		o := analytics.Order{
			ID:         fmt.Sprintf("ord-%04d", i+1),
			CustomerID: cust.ID,
			ProductID:  prod.ID,
			Amount:     math.Round(prod.Price * float64(1+rng.Intn(10))),
			Closed:     rng.Float64() < p.closeRate,
			Date:       date,
		}
		s.Sales = append(s.Sales, o)
		demand[prod.ID]++
		if !o.Closed {
			continue
		}
		revenue[prod.ID] += o.Amount

		conv := analytics.Conversion{ID: fmt.Sprintf("cnv-%04d", len(s.Conversions)+1), CustomerID: cust.ID, Value: o.Amount, Date: date}
		touches := 1 + rng.Intn(3)
		offsets := make([]int, touches)
		days := 0
		for k := touches - 1; k >= 0; k-- {
			days += 1 + rng.Intn(5)
			offsets[k] = days
		}
		for _, off := range offsets {
			cmp := campaigns[rng.Intn(len(campaigns))]
			conv.Touchpoints = append(conv.Touchpoints, analytics.Touchpoint{
				CampaignID: cmp.ID,
				Channel:    cmp.Channel,
				Timestamp:  date.AddDate(0, 0, -off).Add(time.Duration(9+rng.Intn(9)) * time.Hour),
			})
			campaignStats[cmp.ID].Touchpoints++
		}
		last := campaignStats[conv.Touchpoints[len(conv.Touchpoints)-1].CampaignID]
		last.Conversions++
		last.Revenue += o.Amount
		s.Conversions = append(s.Conversions, conv)
	}
	sort.Slice(s.Sales, func(i, j int) bool { return s.Sales[i].Date.Before(s.Sales[j].Date) })

	// 4. Campaign spend
	for _, c := range campaigns {
		st := campaignStats[c.ID]
		st.Spend = math.Round(2000 + rng.Float64()*8000)
		st.Revenue = math.Round(st.Revenue)
		if st.Spend > 0 {
			st.ROI = math.Round((st.Revenue-st.Spend)/st.Spend*100) / 100
		}
		s.Marketing = append(s.Marketing, *st)
	}

	// 5. Catalog and stock
	for _, prod := range products {
		prod.Demand = demand[prod.ID]
		prod.Revenue = math.Round(revenue[prod.ID])
		s.Products = append(s.Products, prod)

		daily := math.Round(demand[prod.ID]/float64(cfg.Months*30)*100) / 100
		s.Inventory = append(s.Inventory, analytics.InventoryItem{
			ProductID:       prod.ID,
			Stock:           math.Round(daily * float64(rng.Intn(120))),
			LeadTimeDays:    float64(5 + rng.Intn(20)),
			AvgDailySales:   daily,
			SafetyStockDays: float64(rng.Intn(10)),
		})
	}

	// 6. Leads
	for i := 0; i < cfg.Leads; i++ {
		s.Leads = append(s.Leads, analytics.Lead{
			ID:               fmt.Sprintf("lead-%03d", i+1),
			Name:             leadNames[i%len(leadNames)],
			JobTitle:         jobTitles[rng.Intn(len(jobTitles))],
			CompanySize:      []int{5, 40, 250, 900, 5000}[rng.Intn(5)],
			EmailOpens:       rng.Intn(10),
			WebsiteVisits:    rng.Intn(8),
			ContentDownloads: rng.Intn(4),
			DemoRequested:    rng.Float64() < 0.3,
			Budget:           float64(rng.Intn(20)) * 10000,
		})
	}

	// 7. Targets a notch above the recent run rate
	recent := s.Revenue[len(s.Revenue)-1].Value
	s.Targets = &analytics.Targets{MonthlyRevenue: math.Round(recent * 1.1), ConversionRate: 0.3}

	return snapshot.FromSnapshot(s), nil
}

// Save writes the generated snapshot.
func Save(path string, f snapshot.File) error {
	return snapshot.Save(path, f)
}

func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

func pick(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}
