package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"
)

// seniorTitleKeywords mark decision makers. Matching is on whole words, case insensitive.
var seniorTitleKeywords = []string{
	"ceo", "cto", "cfo", "coo", "cmo", "chief", "vp", "vice president",
	"president", "director", "head", "founder", "owner", "partner",
}

// ScoreLead applies the additive point model to a lead.
func ScoreLead(l Lead) LeadScore {
	score := 0
	var factors []string

	// 1. Company size
	switch {
	case l.CompanySize > 1000:
		score += 25
		factors = append(factors, "Enterprise company (1000+ employees)")
	case l.CompanySize > 100:
		score += 15
		factors = append(factors, "Mid-size company (100+ employees)")
	case l.CompanySize > 10:
		score += 10
		factors = append(factors, "Small business (10+ employees)")
	}

	// 2. Seniority
	if kw, ok := seniorKeyword(l.JobTitle); ok {
		score += 20
		factors = append(factors, fmt.Sprintf("Decision maker title (%s)", kw))
	}

	// 3. Engagement
	if l.EmailOpens > 5 {
		score += 10
		factors = append(factors, "High email engagement")
	}
	if l.WebsiteVisits > 3 {
		score += 15
		factors = append(factors, "Frequent website visits")
	}
	if l.ContentDownloads > 0 {
		score += 10
		factors = append(factors, "Downloaded content")
	}
	if l.DemoRequested {
		score += 25
		factors = append(factors, "Requested a demo")
	}

	// 4. Budget
	switch {
	case l.Budget > 100000:
		score += 30
		factors = append(factors, "Budget above 100k")
	case l.Budget > 50000:
		score += 20
		factors = append(factors, "Budget above 50k")
	case l.Budget > 10000:
		score += 10
		factors = append(factors, "Budget above 10k")
	}

	if score > 100 {
		score = 100
	}
	if factors == nil {
		factors = []string{}
	}
	return LeadScore{LeadID: l.ID, Score: score, Grade: grade(score), Factors: factors}
}

func grade(score int) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	default:
		return "D"
	}
}

func seniorKeyword(title string) (string, bool) {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "", false
	}
	normalized := " " + strings.Join(words, " ") + " "
	for _, kw := range seniorTitleKeywords {
		if strings.Contains(normalized, " "+kw+" ") {
			return kw, true
		}
	}
	return "", false
}

// ScoreLeads scores every lead, highest score first, ties broken by id.
func ScoreLeads(leads []Lead) []LeadScore {
	scores := make([]LeadScore, 0, len(leads))
	for _, l := range leads {
		scores = append(scores, ScoreLead(l))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].LeadID < scores[j].LeadID
	})
	return scores
}

// AssessChurn estimates the churn probability of a customer at asOf. Points are
// accumulated in hundredths so the maximum case lands exactly on 1.0.
func AssessChurn(c Customer, asOf time.Time) ChurnAssessment {
	points := 0
	var factors []string

	// 1. Recency
	last := c.LastSeen()
	days := math.MaxInt32
	if !last.IsZero() {
		days = daysBetween(last, asOf)
	}
	switch {
	case days > 90:
		points += 30
		if last.IsZero() {
			factors = append(factors, "No recorded purchase")
		} else {
			factors = append(factors, fmt.Sprintf("No purchase in %d days", days))
		}
	case days > 60:
		points += 20
		factors = append(factors, fmt.Sprintf("No purchase in %d days", days))
	case days > 30:
		points += 10
		factors = append(factors, fmt.Sprintf("No purchase in %d days", days))
	}

	// 2. Support load
	switch {
	case c.SupportTickets > 5:
		points += 20
		factors = append(factors, fmt.Sprintf("High support volume (%d tickets)", c.SupportTickets))
	case c.SupportTickets > 2:
		points += 10
		factors = append(factors, fmt.Sprintf("Elevated support volume (%d tickets)", c.SupportTickets))
	}

	// 3. Engagement
	switch {
	case c.EngagementScore < 30:
		points += 30
		factors = append(factors, "Very low engagement")
	case c.EngagementScore < 50:
		points += 20
		factors = append(factors, "Low engagement")
	}

	// 4. Billing
	if c.PaymentIssues > 0 {
		points += 20
		factors = append(factors, "Payment issues on record")
	}

	if points > 100 {
		points = 100
	}
	p := float64(points) / 100

	level := LevelLow
	switch {
	case p > 0.7:
		level = LevelHigh
	case p > 0.4:
		level = LevelMedium
	}
	if factors == nil {
		factors = []string{}
	}
	return ChurnAssessment{CustomerID: c.ID, ChurnProbability: p, RiskLevel: level, Factors: factors}
}

// AssessCustomers assesses every customer, highest probability first, ties broken by id.
func AssessCustomers(customers []Customer, asOf time.Time) []ChurnAssessment {
	out := make([]ChurnAssessment, 0, len(customers))
	for _, c := range customers {
		out = append(out, AssessChurn(c, asOf))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ChurnProbability != out[j].ChurnProbability {
			return out[i].ChurnProbability > out[j].ChurnProbability
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}
