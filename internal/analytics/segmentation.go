package analytics

import "time"

// Segment is a named RFM bucket.
type Segment string

const (
	SegmentChampions          Segment = "champions"
	SegmentLoyalCustomers     Segment = "loyalCustomers"
	SegmentPotentialLoyalists Segment = "potentialLoyalists"
	SegmentNewCustomers       Segment = "newCustomers"
	SegmentPromisers          Segment = "promisers"
	SegmentNeedsAttention     Segment = "needsAttention"
	SegmentAboutToSleep       Segment = "aboutToSleep"
	SegmentAtRisk             Segment = "atRisk"
	SegmentCannotLoseThem     Segment = "cannotLoseThem"
	SegmentHibernating        Segment = "hibernating"
	SegmentLost               Segment = "lost"
)

// Segments lists every bucket in rule order.
var Segments = []Segment{
	SegmentChampions,
	SegmentLoyalCustomers,
	SegmentPotentialLoyalists,
	SegmentNewCustomers,
	SegmentPromisers,
	SegmentNeedsAttention,
	SegmentAboutToSleep,
	SegmentAtRisk,
	SegmentCannotLoseThem,
	SegmentHibernating,
	SegmentLost,
}

// RFMScore holds the three 1-5 sub-scores of a customer.
type RFMScore struct {
	Recency   int `json:"recency"`
	Frequency int `json:"frequency"`
	Monetary  int `json:"monetary"`
}

// Total is the sum of the sub-scores, between 3 and 15.
func (s RFMScore) Total() int {
	return s.Recency + s.Frequency + s.Monetary
}

// ScoreRFM computes the recency, frequency and monetary sub-scores at asOf.
// A customer that never purchased gets the lowest recency.
func ScoreRFM(c Customer, asOf time.Time) RFMScore {
	recency := 1
	if !c.LastPurchaseAt.IsZero() {
		recency = clampInt(1, 5, 6-daysBetween(c.LastPurchaseAt, asOf)/30)
	}
	monetary := 1
	if isFinite(c.TotalSpent) && c.TotalSpent > 0 {
		monetary = clampInt(1, 5, int(c.TotalSpent/1000))
	}
	return RFMScore{
		Recency:   recency,
		Frequency: clampInt(1, 5, c.TotalOrders/2),
		Monetary:  monetary,
	}
}

// Classify maps an RFM score to its segment. Rules are evaluated top to bottom.
func Classify(s RFMScore) Segment {
	total := s.Total()
	switch {
	case total >= 13:
		return SegmentChampions
	case total >= 11:
		return SegmentLoyalCustomers
	case total >= 9:
		return SegmentPotentialLoyalists
	case s.Recency >= 4 && total >= 7:
		return SegmentNewCustomers
	case total >= 7:
		return SegmentPromisers
	case total >= 5:
		return SegmentNeedsAttention
	case s.Recency <= 2 && total >= 4:
		return SegmentAboutToSleep
	case s.Monetary >= 3 && total >= 4:
		return SegmentCannotLoseThem
	case total >= 3:
		return SegmentHibernating
	default:
		return SegmentLost
	}
}

// SegmentCustomers partitions customers into RFM segments. Every segment key is
// present in the result; each distinct id lands in exactly one list, and a
// repeated id keeps the classification of its first occurrence.
func SegmentCustomers(customers []Customer, asOf time.Time) map[Segment][]string {
	out := make(map[Segment][]string, len(Segments))
	for _, s := range Segments {
		out[s] = []string{}
	}

	seen := make(map[string]bool, len(customers))
	for _, c := range customers {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		seg := Classify(ScoreRFM(c, asOf))
		out[seg] = append(out[seg], c.ID)
	}
	return out
}
