package snapshot

import (
	"errors"
	"fmt"
	"time"

	"crm-insights/internal/analytics"
)

// ErrInvalidSnapshot is returned when a snapshot document is malformed.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

type dateParser struct {
	errs []error
}

func (p *dateParser) parse(field, value string) time.Time {
	parsed, err := ParseTime(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", field, err))
	}
	return parsed
}

func (p *dateParser) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSnapshot, errors.Join(p.errs...))
}

// ToSnapshot maps the wire format to the engine's snapshot. Absent collections
// stay nil so analyses can tell missing data from empty data.
func ToSnapshot(f File) (analytics.Snapshot, error) {
	var p dateParser
	s := analytics.Snapshot{AsOf: p.parse("as_of", f.AsOf)}

	if f.Revenue != nil {
		s.Revenue = make([]analytics.SeriesPoint, len(f.Revenue))
		for i, r := range f.Revenue {
			s.Revenue[i] = analytics.SeriesPoint{
				Date:  p.parse(fmt.Sprintf("revenue[%d].date", i), r.Date),
				Value: r.Amount,
			}
		}
	}

	if f.Customers != nil {
		s.Customers = make([]analytics.Customer, len(f.Customers))
		for i, c := range f.Customers {
			s.Customers[i] = analytics.Customer{
				ID:              c.ID,
				Name:            c.Name,
				Status:          c.Status,
				LifetimeValue:   c.LifetimeValue,
				SignupDate:      p.parse(fmt.Sprintf("customers[%d].signup_date", i), c.SignupDate),
				LastPurchaseAt:  p.parse(fmt.Sprintf("customers[%d].last_purchase", i), c.LastPurchase),
				LastActivityAt:  p.parse(fmt.Sprintf("customers[%d].last_activity", i), c.LastActivity),
				TotalOrders:     c.TotalOrders,
				TotalSpent:      c.TotalSpent,
				RiskScore:       c.RiskScore,
				EngagementScore: c.EngagementScore,
				SupportTickets:  c.SupportTickets,
				PaymentIssues:   c.PaymentIssues,
			}
		}
	}

	if f.Sales != nil {
		s.Sales = make([]analytics.Order, len(f.Sales))
		for i, o := range f.Sales {
			s.Sales[i] = analytics.Order{
				ID:         o.ID,
				CustomerID: o.CustomerID,
				ProductID:  o.ProductID,
				Amount:     o.Amount,
				Closed:     o.Closed,
				Date:       p.parse(fmt.Sprintf("sales[%d].date", i), o.Date),
			}
		}
	}

	if f.Marketing != nil {
		s.Marketing = make([]analytics.Campaign, len(f.Marketing))
		for i, c := range f.Marketing {
			s.Marketing[i] = analytics.Campaign{
				ID:          c.ID,
				Name:        c.Name,
				Channel:     c.Channel,
				Spend:       c.Spend,
				Revenue:     c.Revenue,
				Conversions: c.Conversions,
				Touchpoints: c.Touchpoints,
				ROI:         c.ROI,
			}
		}
	}

	if f.Conversions != nil {
		s.Conversions = make([]analytics.Conversion, len(f.Conversions))
		for i, c := range f.Conversions {
			conv := analytics.Conversion{
				ID:          c.ID,
				CustomerID:  c.CustomerID,
				Value:       c.Value,
				Date:        p.parse(fmt.Sprintf("conversions[%d].date", i), c.Date),
				Touchpoints: make([]analytics.Touchpoint, len(c.Touchpoints)),
			}
			for j, tp := range c.Touchpoints {
				conv.Touchpoints[j] = analytics.Touchpoint{
					CampaignID: tp.CampaignID,
					Channel:    tp.Channel,
					Timestamp:  p.parse(fmt.Sprintf("conversions[%d].touchpoints[%d].timestamp", i, j), tp.Timestamp),
				}
			}
			s.Conversions[i] = conv
		}
	}

	if f.Leads != nil {
		s.Leads = make([]analytics.Lead, len(f.Leads))
		for i, l := range f.Leads {
			s.Leads[i] = analytics.Lead(l)
		}
	}

	if f.Products != nil {
		s.Products = make([]analytics.Product, len(f.Products))
		for i, pr := range f.Products {
			s.Products[i] = analytics.Product{
				ID:              pr.ID,
				Name:            pr.Name,
				Price:           pr.Price,
				Cost:            pr.Cost,
				CompetitorPrice: pr.CompetitorPrice,
				Demand:          pr.Demand,
				Revenue:         pr.Revenue,
			}
		}
	}

	if f.Inventory != nil {
		s.Inventory = make([]analytics.InventoryItem, len(f.Inventory))
		for i, it := range f.Inventory {
			s.Inventory[i] = analytics.InventoryItem(it)
		}
	}

	if f.Targets != nil {
		s.Targets = &analytics.Targets{
			MonthlyRevenue: f.Targets.MonthlyRevenue,
			ConversionRate: f.Targets.ConversionRate,
		}
	}

	if err := p.err(); err != nil {
		return analytics.Snapshot{}, err
	}
	return s, nil
}

// FromSnapshot maps an engine snapshot back to the wire format.
func FromSnapshot(s analytics.Snapshot) File {
	f := File{AsOf: FormatTime(s.AsOf)}

	if s.Revenue != nil {
		f.Revenue = make([]RevenueDTO, len(s.Revenue))
		for i, r := range s.Revenue {
			f.Revenue[i] = RevenueDTO{Date: FormatTime(r.Date), Amount: r.Value}
		}
	}

	if s.Customers != nil {
		f.Customers = make([]CustomerDTO, len(s.Customers))
		for i, c := range s.Customers {
			f.Customers[i] = CustomerDTO{
				ID:              c.ID,
				Name:            c.Name,
				Status:          c.Status,
				LifetimeValue:   c.LifetimeValue,
				SignupDate:      FormatTime(c.SignupDate),
				LastPurchase:    FormatTime(c.LastPurchaseAt),
				LastActivity:    FormatTime(c.LastActivityAt),
				TotalOrders:     c.TotalOrders,
				TotalSpent:      c.TotalSpent,
				RiskScore:       c.RiskScore,
				EngagementScore: c.EngagementScore,
				SupportTickets:  c.SupportTickets,
				PaymentIssues:   c.PaymentIssues,
			}
		}
	}

	if s.Sales != nil {
		f.Sales = make([]OrderDTO, len(s.Sales))
		for i, o := range s.Sales {
			f.Sales[i] = OrderDTO{
				ID:         o.ID,
				CustomerID: o.CustomerID,
				ProductID:  o.ProductID,
				Amount:     o.Amount,
				Closed:     o.Closed,
				Date:       FormatTime(o.Date),
			}
		}
	}

	if s.Marketing != nil {
		f.Marketing = make([]CampaignDTO, len(s.Marketing))
		for i, c := range s.Marketing {
			f.Marketing[i] = CampaignDTO{
				ID:          c.ID,
				Name:        c.Name,
				Channel:     c.Channel,
				Spend:       c.Spend,
				Revenue:     c.Revenue,
				ROI:         c.ROI,
				Conversions: c.Conversions,
				Touchpoints: c.Touchpoints,
			}
		}
	}

	if s.Conversions != nil {
		f.Conversions = make([]ConversionDTO, len(s.Conversions))
		for i, c := range s.Conversions {
			dto := ConversionDTO{
				ID:          c.ID,
				CustomerID:  c.CustomerID,
				Value:       c.Value,
				Date:        FormatTime(c.Date),
				Touchpoints: make([]TouchpointDTO, len(c.Touchpoints)),
			}
			for j, tp := range c.Touchpoints {
				dto.Touchpoints[j] = TouchpointDTO{CampaignID: tp.CampaignID, Channel: tp.Channel, Timestamp: FormatTime(tp.Timestamp)}
			}
			f.Conversions[i] = dto
		}
	}

	if s.Leads != nil {
		f.Leads = make([]LeadDTO, len(s.Leads))
		for i, l := range s.Leads {
			f.Leads[i] = LeadDTO(l)
		}
	}

	if s.Products != nil {
		f.Products = make([]ProductDTO, len(s.Products))
		for i, p := range s.Products {
			f.Products[i] = ProductDTO{
				ID:              p.ID,
				Name:            p.Name,
				Price:           p.Price,
				Cost:            p.Cost,
				CompetitorPrice: p.CompetitorPrice,
				Demand:          p.Demand,
				Revenue:         p.Revenue,
			}
		}
	}

	if s.Inventory != nil {
		f.Inventory = make([]InventoryDTO, len(s.Inventory))
		for i, it := range s.Inventory {
			f.Inventory[i] = InventoryDTO(it)
		}
	}

	if s.Targets != nil {
		f.Targets = &TargetsDTO{MonthlyRevenue: s.Targets.MonthlyRevenue, ConversionRate: s.Targets.ConversionRate}
	}
	return f
}
