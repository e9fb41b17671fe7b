package analytics

import (
	"fmt"
	"math"
)

// PriceSuggestion is a proposed price change for one product.
type PriceSuggestion struct {
	ProductID      string  `json:"product_id"`
	CurrentPrice   float64 `json:"current_price"`
	SuggestedPrice float64 `json:"suggested_price"`
	ChangePercent  float64 `json:"change_percent"`
	DemandIndex    float64 `json:"demand_index"`
	Reason         string  `json:"reason"`
}

// StockStatus classifies an inventory position.
type StockStatus string

const (
	StockCritical  StockStatus = "critical"
	StockReorder   StockStatus = "reorder"
	StockOverstock StockStatus = "overstock"
	StockHealthy   StockStatus = "healthy"
	StockNoDemand  StockStatus = "no_demand"
)

// DefaultSafetyStockDays applies when an item declares no safety stock.
const DefaultSafetyStockDays = 7

// overstockCoverDays is the days of cover above which stock is considered excessive.
const overstockCoverDays = 90

// InventoryAlert is the stock review of one item.
type InventoryAlert struct {
	ProductID         string      `json:"product_id"`
	Status            StockStatus `json:"status"`
	Stock             float64     `json:"stock"`
	ReorderPoint      float64     `json:"reorder_point"`
	DaysOfCover       float64     `json:"days_of_cover"`
	SuggestedQuantity int         `json:"suggested_quantity"`
}

// Optimizations groups pricing and inventory suggestions.
type Optimizations struct {
	Pricing   []PriceSuggestion `json:"pricing"`
	Inventory []InventoryAlert  `json:"inventory"`
}

// SuggestPrices proposes price moves from relative demand. A product's demand index
// is its demand over the catalog mean; the suggestion is capped at 115% of a known
// competitor price and floored at 110% of a known unit cost.
func SuggestPrices(products []Product) []PriceSuggestion {
	var sum float64
	var n int
	for _, p := range products {
		if p.Price > 0 && isFinite(p.Demand) {
			sum += p.Demand
			n++
		}
	}
	mean := ratio(sum, float64(n))
	out := []PriceSuggestion{}
	if mean <= 0 {
		return out
	}

	for _, p := range products {
		if p.Price <= 0 || !isFinite(p.Demand) {
			continue
		}
		idx := p.Demand / mean

		// 1. Demand tier
		change, reason := 0.0, "Demand in line with catalog average"
		switch {
		case idx >= 1.5:
			change, reason = 0.10, "Demand well above catalog average"
		case idx >= 1.2:
			change, reason = 0.05, "Demand above catalog average"
		case idx <= 0.5:
			change, reason = -0.10, "Demand well below catalog average"
		case idx <= 0.8:
			change, reason = -0.05, "Demand below catalog average"
		}
		suggested := p.Price * (1 + change)

		// 2. Market ceiling and margin floor
		if p.CompetitorPrice > 0 && suggested > p.CompetitorPrice*1.15 {
			suggested = p.CompetitorPrice * 1.15
			reason += "; capped near competitor price"
		}
		if p.Cost > 0 && suggested < p.Cost*1.1 {
			suggested = p.Cost * 1.1
			reason += "; held at minimum margin"
		}

		suggested = round2(suggested)
		out = append(out, PriceSuggestion{
			ProductID:      p.ID,
			CurrentPrice:   p.Price,
			SuggestedPrice: suggested,
			ChangePercent:  round2((suggested - p.Price) / p.Price * 100),
			DemandIndex:    round2(idx),
			Reason:         reason,
		})
	}
	return out
}

// PlanInventory reviews stock positions against reorder points.
func PlanInventory(items []InventoryItem) []InventoryAlert {
	out := make([]InventoryAlert, 0, len(items))
	for _, it := range items {
		out = append(out, reviewItem(it))
	}
	return out
}

func reviewItem(it InventoryItem) InventoryAlert {
	alert := InventoryAlert{ProductID: it.ProductID, Stock: it.Stock, Status: StockNoDemand}
	if !isFinite(it.AvgDailySales) || it.AvgDailySales <= 0 {
		return alert
	}

	safety := it.SafetyStockDays
	if safety <= 0 {
		safety = DefaultSafetyStockDays
	}
	lead := math.Max(0, it.LeadTimeDays)
	daily := it.AvgDailySales

	alert.ReorderPoint = round2(daily * (lead + safety))
	alert.DaysOfCover = round2(it.Stock / daily)

	switch {
	case it.Stock <= daily*lead:
		alert.Status = StockCritical
	case it.Stock <= daily*(lead+safety):
		alert.Status = StockReorder
	case it.Stock/daily > overstockCoverDays:
		alert.Status = StockOverstock
	default:
		alert.Status = StockHealthy
	}

	if alert.Status == StockCritical || alert.Status == StockReorder {
		alert.SuggestedQuantity = int(math.Max(0, math.Ceil(daily*(lead+safety+30)-it.Stock)))
	}
	return alert
}

// String renders a one line summary.
func (a InventoryAlert) String() string {
	return fmt.Sprintf("%s: %s (stock %.0f, reorder point %.0f)", a.ProductID, a.Status, a.Stock, a.ReorderPoint)
}
