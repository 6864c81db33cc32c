package orders

import (
	"math"

	"github.com/vivek-vk7/AgroSustain/models"
)

const (
	freeShippingOver = 100.0 // strictly greater than
	flatShippingFee  = 10.0
	taxRate          = 0.15
)

// PriceBreakdown is the server-computed order pricing. It is derived
// from the frozen item snapshot once, at creation, and never
// recomputed from live catalog prices.
type PriceBreakdown struct {
	ItemsPrice    float64
	ShippingPrice float64
	TaxPrice      float64
	TotalPrice    float64
}

// ComputePrices derives the full breakdown from snapshot items:
// items total, flat shipping waived above the threshold, 15% tax
// rounded to cents, and the grand total.
func ComputePrices(items []models.OrderItem) PriceBreakdown {
	var itemsPrice float64
	for _, item := range items {
		itemsPrice += item.Price * float64(item.Quantity)
	}
	itemsPrice = round2(itemsPrice)

	shipping := flatShippingFee
	if itemsPrice > freeShippingOver {
		shipping = 0
	}

	tax := round2(taxRate * itemsPrice)

	return PriceBreakdown{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    round2(itemsPrice + shipping + tax),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
