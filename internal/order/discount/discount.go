package discount

import (
	"sort"

	"pos-backend/internal/models"
)

// CatalogLookup resolves a product id to its catalog entry. Only category
// membership matters here; prices come from the submitted line items.
type CatalogLookup interface {
	GetProduct(id string) (models.Product, bool)
}

// Calculator computes the 2x1 pairing discount over one product category.
// Qualifying units are paired greedily from the most expensive down and the
// cheaper member of each pair is waived, which maximizes the customer's
// benefit and makes the result independent of input ordering.
type Calculator struct {
	Category string
}

func NewCalculator() *Calculator {
	return &Calculator{Category: models.CategoryRamen}
}

// ComputeDiscount returns the waived amount for the given line items. It
// never fails: malformed items (non-positive quantity, negative unit price,
// unresolvable product) are excluded from the calculation, not rejected.
func (c *Calculator) ComputeDiscount(items []models.OrderLineItem, catalog CatalogLookup) float64 {
	var prices []float64
	for _, item := range items {
		if item.Qty <= 0 || item.UnitPrice < 0 {
			continue
		}
		product, ok := catalog.GetProduct(item.ProductID)
		if !ok || product.Category != c.Category {
			continue
		}
		// A configured item's unit price already folds in its extras, so
		// each unit enters the pairing at its effective price.
		for i := 0; i < item.Qty; i++ {
			prices = append(prices, item.UnitPrice)
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(prices)))

	var discount float64
	for i := 1; i < len(prices); i += 2 {
		discount += prices[i]
	}
	return discount
}
