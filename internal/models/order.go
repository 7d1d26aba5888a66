package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Order statuses as shown on the kitchen display. The lifecycle is
// pending → preparing → ready, but transitions are deliberately not
// restricted to forward moves so staff can correct mistakes.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusPreparing, StatusReady:
		return true
	}
	return false
}

// LineItemExtra is an add-on nested under a configured ramen line item.
type LineItemExtra struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
}

// LineItemMeta is configuration captured by the waiter UI wizard. The backend
// stores and echoes it for display; it never affects pricing, which is already
// folded into the parent item's unit price.
type LineItemMeta struct {
	Size   string          `json:"size,omitempty"`
	Spicy  string          `json:"spicy,omitempty"`
	Extras []LineItemExtra `json:"extras,omitempty"`
}

type OrderLineItem struct {
	ProductID string        `json:"productId"`
	Name      string        `json:"name"`
	Qty       int           `json:"qty"`
	UnitPrice float64       `json:"unitPrice"`
	Meta      *LineItemMeta `json:"meta,omitempty"`
}

// Totals carries the caller-computed subtotal and total. TotalFinal is only
// set when a promotion was applied at submission time.
type Totals struct {
	Subtotal   float64  `json:"subtotal"`
	Total      float64  `json:"total"`
	TotalFinal *float64 `json:"totalFinal,omitempty"`
}

// EffectiveTotal returns the amount actually owed: the discounted total when
// a promo was applied, the plain total otherwise.
func (t Totals) EffectiveTotal() float64 {
	if t.TotalFinal != nil {
		return *t.TotalFinal
	}
	return t.Total
}

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID             string          `bun:"id,pk" json:"id"`
	CreatedAt      time.Time       `bun:"created_at,notnull" json:"createdAt"`
	Status         string          `bun:"status,notnull" json:"status"`
	Items          []OrderLineItem `bun:"items" json:"items"`
	Totals         Totals          `bun:"totals" json:"totals"`
	Notes          string          `bun:"notes" json:"notes"`
	PromoApplied   bool            `bun:"promo_applied" json:"promoApplied"`
	PromoType      string          `bun:"promo_type" json:"promoType"`
	PromoSource    string          `bun:"promo_source" json:"promoSource"`
	PromoDiscount  float64         `bun:"promo_discount" json:"promoDiscount"`
	PromoTimestamp time.Time       `bun:"promo_timestamp,nullzero" json:"promoTimestamp"`
}

// OrderTotalsRequest uses a pointer for the total so a missing field can be
// told apart from an explicit zero, mirroring the boundary validation rule.
type OrderTotalsRequest struct {
	Subtotal float64  `json:"subtotal"`
	Total    *float64 `json:"total"`
}

type OrderRequest struct {
	Items  []OrderLineItem     `json:"items"`
	Totals *OrderTotalsRequest `json:"totals"`
	Notes  string              `json:"notes"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
