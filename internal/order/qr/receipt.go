package qr

import (
	"encoding/json"
	"time"

	"github.com/skip2/go-qrcode"

	"pos-backend/internal/models"
)

// ReceiptGenerator renders a pickup receipt QR for an order. The payload is
// plain JSON: receipts are public display data shown at the counter, not
// entry credentials.
type ReceiptGenerator struct {
	Size int
}

func NewReceiptGenerator() *ReceiptGenerator {
	return &ReceiptGenerator{Size: 256}
}

type receiptPayload struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// GeneratePNG encodes the order's receipt payload as a PNG QR image.
func (g *ReceiptGenerator) GeneratePNG(order models.Order) ([]byte, error) {
	payload := receiptPayload{
		OrderID:   order.ID,
		Status:    order.Status,
		Total:     order.Totals.EffectiveTotal(),
		CreatedAt: order.CreatedAt,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(data), qrcode.Medium, g.Size)
}
