package models

// Event names pushed to connected viewers. "connected" is a handshake signal
// sent once per subscription; the order events carry the full order.
const (
	EventConnected    = "connected"
	EventOrderNew     = "order:new"
	EventOrderUpdated = "order:updated"
)

type OrderEvent struct {
	Event string `json:"event"`
	Data  Order  `json:"data"`
}
