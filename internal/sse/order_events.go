package sse

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"pos-backend/internal/models"
)

// OrderEventEmitter fans order lifecycle events out to every connected
// viewer. Delivery is at-most-once with no replay: a subscriber that connects
// after an event was published never sees it, and a subscriber whose buffer
// is full is skipped for that event.
type OrderEventEmitter struct {
	mu      sync.RWMutex
	clients map[string]chan models.OrderEvent
}

func NewOrderEventEmitter() *OrderEventEmitter {
	return &OrderEventEmitter{
		clients: make(map[string]chan models.OrderEvent),
	}
}

// Subscribe registers a new viewer. The subscription is removed and its
// channel closed when ctx ends.
func (e *OrderEventEmitter) Subscribe(ctx context.Context) <-chan models.OrderEvent {
	clientChan := make(chan models.OrderEvent, 16)
	id := uuid.NewString()

	e.mu.Lock()
	e.clients[id] = clientChan
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(id)
	}()

	return clientChan
}

// Publish delivers the event to a snapshot of the current subscribers. The
// registry is never mutated while iterating, and sends never block.
func (e *OrderEventEmitter) Publish(event string, order models.Order) {
	e.mu.RLock()
	snapshot := make([]chan models.OrderEvent, 0, len(e.clients))
	for _, clientChan := range e.clients {
		snapshot = append(snapshot, clientChan)
	}
	e.mu.RUnlock()

	for _, clientChan := range snapshot {
		select {
		case clientChan <- models.OrderEvent{Event: event, Data: order}:
		default:
			// Buffer full: drop for this subscriber rather than stall the
			// mutation path.
		}
	}
}

// ClientCount returns the number of currently connected subscribers.
func (e *OrderEventEmitter) ClientCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients)
}

func (e *OrderEventEmitter) remove(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if clientChan, ok := e.clients[id]; ok {
		delete(e.clients, id)
		close(clientChan)
	}
}
