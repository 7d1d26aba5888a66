package order_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"pos-backend/internal/logger"
	"pos-backend/internal/sse"
)

// SSEHandler streams order lifecycle events to the waiter and kitchen UIs.
type SSEHandler struct {
	Logger  *logger.Logger
	Emitter *sse.OrderEventEmitter
}

func NewSSEHandler(emitter *sse.OrderEventEmitter, log *logger.Logger) *SSEHandler {
	return &SSEHandler{
		Logger:  log,
		Emitter: emitter,
	}
}

func (h *SSEHandler) HandleOrderEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	setupSSEHeaders(w)

	ctx := r.Context()
	eventChan := h.Emitter.Subscribe(ctx)

	// Handshake signal, not a business event.
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"ok\"}\n\n")
	flusher.Flush()

	h.Logger.Info("SSE", fmt.Sprintf("Viewer connected (%d active)", h.Emitter.ClientCount()))

	for {
		select {
		case event, open := <-eventChan:
			if !open {
				return
			}

			jsonData, err := json.Marshal(event.Data)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize order event: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, jsonData)
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", "Viewer disconnected")
			return
		}
	}
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
