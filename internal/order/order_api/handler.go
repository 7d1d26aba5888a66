package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pos-backend/internal/logger"
	"pos-backend/internal/models"
	"pos-backend/internal/order/qr"
)

// OrderService is the slice of the lifecycle manager the handlers need.
type OrderService interface {
	Submit(req models.OrderRequest) (*models.Order, error)
	Transition(id, newStatus string) (*models.Order, error)
	Get(id string) (*models.Order, error)
	List(status string) ([]models.Order, error)
}

type Handler struct {
	OrderService OrderService
	Receipts     *qr.ReceiptGenerator
	Logger       *logger.Logger
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	orders, err := h.OrderService.List(status)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: %v", err))
		writeError(w, http.StatusInternalServerError, "No se pudieron cargar las órdenes.")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("SubmitOrder: failed to decode request body: %v", err))
		writeError(w, http.StatusBadRequest, "Cuerpo de la orden inválido.")
		return
	}

	order, err := h.OrderService.Submit(req)
	if err != nil {
		if models.IsValidationError(err) {
			h.Logger.Warn("API", fmt.Sprintf("SubmitOrder: rejected: %v", err))
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("API", fmt.Sprintf("SubmitOrder: %v", err))
		writeError(w, http.StatusInternalServerError, "No se pudo guardar la orden.")
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.OrderService.Get(orderID)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Orden no encontrada.")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetOrder: %v", err))
		writeError(w, http.StatusInternalServerError, "No se pudo cargar la orden.")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req models.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Status inválido.")
		return
	}

	order, err := h.OrderService.Transition(orderID, req.Status)
	if err != nil {
		switch {
		case models.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "Orden no encontrada.")
		default:
			h.Logger.Error("API", fmt.Sprintf("UpdateOrderStatus: %v", err))
			writeError(w, http.StatusInternalServerError, "No se pudo actualizar la orden.")
		}
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// GetOrderReceipt renders a pickup receipt QR for the order.
func (h *Handler) GetOrderReceipt(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.OrderService.Get(orderID)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Orden no encontrada.")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetOrderReceipt: %v", err))
		writeError(w, http.StatusInternalServerError, "No se pudo cargar la orden.")
		return
	}

	png, err := h.Receipts.GeneratePNG(*order)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrderReceipt: failed to render QR: %v", err))
		writeError(w, http.StatusInternalServerError, "No se pudo generar el recibo.")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
