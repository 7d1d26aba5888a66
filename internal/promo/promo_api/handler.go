package promo_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"pos-backend/internal/logger"
	"pos-backend/internal/models"
)

type PromoService interface {
	Status() (models.PromoStatus, error)
	SetOverride(enabled bool) (models.PromoStatus, error)
}

type Handler struct {
	PromoService PromoService
	Logger       *logger.Logger
}

func (h *Handler) GetPromo(w http.ResponseWriter, r *http.Request) {
	status, err := h.PromoService.Status()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetPromo: %v", err))
		writeError(w, http.StatusInternalServerError, "No se pudo cargar la promoción.")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) SetPromo(w http.ResponseWriter, r *http.Request) {
	// Pointer field so a missing flag and a non-boolean value are both
	// rejected, never defaulted.
	var req struct {
		ManualOverrideEnabled *bool `json:"manualOverrideEnabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ManualOverrideEnabled == nil {
		writeError(w, http.StatusBadRequest, "manualOverrideEnabled inválido.")
		return
	}

	status, err := h.PromoService.SetOverride(*req.ManualOverrideEnabled)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SetPromo: %v", err))
		writeError(w, http.StatusInternalServerError, "No se pudo actualizar la promoción.")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
