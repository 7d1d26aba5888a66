package catalog_api

import (
	"encoding/json"
	"net/http"

	"pos-backend/internal/logger"
	"pos-backend/internal/models"
)

type MenuProvider interface {
	Snapshot() models.Menu
}

type Handler struct {
	Catalog MenuProvider
	Logger  *logger.Logger
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Catalog.Snapshot())
}
