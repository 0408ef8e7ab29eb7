package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cafe-sklad-api/internal/middleware"
	"cafe-sklad-api/internal/service"
	"cafe-sklad-api/pkg/apierror"
	"cafe-sklad-api/pkg/qr"
	"cafe-sklad-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// historyWarning is surfaced when a quantity change committed but its
// history entry could not be written.
const historyWarning = "quantity change applied but could not be recorded in history"

// InventoryHandler handles inventory HTTP requests.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// List handles GET /api/v1/items
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	items, err := h.inventory.List(r.Context(), sess)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, items)
}

// createRequest is the body for item creation.
type createRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Create handles POST /api/v1/items
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	item, err := h.inventory.Create(r.Context(), sess, req.Name, req.Quantity, req.Unit)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, item)
}

// Get handles GET /api/v1/items/{id}
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, item)
}

// adjustRequest is the body for quantity adjustment.
type adjustRequest struct {
	Delta float64 `json:"delta"`
}

// Adjust handles POST /api/v1/items/{id}/adjust
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	result, err := h.inventory.Adjust(r.Context(), sess, chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		response.Error(w, err)
		return
	}

	if result.AppliedDelta != 0 && !result.HistoryLogged {
		response.JSONWithWarning(w, http.StatusOK, result, historyWarning)
		return
	}
	response.OK(w, result)
}

// Delete handles DELETE /api/v1/items/{id}
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	if err := h.inventory.Delete(r.Context(), sess, chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

// QRCode handles GET /api/v1/items/{id}/qrcode and serves a printable PNG
// label for the item.
func (h *InventoryHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	size := 256
	if raw := r.URL.Query().Get("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 64 && parsed <= 1024 {
			size = parsed
		}
	}

	png, err := qr.Image(item.ID, item.Name, size)
	if err != nil {
		response.Error(w, apierror.Internal("failed to render QR code"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
