package handler

import (
	"encoding/json"
	"net/http"

	"cafe-sklad-api/internal/middleware"
	"cafe-sklad-api/internal/service"
	"cafe-sklad-api/pkg/apierror"
	"cafe-sklad-api/pkg/qr"
	"cafe-sklad-api/pkg/response"
)

// ScanHandler resolves scanned QR payloads to items and applies
// scan-triggered stock reductions.
type ScanHandler struct {
	inventory *service.InventoryService
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(inventory *service.InventoryService) *ScanHandler {
	return &ScanHandler{inventory: inventory}
}

// scanRequest is the body for payload resolution.
type scanRequest struct {
	Payload string `json:"payload"`
}

// Resolve handles POST /api/v1/scan: decode the payload (structured JSON or
// raw identifier text) and look the item up.
func (h *ScanHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Payload == "" {
		response.Error(w, apierror.Validation("payload is required"))
		return
	}

	decoded := qr.Decode(req.Payload)
	item, err := h.inventory.FindByIdentifier(r.Context(), decoded.ItemID())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, item)
}

// reduceRequest is the body for a scan-triggered reduction.
type reduceRequest struct {
	Payload string  `json:"payload"`
	Amount  float64 `json:"amount"`
}

// Reduce handles POST /api/v1/scan/reduce: resolve the payload, then take
// the given amount out of stock. An absent amount defaults to 1.
func (h *ScanHandler) Reduce(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req reduceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Payload == "" {
		response.Error(w, apierror.Validation("payload is required"))
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}
	if req.Amount < 0 {
		response.Error(w, apierror.Validation("amount must be positive"))
		return
	}

	decoded := qr.Decode(req.Payload)
	item, err := h.inventory.FindByIdentifier(r.Context(), decoded.ItemID())
	if err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.inventory.Adjust(r.Context(), sess, item.ID, -req.Amount)
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
