package handler

import (
	"net/http"
	"strconv"

	"cafe-sklad-api/internal/middleware"
	"cafe-sklad-api/internal/service"
	"cafe-sklad-api/pkg/response"
)

// HistoryHandler handles change-log HTTP requests.
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List handles GET /api/v1/history?limit=
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	entries, err := h.history.List(r.Context(), sess, limit)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, entries)
}
