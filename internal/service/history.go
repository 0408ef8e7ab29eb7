package service

import (
	"context"

	"cafe-sklad-api/internal/model"
	"cafe-sklad-api/internal/repository"
	"cafe-sklad-api/pkg/apierror"
)

// DefaultHistoryLimit caps a history listing; it is also the hard maximum.
const DefaultHistoryLimit = 100

// HistoryService reads the change log. Writes happen only as a side effect
// of inventory adjustments; there is no path that updates or removes entries.
type HistoryService struct {
	history repository.HistoryRepository
}

// NewHistoryService creates a new history service.
func NewHistoryService(history repository.HistoryRepository) *HistoryService {
	return &HistoryService{history: history}
}

// List returns the newest entries for the session's café, newest first.
// A limit outside (0, DefaultHistoryLimit] falls back to the default.
func (s *HistoryService) List(ctx context.Context, sess *model.SessionData, limit int) ([]model.HistoryEntry, error) {
	if sess.CafeID == "" {
		return nil, apierror.Access("No café assigned to this account yet")
	}
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	entries, err := s.history.List(ctx, sess.CafeID, limit)
	if err != nil {
		return nil, apierror.Access("")
	}
	return entries, nil
}
