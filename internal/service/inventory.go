package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cafe-sklad-api/internal/model"
	"cafe-sklad-api/internal/repository"
	"cafe-sklad-api/pkg/apierror"
	"cafe-sklad-api/pkg/uid"
)

// AdjustResult reports the outcome of a quantity adjustment. AppliedDelta is
// the change actually persisted after zero-flooring and is what the history
// entry records; it differs from the requested delta when clamping occurred.
// HistoryLogged is false when the quantity update committed but the history
// append failed, an accepted inconsistency window that callers must surface.
type AdjustResult struct {
	Item          *model.InventoryItem `json:"item"`
	AppliedDelta  float64              `json:"applied_delta"`
	HistoryLogged bool                 `json:"history_logged"`
}

// InventoryService handles inventory business logic: tenant-scoped CRUD with
// quantity changes paired to history records.
type InventoryService struct {
	items   repository.InventoryRepository
	history repository.HistoryRepository
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(items repository.InventoryRepository, history repository.HistoryRepository) *InventoryService {
	return &InventoryService{items: items, history: history}
}

// List returns the session's café inventory ordered by name.
func (s *InventoryService) List(ctx context.Context, sess *model.SessionData) ([]model.InventoryItem, error) {
	if sess.CafeID == "" {
		return nil, apierror.Access("No café assigned to this account yet")
	}

	items, err := s.items.List(ctx, sess.CafeID)
	if err != nil {
		return nil, apierror.Access("")
	}
	return items, nil
}

// Create adds a new item to the session's café. The scan identifier is
// assigned here, once, and never changes for the item's lifetime.
func (s *InventoryService) Create(ctx context.Context, sess *model.SessionData, name string, quantity float64, unit string) (*model.InventoryItem, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)
	if name == "" {
		return nil, apierror.Validation("item name is required")
	}
	if unit == "" {
		return nil, apierror.Validation("unit is required")
	}
	if quantity < 0 {
		return nil, apierror.Validation("quantity must not be negative")
	}
	if sess.CafeID == "" {
		return nil, apierror.Access("No café assigned to this account yet")
	}

	now := time.Now()
	item := &model.InventoryItem{
		ID:          uid.New(),
		Name:        name,
		Quantity:    quantity,
		Unit:        unit,
		QRCode:      newScanIdentifier(),
		LastUpdated: now,
		CreatedAt:   now,
		CafeID:      sess.CafeID,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, apierror.Access("")
	}

	log.Printf("[InventoryService] Created item %q (%s)", item.Name, item.ID)
	return item, nil
}

// Adjust changes an item's quantity by delta, flooring the result at zero,
// then appends a history entry with the applied delta. The update is issued
// strictly before the history append; a failed update records nothing, and a
// failed append after a committed update is not rolled back; it is logged
// and reported through HistoryLogged.
func (s *InventoryService) Adjust(ctx context.Context, sess *model.SessionData, itemID string, delta float64) (*AdjustResult, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound("Item not found")
		}
		return nil, apierror.Access("")
	}

	newQuantity := item.Quantity + delta
	if newQuantity < 0 {
		newQuantity = 0
	}
	applied := newQuantity - item.Quantity

	// A decrement on an already-empty item clamps to a no-op: nothing to
	// persist, nothing to log.
	if applied == 0 {
		return &AdjustResult{Item: item, AppliedDelta: 0, HistoryLogged: false}, nil
	}

	now := time.Now()
	if err := s.items.UpdateQuantity(ctx, item.ID, newQuantity, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound("Item not found")
		}
		return nil, apierror.Access("")
	}

	item.Quantity = newQuantity
	item.LastUpdated = now

	result := &AdjustResult{Item: item, AppliedDelta: applied, HistoryLogged: true}

	entry := &model.HistoryEntry{
		ID:           uid.New(),
		ItemName:     item.Name,
		ChangeAmount: applied,
		Username:     sess.Username,
		Date:         now,
		CafeID:       sess.CafeID,
	}
	if err := s.history.Insert(ctx, entry); err != nil {
		// The quantity change is already committed and stays committed.
		log.Printf("[InventoryService] WARNING: quantity change for item %s committed but history append failed: %v", item.ID, err)
		result.HistoryLogged = false
	}

	return result, nil
}

// Delete removes an item. History rows naming it are left untouched.
func (s *InventoryService) Delete(ctx context.Context, sess *model.SessionData, itemID string) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.NotFound("Item not found")
		}
		return apierror.Access("")
	}
	if sess.CafeID == "" || item.CafeID != sess.CafeID {
		return apierror.NotFound("Item not found")
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.NotFound("Item not found")
		}
		return apierror.Access("")
	}

	log.Printf("[InventoryService] Deleted item %q (%s)", item.Name, item.ID)
	return nil
}

// Get retrieves a single item by primary id.
func (s *InventoryService) Get(ctx context.Context, itemID string) (*model.InventoryItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound("Item not found")
		}
		return nil, apierror.Access("")
	}
	return item, nil
}

// FindByIdentifier locates an item by a decoded scan value: primary id
// first, then the stored scan identifier.
func (s *InventoryService) FindByIdentifier(ctx context.Context, identifier string) (*model.InventoryItem, error) {
	item, err := s.items.GetByID(ctx, identifier)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.Access("")
	}

	item, err = s.items.GetByQRCode(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound("Item not found")
		}
		return nil, apierror.Access("")
	}
	return item, nil
}

// newScanIdentifier builds the stable scan identifier assigned to an item at
// creation: creation time in milliseconds plus a random suffix.
func newScanIdentifier() string {
	suffix := make([]byte, 5)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("item_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
