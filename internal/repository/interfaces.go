package repository

import (
	"context"
	"errors"
	"time"

	"cafe-sklad-api/internal/model"
)

// Sentinel errors returned by repositories. Services translate these into
// the user-facing error taxonomy.
var (
	// ErrNotFound indicates a point lookup missed.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique key conflict on insert.
	ErrDuplicate = errors.New("record already exists")
)

// InventoryRepository defines inventory data access methods.
type InventoryRepository interface {
	// List returns all items for a café ordered by name ascending.
	List(ctx context.Context, cafeID string) ([]model.InventoryItem, error)

	// GetByID retrieves an item by primary id.
	GetByID(ctx context.Context, id string) (*model.InventoryItem, error)

	// GetByQRCode retrieves an item by its scan identifier.
	GetByQRCode(ctx context.Context, code string) (*model.InventoryItem, error)

	// Create persists a new item.
	Create(ctx context.Context, item *model.InventoryItem) error

	// UpdateQuantity sets an item's quantity and last-updated timestamp.
	UpdateQuantity(ctx context.Context, id string, quantity float64, updatedAt time.Time) error

	// Delete removes an item by id.
	Delete(ctx context.Context, id string) error
}

// HistoryRepository defines append-only access to the change log.
type HistoryRepository interface {
	// Insert appends one history entry. There is no update or delete path.
	Insert(ctx context.Context, entry *model.HistoryEntry) error

	// List returns up to limit entries for a café, newest first.
	List(ctx context.Context, cafeID string, limit int) ([]model.HistoryEntry, error)
}

// UserRepository defines credential and profile data access methods.
type UserRepository interface {
	// GetByUsername retrieves a user by unique username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// Create persists a new user. Returns ErrDuplicate on username conflict.
	Create(ctx context.Context, user *model.User) error

	// GetProfileByUserID retrieves the profile linked to a user.
	GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// CreateProfile persists a new profile.
	CreateProfile(ctx context.Context, profile *model.Profile) error
}
