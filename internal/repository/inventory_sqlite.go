package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"cafe-sklad-api/internal/model"
)

// SQLiteInventoryRepository implements InventoryRepository using SQLite.
type SQLiteInventoryRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteInventoryRepository creates a new SQLite inventory repository
// on an already-opened database (see OpenSQLite).
func NewSQLiteInventoryRepository(db *sql.DB) *SQLiteInventoryRepository {
	return &SQLiteInventoryRepository{db: db}
}

// List returns all items for a café ordered by name ascending.
func (r *SQLiteInventoryRepository) List(ctx context.Context, cafeID string) ([]model.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, name, quantity, unit, qr_code, last_updated, created_at, cafe_id
		FROM inventory
		WHERE cafe_id = ?
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, cafeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	items := []model.InventoryItem{}
	for rows.Next() {
		var item model.InventoryItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Quantity, &item.Unit,
			&item.QRCode, &item.LastUpdated, &item.CreatedAt, &item.CafeID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetByID retrieves an item by primary id.
func (r *SQLiteInventoryRepository) GetByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	return r.getWhere(ctx, "id = ?", id)
}

// GetByQRCode retrieves an item by its scan identifier.
func (r *SQLiteInventoryRepository) GetByQRCode(ctx context.Context, code string) (*model.InventoryItem, error) {
	return r.getWhere(ctx, "qr_code = ?", code)
}

func (r *SQLiteInventoryRepository) getWhere(ctx context.Context, cond, arg string) (*model.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, name, quantity, unit, qr_code, last_updated, created_at, cafe_id
		FROM inventory
		WHERE ` + cond + `
		LIMIT 1`

	var item model.InventoryItem
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&item.ID, &item.Name, &item.Quantity, &item.Unit,
		&item.QRCode, &item.LastUpdated, &item.CreatedAt, &item.CafeID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	return &item, nil
}

// Create persists a new item.
func (r *SQLiteInventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO inventory (id, name, quantity, unit, qr_code, last_updated, created_at, cafe_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Quantity, item.Unit,
		item.QRCode, item.LastUpdated, item.CreatedAt, item.CafeID,
	)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

// UpdateQuantity sets an item's quantity and last-updated timestamp.
func (r *SQLiteInventoryRepository) UpdateQuantity(ctx context.Context, id string, quantity float64, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `UPDATE inventory SET quantity = ?, last_updated = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, quantity, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an item by id.
func (r *SQLiteInventoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ensure SQLiteInventoryRepository implements InventoryRepository
var _ InventoryRepository = (*SQLiteInventoryRepository)(nil)
