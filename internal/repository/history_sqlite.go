package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"cafe-sklad-api/internal/model"
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite.
// The history table is append-only; this type deliberately has no update
// or delete methods.
type SQLiteHistoryRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteHistoryRepository creates a new SQLite history repository.
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// Insert appends one history entry.
func (r *SQLiteHistoryRepository) Insert(ctx context.Context, entry *model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO history (id, item_name, change_amount, username, date, cafe_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.ItemName, entry.ChangeAmount,
		entry.Username, entry.Date, entry.CafeID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// List returns up to limit entries for a café, newest first.
func (r *SQLiteHistoryRepository) List(ctx context.Context, cafeID string, limit int) ([]model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, item_name, change_amount, username, date, cafe_id
		FROM history
		WHERE cafe_id = ?
		ORDER BY date DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, cafeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ItemName, &e.ChangeAmount, &e.Username, &e.Date, &e.CafeID); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Ensure SQLiteHistoryRepository implements HistoryRepository
var _ HistoryRepository = (*SQLiteHistoryRepository)(nil)
