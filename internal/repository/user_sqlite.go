package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"cafe-sklad-api/internal/model"
)

// SQLiteUserRepository implements UserRepository using SQLite.
type SQLiteUserRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteUserRepository creates a new SQLite user repository.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// GetByUsername retrieves a user by unique username.
func (r *SQLiteUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, username, pin_hash, created_at FROM users WHERE username = ? LIMIT 1`

	var u model.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PINHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// Create persists a new user. Returns ErrDuplicate on username conflict.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `INSERT INTO users (id, username, pin_hash, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.PINHash, user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetProfileByUserID retrieves the profile linked to a user.
func (r *SQLiteUserRepository) GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, user_id, cafe_id, display_name, created_at, updated_at
		FROM profiles
		WHERE user_id = ?
		LIMIT 1`

	var p model.Profile
	var displayName sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.CafeID, &displayName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.DisplayName = displayName.String

	return &p, nil
}

// CreateProfile persists a new profile.
func (r *SQLiteUserRepository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO profiles (id, user_id, cafe_id, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	var displayName interface{}
	if profile.DisplayName != "" {
		displayName = profile.DisplayName
	}

	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.UserID, profile.CafeID, displayName,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Ensure SQLiteUserRepository implements UserRepository
var _ UserRepository = (*SQLiteUserRepository)(nil)
