package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cafe-sklad-api/internal/model"

	"github.com/go-sql-driver/mysql"
)

// MySQLUserRepository implements UserRepository using MySQL, for the split
// deployment where accounts live in a shared database while inventory stays
// local. The caller owns the *sql.DB.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository and ensures the
// schema exists.
func NewMySQLUserRepository(db *sql.DB) (*MySQLUserRepository, error) {
	if err := createMySQLUserTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &MySQLUserRepository{db: db}, nil
}

func createMySQLUserTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			pin_hash VARCHAR(72) NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL UNIQUE,
			cafe_id VARCHAR(36) NOT NULL,
			display_name VARCHAR(128),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// GetByUsername retrieves a user by unique username.
func (r *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
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
func (r *MySQLUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, pin_hash, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.PINHash, user.CreatedAt)
	if err != nil {
		if isMySQLDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetProfileByUserID retrieves the profile linked to a user.
func (r *MySQLUserRepository) GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
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
func (r *MySQLUserRepository) CreateProfile(ctx context.Context, profile *model.Profile) error {
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
		if isMySQLDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// isMySQLDuplicate reports whether err is a unique key violation (error 1062).
func isMySQLDuplicate(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}
	return false
}

// Ensure MySQLUserRepository implements UserRepository
var _ UserRepository = (*MySQLUserRepository)(nil)
