package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"cafe-sklad-api/internal/cache"
	"cafe-sklad-api/internal/model"
)

const (
	// tokenPrefix marks all session tokens issued by this service.
	tokenPrefix = "skl_"

	// sessionKeyPrefix is the store key prefix for sessions.
	sessionKeyPrefix = "sklad:session:"
)

// SessionService issues opaque session tokens and resolves them back to
// session data. Tokens live in the injected store with a TTL; the token is
// stored before it is handed out and revocation removes the record, so a
// session is never partially established.
type SessionService struct {
	store cache.Store
	ttl   time.Duration
}

// NewSessionService creates a new session service.
func NewSessionService(store cache.Store, ttl time.Duration) *SessionService {
	return &SessionService{store: store, ttl: ttl}
}

// Create stores a new session and returns its token.
func (s *SessionService) Create(ctx context.Context, data model.SessionData) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := tokenPrefix + hex.EncodeToString(tokenBytes)

	data.CreatedAt = time.Now()
	data.ExpiresAt = data.CreatedAt.Add(s.ttl)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := s.store.Set(ctx, sessionKeyPrefix+token, jsonData, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Get resolves a token to its session data. Returns cache.ErrMiss for an
// unknown or expired token.
func (s *SessionService) Get(ctx context.Context, token string) (*model.SessionData, error) {
	if len(token) < len(tokenPrefix) || token[:len(tokenPrefix)] != tokenPrefix {
		return nil, cache.ErrMiss
	}

	jsonData, err := s.store.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return nil, err
	}

	var data model.SessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}

	if time.Now().After(data.ExpiresAt) {
		_ = s.store.Delete(ctx, sessionKeyPrefix+token)
		return nil, cache.ErrMiss
	}

	return &data, nil
}

// Revoke deletes a session. Revoking an unknown token is not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.store.Delete(ctx, sessionKeyPrefix+token)
}
