package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cafe-sklad-api/internal/model"
	"cafe-sklad-api/internal/repository"
	"cafe-sklad-api/pkg/apierror"
	"cafe-sklad-api/pkg/uid"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the original deployment hashed PINs with, so
// existing credential rows keep verifying.
const bcryptCost = 10

// AuthResult bundles everything a successful login or registration yields.
type AuthResult struct {
	User    *model.User    `json:"user"`
	Profile *model.Profile `json:"profile,omitempty"`
	Token   string         `json:"token"`
}

// AuthService implements the credential-table session contract: username +
// PIN checked against a bcrypt hash, with a profile lookup supplying the
// tenant scope.
type AuthService struct {
	users    repository.UserRepository
	sessions *SessionService
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, sessions *SessionService) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register creates a user with a hashed PIN plus a profile scoping them to a
// fresh café, then establishes a session. A taken username fails with
// DUPLICATE_HANDLE and writes nothing.
func (s *AuthService) Register(ctx context.Context, username, pin string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apierror.Validation("username is required")
	}
	if len(pin) < 4 {
		return nil, apierror.Validation("PIN must be at least 4 characters")
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil, apierror.DuplicateHandle("")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.Access("")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcryptCost)
	if err != nil {
		return nil, apierror.Internal("failed to hash PIN")
	}

	now := time.Now()
	user := &model.User{
		ID:        uid.New(),
		Username:  username,
		PINHash:   string(hash),
		CreatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apierror.DuplicateHandle("")
		}
		return nil, apierror.Access("")
	}

	profile := &model.Profile{
		ID:        uid.New(),
		UserID:    user.ID,
		CafeID:    uid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.CreateProfile(ctx, profile); err != nil {
		// The user row is committed; a missing profile only blocks
		// tenant-scoped operations until one exists.
		log.Printf("[AuthService] WARNING: profile creation failed for user %s: %v", user.ID, err)
		profile = nil
	}

	token, err := s.startSession(ctx, user, profile)
	if err != nil {
		return nil, err
	}

	log.Printf("[AuthService] Registered user %s", username)
	return &AuthResult{User: user, Profile: profile, Token: token}, nil
}

// Login verifies a username + PIN pair and establishes a session. An unknown
// username fails with NOT_FOUND, a wrong PIN with INVALID_CREDENTIAL; neither
// leaves a session behind.
func (s *AuthService) Login(ctx context.Context, username, pin string) (*AuthResult, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound("User not found")
		}
		return nil, apierror.Access("")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(pin)); err != nil {
		return nil, apierror.InvalidCredential("Incorrect PIN")
	}

	// Exactly one profile lookup per established session. A missing profile
	// still authenticates; the session just carries no tenant.
	var profile *model.Profile
	p, err := s.users.GetProfileByUserID(ctx, user.ID)
	switch {
	case err == nil:
		profile = p
	case errors.Is(err, repository.ErrNotFound):
		profile = nil
	default:
		return nil, apierror.Access("")
	}

	token, err := s.startSession(ctx, user, profile)
	if err != nil {
		return nil, err
	}

	log.Printf("[AuthService] User %s logged in", username)
	return &AuthResult{User: user, Profile: profile, Token: token}, nil
}

// Logout revokes the session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return apierror.Access("")
	}
	return nil
}

func (s *AuthService) startSession(ctx context.Context, user *model.User, profile *model.Profile) (string, error) {
	data := model.SessionData{
		UserID:   user.ID,
		Username: user.Username,
	}
	if profile != nil {
		data.CafeID = profile.CafeID
		data.DisplayName = profile.DisplayName
	}

	token, err := s.sessions.Create(ctx, data)
	if err != nil {
		return "", apierror.Access("Could not establish session")
	}
	return token, nil
}
