package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafe-sklad-api/internal/cache"
	"cafe-sklad-api/internal/model"
	"cafe-sklad-api/internal/repository"
	"cafe-sklad-api/pkg/apierror"

	"golang.org/x/crypto/bcrypt"
)

// Mock UserRepository
type mockUserRepo struct {
	users       map[string]*model.User    // keyed by username
	profiles    map[string]*model.Profile // keyed by user id
	createCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:    make(map[string]*model.User),
		profiles: make(map[string]*model.Profile),
	}
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	m.createCalls++
	if _, ok := m.users[user.Username]; ok {
		return repository.ErrDuplicate
	}
	copied := *user
	m.users[user.Username] = &copied
	return nil
}

func (m *mockUserRepo) GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockUserRepo) CreateProfile(ctx context.Context, profile *model.Profile) error {
	copied := *profile
	m.profiles[profile.UserID] = &copied
	return nil
}

// spyStore counts session writes so tests can assert that failed logins
// leave no session behind.
type spyStore struct {
	cache.Store
	sets int
}

func newSpyStore() *spyStore {
	return &spyStore{Store: cache.NewMemoryStore()}
}

func (s *spyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.sets++
	return s.Store.Set(ctx, key, value, ttl)
}

func newTestAuth() (*AuthService, *mockUserRepo, *SessionService, *spyStore) {
	users := newMockUserRepo()
	store := newSpyStore()
	sessions := NewSessionService(store, time.Hour)
	return NewAuthService(users, sessions), users, sessions, store
}

func TestRegister_Success(t *testing.T) {
	auth, users, sessions, _ := newTestAuth()

	result, err := auth.Register(context.Background(), "marta", "1234")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if result.Token == "" {
		t.Error("no session token returned")
	}
	if result.Profile == nil || result.Profile.CafeID == "" {
		t.Fatal("profile with tenant not created")
	}
	if result.User.PINHash == "1234" {
		t.Error("PIN stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users.users["marta"].PINHash), []byte("1234")); err != nil {
		t.Error("stored hash does not verify the PIN")
	}

	sess, err := sessions.Get(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("token does not resolve: %v", err)
	}
	if sess.Username != "marta" || sess.CafeID != result.Profile.CafeID {
		t.Errorf("unexpected session data: %+v", sess)
	}
}

func TestRegister_DuplicateHandle(t *testing.T) {
	auth, users, _, _ := newTestAuth()
	ctx := context.Background()

	if _, err := auth.Register(ctx, "marta", "1234"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	callsAfterFirst := users.createCalls

	_, err := auth.Register(ctx, "marta", "9999")
	if !errors.Is(err, apierror.DuplicateHandle("")) {
		t.Fatalf("expected DUPLICATE_HANDLE, got %v", err)
	}
	if users.createCalls != callsAfterFirst {
		t.Error("duplicate registration must perform no write")
	}
}

func TestRegister_Validation(t *testing.T) {
	auth, users, _, _ := newTestAuth()
	ctx := context.Background()

	if _, err := auth.Register(ctx, "", "1234"); !errors.Is(err, apierror.Validation("")) {
		t.Errorf("expected VALIDATION_ERROR for empty username, got %v", err)
	}
	if _, err := auth.Register(ctx, "marta", "12"); !errors.Is(err, apierror.Validation("")) {
		t.Errorf("expected VALIDATION_ERROR for short PIN, got %v", err)
	}
	if users.createCalls != 0 {
		t.Error("no writes expected")
	}
}

func TestLogin_WrongPIN(t *testing.T) {
	auth, _, _, store := newTestAuth()
	ctx := context.Background()

	if _, err := auth.Register(ctx, "marta", "1234"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	setsAfterRegister := store.sets

	_, err := auth.Login(ctx, "marta", "4321")
	if !errors.Is(err, apierror.InvalidCredential("")) {
		t.Fatalf("expected INVALID_CREDENTIAL, got %v", err)
	}
	if store.sets != setsAfterRegister {
		t.Error("failed login must not establish a session")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	auth, _, _, store := newTestAuth()

	_, err := auth.Login(context.Background(), "nobody", "1234")
	if !errors.Is(err, apierror.NotFound("")) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if store.sets != 0 {
		t.Error("failed login must not establish a session")
	}
}

func TestLogin_Success(t *testing.T) {
	auth, _, sessions, _ := newTestAuth()
	ctx := context.Background()

	registered, err := auth.Register(ctx, "marta", "1234")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := auth.Login(ctx, "marta", "1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Profile == nil || result.Profile.CafeID != registered.Profile.CafeID {
		t.Error("login did not resolve the stored profile")
	}

	sess, err := sessions.Get(ctx, result.Token)
	if err != nil {
		t.Fatalf("token does not resolve: %v", err)
	}
	if sess.CafeID != registered.Profile.CafeID {
		t.Errorf("session carries wrong tenant: %q", sess.CafeID)
	}
}

func TestLogin_MissingProfileStillAuthenticates(t *testing.T) {
	auth, users, sessions, _ := newTestAuth()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("1234"), bcryptCost)
	users.users["old-user"] = &model.User{
		ID:       "legacy-1",
		Username: "old-user",
		PINHash:  string(hash),
	}

	result, err := auth.Login(ctx, "old-user", "1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Profile != nil {
		t.Error("expected nil profile")
	}

	sess, err := sessions.Get(ctx, result.Token)
	if err != nil {
		t.Fatalf("token does not resolve: %v", err)
	}
	if sess.CafeID != "" {
		t.Errorf("session must carry no tenant, got %q", sess.CafeID)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	auth, _, sessions, _ := newTestAuth()
	ctx := context.Background()

	result, err := auth.Register(ctx, "marta", "1234")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := auth.Logout(ctx, result.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := sessions.Get(ctx, result.Token); err == nil {
		t.Error("token still resolves after logout")
	}

	// Logout is idempotent.
	if err := auth.Logout(ctx, result.Token); err != nil {
		t.Errorf("second logout failed: %v", err)
	}
}
