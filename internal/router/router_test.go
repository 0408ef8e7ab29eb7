package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cafe-sklad-api/internal/cache"
	"cafe-sklad-api/internal/handler"
	"cafe-sklad-api/internal/middleware"
	"cafe-sklad-api/internal/model"
	"cafe-sklad-api/internal/repository"
	"cafe-sklad-api/internal/service"
	"cafe-sklad-api/pkg/qr"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Warning string          `json:"warning"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "sklad_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := cache.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	sessions := service.NewSessionService(store, time.Hour)
	inventory := service.NewInventoryService(
		repository.NewSQLiteInventoryRepository(db),
		repository.NewSQLiteHistoryRepository(db),
	)

	r := New(Config{
		Handler:          handler.New("test"),
		AuthHandler:      handler.NewAuthHandler(service.NewAuthService(repository.NewSQLiteUserRepository(db), sessions)),
		InventoryHandler: handler.NewInventoryHandler(inventory),
		HistoryHandler:   handler.NewHistoryHandler(service.NewHistoryService(repository.NewSQLiteHistoryRepository(db))),
		ScanHandler:      handler.NewScanHandler(inventory),
		AuthMiddleware:   middleware.NewAuth(sessions),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Token", token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, env
}

func register(t *testing.T, srv *httptest.Server, username, pin string) string {
	t.Helper()

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "",
		map[string]string{"username": username, "pin": pin})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d, error %+v", resp.StatusCode, env.Error)
	}

	var result service.AuthResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode auth result: %v", err)
	}
	return result.Token
}

func TestFullFlow(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "marta", "1234")

	// Create an item.
	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", token,
		map[string]interface{}{"name": "Coffee", "quantity": 5, "unit": "kg"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d, error %+v", resp.StatusCode, env.Error)
	}
	var item model.InventoryItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if item.QRCode == "" {
		t.Error("created item has no scan identifier")
	}

	// Adjust down by 3.
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/items/"+item.ID+"/adjust", token,
		map[string]float64{"delta": -3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("adjust: status %d, error %+v", resp.StatusCode, env.Error)
	}
	var adjusted service.AdjustResult
	if err := json.Unmarshal(env.Data, &adjusted); err != nil {
		t.Fatalf("decode adjust result: %v", err)
	}
	if adjusted.Item.Quantity != 2 || adjusted.AppliedDelta != -3 {
		t.Errorf("unexpected adjust result: %+v", adjusted)
	}

	// Over-decrement floors at zero; applied delta is what reached the log.
	_, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/items/"+item.ID+"/adjust", token,
		map[string]float64{"delta": -10})
	if err := json.Unmarshal(env.Data, &adjusted); err != nil {
		t.Fatalf("decode adjust result: %v", err)
	}
	if adjusted.Item.Quantity != 0 || adjusted.AppliedDelta != -2 {
		t.Errorf("expected floor at 0 with applied delta -2, got %+v", adjusted)
	}

	// History shows both changes, newest first, with applied deltas.
	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/history", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history: status %d, error %+v", resp.StatusCode, env.Error)
	}
	var entries []model.HistoryEntry
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d history entries, want 2", len(entries))
	}
	if entries[0].ChangeAmount != -2 || entries[1].ChangeAmount != -3 {
		t.Errorf("unexpected history: %+v", entries)
	}
	if entries[0].ItemName != "Coffee" || entries[0].Username != "marta" {
		t.Errorf("history entry missing snapshot or actor: %+v", entries[0])
	}

	// Delete keeps history.
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/items/"+item.ID, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/items", token, nil)
	var items []model.InventoryItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("deleted item still listed")
	}
	_, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/history", token, nil)
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("history changed after item deletion: %d entries", len(entries))
	}
}

func TestScanFlow(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "marta", "1234")

	_, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", token,
		map[string]interface{}{"name": "Coffee", "quantity": 5, "unit": "kg"})
	var item model.InventoryItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	// Structured payload resolves to the item.
	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/scan", token,
		map[string]string{"payload": qr.Encode(item.ID, item.Name)})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scan: status %d, error %+v", resp.StatusCode, env.Error)
	}
	var found model.InventoryItem
	if err := json.Unmarshal(env.Data, &found); err != nil {
		t.Fatalf("decode scan result: %v", err)
	}
	if found.ID != item.ID {
		t.Errorf("scan resolved wrong item: %q", found.ID)
	}

	// Raw scan identifier resolves through the fallback lookup.
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/scan", token,
		map[string]string{"payload": item.QRCode})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scan by raw code: status %d, error %+v", resp.StatusCode, env.Error)
	}

	// Unknown payload is a store-level miss, not a decode failure.
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/scan", token,
		map[string]string{"payload": "no-such-item"})
	if resp.StatusCode != http.StatusNotFound || env.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got status %d error %+v", resp.StatusCode, env.Error)
	}

	// Scan-triggered reduction.
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/scan/reduce", token,
		map[string]interface{}{"payload": qr.Encode(item.ID, item.Name), "amount": 1.5})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scan reduce: status %d, error %+v", resp.StatusCode, env.Error)
	}
	var adjusted service.AdjustResult
	if err := json.Unmarshal(env.Data, &adjusted); err != nil {
		t.Fatalf("decode adjust result: %v", err)
	}
	if adjusted.Item.Quantity != 3.5 || adjusted.AppliedDelta != -1.5 {
		t.Errorf("unexpected reduce result: %+v", adjusted)
	}
}

func TestAuthErrors(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "marta", "1234")

	// Duplicate registration.
	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "",
		map[string]string{"username": "marta", "pin": "9999"})
	if resp.StatusCode != http.StatusConflict || env.Error.Code != "DUPLICATE_HANDLE" {
		t.Errorf("expected DUPLICATE_HANDLE, got status %d error %+v", resp.StatusCode, env.Error)
	}

	// Wrong PIN.
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "",
		map[string]string{"username": "marta", "pin": "0000"})
	if resp.StatusCode != http.StatusUnauthorized || env.Error.Code != "INVALID_CREDENTIAL" {
		t.Errorf("expected INVALID_CREDENTIAL, got status %d error %+v", resp.StatusCode, env.Error)
	}

	// Protected route without a token.
	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/items", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}

	// Empty item name.
	token := register(t, srv, "pavel", "1234")
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", token,
		map[string]interface{}{"name": "", "quantity": 0, "unit": "kg"})
	if resp.StatusCode != http.StatusBadRequest || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got status %d error %+v", resp.StatusCode, env.Error)
	}
}

func TestQRCodeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "marta", "1234")

	_, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", token,
		map[string]interface{}{"name": "Coffee", "quantity": 5, "unit": "kg"})
	var item model.InventoryItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/items/%s/qrcode?size=128", srv.URL, item.ID), nil)
	req.Header.Set("X-Token", token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("qrcode request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("qrcode: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
}
