package handler

import (
	"encoding/json"
	"net/http"

	"cafe-sklad-api/internal/middleware"
	"cafe-sklad-api/internal/service"
	"cafe-sklad-api/pkg/apierror"
	"cafe-sklad-api/pkg/response"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// credentialsRequest is the body for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	result, err := h.auth.Register(r.Context(), req.Username, req.PIN)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, result)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	result, err := h.auth.Login(r.Context(), req.Username, req.PIN)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	if token == "" {
		response.Error(w, apierror.BadRequest("session token required"))
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "logged_out"})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	response.OK(w, sess)
}
