// Package auth, HTTP layer. The handlers translate requests into service
// calls and convert every failure into the shared JSON error envelope.
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
)

// Handlers wraps the auth Service to provide HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleSignup godoc
// @Summary User signup
// @Description Registers a new user account.
// @Tags Auth
// @Accept json
// @Produce json
// @Param signupBody body auth.SignupRequest true "User signup details"
// @Success 201 {object} auth.SignupResponse "Account created"
// @Failure 400 {object} apperror.ErrorResponse "Duplicate username or invalid input"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /api/signup [post]
func (h *Handlers) HandleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.FullName == "" || req.Username == "" || req.Password == "" {
			WriteError(w, r, apperror.NewBadRequestError("fullName, username, and password are required", nil))
			return
		}

		if _, err := h.service.Signup(r.Context(), req); err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusCreated, SignupResponse{
			Success: true,
			Message: "Account created successfully!",
		})
	}
}

// HandleLogin godoc
// @Summary User login
// @Description Verifies credentials and returns an access token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.LoginResponse "Login successful"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /api/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.Username == "" || req.Password == "" {
			WriteError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}

		token, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, LoginResponse{
			Success:     true,
			Message:     "Login successful!",
			AccessToken: token,
		})
	}
}

// WriteJSON serializes `data` to JSON and writes it with the given status.
// Shared by the other handler packages so every response is encoded the same way.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"success":false,"message":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into the standardized apperror envelope.
// Errors that are not already AppErrors are wrapped as internal errors, so no
// raw error detail leaks to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
