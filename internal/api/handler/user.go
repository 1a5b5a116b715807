package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mkarsten/tablehost/internal/api/apierr"
	"github.com/mkarsten/tablehost/internal/api/middleware"
	"github.com/mkarsten/tablehost/internal/api/request"
	"github.com/mkarsten/tablehost/internal/api/response"
	"github.com/mkarsten/tablehost/internal/services/user"

	"github.com/gorilla/mux"
)

// UserHandler handles user-related endpoints
type UserHandler struct {
	userService *user.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register handles POST /api/v1/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Email == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("email is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	id, err := h.userService.RegisterNewUser(r.Context(), user.RegisterUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegisterResponse{UserID: int64(id)})
}

// Confirm handles GET /api/v1/users/confirm?token=...
// The outcome is a boolean; an unknown or expired token is not an error.
func (h *UserHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	confirmed, err := h.userService.ConfirmEmailVerification(r.Context(), token)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ConfirmResponse{Confirmed: confirmed})
}

// Login handles POST /api/v1/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session != nil {
		h.userService.InvalidateSession(session.Token)
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	u := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// Promote handles POST /api/v1/users/{username}/promote (administrators only)
func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	if err := h.userService.PromoteUserToAdministrator(r.Context(), username); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
