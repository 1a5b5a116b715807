package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkarsten/tablehost/internal/model"
	"github.com/mkarsten/tablehost/internal/services/game"
	"github.com/mkarsten/tablehost/internal/services/user"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodeGameNameTaken      = "GAME_NAME_TAKEN"
	CodeGameNotRecruiting  = "GAME_NOT_RECRUITING"
	CodeGameArchived       = "GAME_ARCHIVED"
	CodeMasterDisabled     = "MASTER_DISABLED"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Domain validation failures carry their own message
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, validationErr.Error()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameNotRecruiting):
		return &httpError{http.StatusConflict, APIError{CodeGameNotRecruiting, "Game is no longer recruiting"}}
	case errors.Is(err, model.ErrGameArchived):
		return &httpError{http.StatusConflict, APIError{CodeGameArchived, "Game is already archived"}}

	// Map service errors
	case errors.Is(err, user.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameTaken, "Username already taken"}}
	case errors.Is(err, user.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, user.ErrAccountDisabled):
		return &httpError{http.StatusForbidden, APIError{CodeAccountDisabled, "Account is not enabled"}}
	case errors.Is(err, user.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, game.ErrGameNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeGameNameTaken, "Game name already taken"}}
	case errors.Is(err, game.ErrMasterDisabled):
		return &httpError{http.StatusConflict, APIError{CodeMasterDisabled, "Game master account is not enabled"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) error {
	return &httpError{http.StatusForbidden, APIError{CodeForbidden, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
