package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/liftlog/accounts/internal/domain"
	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/pkg/accountsdk"
	"github.com/liftlog/accounts/pkg/httpx"
	"github.com/liftlog/accounts/pkg/passpolicy"
)

// writeServiceError translates a service error into the uniform error body.
// Anything unrecognised becomes an opaque 500 so internal details never
// reach the client.
func writeServiceError(w http.ResponseWriter, err error) {
	var violations *passpolicy.Violations
	switch {
	case errors.As(err, &violations):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "password_policy_violation",
			ErrorDescription: "Password does not meet the policy",
			Violations:       violations.Rules,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorResponse{
			Error:            "invalid_credentials",
			ErrorDescription: "Invalid username or password",
		})
	case errors.Is(err, service.ErrDuplicateIdentity):
		httpx.WriteJSON(w, http.StatusConflict, httpx.ErrorResponse{
			Error:            "duplicate_identity",
			ErrorDescription: "Username or email already exists",
		})
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrIncorrectPassword),
		errors.Is(err, service.ErrSamePassword):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "Reset token is invalid or has expired",
		})
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, httpx.ErrorResponse{
			Error:            "not_found",
			ErrorDescription: "User not found",
		})
	default:
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "An internal error occurred",
		})
	}
}

func writeInvalidBody(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
		Error:            "invalid_request",
		ErrorDescription: "Invalid JSON body",
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeInvalidBody(w)
		return false
	}
	return true
}

func toSDKUser(u domain.User) accountsdk.User {
	return accountsdk.User{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		Role:               string(u.Role),
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
