package http

import (
	"net/http"

	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/pkg/accountsdk"
	"github.com/liftlog/accounts/pkg/httpx"
)

type ChangePasswordHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Change Password Endpoint
//	@Description	Replace the authenticated user's password. Requires the current password and a new password
//	@Description	that satisfies the active policy and differs from the current one.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ChangePasswordRequest	true	"Change password request"
//	@Success		200		{object}	accountsdk.MessageResponse			"message"
//	@Failure		400		{object}	httpx.ErrorResponse					"error, error_description, violations"
//	@Failure		401		{object}	httpx.ErrorResponse					"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/auth/change-password [put].
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorResponse{
			Error:            "unauthenticated",
			ErrorDescription: "Authentication required",
		})
		return
	}

	var req accountsdk.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "current_password and new_password are required",
		})
		return
	}

	if err := h.UserService.ChangePassword(ctx, identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{Message: "Password changed successfully"})
}
