package http

import (
	"net/http"

	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/pkg/accountsdk"
	"github.com/liftlog/accounts/pkg/httpx"
)

type ResetPasswordHandler struct {
	ResetService *service.ResetService
}

// ServeHTTP godoc
//
//	@Summary		Reset Password Endpoint
//	@Description	Redeem a single-use reset token and install a new password. Unknown, used and
//	@Description	expired tokens are all rejected with the same error.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ResetPasswordRequest	true	"Reset password request"
//	@Success		200		{object}	accountsdk.MessageResponse		"message"
//	@Failure		400		{object}	httpx.ErrorResponse				"error, error_description, violations"
//	@Router			/api/auth/reset-password [post].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "token and new_password are required",
		})
		return
	}

	if err := h.ResetService.Redeem(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{Message: "Password has been reset"})
}
