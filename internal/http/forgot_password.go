package http

import (
	"net/http"

	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/pkg/accountsdk"
	"github.com/liftlog/accounts/pkg/httpx"
)

type ForgotPasswordHandler struct {
	ResetService *service.ResetService
}

// ServeHTTP godoc
//
//	@Summary		Forgot Password Endpoint
//	@Description	Start the password reset flow. The response is identical whether or not the email
//	@Description	matches an account, so the endpoint cannot be used to enumerate addresses.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ForgotPasswordRequest	true	"Forgot password request"
//	@Success		200		{object}	accountsdk.MessageResponse			"message"
//	@Failure		400		{object}	httpx.ErrorResponse					"error, error_description"
//	@Router			/api/auth/forgot-password [post].
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "email is required",
		})
		return
	}

	if err := h.ResetService.RequestReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Message: "If the email is registered, a reset link has been sent",
	})
}
