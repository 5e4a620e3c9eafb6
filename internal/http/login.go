package http

import (
	"net/http"

	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/pkg/accountsdk"
	"github.com/liftlog/accounts/pkg/httpx"
)

type LoginHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Exchange a username/password pair for a signed access token.
//	@Description	The response flags accounts that must rotate their password before doing anything else.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.LoginRequest		true	"Login request"
//	@Success		200		{object}	accountsdk.LoginResponse	"access_token, token_type, expires_in, user"
//	@Failure		400		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse			"error, error_description"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "username and password are required",
		})
		return
	}

	token, u, err := h.TokenService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.LoginResponse{
		AccessToken:        token,
		TokenType:          "Bearer",
		ExpiresIn:          int64(h.TokenService.TTL().Seconds()),
		User:               toSDKUser(u),
		MustChangePassword: u.MustChangePassword,
	})
}
