package http

import (
	"net/http"

	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/pkg/accountsdk"
	"github.com/liftlog/accounts/pkg/httpx"
)

type RegisterHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Self-Service Registration Endpoint
//	@Description	Create a new account with the user role. The password must satisfy the active password policy.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RegisterRequest	true	"Registration request"
//	@Success		201		{object}	accountsdk.User				"id, username, role"
//	@Failure		400		{object}	httpx.ErrorResponse			"error, error_description, violations"
//	@Failure		409		{object}	httpx.ErrorResponse			"error, error_description"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.RegisterRequest
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

	u, err := h.UserService.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSDKUser(u))
}
