package http

import (
	"net/http"

	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/pkg/httpx"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Current User Endpoint
//	@Description	Return the authenticated user's account.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	accountsdk.User		"id, username, email, role"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorResponse{
			Error:            "unauthenticated",
			ErrorDescription: "Authentication required",
		})
		return
	}

	u, err := h.UserService.GetUserByID(ctx, identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSDKUser(u))
}
