package http

import (
	"net/http"

	"github.com/liftlog/accounts/internal/domain"
	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/pkg/accountsdk"
	"github.com/liftlog/accounts/pkg/httpx"
)

// AdminUsersHandler implements the admin user-management surface. Every
// method assumes the authn and role middleware already ran.
type AdminUsersHandler struct {
	UserService *service.UserService
}

// HandleList godoc
//
//	@Summary		List Users Endpoint
//	@Description	Return every account, ordered by creation time. Admin only.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	accountsdk.UserListResponse	"users"
//	@Failure		403	{object}	httpx.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/admin/users [get].
func (h *AdminUsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := accountsdk.UserListResponse{Users: make([]accountsdk.User, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, toSDKUser(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Create User Endpoint
//	@Description	Provision an account with an explicit role and a temporary password the user must
//	@Description	replace on first login. The credentials are emailed when an address is given. Admin only.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.AdminCreateUserRequest	true	"Create user request"
//	@Success		201		{object}	accountsdk.User						"id, username, email, role"
//	@Failure		400		{object}	httpx.ErrorResponse					"error, error_description, violations"
//	@Failure		409		{object}	httpx.ErrorResponse					"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/admin/users [post].
func (h *AdminUsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := httpx.IdentityFromContext(ctx)

	var req accountsdk.AdminCreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" || req.Role == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "username, password and role are required",
		})
		return
	}

	u, err := h.UserService.AdminCreateUser(ctx, identity.UserID, req.Username, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSDKUser(u))
}

// HandleGet godoc
//
//	@Summary		Get User Endpoint
//	@Description	Return a single account by id. Admin only.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string				true	"User id"
//	@Success		200	{object}	accountsdk.User		"id, username, email, role"
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/admin/users/{id} [get].
func (h *AdminUsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSDKUser(u))
}

// HandleUpdate godoc
//
//	@Summary		Update User Endpoint
//	@Description	Mutate username, email and/or role; omitted fields keep their value. Admins cannot
//	@Description	change their own role. Admin only.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"User id"
//	@Param			request	body		accountsdk.AdminUpdateUserRequest	true	"Update user request"
//	@Success		200		{object}	accountsdk.User						"id, username, email, role"
//	@Failure		400		{object}	httpx.ErrorResponse					"error, error_description"
//	@Failure		404		{object}	httpx.ErrorResponse					"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse					"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/admin/users/{id} [put].
func (h *AdminUsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := httpx.IdentityFromContext(ctx)
	userID := r.PathValue("id")

	var req accountsdk.AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Role != "" && userID == identity.UserID && req.Role != identity.Role {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "You cannot change your own role",
		})
		return
	}

	if err := h.UserService.AdminUpdateUser(ctx, identity.UserID, userID, req.Username, req.Email, domain.Role(req.Role)); err != nil {
		writeServiceError(w, err)
		return
	}

	u, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSDKUser(u))
}

// HandleDelete godoc
//
//	@Summary		Delete User Endpoint
//	@Description	Remove an account and its outstanding reset tokens. Admins cannot delete themselves. Admin only.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string						true	"User id"
//	@Success		200	{object}	accountsdk.MessageResponse	"message"
//	@Failure		400	{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		404	{object}	httpx.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/admin/users/{id} [delete].
func (h *AdminUsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := httpx.IdentityFromContext(ctx)
	userID := r.PathValue("id")

	if userID == identity.UserID {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "You cannot delete your own account",
		})
		return
	}

	if err := h.UserService.AdminDeleteUser(ctx, identity.UserID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{Message: "User deleted"})
}

// HandleResetPassword godoc
//
//	@Summary		Admin Password Reset Endpoint
//	@Description	Set a temporary password for an account without knowing the current one. The user
//	@Description	must pick their own password on next login. Admin only.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"User id"
//	@Param			request	body		accountsdk.AdminResetPasswordRequest	true	"Reset request"
//	@Success		200		{object}	accountsdk.MessageResponse			"message"
//	@Failure		400		{object}	httpx.ErrorResponse					"error, error_description, violations"
//	@Failure		404		{object}	httpx.ErrorResponse					"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/admin/users/{id}/reset-password [post].
func (h *AdminUsersHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := httpx.IdentityFromContext(ctx)

	var req accountsdk.AdminResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "new_password is required",
		})
		return
	}

	if err := h.UserService.AdminResetPassword(ctx, identity.UserID, r.PathValue("id"), req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{Message: "Password reset; the user must change it at next login"})
}
