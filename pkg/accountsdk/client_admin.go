package accountsdk

import (
	"context"
	"net/http"
)

// Admin operations. All of these require an access token for an account
// with the admin role.

func (c *Client) CreateUser(ctx context.Context, req AdminCreateUserRequest) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/api/admin/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, req AdminUpdateUserRequest) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPut, "/api/admin/users/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/users/"+id, nil, nil)
}

func (c *Client) AdminResetPassword(ctx context.Context, id, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/users/"+id+"/reset-password",
		AdminResetPasswordRequest{NewPassword: newPassword}, nil)
}
