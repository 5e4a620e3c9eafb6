package accountsdk

import "github.com/liftlog/accounts/pkg/passpolicy"

// RegisterRequest is the self-service signup body.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the access token plus enough of the account to
// drive the client. MustChangePassword tells the client to route the user
// to the change-password screen before anything else.
type LoginResponse struct {
	AccessToken        string `json:"access_token"`
	TokenType          string `json:"token_type"`
	ExpiresIn          int64  `json:"expires_in"`
	User               User   `json:"user"`
	MustChangePassword bool   `json:"must_change_password"`
}

// User is the public account shape. The credential hash never appears here.
type User struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email,omitempty"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
	CreatedAt          string `json:"created_at"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PolicyResponse exposes the active password rules so clients can validate
// before submitting.
type PolicyResponse struct {
	Policy passpolicy.Policy `json:"policy"`
}

// AdminCreateUserRequest provisions an account with an explicit role and a
// temporary password.
type AdminCreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AdminUpdateUserRequest mutates profile fields; empty fields are left
// unchanged.
type AdminUpdateUserRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

type AdminResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type UserListResponse struct {
	Users []User `json:"users"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
