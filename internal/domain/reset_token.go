package domain

import "time"

// ResetToken is a single-use password reset credential. Only the SHA-256
// fingerprint of the opaque token is stored; the raw value exists solely in
// the email sent to the user. A token is redeemable at most once and only
// before ExpiresAt.
type ResetToken struct {
	ID        string
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
