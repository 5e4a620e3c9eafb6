package store

import (
	"context"
	"errors"

	"github.com/liftlog/accounts/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	ResetTokens() ResetTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the recommended way to run
	// multi-step operations that must be atomic (e.g. token redemption).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during credential verification.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail is used by the forgot-password flow.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username or email collides with an
	// existing row; the unique constraints are the only existence check so
	// there is no check-then-act race.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash replaces the credential hash and sets the
	// must_change_password flag in a single write.
	UpdatePasswordHash(ctx context.Context, userID, newHash string, mustChange bool) error

	// UpdateProfile mutates username, email and role. Empty strings leave
	// the current value in place. Returns ErrAlreadyExists on identity
	// collision.
	UpdateProfile(ctx context.Context, userID, username, email string, role domain.Role) error

	// DeleteUser removes a user; reset tokens cascade per schema.
	DeleteUser(ctx context.Context, userID string) error

	// ListUsers returns all users ordered by creation time.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type ResetTokens interface {
	// CreateResetToken stores a new token record (token_hash is the SHA-256
	// fingerprint of the opaque token).
	CreateResetToken(ctx context.Context, t domain.ResetToken) error

	// GetResetTokenByHash returns a token by fingerprint regardless of
	// used/expired state; the service decides redeemability so that all
	// failure modes collapse into one caller-visible error.
	GetResetTokenByHash(ctx context.Context, hash string) (domain.ResetToken, error)

	// MarkResetTokenUsed flips used=1 and bumps updated_at. Returns
	// ErrNotFound if the token was already used, which serializes racing
	// redemptions.
	MarkResetTokenUsed(ctx context.Context, tokenID string) error

	// DeleteExpiredResetTokens is housekeeping; tokens past expiry are
	// unredeemable either way.
	DeleteExpiredResetTokens(ctx context.Context) error
}
