package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/liftlog/accounts/internal/audit"
	"github.com/liftlog/accounts/internal/domain"
	"github.com/liftlog/accounts/internal/store"
	"github.com/liftlog/accounts/pkg/cryptox"
	"github.com/liftlog/accounts/pkg/idx"
	"github.com/liftlog/accounts/pkg/passpolicy"
	"github.com/liftlog/accounts/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDuplicateIdentity = errors.New("username or email already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("current password is incorrect")
	ErrSamePassword      = errors.New("new password must differ from the current password")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidRole       = errors.New("invalid role")
)

// Notifier dispatches account mails. Delivery failure is non-fatal to every
// operation that sends mail.
type Notifier interface {
	SendPasswordReset(toEmail, username, token string) error
	SendAccountCreated(toEmail, username, tempPassword string) error
}

// dummyHash is a syntactically valid argon2id hash verified against when a
// username does not exist, so the unknown-user and wrong-password paths cost
// the same.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

// reservedUsernames can never be registered.
var reservedUsernames = map[string]struct{}{
	"admin": {}, "root": {}, "system": {}, "test": {},
	"api": {}, "www": {}, "mail": {}, "support": {},
}

// UserService implements account registration, credential verification and
// password management on top of the store.
type UserService struct {
	Store    store.Store
	Policy   passpolicy.Policy
	Audit    *audit.Trail
	Notifier Notifier
}

// Register creates a self-service account with the user role.
func (s *UserService) Register(ctx context.Context, username, password, email string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}
	email = normalizeEmail(email)

	if err := s.Policy.Validate(password); err != nil {
		s.Audit.Record(ctx, audit.EventPolicyRejected, "", "user:"+username, audit.OutcomeFailure)
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateIdentity
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	s.Audit.Record(ctx, audit.EventUserCreated, u.ID, "user:"+u.ID, audit.OutcomeSuccess,
		slog.String("username", username))
	return u, nil
}

// VerifyCredential checks a username/password pair. The unknown-user and
// wrong-password paths return the same error and perform the same amount of
// hashing work.
func (s *UserService) VerifyCredential(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, dummyHash)
			s.Audit.Record(ctx, audit.EventAuthFailure, "", "user:"+username, audit.OutcomeFailure,
				slog.String("reason", "unknown user"))
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		s.Audit.Record(ctx, audit.EventAuthFailure, u.ID, "user:"+u.ID, audit.OutcomeFailure,
			slog.String("reason", "password mismatch"))
		return domain.User{}, ErrInvalidCredentials
	}

	s.Audit.Record(ctx, audit.EventAuthSuccess, u.ID, "user:"+u.ID, audit.OutcomeSuccess)
	return u, nil
}

// ChangePassword replaces a user's credential after verifying the current
// one. On success the must-change flag is cleared in the same write.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, u.PasswordHash); err != nil {
		s.Audit.Record(ctx, audit.EventAuthFailure, u.ID, "user:"+u.ID, audit.OutcomeFailure,
			slog.String("reason", "password change with wrong current password"))
		return ErrIncorrectPassword
	}

	if err := s.Policy.Validate(newPassword); err != nil {
		s.Audit.Record(ctx, audit.EventPolicyRejected, u.ID, "user:"+u.ID, audit.OutcomeFailure)
		return err
	}

	if cryptox.VerifyPassword(newPassword, u.PasswordHash) == nil {
		return ErrSamePassword
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash, false); err != nil {
		return err
	}

	s.Audit.Record(ctx, audit.EventPasswordChanged, u.ID, "user:"+u.ID, audit.OutcomeSuccess)
	return nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// ListUsers returns every account, for the admin user list.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// AdminCreateUser provisions an account with a chosen role and a temporary
// password the user must replace on first login. The credentials are mailed
// best-effort.
func (s *UserService) AdminCreateUser(ctx context.Context, actorID, username, email, password string, role domain.Role) (domain.User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}
	if !role.Valid() {
		return domain.User{}, ErrInvalidRole
	}
	email = normalizeEmail(email)

	if err := s.Policy.Validate(password); err != nil {
		s.Audit.Record(ctx, audit.EventPolicyRejected, actorID, "user:"+username, audit.OutcomeFailure)
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:                 idx.New().String(),
		Username:           username,
		Email:              email,
		PasswordHash:       hash,
		Role:               role,
		MustChangePassword: true,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateIdentity
		}
		return domain.User{}, err
	}

	s.Audit.Record(ctx, audit.EventUserCreated, actorID, "user:"+u.ID, audit.OutcomeSuccess,
		slog.String("username", username),
		slog.String("role", string(role)),
	)

	if email != "" && s.Notifier != nil {
		if err := s.Notifier.SendAccountCreated(email, username, password); err != nil {
			// Non-fatal: the account exists either way.
			s.Audit.Record(ctx, audit.EventMailFailure, actorID, "user:"+u.ID, audit.OutcomeFailure,
				slog.Any("error", err))
		}
	}

	return u, nil
}

// AdminUpdateUser mutates username, email and/or role. Blank arguments keep
// the current value. The caller is responsible for the self-role guard.
func (s *UserService) AdminUpdateUser(ctx context.Context, actorID, userID, username, email string, role domain.Role) error {
	if username != "" {
		username = strings.TrimSpace(username)
		if err := validateUsername(username); err != nil {
			return err
		}
	}
	if role != "" && !role.Valid() {
		return ErrInvalidRole
	}
	email = normalizeEmail(email)

	err := s.Store.Users().UpdateProfile(ctx, userID, username, email, role)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrDuplicateIdentity
	case err != nil:
		return err
	}

	s.Audit.Record(ctx, audit.EventUserUpdated, actorID, "user:"+userID, audit.OutcomeSuccess)
	return nil
}

// AdminDeleteUser removes an account. The caller is responsible for the
// self-delete guard.
func (s *UserService) AdminDeleteUser(ctx context.Context, actorID, userID string) error {
	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.Audit.Record(ctx, audit.EventUserDeleted, actorID, "user:"+userID, audit.OutcomeSuccess)
	return nil
}

// AdminResetPassword sets a new credential without knowing the current one,
// and forces the user to pick their own password on next login.
func (s *UserService) AdminResetPassword(ctx context.Context, actorID, userID, newPassword string) error {
	if err := s.Policy.Validate(newPassword); err != nil {
		s.Audit.Record(ctx, audit.EventPolicyRejected, actorID, "user:"+userID, audit.OutcomeFailure)
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash, true); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.Audit.Record(ctx, audit.EventPasswordChanged, actorID, "user:"+userID, audit.OutcomeSuccess,
		slog.String("mode", "admin_reset"))
	return nil
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: must be 3-50 characters of letters, numbers, underscore or hyphen", ErrInvalidUsername)
	}
	if _, reserved := reservedUsernames[strings.ToLower(username)]; reserved {
		return fmt.Errorf("%w: name is reserved", ErrInvalidUsername)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
