package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftlog/accounts/internal/domain"
	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/pkg/passpolicy"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, newTestStore(t))

	t.Run("creates a user with the user role", func(t *testing.T) {
		u, err := svc.Register(ctx, "alice", "Str0ng!pass", "Alice@Example.com")
		require.NoError(t, err)
		require.Equal(t, domain.RoleUser, u.Role)
		require.Equal(t, "alice@example.com", u.Email, "email should be normalized")
		require.False(t, u.MustChangePassword)
		require.NotEqual(t, "Str0ng!pass", u.PasswordHash)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "Str0ng!pass", "other@example.com")
		require.ErrorIs(t, err, service.ErrDuplicateIdentity)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice2", "Str0ng!pass", "alice@example.com")
		require.ErrorIs(t, err, service.ErrDuplicateIdentity)
	})

	t.Run("rejects malformed usernames", func(t *testing.T) {
		for _, name := range []string{"ab", "has space", "bang!", ""} {
			_, err := svc.Register(ctx, name, "Str0ng!pass", "")
			require.ErrorIs(t, err, service.ErrInvalidUsername, "username %q", name)
		}
	})

	t.Run("rejects reserved usernames regardless of case", func(t *testing.T) {
		_, err := svc.Register(ctx, "Admin", "Str0ng!pass", "")
		require.ErrorIs(t, err, service.ErrInvalidUsername)
	})

	t.Run("rejects passwords that violate the policy", func(t *testing.T) {
		_, err := svc.Register(ctx, "bob", "short", "")
		var violations *passpolicy.Violations
		require.ErrorAs(t, err, &violations)
		require.NotEmpty(t, violations.Rules)
	})
}

func TestUserService_VerifyCredential(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, newTestStore(t))
	mustRegister(t, svc, "alice", "Str0ng!pass", "alice@example.com")

	t.Run("accepts the correct password", func(t *testing.T) {
		u, err := svc.VerifyCredential(ctx, "alice", "Str0ng!pass")
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		_, errWrong := svc.VerifyCredential(ctx, "alice", "not-it")
		_, errUnknown := svc.VerifyCredential(ctx, "nobody", "Str0ng!pass")
		require.ErrorIs(t, errWrong, service.ErrInvalidCredentials)
		require.ErrorIs(t, errUnknown, service.ErrInvalidCredentials)
		require.Equal(t, errWrong.Error(), errUnknown.Error())
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, newTestStore(t))
	id := mustRegister(t, svc, "alice", "Str0ng!pass", "")

	t.Run("requires the current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, id, "not-it", "N3w!password")
		require.ErrorIs(t, err, service.ErrIncorrectPassword)
	})

	t.Run("rejects reusing the current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, id, "Str0ng!pass", "Str0ng!pass")
		require.ErrorIs(t, err, service.ErrSamePassword)
	})

	t.Run("validates the new password against the policy", func(t *testing.T) {
		err := svc.ChangePassword(ctx, id, "Str0ng!pass", "weak")
		var violations *passpolicy.Violations
		require.ErrorAs(t, err, &violations)
	})

	t.Run("replaces the credential", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, id, "Str0ng!pass", "N3w!password"))

		_, err := svc.VerifyCredential(ctx, "alice", "Str0ng!pass")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
		_, err = svc.VerifyCredential(ctx, "alice", "N3w!password")
		require.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.ChangePassword(ctx, "01JXDOESNOTEXIST0000000000", "x", "N3w!password")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestUserService_AdminCreateUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	notifier := &fakeNotifier{}
	svc := newUserService(t, st)
	svc.Notifier = notifier

	t.Run("provisions an account that must rotate its password", func(t *testing.T) {
		u, err := svc.AdminCreateUser(ctx, "admin-id", "coach", "coach@example.com", "Temp0rary!", domain.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, u.Role)
		require.True(t, u.MustChangePassword)

		require.Len(t, notifier.welcomes, 1)
		require.Equal(t, "coach@example.com", notifier.welcomes[0].to)
		require.Equal(t, "Temp0rary!", notifier.welcomes[0].tempPassword)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		_, err := svc.AdminCreateUser(ctx, "admin-id", "other", "", "Temp0rary!", "owner")
		require.ErrorIs(t, err, service.ErrInvalidRole)
	})

	t.Run("mail failure does not fail the creation", func(t *testing.T) {
		notifier.fail = context.DeadlineExceeded
		u, err := svc.AdminCreateUser(ctx, "admin-id", "trainer", "trainer@example.com", "Temp0rary!", domain.RoleUser)
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
	})
}

func TestUserService_AdminUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, newTestStore(t))
	aliceID := mustRegister(t, svc, "alice", "Str0ng!pass", "alice@example.com")
	mustRegister(t, svc, "bob", "Str0ng!pass", "bob@example.com")

	t.Run("partial update keeps unspecified fields", func(t *testing.T) {
		require.NoError(t, svc.AdminUpdateUser(ctx, "admin-id", aliceID, "", "", domain.RoleAdmin))

		u, err := svc.GetUserByID(ctx, aliceID)
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)
		require.Equal(t, domain.RoleAdmin, u.Role)
	})

	t.Run("identity collision with another user", func(t *testing.T) {
		err := svc.AdminUpdateUser(ctx, "admin-id", aliceID, "bob", "", "")
		require.ErrorIs(t, err, service.ErrDuplicateIdentity)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.AdminUpdateUser(ctx, "admin-id", "01JXDOESNOTEXIST0000000000", "carol", "", "")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestUserService_AdminDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, newTestStore(t))
	id := mustRegister(t, svc, "alice", "Str0ng!pass", "")

	require.NoError(t, svc.AdminDeleteUser(ctx, "admin-id", id))

	_, err := svc.GetUserByID(ctx, id)
	require.ErrorIs(t, err, service.ErrUserNotFound)

	err = svc.AdminDeleteUser(ctx, "admin-id", id)
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserService_AdminResetPassword(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, newTestStore(t))
	id := mustRegister(t, svc, "alice", "Str0ng!pass", "")

	require.NoError(t, svc.AdminResetPassword(ctx, "admin-id", id, "F0rced!rotation"))

	u, err := svc.VerifyCredential(ctx, "alice", "F0rced!rotation")
	require.NoError(t, err)
	require.True(t, u.MustChangePassword, "admin reset must force a rotation")
}
