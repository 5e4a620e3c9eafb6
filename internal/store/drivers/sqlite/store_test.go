package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/liftlog/accounts/internal/domain"
	"github.com/liftlog/accounts/internal/store"
	"github.com/liftlog/accounts/internal/store/drivers/sqlite"
	"github.com/liftlog/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestUser(username, email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		Role:         domain.RoleUser,
	}
}

func TestUsersCreateAndGet(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	t.Run("by id", func(t *testing.T) {
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "alice", got.Username)
		require.Equal(t, "alice@example.com", got.Email)
		require.Equal(t, domain.RoleUser, got.Role)
		require.False(t, got.MustChangePassword)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("by username", func(t *testing.T) {
		got, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("by email", func(t *testing.T) {
		got, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("unknown user maps to ErrNotFound", func(t *testing.T) {
		_, err := st.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersUniqueConstraints(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Users().CreateUser(ctx, newTestUser("alice", "alice@example.com")))

	t.Run("duplicate username", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, newTestUser("alice", "other@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, newTestUser("bob", "alice@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("multiple users without email", func(t *testing.T) {
		require.NoError(t, st.Users().CreateUser(ctx, newTestUser("carol", "")))
		require.NoError(t, st.Users().CreateUser(ctx, newTestUser("dave", "")))
	})

	t.Run("profile update collides", func(t *testing.T) {
		carol, err := st.Users().GetUserByUsername(ctx, "carol")
		require.NoError(t, err)
		err = st.Users().UpdateProfile(ctx, carol.ID, "alice", "", "")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestUsersUpdatePasswordHash(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("alice", "")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.NoError(t, st.Users().UpdatePasswordHash(ctx, u.ID, "new-hash", true))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.True(t, got.MustChangePassword)

	t.Run("unknown user", func(t *testing.T) {
		err := st.Users().UpdatePasswordHash(ctx, "missing", "h", false)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersUpdateProfilePartial(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	// Only the role changes; blank fields keep their current values.
	require.NoError(t, st.Users().UpdateProfile(ctx, u.ID, "", "", domain.RoleAdmin))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, domain.RoleAdmin, got.Role)
}

func TestUsersDeleteCascadesTokens(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("alice", "")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	tok := domain.ResetToken{
		ID:        idx.New().String(),
		TokenHash: "fingerprint",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, st.ResetTokens().CreateResetToken(ctx, tok))

	require.NoError(t, st.Users().DeleteUser(ctx, u.ID))

	_, err := st.ResetTokens().GetResetTokenByHash(ctx, "fingerprint")
	require.ErrorIs(t, err, store.ErrNotFound)

	t.Run("deleting again", func(t *testing.T) {
		require.ErrorIs(t, st.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)
	})
}

func TestResetTokensSingleUse(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("alice", "")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	tok := domain.ResetToken{
		ID:        idx.New().String(),
		TokenHash: "fingerprint",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, st.ResetTokens().CreateResetToken(ctx, tok))

	require.NoError(t, st.ResetTokens().MarkResetTokenUsed(ctx, tok.ID))

	t.Run("second mark loses the race", func(t *testing.T) {
		err := st.ResetTokens().MarkResetTokenUsed(ctx, tok.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("used flag persisted", func(t *testing.T) {
		got, err := st.ResetTokens().GetResetTokenByHash(ctx, "fingerprint")
		require.NoError(t, err)
		require.True(t, got.Used)
	})
}

func TestResetTokensDeleteExpired(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("alice", "")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	expired := domain.ResetToken{
		ID:        idx.New().String(),
		TokenHash: "old",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	live := domain.ResetToken{
		ID:        idx.New().String(),
		TokenHash: "fresh",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, st.ResetTokens().CreateResetToken(ctx, expired))
	require.NoError(t, st.ResetTokens().CreateResetToken(ctx, live))

	require.NoError(t, st.ResetTokens().DeleteExpiredResetTokens(ctx))

	_, err := st.ResetTokens().GetResetTokenByHash(ctx, "old")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.ResetTokens().GetResetTokenByHash(ctx, "fresh")
	require.NoError(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("alice", "")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	boom := context.Canceled
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, u.ID, "changed", false); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
}
