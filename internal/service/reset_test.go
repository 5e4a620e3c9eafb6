package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/liftlog/accounts/internal/audit"
	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/internal/store"
	"github.com/liftlog/accounts/pkg/passpolicy"
)

func newResetService(st store.Store, notifier service.Notifier) *service.ResetService {
	return &service.ResetService{
		Store:    st,
		Policy:   passpolicy.Default(),
		Audit:    audit.NewTrail(),
		Notifier: notifier,
	}
}

func TestResetService_RequestReset(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	mustRegister(t, users, "alice", "Str0ng!pass", "alice@example.com")

	notifier := &fakeNotifier{}
	svc := newResetService(st, notifier)

	t.Run("sends a token for a known email", func(t *testing.T) {
		require.NoError(t, svc.RequestReset(ctx, "Alice@Example.com"))
		require.Equal(t, 1, notifier.resetCount())
		require.Equal(t, "alice@example.com", notifier.resets[0].to)
		require.NotEmpty(t, notifier.resets[0].token)
	})

	t.Run("unknown email succeeds without sending", func(t *testing.T) {
		require.NoError(t, svc.RequestReset(ctx, "nobody@example.com"))
		require.Equal(t, 1, notifier.resetCount())
	})

	t.Run("mail failure is swallowed", func(t *testing.T) {
		notifier.fail = context.DeadlineExceeded
		require.NoError(t, svc.RequestReset(ctx, "alice@example.com"))
	})
}

func TestResetService_Redeem(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*service.ResetService, *service.UserService, string) {
		st := newTestStore(t)
		users := newUserService(t, st)
		id := mustRegister(t, users, "alice", "Str0ng!pass", "alice@example.com")
		return newResetService(st, &fakeNotifier{}), users, id
	}

	t.Run("installs the new password and clears the forced-change flag", func(t *testing.T) {
		svc, users, id := setup(t)
		require.NoError(t, users.AdminResetPassword(ctx, "admin-id", id, "Temp0rary!"))

		token, err := svc.Issue(ctx, id)
		require.NoError(t, err)
		require.NoError(t, svc.Redeem(ctx, token, "N3w!password"))

		u, err := users.VerifyCredential(ctx, "alice", "N3w!password")
		require.NoError(t, err)
		require.False(t, u.MustChangePassword)
	})

	t.Run("a token redeems at most once", func(t *testing.T) {
		svc, _, id := setup(t)
		token, err := svc.Issue(ctx, id)
		require.NoError(t, err)

		require.NoError(t, svc.Redeem(ctx, token, "N3w!password"))
		err = svc.Redeem(ctx, token, "An0ther!pass")
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("concurrent redemptions admit exactly one winner", func(t *testing.T) {
		svc, users, id := setup(t)
		token, err := svc.Issue(ctx, id)
		require.NoError(t, err)

		const attempts = 8
		results := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			go func() {
				results <- svc.Redeem(ctx, token, "N3w!password")
			}()
		}

		var won, lost int
		for i := 0; i < attempts; i++ {
			switch err := <-results; {
			case err == nil:
				won++
			case errors.Is(err, service.ErrInvalidToken):
				lost++
			default:
				t.Errorf("unexpected redemption error: %v", err)
			}
		}
		require.Equal(t, 1, won)
		require.Equal(t, attempts-1, lost)

		_, err = users.VerifyCredential(ctx, "alice", "N3w!password")
		require.NoError(t, err)
	})

	t.Run("expired tokens are rejected", func(t *testing.T) {
		svc, _, id := setup(t)
		token, err := svc.Issue(ctx, id)
		require.NoError(t, err)

		svc.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		err = svc.Redeem(ctx, token, "N3w!password")
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("unknown tokens are rejected with the same error", func(t *testing.T) {
		svc, _, _ := setup(t)
		err := svc.Redeem(ctx, "bm90LWEtcmVhbC10b2tlbg", "N3w!password")
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("a rejected password leaves the token redeemable", func(t *testing.T) {
		svc, _, id := setup(t)
		token, err := svc.Issue(ctx, id)
		require.NoError(t, err)

		var violations *passpolicy.Violations
		require.ErrorAs(t, svc.Redeem(ctx, token, "weak"), &violations)

		require.NoError(t, svc.Redeem(ctx, token, "N3w!password"))
	})

	t.Run("redeeming does not invalidate other outstanding tokens", func(t *testing.T) {
		svc, _, id := setup(t)
		first, err := svc.Issue(ctx, id)
		require.NoError(t, err)
		second, err := svc.Issue(ctx, id)
		require.NoError(t, err)

		require.NoError(t, svc.Redeem(ctx, first, "N3w!password"))
		require.NoError(t, svc.Redeem(ctx, second, "An0ther!pass"))
	})
}
