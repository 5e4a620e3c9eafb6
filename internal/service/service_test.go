package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftlog/accounts/internal/audit"
	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/internal/store"
	"github.com/liftlog/accounts/internal/store/drivers/sqlite"
	"github.com/liftlog/accounts/pkg/passpolicy"
)

// fakeNotifier records dispatched mails and can be told to fail.
type fakeNotifier struct {
	mu       sync.Mutex
	resets   []resetMail
	welcomes []welcomeMail
	fail     error
}

type resetMail struct {
	to, username, token string
}

type welcomeMail struct {
	to, username, tempPassword string
}

func (f *fakeNotifier) SendPasswordReset(to, username, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.resets = append(f.resets, resetMail{to, username, token})
	return nil
}

func (f *fakeNotifier) SendAccountCreated(to, username, tempPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.welcomes = append(f.welcomes, welcomeMail{to, username, tempPassword})
	return nil
}

func (f *fakeNotifier) resetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resets)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newUserService(t *testing.T, st store.Store) *service.UserService {
	t.Helper()
	return &service.UserService{
		Store:    st,
		Policy:   passpolicy.Default(),
		Audit:    audit.NewTrail(),
		Notifier: &fakeNotifier{},
	}
}

func mustRegister(t *testing.T, svc *service.UserService, username, password, email string) string {
	t.Helper()
	u, err := svc.Register(context.Background(), username, password, email)
	require.NoError(t, err)
	return u.ID
}
