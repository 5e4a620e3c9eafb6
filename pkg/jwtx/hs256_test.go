package jwtx_test

import (
	"testing"
	"time"

	"github.com/liftlog/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewHS256RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewHS256(nil, "accounts")
	require.ErrorIs(t, err, jwtx.ErrNoSecret)
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256([]byte("test-secret"), "accounts")
	require.NoError(t, err)

	raw, err := h.Sign(jwtx.NewClaims("accounts", "user-1", "admin", time.Hour))
	require.NoError(t, err)

	claims, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "accounts", claims.Issuer)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256([]byte("test-secret"), "accounts")
	require.NoError(t, err)

	raw, err := h.Sign(jwtx.NewClaims("accounts", "user-1", "user", -time.Minute))
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256([]byte("secret-a"), "accounts")
	require.NoError(t, err)
	verifier, err := jwtx.NewHS256([]byte("secret-b"), "accounts")
	require.NoError(t, err)

	raw, err := signer.Sign(jwtx.NewClaims("accounts", "user-1", "user", time.Hour))
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrInvalid)
}

func TestVerifyChecksIssuer(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256([]byte("test-secret"), "other-service")
	require.NoError(t, err)
	verifier, err := jwtx.NewHS256([]byte("test-secret"), "accounts")
	require.NoError(t, err)

	raw, err := signer.Sign(jwtx.NewClaims("other-service", "user-1", "user", time.Hour))
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}
