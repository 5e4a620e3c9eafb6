package passpolicy_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/liftlog/accounts/pkg/passpolicy"
	"github.com/stretchr/testify/require"
)

func violations(t *testing.T, err error) *passpolicy.Violations {
	t.Helper()
	var v *passpolicy.Violations
	require.True(t, errors.As(err, &v), "expected *passpolicy.Violations, got %v", err)
	return v
}

func TestValidateLength(t *testing.T) {
	t.Parallel()

	p := passpolicy.Policy{MinLength: 8, MaxLength: 12}

	t.Run("shorter than minimum fails", func(t *testing.T) {
		v := violations(t, p.Validate("short"))
		require.Len(t, v.Rules, 1)
		require.Contains(t, v.Rules[0], "at least 8")
	})

	t.Run("exactly minimum passes", func(t *testing.T) {
		require.NoError(t, p.Validate("12345678"))
	})

	t.Run("longer than maximum fails", func(t *testing.T) {
		v := violations(t, p.Validate(strings.Repeat("a", 13)))
		require.Contains(t, v.Rules[0], "no longer than 12")
	})

	t.Run("length counts runes not bytes", func(t *testing.T) {
		require.NoError(t, p.Validate("pässwörd"))
	})
}

func TestValidateCharacterClasses(t *testing.T) {
	t.Parallel()

	p := passpolicy.Default()

	t.Run("all classes present passes", func(t *testing.T) {
		require.NoError(t, p.Validate("Abcdef1!"))
	})

	t.Run("missing classes are all reported at once", func(t *testing.T) {
		v := violations(t, p.Validate("abcdefgh"))
		require.Len(t, v.Rules, 3)
		require.Contains(t, v.Error(), "uppercase")
		require.Contains(t, v.Error(), "digit")
		require.Contains(t, v.Error(), "special")
	})

	t.Run("disabled requirements are not enforced", func(t *testing.T) {
		relaxed := passpolicy.Policy{MinLength: 6}
		require.NoError(t, relaxed.Validate("abcdef"))
	})
}

func TestValidateCommonPasswords(t *testing.T) {
	t.Parallel()

	p := passpolicy.Default()

	t.Run("common password fails on class and denylist grounds", func(t *testing.T) {
		v := violations(t, p.Validate("password"))
		require.Contains(t, v.Error(), "too common")
		require.Contains(t, v.Error(), "uppercase")
	})

	t.Run("denylist match is case-insensitive", func(t *testing.T) {
		long := passpolicy.Policy{MinLength: 4, BlockCommon: true}
		v := violations(t, long.Validate("QwErTy123"))
		require.Equal(t, []string{"is too common"}, v.Rules)
	})

	t.Run("denylist disabled allows common values", func(t *testing.T) {
		open := passpolicy.Policy{MinLength: 4}
		require.NoError(t, open.Validate("password"))
	})
}
