package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/liftlog/accounts/internal/audit"
	"github.com/liftlog/accounts/internal/domain"
	"github.com/liftlog/accounts/internal/store"
	"github.com/liftlog/accounts/pkg/cryptox"
	"github.com/liftlog/accounts/pkg/idx"
	"github.com/liftlog/accounts/pkg/passpolicy"
	"github.com/liftlog/accounts/pkg/slogx"
)

// ErrInvalidToken is returned for every unredeemable token: unknown, already
// used or expired. Collapsing the cases keeps the API from leaking which one
// applied.
var ErrInvalidToken = errors.New("invalid or expired reset token")

const DefaultResetTTL = time.Hour

// ResetService issues and redeems single-use password reset tokens.
type ResetService struct {
	Store    store.Store
	Policy   passpolicy.Policy
	Audit    *audit.Trail
	Notifier Notifier
	TokenTTL time.Duration

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *ResetService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ResetService) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return DefaultResetTTL
}

// Issue mints a reset token for the user and stores its fingerprint. The
// returned string is the raw token; it is never persisted.
func (s *ResetService) Issue(ctx context.Context, userID string) (string, error) {
	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	t := domain.ResetToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(raw),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl()),
	}
	if err := s.Store.ResetTokens().CreateResetToken(ctx, t); err != nil {
		return "", err
	}
	return raw, nil
}

// RequestReset starts the forgot-password flow. The outcome is identical
// whether or not the email matches an account, so the endpoint cannot be
// used to enumerate registered addresses. Mail dispatch failure is logged
// and swallowed for the same reason.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Audit.Record(ctx, audit.EventResetRequested, "", "email:"+email, audit.OutcomeFailure,
				slog.String("reason", "no matching account"))
			return nil
		}
		return err
	}

	raw, err := s.Issue(ctx, u.ID)
	if err != nil {
		return err
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendPasswordReset(u.Email, u.Username, raw); err != nil {
			log.Error("failed to send reset mail", slog.Any("error", err))
			s.Audit.Record(ctx, audit.EventMailFailure, "", "user:"+u.ID, audit.OutcomeFailure,
				slog.Any("error", err))
			return nil
		}
	}

	s.Audit.Record(ctx, audit.EventResetRequested, "", "user:"+u.ID, audit.OutcomeSuccess)
	return nil
}

// Redeem consumes a reset token and installs the new password. Marking the
// token used and replacing the hash happen in one transaction, so a token is
// either fully spent or untouched, and concurrent redemptions of the same
// token admit exactly one winner.
func (s *ResetService) Redeem(ctx context.Context, rawToken, newPassword string) error {
	t, err := s.Store.ResetTokens().GetResetTokenByHash(ctx, cryptox.FingerprintToken(rawToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Audit.Record(ctx, audit.EventResetRejected, "", "", audit.OutcomeFailure,
				slog.String("reason", "unknown token"))
			return ErrInvalidToken
		}
		return err
	}

	if t.Used {
		s.Audit.Record(ctx, audit.EventResetRejected, "", "user:"+t.UserID, audit.OutcomeFailure,
			slog.String("reason", "token already used"))
		return ErrInvalidToken
	}
	if s.now().After(t.ExpiresAt) {
		s.Audit.Record(ctx, audit.EventResetRejected, "", "user:"+t.UserID, audit.OutcomeFailure,
			slog.String("reason", "token expired"))
		return ErrInvalidToken
	}

	if err := s.Policy.Validate(newPassword); err != nil {
		s.Audit.Record(ctx, audit.EventPolicyRejected, "", "user:"+t.UserID, audit.OutcomeFailure)
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.ResetTokens().MarkResetTokenUsed(ctx, t.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Lost the race against a concurrent redemption.
				return ErrInvalidToken
			}
			return err
		}
		return tx.Users().UpdatePasswordHash(ctx, t.UserID, hash, false)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			s.Audit.Record(ctx, audit.EventResetRejected, "", "user:"+t.UserID, audit.OutcomeFailure,
				slog.String("reason", "token already used"))
		}
		return err
	}

	// Opportunistic housekeeping; failure here does not matter.
	_ = s.Store.ResetTokens().DeleteExpiredResetTokens(ctx)

	s.Audit.Record(ctx, audit.EventResetRedeemed, t.UserID, "user:"+t.UserID, audit.OutcomeSuccess)
	return nil
}
