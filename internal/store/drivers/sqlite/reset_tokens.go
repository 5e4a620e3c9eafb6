package sqlite

import (
	"context"

	"github.com/liftlog/accounts/internal/domain"
)

type resetTokensRepo struct {
	db dbtx
}

func (r *resetTokensRepo) CreateResetToken(ctx context.Context, t domain.ResetToken) error {
	ts := now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (id, token_hash, user_id, expires_at, used, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TokenHash, t.UserID, t.ExpiresAt.UTC(), t.Used, ts, ts,
	)
	return mapConstraint(err)
}

func (r *resetTokensRepo) GetResetTokenByHash(ctx context.Context, hash string) (domain.ResetToken, error) {
	var t domain.ResetToken
	err := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, user_id, expires_at, used, created_at, updated_at
		FROM password_reset_tokens WHERE token_hash = ?`, hash).
		Scan(&t.ID, &t.TokenHash, &t.UserID, &t.ExpiresAt, &t.Used, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.ResetToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *resetTokensRepo) MarkResetTokenUsed(ctx context.Context, tokenID string) error {
	// The used = 0 guard serializes racing redemptions: the loser updates
	// zero rows and observes ErrNotFound.
	res, err := r.db.ExecContext(ctx, `
		UPDATE password_reset_tokens SET used = 1, updated_at = ?
		WHERE id = ? AND used = 0`,
		now(), tokenID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *resetTokensRepo) DeleteExpiredResetTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at < ?`, now())
	return err
}
