package service

import (
	"context"
	"time"

	"github.com/liftlog/accounts/internal/domain"
	"github.com/liftlog/accounts/pkg/jwtx"
)

const DefaultAccessTTL = 24 * time.Hour

// TokenService turns verified credentials into signed access tokens.
type TokenService struct {
	Users     *UserService
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// TTL returns the effective access-token lifetime.
func (s *TokenService) TTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return DefaultAccessTTL
}

// Login verifies the credential pair and mints an access token carrying the
// user's id and role.
func (s *TokenService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	u, err := s.Users.VerifyCredential(ctx, username, password)
	if err != nil {
		return "", domain.User{}, err
	}

	token, err := s.Signer.Sign(jwtx.NewClaims(s.Issuer, u.ID, string(u.Role), s.TTL()))
	if err != nil {
		return "", domain.User{}, err
	}
	return token, u, nil
}
