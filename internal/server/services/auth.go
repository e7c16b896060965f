// Package services contains the server-side application services. The auth
// service orchestrates the credential store and the token codec: login,
// revocation, user lookup, and administrative credential management.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authn/internal/auth"
	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/dmitrijs2005/authn/internal/cryptox"
	"github.com/dmitrijs2005/authn/internal/logging"
	"github.com/dmitrijs2005/authn/internal/server/repositories/users"
)

// UserInfo is the externally visible slice of a user record. The password
// hash never leaves the service.
type UserInfo struct {
	Name         string `json:"name"`
	TokenVersion uint32 `json:"token_version"`
}

// AuthService owns the signing key material and token policy and serializes
// every credential decision through the repository.
type AuthService struct {
	repo        users.Repository
	keys        *auth.KeyMaterial
	issuer      string
	maxTokenTTL time.Duration
	logger      logging.Logger
}

func NewAuthService(repo users.Repository, keys *auth.KeyMaterial, issuer string, maxTokenTTL time.Duration, logger logging.Logger) *AuthService {
	return &AuthService{
		repo:        repo,
		keys:        keys,
		issuer:      issuer,
		maxTokenTTL: maxTokenTTL,
		logger:      logger.With("module", "auth_service"),
	}
}

// Login verifies the password and issues a token embedding the user's
// current token_version. An unknown user surfaces common.ErrNotFound and a
// wrong password common.ErrLoginFailed; the two stay distinct here so the
// audit log keeps the difference even if the transport layer unifies them.
// The requested lifetime is clamped to the configured maximum, never
// rejected, bounding the blast radius of a leaked long-lived token.
func (s *AuthService) Login(ctx context.Context, name string, pass []byte, audience string, requestedTTL time.Duration) (string, error) {
	user, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return "", err
	}

	ok, err := cryptox.VerifyPassword(user.PassHash, pass)
	if err != nil {
		return "", fmt.Errorf("verifying password for %q: %w", name, err)
	}
	if !ok {
		return "", common.ErrLoginFailed
	}

	validity := requestedTTL
	if validity > s.maxTokenTTL {
		validity = s.maxTokenTTL
	}

	token, err := auth.Issue(auth.Token{
		Issuer:   s.issuer,
		Audience: audience,
		Subject:  name,
		Version:  user.TokenVersion,
	}, s.keys.PrivateKey, s.keys.Method, validity)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "issued token", "user", name, "audience", audience, "validity", validity.String())
	return token, nil
}

// GetUser returns the name and live token_version. Clients call this to
// compare a token's embedded version against the current counter.
func (s *AuthService) GetUser(ctx context.Context, name string) (*UserInfo, error) {
	user, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &UserInfo{Name: user.Name, TokenVersion: user.TokenVersion}, nil
}

// PublicKey returns the verification key PEM verbatim.
func (s *AuthService) PublicKey() []byte {
	return s.keys.PublicPEM
}

// Revoke increments the user's token_version; every token issued before the
// call becomes rejectable on its next validation round trip.
func (s *AuthService) Revoke(ctx context.Context, name string) error {
	if err := s.repo.IncrementTokenVersion(ctx, name); err != nil {
		return err
	}
	s.logger.Info(ctx, "revoked tokens", "user", name)
	return nil
}

// Register creates a credential record for a new user.
func (s *AuthService) Register(ctx context.Context, name string, pass []byte) error {
	encoded, err := cryptox.EncodePassword(pass)
	if err != nil {
		return err
	}
	return s.repo.Insert(ctx, name, encoded)
}

// UpdatePassword replaces an existing user's credential.
func (s *AuthService) UpdatePassword(ctx context.Context, name string, pass []byte) error {
	encoded, err := cryptox.EncodePassword(pass)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, name, encoded)
}
