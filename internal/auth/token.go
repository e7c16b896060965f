// Package auth implements the signed-token codec: issuing JWTs that embed a
// per-user revocation version, and validating them against an explicit
// policy (expected issuer, expected audience, algorithm allow-list).
package auth

import (
	"crypto"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// timeNow is a test seam for the clock.
var timeNow = time.Now

// Token is the identity assertion carried by an issued JWT. Version is the
// subject's token_version at issue time; a token is only accepted while it
// matches the live counter.
type Token struct {
	Issuer   string
	Audience string
	Subject  string
	Version  uint32
}

// Claims is the wire-level claim set: the registered claims plus the
// revocation version.
type Claims struct {
	jwt.RegisteredClaims
	Version uint32 `json:"version"`
}

// Policy describes what a verifier accepts. Tokens whose issuer, audience,
// or signing algorithm differ are rejected with a specific error kind.
type Policy struct {
	Issuer     string
	Audience   string
	Algorithms []string
}

// NewPolicy builds a validation policy for a single expected algorithm.
func NewPolicy(issuer, audience, algorithm string) (Policy, error) {
	if !AlgorithmAllowed(algorithm) {
		return Policy{}, fmt.Errorf("%w: %s", common.ErrAlgorithmNotAllowed, algorithm)
	}
	return Policy{Issuer: issuer, Audience: audience, Algorithms: []string{algorithm}}, nil
}

func (p Policy) allows(alg string) bool {
	for _, a := range p.Algorithms {
		if a == alg {
			return true
		}
	}
	return false
}

// Issue signs the token with the given key and method. iat is the current
// time and exp is iat + validity. A non-positive validity or a clock reading
// before the epoch yields common.ErrInvalidDuration.
func Issue(tok Token, key crypto.PrivateKey, method jwt.SigningMethod, validity time.Duration) (string, error) {
	now := timeNow()
	if now.Unix() < 0 {
		return "", common.ErrInvalidDuration
	}
	if validity <= 0 {
		return "", common.ErrInvalidDuration
	}

	exp := now.Add(validity)
	if !exp.After(now) {
		return "", common.ErrInvalidDuration
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tok.Issuer,
			Audience:  jwt.ClaimStrings{tok.Audience},
			Subject:   tok.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Version: tok.Version,
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Validate parses the token string, verifies the signature with the given
// key, and checks expiry, issuer, and audience against the policy. The
// signing algorithm named in the token header must be in the policy's
// allow-list; the check runs before any key material is handed to the
// verifier, so a forged "none" or downgraded algorithm never passes.
func Validate(tokenString string, policy Policy, key crypto.PublicKey) (*Token, error) {
	parser := jwt.NewParser(
		jwt.WithIssuer(policy.Issuer),
		jwt.WithAudience(policy.Audience),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		alg := t.Method.Alg()
		if !AlgorithmAllowed(alg) || !policy.allows(alg) {
			return nil, fmt.Errorf("%w: %s", common.ErrAlgorithmNotAllowed, alg)
		}
		return key, nil
	})
	if err != nil {
		return nil, mapValidationError(err)
	}

	tok := &Token{
		Issuer:  claims.Issuer,
		Subject: claims.Subject,
		Version: claims.Version,
	}
	if len(claims.Audience) > 0 {
		tok.Audience = claims.Audience[0]
	}

	return tok, nil
}

// mapValidationError converts golang-jwt parse errors into the service's
// sentinel error kinds.
func mapValidationError(err error) error {
	switch {
	case errors.Is(err, common.ErrAlgorithmNotAllowed):
		return common.ErrAlgorithmNotAllowed
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return common.ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return common.ErrWrongAudience
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return common.ErrWrongIssuer
	default:
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
}
