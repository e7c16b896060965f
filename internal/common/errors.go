// Package common defines shared constants and sentinel errors used across
// client and server layers of the authentication service. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("name already taken")
	ErrStorage       = errors.New("storage failure")

	// Service-level errors (generic/internal flow control).
	ErrInternal    = errors.New("internal error")
	ErrLoginFailed = errors.New("login failed")
	ErrBadRequest  = errors.New("bad request")

	// Password hash errors.
	ErrMalformedHash = errors.New("malformed password hash")

	// Token issuance errors.
	ErrInvalidDuration = errors.New("invalid token duration")

	// Token validation errors, one per failure kind so callers can tell
	// a revoked token from a forged one.
	ErrInvalidToken        = errors.New("invalid token")
	ErrMalformedToken      = errors.New("malformed token")
	ErrBadSignature        = errors.New("bad token signature")
	ErrTokenExpired        = errors.New("token expired")
	ErrWrongAudience       = errors.New("wrong token audience")
	ErrWrongIssuer         = errors.New("wrong token issuer")
	ErrAlgorithmNotAllowed = errors.New("signing algorithm not allowed")

	// Revocation check errors.
	ErrVersionMismatch = errors.New("token version mismatch")

	// Transport errors.
	ErrTransport = errors.New("transport failure")
)
