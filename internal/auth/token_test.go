package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func testPolicy() Policy {
	return Policy{Issuer: "authn", Audience: "app", Algorithms: []string{"ES256"}}
}

func testToken() Token {
	return Token{Issuer: "authn", Audience: "app", Subject: "alice", Version: 3}
}

func TestIssueValidate_Roundtrip(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)

	signed, err := Issue(testToken(), key, jwt.SigningMethodES256, time.Hour)
	require.NoError(t, err)

	tok, err := Validate(signed, testPolicy(), &key.PublicKey)
	require.NoError(t, err)

	assert.Equal(t, "alice", tok.Subject)
	assert.Equal(t, "authn", tok.Issuer)
	assert.Equal(t, "app", tok.Audience)
	assert.Equal(t, uint32(3), tok.Version)
}

func TestIssue_InvalidDuration(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)

	for _, d := range []time.Duration{0, -time.Second} {
		_, err := Issue(testToken(), key, jwt.SigningMethodES256, d)
		assert.ErrorIs(t, err, common.ErrInvalidDuration)
	}
}

func TestValidate_Expired(t *testing.T) {
	key := newTestKey(t)

	timeNow = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	defer func() { timeNow = time.Now }()

	signed, err := Issue(testToken(), key, jwt.SigningMethodES256, time.Hour)
	require.NoError(t, err)

	_, err = Validate(signed, testPolicy(), &key.PublicKey)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestValidate_WrongAudience(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)

	tok := testToken()
	tok.Audience = "someone-else"

	signed, err := Issue(tok, key, jwt.SigningMethodES256, time.Hour)
	require.NoError(t, err)

	_, err = Validate(signed, testPolicy(), &key.PublicKey)
	assert.ErrorIs(t, err, common.ErrWrongAudience)
}

func TestValidate_WrongIssuer(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)

	tok := testToken()
	tok.Issuer = "impostor"

	signed, err := Issue(tok, key, jwt.SigningMethodES256, time.Hour)
	require.NoError(t, err)

	_, err = Validate(signed, testPolicy(), &key.PublicKey)
	assert.ErrorIs(t, err, common.ErrWrongIssuer)
}

func TestValidate_BadSignature(t *testing.T) {
	t.Parallel()

	signerKey := newTestKey(t)
	otherKey := newTestKey(t)

	signed, err := Issue(testToken(), signerKey, jwt.SigningMethodES256, time.Hour)
	require.NoError(t, err)

	_, err = Validate(signed, testPolicy(), &otherKey.PublicKey)
	assert.ErrorIs(t, err, common.ErrBadSignature)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)

	_, err := Validate("not.a.jwt", testPolicy(), &key.PublicKey)
	assert.ErrorIs(t, err, common.ErrMalformedToken)
}

// A token signed with a symmetric method must never pass, regardless of
// claim content: the verification key is public, so accepting HMAC would let
// anyone forge tokens with it.
func TestValidate_DisallowedAlgorithmHMAC(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "authn",
			Audience:  jwt.ClaimStrings{"app"},
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Version: 0,
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("guessable"))
	require.NoError(t, err)

	_, err = Validate(forged, testPolicy(), &key.PublicKey)
	assert.ErrorIs(t, err, common.ErrAlgorithmNotAllowed)
}

func TestValidate_DisallowedAlgorithmNone(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "authn",
			Audience:  jwt.ClaimStrings{"app"},
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Validate(forged, testPolicy(), &key.PublicKey)
	assert.ErrorIs(t, err, common.ErrAlgorithmNotAllowed)
}

// An algorithm in the global allow-list but outside this verifier's policy
// is still rejected: the policy pins exactly one expected algorithm.
func TestValidate_AlgorithmOutsidePolicy(t *testing.T) {
	t.Parallel()

	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)

	signed, err := Issue(testToken(), key, jwt.SigningMethodES384, time.Hour)
	require.NoError(t, err)

	_, err = Validate(signed, testPolicy(), &key.PublicKey)
	assert.ErrorIs(t, err, common.ErrAlgorithmNotAllowed)
}

func TestNewPolicy_RejectsDisallowedAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := NewPolicy("authn", "app", "HS256")
	assert.ErrorIs(t, err, common.ErrAlgorithmNotAllowed)

	_, err = NewPolicy("authn", "app", "none")
	assert.ErrorIs(t, err, common.ErrAlgorithmNotAllowed)
}
