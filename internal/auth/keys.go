package auth

import (
	"crypto"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms is the fixed set of signing algorithms the service will
// ever sign with or accept. Symmetric methods and "none" are excluded:
// verification keys are distributed to clients, so anything a client holds
// must not be usable for forging.
var allowedAlgorithms = map[string]struct{}{
	"ES256": {}, "ES384": {},
	"RS256": {}, "RS384": {}, "RS512": {},
	"PS256": {}, "PS384": {}, "PS512": {},
}

// AlgorithmAllowed reports whether name is in the allow-list.
func AlgorithmAllowed(name string) bool {
	_, ok := allowedAlgorithms[name]
	return ok
}

// ParseSigningMethod resolves the algorithm name to a jwt.SigningMethod,
// rejecting anything outside the allow-list. Configuration naming a
// disallowed algorithm fails here, at startup, not at first login.
func ParseSigningMethod(name string) (jwt.SigningMethod, error) {
	if !AlgorithmAllowed(name) {
		return nil, fmt.Errorf("%w: %s", common.ErrAlgorithmNotAllowed, name)
	}
	method := jwt.GetSigningMethod(name)
	if method == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrAlgorithmNotAllowed, name)
	}
	return method, nil
}

// LoadSigningKey reads a PEM-encoded private key suitable for the method.
func LoadSigningKey(path string, method jwt.SigningMethod) (crypto.PrivateKey, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signing key: %w", err)
	}

	switch method.(type) {
	case *jwt.SigningMethodECDSA:
		return jwt.ParseECPrivateKeyFromPEM(pemBytes)
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		return jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrAlgorithmNotAllowed, method.Alg())
	}
}

// LoadVerificationKey reads a PEM-encoded public key for the method. The raw
// file contents are returned alongside the parsed key so the server can
// serve them verbatim for out-of-band distribution.
func LoadVerificationKey(path string, method jwt.SigningMethod) (crypto.PublicKey, []byte, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading verification key: %w", err)
	}

	key, err := ParseVerificationKey(pemBytes, method)
	if err != nil {
		return nil, nil, err
	}

	return key, pemBytes, nil
}

// KeyMaterial bundles everything a server needs to sign and publish tokens:
// the resolved signing method, both halves of the key pair, and the raw
// verification key PEM served for out-of-band distribution.
type KeyMaterial struct {
	Method     jwt.SigningMethod
	PrivateKey crypto.PrivateKey
	PublicKey  crypto.PublicKey
	PublicPEM  []byte
}

// LoadKeyMaterial resolves the algorithm and reads both key files. A
// disallowed algorithm or unreadable key fails here, before the server
// starts accepting logins.
func LoadKeyMaterial(algorithm, privateKeyPath, publicKeyPath string) (*KeyMaterial, error) {
	method, err := ParseSigningMethod(algorithm)
	if err != nil {
		return nil, err
	}

	priv, err := LoadSigningKey(privateKeyPath, method)
	if err != nil {
		return nil, err
	}

	pub, pemBytes, err := LoadVerificationKey(publicKeyPath, method)
	if err != nil {
		return nil, err
	}

	return &KeyMaterial{Method: method, PrivateKey: priv, PublicKey: pub, PublicPEM: pemBytes}, nil
}

// ParseVerificationKey parses PEM-encoded public key bytes for the method.
func ParseVerificationKey(pemBytes []byte, method jwt.SigningMethod) (crypto.PublicKey, error) {
	switch method.(type) {
	case *jwt.SigningMethodECDSA:
		return jwt.ParseECPublicKeyFromPEM(pemBytes)
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		return jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrAlgorithmNotAllowed, method.Alg())
	}
}
