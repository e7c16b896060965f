// Package client implements the remote-side validator: it logs in against
// the auth server and validates bearer tokens with a two-phase protocol.
// Phase one checks signature, expiry, audience, issuer, and algorithm
// locally against a cached verification key, rejecting most invalid tokens
// with zero network cost. Phase two, reached only on local success, fetches
// the subject's live token_version to detect revocation, which no offline
// check can see.
package client

import (
	"bytes"
	"context"
	"crypto"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/authn/internal/api"
	"github.com/dmitrijs2005/authn/internal/auth"
	"github.com/dmitrijs2005/authn/internal/client/config"
	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/dmitrijs2005/authn/internal/netx"
)

// APIError carries an error message reported by the server.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client validates tokens issued by one auth server for one audience.
type Client struct {
	http       *http.Client
	baseURL    string
	clientName string
	policy     auth.Policy
	pubKey     crypto.PublicKey
}

// New builds a Client from configuration: it loads and parses the cached
// verification key and fixes the validation policy (expected issuer,
// audience, and the single allowed algorithm).
func New(cfg *config.Config) (*Client, error) {
	method, err := auth.ParseSigningMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	pemBytes, err := os.ReadFile(cfg.VerificationKeyFile)
	if err != nil {
		return nil, fmt.Errorf("reading verification key: %w", err)
	}

	pubKey, err := auth.ParseVerificationKey(pemBytes, method)
	if err != nil {
		return nil, err
	}

	policy, err := auth.NewPolicy(cfg.ServerName, cfg.ClientName, cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	httpClient, baseURL := netx.NewHTTPClient(cfg.ServerAddr)

	return &Client{
		http:       httpClient,
		baseURL:    baseURL,
		clientName: cfg.ClientName,
		policy:     policy,
		pubKey:     pubKey,
	}, nil
}

// Login exchanges credentials for a token, requesting the given lifetime.
// Server-reported failures surface as *APIError with the server's message.
func (c *Client) Login(ctx context.Context, name, pass string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(api.LoginRequest{
		Name:     name,
		Pass:     pass,
		Audience: c.clientName,
		Duration: uint64(ttl.Seconds()),
	})
	if err != nil {
		return "", err
	}

	body, err := c.post(ctx, "/login", payload)
	if err != nil {
		return "", err
	}

	var res api.LoginResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrTransport, err)
	}

	return res.Token, nil
}

// ValidateToken verifies the token and returns the subject's name. The
// offline phase holds no mutable state, and the single online round trip can
// be cancelled through ctx with nothing to clean up.
func (c *Client) ValidateToken(ctx context.Context, token string) (string, error) {
	tok, err := auth.Validate(token, c.policy, c.pubKey)
	if err != nil {
		return "", err
	}

	body, err := c.get(ctx, "/user/"+url.PathEscape(tok.Subject))
	if err != nil {
		return "", err
	}

	var user api.UserResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrTransport, err)
	}

	if user.TokenVersion != tok.Version {
		return "", common.ErrVersionMismatch
	}

	return tok.Subject, nil
}

// FetchPublicKey retrieves the server's verification key PEM, for key
// distribution tooling.
func (c *Client) FetchPublicKey(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/pub-key")
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(body)
	}

	return body, nil
}

// parseError extracts the server's error message from a non-OK response
// body, falling back to a transport error when the body is not the expected
// JSON shape.
func parseError(body []byte) error {
	var e api.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return fmt.Errorf("%w: unexpected response: %s", common.ErrTransport, string(body))
	}
	return &APIError{Message: e.Error}
}
