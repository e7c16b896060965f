// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the auth server.
//
// Fields:
//   - ListenAddr: TCP address or unix socket path for the HTTP endpoint.
//   - Database: storage location; a postgres:// DSN or a SQLite file path.
//   - SigningKeyFile / VerificationKeyFile: PEM key pair paths.
//   - Algorithm: JWT signing algorithm; must be in the allow-list.
//   - ServerName: issuer identity embedded in every token (iss claim).
//   - MaxTokenTTL: hard ceiling on issued token lifetimes.
type Config struct {
	ListenAddr          string
	Database            string
	SigningKeyFile      string
	VerificationKeyFile string
	Algorithm           string
	ServerName          string
	MaxTokenTTL         time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = "/tmp/authn.sock"
	c.Database = "authn.db"
	c.SigningKeyFile = "priv.pem"
	c.VerificationKeyFile = "pub.pem"
	c.Algorithm = "ES256"
	c.ServerName = "authn"
	c.MaxTokenTTL = 30 * 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
