// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the auth client.
//
// Fields:
//   - ServerAddr: TCP address or unix socket path of the auth server.
//   - ServerName: expected token issuer (iss claim).
//   - ClientName: this client's audience identity (aud claim).
//   - Algorithm: the one JWT algorithm accepted during validation.
//   - VerificationKeyFile: cached copy of the server's public key PEM.
//   - Database: storage location used by administrative commands that
//     operate on the credential store directly.
type Config struct {
	ServerAddr          string
	ServerName          string
	ClientName          string
	Algorithm           string
	VerificationKeyFile string
	Database            string
}

// LoadDefaults populates Config with development defaults, matching the
// server's own defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "/tmp/authn.sock"
	c.ServerName = "authn"
	c.ClientName = "authn-cli"
	c.Algorithm = "ES256"
	c.VerificationKeyFile = "pub.pem"
	c.Database = "authn.db"
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
