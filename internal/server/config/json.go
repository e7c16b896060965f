package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authn/internal/flagx"
	"github.com/dmitrijs2005/authn/internal/timex"
)

// JSONConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "720h" and integer seconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JSONConfig struct {
	ListenAddr          string         `json:"listen_addr"`
	Database            string         `json:"database"`
	SigningKeyFile      string         `json:"signing_key_file"`
	VerificationKeyFile string         `json:"verification_key_file"`
	Algorithm           string         `json:"algorithm"`
	ServerName          string         `json:"server_name"`
	MaxTokenTTL         timex.Duration `json:"max_token_ttl"`
}

// parseJSON loads configuration values from the JSON file named by the
// -c or -config command-line flags. If neither flag is set, no file is
// loaded. An unreadable or invalid file panics: startup configuration
// failures should be loud.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ListenAddr != "" {
		config.ListenAddr = c.ListenAddr
	}
	if c.Database != "" {
		config.Database = c.Database
	}
	if c.SigningKeyFile != "" {
		config.SigningKeyFile = c.SigningKeyFile
	}
	if c.VerificationKeyFile != "" {
		config.VerificationKeyFile = c.VerificationKeyFile
	}
	if c.Algorithm != "" {
		config.Algorithm = c.Algorithm
	}
	if c.ServerName != "" {
		config.ServerName = c.ServerName
	}
	if c.MaxTokenTTL.Duration != 0 {
		config.MaxTokenTTL = c.MaxTokenTTL.Duration
	}
}
