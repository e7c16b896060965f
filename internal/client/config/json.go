package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authn/internal/flagx"
)

// JSONConfig is the DTO for reading client configuration from a JSON file.
type JSONConfig struct {
	ServerAddr          string `json:"server_addr"`
	ServerName          string `json:"server_name"`
	ClientName          string `json:"client_name"`
	Algorithm           string `json:"algorithm"`
	VerificationKeyFile string `json:"verification_key_file"`
	Database            string `json:"database"`
}

// parseJSON loads configuration values from the JSON file named by the
// -c or -config command-line flags, when present.
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

	if c.ServerAddr != "" {
		config.ServerAddr = c.ServerAddr
	}
	if c.ServerName != "" {
		config.ServerName = c.ServerName
	}
	if c.ClientName != "" {
		config.ClientName = c.ClientName
	}
	if c.Algorithm != "" {
		config.Algorithm = c.Algorithm
	}
	if c.VerificationKeyFile != "" {
		config.VerificationKeyFile = c.VerificationKeyFile
	}
	if c.Database != "" {
		config.Database = c.Database
	}
}
