package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authn/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   listen address (TCP "host:port" or unix socket path)
//	-d string   storage location (postgres:// DSN or SQLite file path)
//	-k string   signing key PEM path
//	-p string   verification key PEM path
//	-g string   JWT signing algorithm
//	-s string   server name (token issuer)
//	-m int      max token lifetime, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-p", "-g", "-s", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "listen address")
	fs.StringVar(&config.Database, "d", config.Database, "storage location")
	fs.StringVar(&config.SigningKeyFile, "k", config.SigningKeyFile, "signing key PEM file")
	fs.StringVar(&config.VerificationKeyFile, "p", config.VerificationKeyFile, "verification key PEM file")
	fs.StringVar(&config.Algorithm, "g", config.Algorithm, "JWT signing algorithm")
	fs.StringVar(&config.ServerName, "s", config.ServerName, "server name (token issuer)")

	maxTokenTTL := fs.Int("m", int(config.MaxTokenTTL.Minutes()), "max_token_ttl (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MaxTokenTTL = time.Duration(*maxTokenTTL) * time.Minute
}
