package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/authn/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   server address (TCP "host:port" or unix socket path)
//	-s string   server name (expected token issuer)
//	-n string   client name (token audience)
//	-g string   JWT signing algorithm
//	-p string   verification key PEM path
//	-d string   storage location for direct administrative commands
//
// Only flags listed here are parsed; subcommand arguments pass through
// untouched thanks to flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-n", "-g", "-p", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerAddr, "a", config.ServerAddr, "server address")
	fs.StringVar(&config.ServerName, "s", config.ServerName, "server name (expected issuer)")
	fs.StringVar(&config.ClientName, "n", config.ClientName, "client name (audience)")
	fs.StringVar(&config.Algorithm, "g", config.Algorithm, "JWT signing algorithm")
	fs.StringVar(&config.VerificationKeyFile, "p", config.VerificationKeyFile, "verification key PEM file")
	fs.StringVar(&config.Database, "d", config.Database, "storage location")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
