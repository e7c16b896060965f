package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authn/internal/client/cli"
	"github.com/dmitrijs2005/authn/internal/client/config"
	"github.com/dmitrijs2005/authn/internal/flagx"
)

// configFlags are the flags owned by the config layer; everything else is a
// subcommand argument.
var configFlags = []string{"-a", "-s", "-n", "-g", "-p", "-d", "-c", "-config"}

func main() {
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	args := flagx.StripArgs(os.Args[1:], configFlags)

	if err := app.Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
