// Package cli implements the administrative command surface: credential
// management against the store, plus login and token validation against a
// running server.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authn/internal/client"
	"github.com/dmitrijs2005/authn/internal/client/config"
	"github.com/dmitrijs2005/authn/internal/cryptox"
	"github.com/dmitrijs2005/authn/internal/server/repositories/repomanager"
)

type App struct {
	config *config.Config
	out    io.Writer
}

func NewApp(cfg *config.Config) *App {
	return &App{config: cfg, out: os.Stdout}
}

// Run dispatches one subcommand. Credential management commands (add-user,
// update-pass, revoke) operate on the store directly; login, validate-token,
// and pub-key go through a running server.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage()
	}

	switch args[0] {
	case "add-user":
		if len(args) != 2 {
			return fmt.Errorf("usage: add-user <name>")
		}
		return a.addUser(ctx, args[1])
	case "update-pass":
		if len(args) != 2 {
			return fmt.Errorf("usage: update-pass <name>")
		}
		return a.updatePass(ctx, args[1])
	case "revoke":
		if len(args) != 2 {
			return fmt.Errorf("usage: revoke <name>")
		}
		return a.revoke(ctx, args[1])
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: login <name> <duration-seconds>")
		}
		return a.login(ctx, args[1], args[2])
	case "validate-token":
		if len(args) != 2 {
			return fmt.Errorf("usage: validate-token <token>")
		}
		return a.validateToken(ctx, args[1])
	case "pub-key":
		return a.pubKey(ctx)
	default:
		return a.usage()
	}
}

func (a *App) usage() error {
	fmt.Fprintln(a.out, "commands:")
	for _, cmd := range []string{
		"add-user <name>",
		"update-pass <name>",
		"revoke <name>",
		"login <name> <duration-seconds>",
		"validate-token <token>",
		"pub-key",
	} {
		fmt.Fprintln(a.out, "  "+cmd)
	}
	return fmt.Errorf("invalid arguments")
}

func (a *App) openStore(ctx context.Context) (*repomanager.Manager, error) {
	return repomanager.Open(ctx, a.config.Database)
}

func (a *App) addUser(ctx context.Context, name string) error {
	pass, err := promptPassword("password: ", a.out)
	if err != nil {
		return err
	}

	encoded, err := cryptox.EncodePassword(pass)
	if err != nil {
		return err
	}

	m, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Users().Insert(ctx, name, encoded)
}

func (a *App) updatePass(ctx context.Context, name string) error {
	pass, err := promptPassword("password: ", a.out)
	if err != nil {
		return err
	}

	encoded, err := cryptox.EncodePassword(pass)
	if err != nil {
		return err
	}

	m, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Users().UpdatePassword(ctx, name, encoded)
}

func (a *App) revoke(ctx context.Context, name string) error {
	m, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Users().IncrementTokenVersion(ctx, name)
}

func (a *App) login(ctx context.Context, name, durationArg string) error {
	seconds, err := strconv.ParseUint(durationArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", durationArg, err)
	}

	pass, err := promptPassword("password: ", a.out)
	if err != nil {
		return err
	}

	c, err := client.New(a.config)
	if err != nil {
		return err
	}

	token, err := c.Login(ctx, name, string(pass), time.Duration(seconds)*time.Second)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, token)
	return nil
}

func (a *App) validateToken(ctx context.Context, token string) error {
	c, err := client.New(a.config)
	if err != nil {
		return err
	}

	subject, err := c.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, subject)
	return nil
}

func (a *App) pubKey(ctx context.Context) error {
	c, err := client.New(a.config)
	if err != nil {
		return err
	}

	pem, err := c.FetchPublicKey(ctx)
	if err != nil {
		return err
	}

	_, err = a.out.Write(pem)
	return err
}
