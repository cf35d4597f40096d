package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakwars/internal/keyring"
	"github.com/julianstephens/streakwars/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
}

// KeyringSetCmd stores a PostgreSQL connection string or redis password. The
// secret is read from stdin when not given as an argument.
type KeyringSetCmd struct {
	Entry  string `arg:"" help:"Entry to set." enum:"postgres-dsn,redis-password"`
	Secret string `arg:"" optional:"" help:"Secret value (prompted when omitted)."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	entry, err := keyring.ParseEntry(c.Entry)
	if err != nil {
		return err
	}

	secret := c.Secret
	if secret == "" {
		if secret, err = c.readSecret(ctx, entry); err != nil {
			return err
		}
	}
	secret = strings.TrimSpace(secret)

	if entry == keyring.EntryPostgres {
		if _, err := postgres.ValidateConnString(secret); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	}

	if err := keyring.Set(entry, secret); err != nil {
		return err
	}
	ctx.printf("✓ %s stored in the OS keyring\n", entry)
	return nil
}

func (c *KeyringSetCmd) readSecret(ctx *Context, entry keyring.Entry) (string, error) {
	if ctx.interactive() {
		var secret string
		err := huh.NewInput().
			Title(string(entry)).
			EchoMode(huh.EchoModePassword).
			Value(&secret).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errors.New("canceled")
		}
		return secret, err
	}

	line, _ := bufio.NewReader(ctx.In).ReadString('\n')
	if strings.TrimSpace(line) == "" {
		return "", errors.New("no secret given")
	}
	return line, nil
}

type KeyringGetCmd struct {
	Entry string `arg:"" help:"Entry to show." enum:"postgres-dsn,redis-password"`
}

func (c *KeyringGetCmd) Run(ctx *Context) error {
	entry, err := keyring.ParseEntry(c.Entry)
	if err != nil {
		return err
	}
	secret, err := keyring.Get(entry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("nothing stored for %s; use 'streakwars keyring set %s'", entry, entry)
		}
		return err
	}

	if entry == keyring.EntryPostgres {
		ctx.println(maskPassword(secret))
	} else {
		ctx.println(strings.Repeat("*", 8))
	}
	return nil
}

type KeyringDeleteCmd struct {
	Entry string `arg:"" help:"Entry to delete." enum:"postgres-dsn,redis-password"`
}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	entry, err := keyring.ParseEntry(c.Entry)
	if err != nil {
		return err
	}
	if err := keyring.Delete(entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("nothing stored for %s", entry)
		}
		return err
	}
	ctx.printf("✓ %s deleted from the OS keyring\n", entry)
	return nil
}

type KeyringStatusCmd struct{}

func (c *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.println("✓ OS keyring is available")
	for _, entry := range keyring.Entries {
		_, err := keyring.Get(entry)
		switch {
		case err == nil:
			ctx.printf("  ✓ %s is stored\n", entry)
		case errors.Is(err, keyring.ErrNotFound):
			ctx.printf("  ℹ %s is not stored\n", entry)
		default:
			ctx.printf("  ❌ %s: %v\n", entry, err)
		}
	}
	return nil
}

// maskPassword hides the password of a PostgreSQL URL or key=value DSN.
func maskPassword(connStr string) string {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
		}
		return connStr
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(strings.ToLower(f), "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
