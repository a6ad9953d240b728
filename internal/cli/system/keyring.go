package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/keyring"
	"github.com/julianstephens/helpme/internal/storage/postgres"
)

// KeyringSetConnectionCmd stores database connection credentials in the OS keyring
type KeyringSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetConnectionCmd) Run(ctx *cli.Context) error {
	w := ctx.Writer()
	if !postgres.IsConnString(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so embedded passwords are allowed here.
		fmt.Fprintln(w, "⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Fprintln(w, "   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}

	fmt.Fprintln(w, "✓ Connection string stored successfully in OS keyring")
	fmt.Fprintln(w, "  You can now use helpme without the --config flag")
	return nil
}

// KeyringSetAPIKeyCmd stores the model provider API key. Without an
// argument the key is read from a masked prompt.
type KeyringSetAPIKeyCmd struct {
	Key string `arg:"" optional:"" help:"API key for the configured model provider."`
}

func (cmd *KeyringSetAPIKeyCmd) Run(ctx *cli.Context) error {
	key := strings.TrimSpace(cmd.Key)
	if key == "" {
		err := huh.NewInput().
			Title(fmt.Sprintf("API key for %s", ctx.Config.Model.Provider)).
			EchoMode(huh.EchoModePassword).
			Value(&key).
			Run()
		if err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
		key = strings.TrimSpace(key)
	}

	if err := keyring.SetModelAPIKey(key); err != nil {
		return err
	}
	fmt.Fprintln(ctx.Writer(), "✓ API key stored successfully in OS keyring")
	return nil
}

// KeyringDeleteCmd removes every helpme secret from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	w := ctx.Writer()
	removed := 0
	for _, del := range []func() error{keyring.DeleteConnectionString, keyring.DeleteModelAPIKey} {
		err := del()
		switch {
		case err == nil:
			removed++
		case errors.Is(err, keyring.ErrNotFound):
		default:
			return err
		}
	}
	if removed == 0 {
		return errors.New("no credentials found in keyring")
	}
	fmt.Fprintf(w, "✓ Deleted %d credential(s) from OS keyring\n", removed)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	w := ctx.Writer()
	if !keyring.IsAvailable() {
		fmt.Fprintln(w, "❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Fprintln(w, "✓ OS keyring is available")

	for _, item := range []struct {
		label string
		get   func() (string, error)
	}{
		{"Connection string", keyring.GetConnectionString},
		{"Model API key", keyring.GetModelAPIKey},
	} {
		if _, err := item.get(); err == nil {
			fmt.Fprintf(w, "✓ %s is stored in keyring\n", item.label)
		} else if errors.Is(err, keyring.ErrNotFound) {
			fmt.Fprintf(w, "ℹ No %s stored in keyring\n", strings.ToLower(item.label))
		}
	}
	return nil
}
