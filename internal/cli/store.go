package cli

import (
	"errors"
	"strings"

	"github.com/julianstephens/helpme/internal/config"
	"github.com/julianstephens/helpme/internal/constants"
	"github.com/julianstephens/helpme/internal/keyring"
	"github.com/julianstephens/helpme/internal/logger"
	"github.com/julianstephens/helpme/internal/storage"
	"github.com/julianstephens/helpme/internal/storage/postgres"
	"github.com/julianstephens/helpme/internal/storage/sqlite"
)

// ErrEmbeddedCredentials is returned for a --config connection string
// that carries a password.
var ErrEmbeddedCredentials = errors.New("PostgreSQL connection strings with embedded credentials are not allowed on the command line; " +
	"use 'helpme keyring set-connection', " + config.EnvDBConnection + " or a .pgpass file instead")

// Source says where a connection string came from.
type Source string

const (
	SourceFlag     Source = "flag"
	SourceSettings Source = "settings"
	SourceKeyring  Source = "keyring"
	SourceDefault  Source = "default"
)

// ResolveConnection picks the database in order: --config flag, settings
// file or environment, OS keyring, default SQLite path.
func ResolveConnection(flag string, cfg *config.Config, fromKeyring func() (string, error)) (string, Source) {
	if s := strings.TrimSpace(flag); s != "" {
		return s, SourceFlag
	}
	if s := strings.TrimSpace(cfg.DBConnection); s != "" {
		return s, SourceSettings
	}
	if fromKeyring != nil {
		s, err := fromKeyring()
		switch {
		case err == nil && strings.TrimSpace(s) != "":
			return strings.TrimSpace(s), SourceKeyring
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			logger.Debug("Keyring lookup failed", "error", err)
		}
	}
	return constants.DefaultConfigPath, SourceDefault
}

// OpenStore builds the provider for conn. Passwords are only accepted from
// the keyring or the environment.
func OpenStore(conn string, source Source) (storage.Provider, error) {
	if !postgres.IsConnString(conn) {
		return sqlite.NewStore(ExpandHome(conn)), nil
	}
	if _, err := postgres.ValidateConnString(conn); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		if source == SourceFlag {
			return nil, ErrEmbeddedCredentials
		}
	}
	return postgres.New(conn), nil
}

// NeedsStore reports whether command touches the database. Keyring commands
// only manage credentials.
func NeedsStore(command string) bool {
	return !strings.HasPrefix(command, "keyring")
}

// StoreFor resolves and opens the store for command. It returns a nil
// provider for commands that do not need one, so a rejected --config value
// never blocks credential management.
func StoreFor(command, flag string, cfg *config.Config, fromKeyring func() (string, error)) (storage.Provider, Source, error) {
	if !NeedsStore(command) {
		return nil, "", nil
	}
	conn, source := ResolveConnection(flag, cfg, fromKeyring)
	store, err := OpenStore(conn, source)
	if err != nil {
		return nil, source, err
	}
	return store, source, nil
}

// ResolveAPIKey fills cfg.APIKey from the keyring when the environment did
// not provide one.
func ResolveAPIKey(cfg *config.ModelConfig, fromKeyring func() (string, error)) {
	if cfg.APIKey != "" || cfg.Provider == config.ProviderNone || fromKeyring == nil {
		return
	}
	key, err := fromKeyring()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		logger.Warn("No API key found, model-backed features are disabled", "provider", cfg.Provider, "env", cfg.KeyEnvVar())
		return
	}
	cfg.APIKey = key
}
