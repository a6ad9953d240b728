// Package clitest builds command contexts backed by throwaway databases.
package clitest

import (
	"bytes"
	"context"
	"testing"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/completion"
	"github.com/julianstephens/helpme/internal/config"
	"github.com/julianstephens/helpme/internal/storage/sqlite/sqlitetest"
)

const Owner = "cli-owner"

// New returns a context on a fresh migrated database with output captured
// in the returned buffer. model may be nil.
func New(t testing.TB, model completion.Client) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Model.Provider = config.ProviderNone

	out := &bytes.Buffer{}
	return &cli.Context{
		Ctx:     context.Background(),
		Store:   sqlitetest.Open(t),
		Config:  cfg,
		OwnerID: Owner,
		Model:   model,
		Out:     out,
	}, out
}
