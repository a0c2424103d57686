// Package dbtest opens throwaway SQLite gateways for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"public-notes/config"
	"public-notes/db"
)

func Config(t testing.TB) config.Database {
	t.Helper()

	cfg := config.Default().Database
	cfg.Driver = "sqlite"
	cfg.Path = filepath.Join(t.TempDir(), "notes.db")
	return cfg
}

// Open returns a gateway on a fresh database file that is closed when the
// test ends.
func Open(t testing.TB) *db.Gateway {
	t.Helper()

	g, err := db.Open(context.Background(), Config(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}
