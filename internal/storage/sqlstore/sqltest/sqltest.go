// Package sqltest opens migrated SQLite stores for tests.
package sqltest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpserver-go/internal/storage/sqlstore"
	"github.com/mcoot/rpserver-go/internal/testutil"
)

// NewStore returns a store on a fresh database file in t.TempDir.
// The store is closed when the test ends.
func NewStore(t testing.TB) *sqlstore.Store {
	t.Helper()
	cfg := sqlstore.Config{
		Driver: sqlstore.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "rp.db"),
	}
	store, err := sqlstore.Open(context.Background(), cfg, testutil.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
