// Package dbtest opens throwaway in-memory SQLite catalogs for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront/internal/database"
)

// Open returns a migrated, empty in-memory catalog. The pool is pinned to a
// single connection because every new SQLite :memory: connection is a fresh
// database.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.OpenDBWithDSN("sqlite", ":memory:", database.PoolOptions{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db, database.SQLite))
	return db
}

// Exec runs each statement and fails the test on the first error.
func Exec(t testing.TB, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}
