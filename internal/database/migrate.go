package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema returns the catalog DDL for a dialect.
func Schema(d Dialect) (string, error) {
	b, err := schemaFS.ReadFile("schema/" + string(d) + ".sql")
	if err != nil {
		return "", fmt.Errorf("no schema for dialect %q: %w", d, err)
	}
	return string(b), nil
}

// Migrate applies the embedded DDL. Every statement is idempotent
// (CREATE TABLE IF NOT EXISTS), so running it twice is harmless.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	ddl, err := Schema(d)
	if err != nil {
		return err
	}

	// Executed one by one: the MySQL driver rejects multi-statement strings
	// unless multiStatements is set on the DSN.
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
