package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the handful of places where the catalog SQL differs
// between the supported engines.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// DialectForDriver maps a database/sql driver name to its dialect.
func DialectForDriver(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite":
		return SQLite, nil
	}
	return "", fmt.Errorf("no SQL dialect for driver %q", driver)
}

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// ContainsFold renders a case-insensitive match of column against the bound
// pattern. Backslash escapes the LIKE wildcards; see EscapeLike.
func (d Dialect) ContainsFold(column, placeholder string) string {
	switch d {
	case Postgres:
		return column + " ILIKE " + placeholder + ` ESCAPE '\'`
	case MySQL:
		// MySQL string literals treat backslash as an escape too.
		return "LOWER(" + column + ") LIKE LOWER(" + placeholder + `) ESCAPE '\\'`
	}
	return "LOWER(" + column + ") LIKE LOWER(" + placeholder + `) ESCAPE '\'`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// EscapeLike makes every character of term match literally inside a
// ContainsFold pattern.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// CastText renders expr as text so numeric columns cross the boundary with
// their exact decimal representation.
func (d Dialect) CastText(expr string) string {
	if d == MySQL {
		return "CAST(" + expr + " AS CHAR)"
	}
	return "CAST(" + expr + " AS TEXT)"
}

// Numbered reports whether placeholders carry an index, which lets one bound
// value be referenced more than once.
func (d Dialect) Numbered() bool {
	return d == Postgres
}
