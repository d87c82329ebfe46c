package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/01moynul/storefront/internal/config"
	"github.com/rs/zerolog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// OpenDB opens the primary connection pool described by cf and reports which
// SQL dialect the query builder should speak to it.
func OpenDB(cf *config.Config, log zerolog.Logger) (*sql.DB, Dialect, error) {
	dialect, err := DialectForDriver(cf.DBDriver)
	if err != nil {
		return nil, "", err
	}

	db, err := OpenDBWithDSN(cf.DBDriver, cf.DBDSN, PoolOptions{
		MaxOpenConns:    cf.DBMaxOpenConns,
		MaxIdleConns:    cf.DBMaxIdleConns,
		ConnMaxLifetime: cf.DBConnMaxLifetime,
	})
	if err != nil {
		log.Error().Err(err).Str("driver", cf.DBDriver).Msg("error connecting to database")
		return nil, "", err
	}

	log.Info().Str("driver", cf.DBDriver).Str("dialect", string(dialect)).Msg("database connection pool established")
	return db, dialect, nil
}

// PoolOptions mirrors the knobs database/sql exposes on a pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenDBWithDSN creates and configures a pool for any registered driver and
// verifies it with a ping.
func OpenDBWithDSN(driver, dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}
