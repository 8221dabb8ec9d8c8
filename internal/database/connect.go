package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/locvowork/company_dashboard/internal/config"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/internal/repository"
)

// driverName maps a dialect to its database/sql driver.
func driverName(d repository.Dialect) string {
	if d == repository.DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

// DSN returns the connection string the dialect reads from cfg.
func DSN(cfg *config.EnvConfig, d repository.Dialect) string {
	if d == repository.DialectSQLite {
		return cfg.SQLITE_PATH
	}
	return cfg.PostgresDSN()
}

// Open connects to the configured SQL database and applies the pool settings.
func Open(ctx context.Context, cfg *config.EnvConfig, d repository.Dialect) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driverName(d), DSN(cfg, d))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", d, err)
	}
	if d == repository.DialectSQLite {
		// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.DB_MAX_OPEN_CONNS)
		db.SetMaxIdleConns(cfg.DB_MAX_IDLE_CONNS)
		db.SetConnMaxLifetime(cfg.DB_CONN_MAX_LIFETIME)
	}
	logger.InfoLog(ctx, "Connected to %s database", d)
	return db, nil
}
