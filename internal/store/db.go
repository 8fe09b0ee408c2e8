package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is an open connection pool tagged with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the database named by url and pings it.
func Open(ctx context.Context, provider, driver, url string) (*DB, error) {
	dialect, err := NewDialect(provider, driver)
	if err != nil {
		return nil, err
	}

	dsn, err := normalizeDSN(dialect, url)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", dialect.Provider, err)
	}

	switch dialect.Provider {
	case ProviderSQLite:
		// One connection keeps in-memory databases and the session's
		// transaction on the same handle.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	default:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify(fmt.Errorf("failed to ping database: %w", err))
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

func normalizeDSN(d Dialect, url string) (string, error) {
	switch d.Provider {
	case ProviderMySQL:
		cfg, err := mysql.ParseDSN(strings.TrimPrefix(url, "mysql://"))
		if err != nil {
			return "", fmt.Errorf("invalid mysql DSN: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case ProviderSQLite:
		dsn := strings.TrimPrefix(url, "sqlite://")
		if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
			return dsn, nil
		}
		if strings.Contains(dsn, "?") {
			return dsn + "&_foreign_keys=on", nil
		}
		return dsn + "?_foreign_keys=on", nil
	default:
		return url, nil
	}
}
