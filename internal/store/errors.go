package store

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrConstraint marks integrity violations: unique, foreign key, not null.
	ErrConstraint = errors.New("constraint violation")
	// ErrConnection marks failures talking to the server at all.
	ErrConnection = errors.New("connection failure")
)

// classify tags err with ErrConstraint or ErrConnection when the driver
// error says so. Anything else is returned untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConstraint) || errors.Is(err, ErrConnection) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch sqlstateClass(pgErr.Code) {
		case "23":
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		case "08":
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23":
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		case "08":
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1048, 1062, 1451, 1452:
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return err
}

func sqlstateClass(code string) string {
	if len(code) < 2 {
		return ""
	}
	return code[:2]
}
