package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rana718/agriseed/internal/models"
)

// Session is the unit-of-work handle the seeder drives. Work accumulates in
// one transaction until Commit or Rollback; the next call after either
// starts a fresh transaction.
type Session interface {
	DeleteAll(ctx context.Context, tables ...string) error
	AddAll(ctx context.Context, records ...models.Record) error
	Commit() error
	Rollback() error
}

type SQLSession struct {
	db *DB
	tx *sql.Tx
}

func NewSession(db *DB) *SQLSession {
	return &SQLSession{db: db}
}

func (s *SQLSession) begin(ctx context.Context) (*sql.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	s.tx = tx
	return tx, nil
}

// DeleteAll removes every row of each table, in the order given.
func (s *SQLSession) DeleteAll(ctx context.Context, tables ...string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	for _, table := range tables {
		if !isValidIdentifier(table) {
			return fmt.Errorf("invalid table name: %s", table)
		}
		query, args, err := s.db.Dialect.Builder().Delete(table).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classify(fmt.Errorf("failed to delete from %s: %w", table, err))
		}
	}
	return nil
}

// AddAll inserts records in order and hands each its new id.
func (s *SQLSession) AddAll(ctx context.Context, records ...models.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		id, err := s.insert(ctx, tx, record)
		if err != nil {
			return err
		}
		record.SetID(id)
	}
	return nil
}

func (s *SQLSession) insert(ctx context.Context, tx *sql.Tx, record models.Record) (int64, error) {
	table := record.Table()
	if !isValidIdentifier(table) {
		return 0, fmt.Errorf("invalid table name: %s", table)
	}

	insert := s.db.Dialect.Builder().Insert(table).
		Columns(record.Columns()...).
		Values(record.Values()...)

	if s.db.Dialect.SupportsReturning() {
		query, args, err := insert.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, classify(fmt.Errorf("failed to insert into %s: %w", table, err))
		}
		return id, nil
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return 0, err
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to insert into %s: %w", table, err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read id inserted into %s: %w", table, err)
	}
	return id, nil
}

func (s *SQLSession) Commit() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func (s *SQLSession) Rollback() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return classify(fmt.Errorf("failed to roll back transaction: %w", err))
	}
	return nil
}
