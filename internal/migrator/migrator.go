package migrator

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/agriseed/internal/store"
)

//go:embed migrations
var migrationsFS embed.FS

const trackingTable = "_agriseed_migrations"

var (
	ErrChecksumMismatch = errors.New("applied migration does not match its file")
	ErrNothingToRevert  = errors.New("no applied migrations")
)

var migrationFileRegex = regexp.MustCompile(`^([0-9]{4})_(.+)\.(up|down)\.sql$`)

// Migration is one versioned schema change with its up and down scripts.
type Migration struct {
	Version  int
	Name     string
	Up       string
	Down     string
	Checksum string
}

type StatusItem struct {
	Version   int
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

type Migrator struct {
	db         *store.DB
	migrations []Migration
}

// New loads the embedded migrations for db's provider.
func New(db *store.DB) (*Migrator, error) {
	migrations, err := load(migrationsFS, path.Join("migrations", db.Dialect.Provider))
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: migrations}, nil
}

func load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := migrationFileRegex.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		version, _ := strconv.Atoi(match[1])
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: match[2]}
			byVersion[version] = m
		}
		if match[3] == "up" {
			m.Up = string(content)
		} else {
			m.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" {
			return nil, fmt.Errorf("missing up migration for version %04d", m.Version)
		}
		m.Checksum = checksum(m.Up)
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func checksum(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

// Migrations returns the known migrations in version order.
func (m *Migrator) Migrations() []Migration {
	return m.migrations
}

func (m *Migrator) ensureTrackingTable(ctx context.Context) error {
	var query string
	switch m.db.Dialect.Provider {
	case store.ProviderMySQL:
		query = `CREATE TABLE IF NOT EXISTS ` + trackingTable + ` (
			version INT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			checksum VARCHAR(64) NOT NULL,
			applied_at DATETIME NOT NULL
		) ENGINE=InnoDB`
	default:
		query = `CREATE TABLE IF NOT EXISTS ` + trackingTable + ` (
			version INTEGER PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			checksum VARCHAR(64) NOT NULL,
			applied_at TIMESTAMP NOT NULL
		)`
	}
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

type appliedRecord struct {
	checksum  string
	appliedAt time.Time
}

func (m *Migrator) applied(ctx context.Context) (map[int]appliedRecord, error) {
	if err := m.ensureTrackingTable(ctx); err != nil {
		return nil, err
	}

	query, args, err := m.db.Dialect.Builder().
		Select("version", "checksum", "applied_at").
		From(trackingTable).
		OrderBy("version").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]appliedRecord)
	for rows.Next() {
		var version int
		var rec appliedRecord
		if err := rows.Scan(&version, &rec.checksum, &rec.appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan applied migration: %w", err)
		}
		applied[version] = rec
	}
	return applied, rows.Err()
}

// Up applies every pending migration in version order, each in its own
// transaction, and returns the ones it applied.
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var done []Migration
	for _, mig := range m.migrations {
		if rec, ok := applied[mig.Version]; ok {
			if rec.checksum != mig.Checksum {
				return done, fmt.Errorf("%w: %04d_%s", ErrChecksumMismatch, mig.Version, mig.Name)
			}
			continue
		}

		record := m.db.Dialect.Builder().Insert(trackingTable).
			Columns("version", "name", "checksum", "applied_at").
			Values(mig.Version, mig.Name, mig.Checksum, time.Now().UTC())
		if err := m.execute(ctx, mig.Up, record); err != nil {
			return done, fmt.Errorf("migration %04d_%s failed: %w", mig.Version, mig.Name, err)
		}
		done = append(done, mig)
	}
	return done, nil
}

// Down reverts the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) (*Migration, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if _, ok := applied[mig.Version]; !ok {
			continue
		}
		if mig.Down == "" {
			return nil, fmt.Errorf("no down migration found for version %04d", mig.Version)
		}
		forget := m.db.Dialect.Builder().Delete(trackingTable).
			Where(squirrel.Eq{"version": mig.Version})
		if err := m.execute(ctx, mig.Down, forget); err != nil {
			return nil, fmt.Errorf("rollback of %04d_%s failed: %w", mig.Version, mig.Name, err)
		}
		return &mig, nil
	}
	return nil, ErrNothingToRevert
}

// Status lists every known migration and whether it has been applied.
func (m *Migrator) Status(ctx context.Context) ([]StatusItem, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]StatusItem, 0, len(m.migrations))
	for _, mig := range m.migrations {
		item := StatusItem{Version: mig.Version, Name: mig.Name}
		if rec, ok := applied[mig.Version]; ok {
			at := rec.appliedAt
			item.Applied = true
			item.AppliedAt = &at
		}
		items = append(items, item)
	}
	return items, nil
}

// execute runs script and the bookkeeping statement in one transaction on a
// pinned connection, so connection-scoped pragmas stay in effect.
func (m *Migrator) execute(ctx context.Context, script string, bookkeeping squirrel.Sqlizer) error {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	relaxFK := m.db.Dialect.Provider == store.ProviderSQLite && hasDirective(script, "foreign-keys-off")
	if relaxFK {
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys=OFF"); err != nil {
			return err
		}
		defer conn.ExecContext(context.Background(), "PRAGMA foreign_keys=ON")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range splitStatements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}

	if relaxFK {
		if err := foreignKeyCheck(ctx, tx); err != nil {
			return err
		}
	}

	query, args, err := bookkeeping.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", trackingTable, err)
	}

	return tx.Commit()
}

func foreignKeyCheck(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		return fmt.Errorf("foreign key check failed after table rebuild")
	}
	return rows.Err()
}
