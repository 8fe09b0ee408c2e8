package store

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/squirrel"
)

// validIdentifier guards table names that end up interpolated into SQL.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func isValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

const (
	ProviderPostgres = "postgres"
	ProviderMySQL    = "mysql"
	ProviderSQLite   = "sqlite"
)

// Dialect captures what differs between providers: placeholders, how inserted
// ids come back, and which database/sql driver to open.
type Dialect struct {
	Provider string
	Driver   string
	qb       squirrel.StatementBuilderType
}

// NewDialect resolves a configured provider (and optional driver override)
// into a Dialect.
func NewDialect(provider, driver string) (Dialect, error) {
	d := Dialect{}
	switch provider {
	case "postgresql", "postgres":
		d.Provider = ProviderPostgres
		d.qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		switch driver {
		case "", "pgx":
			d.Driver = "pgx"
		case "pq", "postgres":
			d.Driver = "postgres"
		default:
			return Dialect{}, fmt.Errorf("unsupported postgres driver: %s", driver)
		}
	case "mysql":
		d.Provider = ProviderMySQL
		d.Driver = "mysql"
		d.qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	case "sqlite", "sqlite3":
		d.Provider = ProviderSQLite
		d.Driver = "sqlite3"
		d.qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	default:
		return Dialect{}, fmt.Errorf("unsupported database provider: %s", provider)
	}
	return d, nil
}

// Builder returns the squirrel statement builder with this dialect's
// placeholder format.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	return d.qb
}

// SupportsReturning reports whether inserts can use RETURNING id.
func (d Dialect) SupportsReturning() bool {
	return d.Provider == ProviderPostgres
}
