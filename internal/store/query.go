package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/agriseed/internal/models"
)

// Counts returns the number of rows in each table.
func Counts(ctx context.Context, db *DB, tables ...string) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		if !isValidIdentifier(table) {
			return nil, fmt.Errorf("invalid table name: %s", table)
		}
		query, args, err := db.Dialect.Builder().Select("COUNT(*)").From(table).ToSql()
		if err != nil {
			return nil, err
		}
		var n int64
		if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, classify(fmt.Errorf("failed to count %s: %w", table, err))
		}
		counts[table] = n
	}
	return counts, nil
}

type reference struct {
	child, column, parent string
}

var references = []reference{
	{models.TableCredits, "user_id", models.TableUsers},
	{models.TableCredits, "package_id", models.TablePackages},
	{models.TableProductions, "user_id", models.TableUsers},
	{models.TableProductions, "industry_id", models.TableIndustries},
}

// Orphans counts child rows whose foreign key points at no parent, keyed
// "child.column". A healthy dataset has all zeros.
func Orphans(ctx context.Context, db *DB) (map[string]int64, error) {
	orphans := make(map[string]int64, len(references))
	for _, ref := range references {
		query, args, err := db.Dialect.Builder().
			Select("COUNT(*)").
			From(ref.child + " c").
			LeftJoin(fmt.Sprintf("%s p ON c.%s = p.id", ref.parent, ref.column)).
			Where(squirrel.Eq{"p.id": nil}).
			ToSql()
		if err != nil {
			return nil, err
		}
		var n int64
		if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, classify(fmt.Errorf("failed to check %s.%s: %w", ref.child, ref.column, err))
		}
		orphans[ref.child+"."+ref.column] = n
	}
	return orphans, nil
}

// Dump reads every row of table ordered by id.
func Dump(ctx context.Context, db *DB, table string) ([]map[string]interface{}, error) {
	if !isValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name: %s", table)
	}
	query, args, err := db.Dialect.Builder().Select("*").From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to read %s: %w", table, err))
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return results, nil
}
