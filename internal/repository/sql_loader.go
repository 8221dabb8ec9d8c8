package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/repository/builder"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Placeholder returns the bind style of the dialect.
func (d Dialect) Placeholder() builder.Placeholder {
	if d == DialectSQLite {
		return builder.Question
	}
	return builder.Dollar
}

// SQLLoader reads one table or view per dataset.
type SQLLoader struct {
	db      *sqlx.DB
	dialect Dialect
}

var _ domain.TableLoader = (*SQLLoader)(nil)

func NewSQLLoader(db *sqlx.DB, dialect Dialect) *SQLLoader {
	return &SQLLoader{db: db, dialect: dialect}
}

func (l *SQLLoader) Load(ctx context.Context, name string) (*dataframe.Table, error) {
	if !validDatasetName(name) {
		return nil, &dataframe.NotFoundError{Dataset: name, Location: string(l.dialect)}
	}
	exists, err := l.tableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &dataframe.NotFoundError{Dataset: name, Location: string(l.dialect)}
	}

	// ORDER BY 1 works for tables and views alike.
	query, args := builder.NewSQLBuilder().Select("*").From(builder.QuoteIdent(name)).OrderBy("1").Build()

	rows, err := l.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}
	records := [][]string{header}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", name, err)
		}
		rec := make([]string, len(values))
		for i, v := range values {
			rec[i] = cellText(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return tableFromRows(name, records)
}

func (l *SQLLoader) tableExists(ctx context.Context, name string) (bool, error) {
	b := builder.NewSQLBuilder().WithPlaceholder(l.dialect.Placeholder()).Select("COUNT(*)")
	switch l.dialect {
	case DialectSQLite:
		b.From("sqlite_master").Where("type IN ('table', 'view')").Where("name = ?", name)
	default:
		b.From("information_schema.tables").Where("table_schema = current_schema()").Where("table_name = ?", name)
	}
	query, args := b.Build()

	var n int
	if err := l.db.GetContext(ctx, &n, query, args...); err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	return n > 0, nil
}
