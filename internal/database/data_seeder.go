package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/internal/repository"
	"github.com/locvowork/company_dashboard/internal/repository/builder"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// seedBatchSize keeps multi-row inserts under the sqlite variable limit.
const seedBatchSize = 100

type DataSeeder struct {
	db      *sqlx.DB
	dialect repository.Dialect
}

func NewDataSeeder(db *sqlx.DB, dialect repository.Dialect) *DataSeeder {
	return &DataSeeder{db: db, dialect: dialect}
}

// SeedData copies the catalog columns of every base dataset from source into
// the database inside one transaction. Datasets missing at the source are
// skipped. It returns the number of rows written per dataset.
func (ds *DataSeeder) SeedData(ctx context.Context, source domain.TableLoader) (map[string]int, error) {
	start := time.Now()
	logger.InfoLog(ctx, "Seeding datasets into %s", ds.dialect)

	tx, err := ds.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	written := make(map[string]int)
	for _, name := range domain.BaseDatasets {
		t, err := source.Load(ctx, name)
		if err != nil {
			if errors.Is(err, dataframe.ErrNotFound) {
				logger.WarnLog(ctx, "Skipping %s: not found at source", name)
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		n, err := ds.insertTable(ctx, tx, name, t)
		if err != nil {
			return nil, fmt.Errorf("failed to insert %s: %w", name, err)
		}
		written[name] = n
		logger.InfoLog(ctx, "Seeded %d rows into %s", n, name)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	logger.InfoLog(ctx, "Seeding done in %v", time.Since(start))
	return written, nil
}

func (ds *DataSeeder) insertTable(ctx context.Context, tx *sqlx.Tx, name string, t *dataframe.Table) (int, error) {
	fields := domain.SchemaFor(name).Fields
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	rows := t.Rows()
	for start := 0; start < len(rows); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		b := builder.NewSQLBuilder().WithPlaceholder(ds.dialect.Placeholder()).Insert(builder.QuoteIdent(name), cols...)
		for _, row := range rows[start:end] {
			vals := make([]interface{}, len(fields))
			for i, f := range fields {
				v, err := row.Get(f.Name)
				if err != nil {
					return 0, err
				}
				vals[i] = sqlValue(v)
			}
			b.Values(vals...)
		}
		query, args, err := b.BuildSafe()
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// sqlValue converts a cell to a driver argument. Dates go as YYYY-MM-DD text
// so both drivers store a plain date.
func sqlValue(v dataframe.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	if v.Kind() == dataframe.KindDate {
		return v.Text()
	}
	return v.Interface()
}

// ClearData deletes every seeded row, children first.
func (ds *DataSeeder) ClearData(ctx context.Context) error {
	logger.InfoLog(ctx, "Clearing seeded datasets")
	tx, err := ds.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := len(domain.BaseDatasets) - 1; i >= 0; i-- {
		name := domain.BaseDatasets[i]
		query, _ := builder.NewSQLBuilder().Delete(builder.QuoteIdent(name)).Build()
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
	}
	return tx.Commit()
}
