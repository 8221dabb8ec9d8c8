package domain

import (
	"context"

	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// TableLoader reads a named dataset fully into memory.
// Implementations return *dataframe.NotFoundError when the dataset does not
// exist and *dataframe.SchemaError when a required field is missing or
// malformed. Every call reads the storage location again.
type TableLoader interface {
	Load(ctx context.Context, name string) (*dataframe.Table, error)
}

// TableLoaderFunc adapts a function to TableLoader.
type TableLoaderFunc func(ctx context.Context, name string) (*dataframe.Table, error)

func (f TableLoaderFunc) Load(ctx context.Context, name string) (*dataframe.Table, error) {
	return f(ctx, name)
}
