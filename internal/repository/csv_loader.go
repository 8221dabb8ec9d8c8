package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// CSVLoader reads <dir>/<name>.csv.
type CSVLoader struct {
	dir string
}

var _ domain.TableLoader = (*CSVLoader)(nil)

func NewCSVLoader(dir string) *CSVLoader {
	return &CSVLoader{dir: dir}
}

func (l *CSVLoader) Load(ctx context.Context, name string) (*dataframe.Table, error) {
	if !validDatasetName(name) {
		return nil, &dataframe.NotFoundError{Dataset: name, Location: l.dir}
	}
	path := filepath.Join(l.dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &dataframe.NotFoundError{Dataset: name, Location: l.dir}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, &dataframe.SchemaError{Table: name, Row: parseErr.Line - 1, Reason: parseErr.Err.Error()}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return tableFromRows(name, rows)
}
