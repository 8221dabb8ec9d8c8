package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// ExcelLoader reads one worksheet per dataset from a workbook.
type ExcelLoader struct {
	path string
}

var _ domain.TableLoader = (*ExcelLoader)(nil)

func NewExcelLoader(path string) *ExcelLoader {
	return &ExcelLoader{path: path}
}

func (l *ExcelLoader) Load(ctx context.Context, name string) (*dataframe.Table, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &dataframe.NotFoundError{Dataset: name, Location: l.path}
		}
		return nil, fmt.Errorf("open workbook %s: %w", l.path, err)
	}
	defer f.Close()

	found := false
	for _, sheet := range f.GetSheetList() {
		if sheet == name {
			found = true
			break
		}
	}
	if !found {
		return nil, &dataframe.NotFoundError{Dataset: name, Location: l.path}
	}

	// raw values keep dates as serials instead of locale-formatted text
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	return tableFromRows(name, serialDates(name, rows))
}
