package repository

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

var datasetNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validDatasetName guards file paths, sheet ranges and SQL identifiers.
func validDatasetName(name string) bool {
	return datasetNamePattern.MatchString(name)
}

// tableFromRows treats the first row as the header.
func tableFromRows(name string, rows [][]string) (*dataframe.Table, error) {
	if len(rows) == 0 {
		return nil, &dataframe.SchemaError{Table: name, Reason: "no header row"}
	}
	return dataframe.FromRecords(name, rows[0], rows[1:], domain.SchemaFor(name))
}

// serialDates rewrites spreadsheet date serials found in the catalog's date
// columns of name as date text. Cells that are not numbers are kept.
func serialDates(name string, rows [][]string) [][]string {
	if len(rows) < 2 {
		return rows
	}
	var cols []int
	for _, f := range domain.SchemaFor(name).Fields {
		if f.Kind != dataframe.KindDate {
			continue
		}
		for i, h := range rows[0] {
			if strings.TrimSpace(h) == f.Name {
				cols = append(cols, i)
			}
		}
	}
	for _, row := range rows[1:] {
		for _, c := range cols {
			if c >= len(row) {
				continue
			}
			serial, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
			if err != nil {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				continue
			}
			row[c] = cellText(t)
		}
	}
	return rows
}

// cellText renders a driver or API value the way a flat file would hold it.
func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(dataframe.DateLayout)
		}
		return x.UTC().Format(time.RFC3339)
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
		return ""
	}
}
