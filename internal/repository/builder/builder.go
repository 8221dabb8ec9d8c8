package builder

import (
	"fmt"
	"strings"
)

// Placeholder selects how bind parameters are written.
type Placeholder int

const (
	// Dollar writes $1, $2, ... (postgres).
	Dollar Placeholder = iota
	// Question writes ? (sqlite).
	Question
)

// SQLBuilder helps construct SQL queries dynamically.
// Conditions are written with "?" and rewritten on Build.
type SQLBuilder struct {
	table       string
	columns     []string
	rows        [][]interface{}
	where       []string
	whereArgs   []interface{}
	orderBy     []string
	isInsert    bool
	isDelete    bool
	isSelect    bool
	placeholder Placeholder
}

// NewSQLBuilder creates a new instance of SQLBuilder.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// WithPlaceholder switches the bind parameter style.
func (b *SQLBuilder) WithPlaceholder(p Placeholder) *SQLBuilder {
	b.placeholder = p
	return b
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.isSelect = true
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.isInsert = true
	b.table = table
	b.columns = cols
	return b
}

// Delete specifies the table to delete from.
func (b *SQLBuilder) Delete(table string) *SQLBuilder {
	b.isDelete = true
	b.table = table
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Values adds one row for insertion. Call it again for a multi-row insert.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.rows = append(b.rows, vals)
	return b
}

// Where adds a condition; conditions are combined with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, condition)
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// BuildSafe is Build plus a check that every row matches the column list
// and every "?" has an argument.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("row %d has %d values for %d columns", i+1, len(row), len(b.columns))
		}
	}
	marks := 0
	for _, w := range b.where {
		marks += strings.Count(w, "?")
	}
	if marks != len(b.whereArgs) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", marks, len(b.whereArgs))
	}
	sql, args := b.Build()
	return sql, args, nil
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}
	n := 0
	next := func() string {
		n++
		if b.placeholder == Question {
			return "?"
		}
		return fmt.Sprintf("$%d", n)
	}

	switch {
	case b.isSelect:
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(b.table)
	case b.isInsert:
		sb.WriteString("INSERT INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES ")
		for i, row := range b.rows {
			if i > 0 {
				sb.WriteString(", ")
			}
			marks := make([]string, len(row))
			for j := range row {
				marks[j] = next()
			}
			sb.WriteString("(" + strings.Join(marks, ", ") + ")")
			args = append(args, row...)
		}
		return sb.String(), args
	case b.isDelete:
		sb.WriteString("DELETE FROM ")
		sb.WriteString(b.table)
	}

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		parts := strings.Split(strings.Join(b.where, " AND "), "?")
		for i, part := range parts {
			sb.WriteString(part)
			if i < len(parts)-1 {
				sb.WriteString(next())
			}
		}
		args = append(args, b.whereArgs...)
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	return sb.String(), args
}

// QuoteIdent double-quotes an identifier for postgres and sqlite.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
