package dataframe

import (
	"errors"
	"fmt"
	"strings"
)

// Field is a column a dataset must provide.
type Field struct {
	Name string
	Kind Kind
}

// Schema lists the required fields of a dataset. Columns not listed are
// still loaded with an inferred kind.
type Schema struct {
	Fields []Field
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FromRecords builds a typed table from a header and raw text rows, the shape
// every loader produces. Short rows are padded with blanks; long rows fail.
func FromRecords(name string, header []string, records [][]string, schema Schema) (*Table, error) {
	if len(header) == 0 {
		return nil, &SchemaError{Table: name, Reason: "no header row"}
	}

	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("unnamed_%d", i)
		}
		if seen[h] {
			return nil, &SchemaError{Table: name, Field: h, Reason: "duplicate header"}
		}
		seen[h] = true
		names[i] = h
	}

	for _, f := range schema.Fields {
		if !seen[f.Name] {
			return nil, &SchemaError{Table: name, Field: f.Name, Reason: "required field missing"}
		}
	}

	cells := make([][]string, len(records))
	for r, rec := range records {
		if len(rec) > len(names) {
			return nil, &SchemaError{Table: name, Row: r + 1,
				Reason: fmt.Sprintf("expected at most %d values, got %d", len(names), len(rec))}
		}
		row := make([]string, len(names))
		copy(row, rec)
		cells[r] = row
	}

	columns := make([]Column, len(names))
	for i, n := range names {
		if f, ok := schema.field(n); ok {
			columns[i] = Column{Name: n, Kind: f.Kind}
			continue
		}
		col := make([]string, len(cells))
		for r := range cells {
			col[r] = cells[r][i]
		}
		columns[i] = Column{Name: n, Kind: inferKind(col)}
	}

	t := New(name, columns)
	for r, row := range cells {
		values := make([]Value, len(columns))
		for i, c := range columns {
			v, err := ParseValue(c.Kind, row[i])
			if err != nil {
				return nil, &SchemaError{Table: name, Field: c.Name, Row: r + 1,
					Reason: fmt.Sprintf("cannot parse %q as %s", row[i], c.Kind)}
			}
			values[i] = v
		}
		if err := t.Append(values...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Validate checks that t carries every field of s with the declared kind.
func (s Schema) Validate(t *Table) error {
	var errs []error
	for _, f := range s.Fields {
		c, err := t.Column(f.Name)
		if err != nil {
			errs = append(errs, &SchemaError{Table: t.Name(), Field: f.Name, Reason: "required field missing"})
			continue
		}
		if c.Kind != f.Kind {
			errs = append(errs, &SchemaError{Table: t.Name(), Field: f.Name,
				Reason: fmt.Sprintf("expected %s column, got %s", f.Kind, c.Kind)})
		}
	}
	return errors.Join(errs...)
}
