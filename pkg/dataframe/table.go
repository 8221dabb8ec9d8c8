package dataframe

import (
	"fmt"
)

// Column describes one field of a Table.
type Column struct {
	Name string
	Kind Kind
}

// Table is an ordered, immutable sequence of same-schema rows.
// Tables are built with New and Append and never mutated afterwards;
// every operation in this package returns a new Table.
type Table struct {
	name    string
	columns []Column
	index   map[string]int
	rows    [][]Value
}

// Row is a read-only view of one row of a Table.
type Row struct {
	table *Table
	pos   int
}

func New(name string, columns []Column) *Table {
	t := &Table{
		name:    name,
		columns: append([]Column(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		t.index[c.Name] = i
	}
	return t
}

// Append adds a row. Values must match the column kinds.
func (t *Table) Append(values ...Value) error {
	if len(values) != len(t.columns) {
		return &SchemaError{Table: t.name, Row: len(t.rows) + 1,
			Reason: fmt.Sprintf("expected %d values, got %d", len(t.columns), len(values))}
	}
	for i, v := range values {
		if v.kind != t.columns[i].Kind {
			return &SchemaError{Table: t.name, Field: t.columns[i].Name, Row: len(t.rows) + 1,
				Reason: fmt.Sprintf("expected %s value, got %s", t.columns[i].Kind, v.kind)}
		}
	}
	t.rows = append(t.rows, append([]Value(nil), values...))
	return nil
}

func (t *Table) Name() string { return t.name }

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Columns() []Column { return append([]Column(nil), t.columns...) }

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the column definition for name or a SchemaError.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, &SchemaError{Table: t.name, Field: name, Reason: "no such field"}
	}
	return t.columns[i], nil
}

func (t *Table) Row(i int) Row { return Row{table: t, pos: i} }

// Rows returns views over every row in original order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i := range t.rows {
		out[i] = Row{table: t, pos: i}
	}
	return out
}

// Position is the zero-based index of the row in its table.
func (r Row) Position() int { return r.pos }

// Get returns the named cell or a SchemaError.
func (r Row) Get(field string) (Value, error) {
	i, ok := r.table.index[field]
	if !ok {
		return Value{}, &SchemaError{Table: r.table.name, Field: field, Reason: "no such field"}
	}
	return r.table.rows[r.pos][i], nil
}

// Text is Get rendered as text, "" when the field is unknown.
func (r Row) Text(field string) string {
	v, err := r.Get(field)
	if err != nil {
		return ""
	}
	return v.Text()
}

// Values returns a copy of the row cells in column order.
func (r Row) Values() []Value {
	return append([]Value(nil), r.table.rows[r.pos]...)
}

func (t *Table) column(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, &SchemaError{Table: t.name, Field: name, Reason: "no such field"}
	}
	return i, nil
}

// numericColumn resolves a field that reductions read as numbers.
func (t *Table) numericColumn(name string) (int, error) {
	i, err := t.column(name)
	if err != nil {
		return 0, err
	}
	if t.columns[i].Kind != KindNumber {
		return 0, &SchemaError{Table: t.name, Field: name,
			Reason: fmt.Sprintf("expected number column, got %s", t.columns[i].Kind)}
	}
	return i, nil
}
