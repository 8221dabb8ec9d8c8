package dataframe

import (
	"fmt"
)

// Join suffixes for column names present on both sides.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// Filter keeps the rows for which keep returns true, preserving order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.name, t.columns)
	for i, row := range t.rows {
		if keep(Row{table: t, pos: i}) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// Replace substitutes whole cell values of a string column. Values without an
// entry in subs are left untouched.
func (t *Table) Replace(field string, subs map[string]string) (*Table, error) {
	i, err := t.column(field)
	if err != nil {
		return nil, err
	}
	if t.columns[i].Kind != KindString {
		return nil, &SchemaError{Table: t.name, Field: field,
			Reason: fmt.Sprintf("replace needs a string column, got %s", t.columns[i].Kind)}
	}
	out := New(t.name, t.columns)
	out.rows = make([][]Value, len(t.rows))
	for r, row := range t.rows {
		cp := append([]Value(nil), row...)
		if to, ok := subs[cp[i].str]; ok && !cp[i].null {
			cp[i] = String(to)
		}
		out.rows[r] = cp
	}
	return out, nil
}

// Join is an inner equi-join of left.leftKey with right.rightKey. Output rows
// follow left order, then right order within one left row. Column names found
// on both sides get LeftSuffix and RightSuffix.
func Join(name string, left, right *Table, leftKey, rightKey string) (*Table, error) {
	li, err := left.column(leftKey)
	if err != nil {
		return nil, err
	}
	ri, err := right.column(rightKey)
	if err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(left.columns)+len(right.columns))
	for _, c := range left.columns {
		if right.HasColumn(c.Name) {
			c.Name += LeftSuffix
		}
		columns = append(columns, c)
	}
	for _, c := range right.columns {
		if left.HasColumn(c.Name) {
			c.Name += RightSuffix
		}
		columns = append(columns, c)
	}

	byKey := make(map[string][]int)
	for r, row := range right.rows {
		if row[ri].null {
			continue
		}
		k := joinKey(row[ri])
		byKey[k] = append(byKey[k], r)
	}

	out := New(name, columns)
	for _, lrow := range left.rows {
		if lrow[li].null {
			continue
		}
		for _, r := range byKey[joinKey(lrow[li])] {
			if !lrow[li].Equal(right.rows[r][ri]) {
				continue
			}
			row := make([]Value, 0, len(columns))
			row = append(row, lrow...)
			row = append(row, right.rows[r]...)
			out.rows = append(out.rows, row)
		}
	}
	return out, nil
}

// joinKey normalises numbers so 1 and 1.0 land in the same bucket.
func joinKey(v Value) string {
	if v.kind == KindNumber {
		return v.num.String()
	}
	return v.Text()
}
