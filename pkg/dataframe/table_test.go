package dataframe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeSchema = Schema{Fields: []Field{
	{Name: "id", Kind: KindNumber},
	{Name: "full_name", Kind: KindString},
	{Name: "salary", Kind: KindNumber},
	{Name: "hire_date", Kind: KindDate},
}}

func TestFromRecords(t *testing.T) {
	tbl, err := FromRecords("employees",
		[]string{"\ufeffid", "full_name", "salary", "hire_date", "extra", "note"},
		[][]string{
			{"1", "Ann", "1200.50", "2023-01-15", "7", "x"},
			{"2", "Bob", "900", "2021-06-01 00:00:00", "8"},
		}, employeeSchema)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []Column{
		{Name: "id", Kind: KindNumber},
		{Name: "full_name", Kind: KindString},
		{Name: "salary", Kind: KindNumber},
		{Name: "hire_date", Kind: KindDate},
		{Name: "extra", Kind: KindNumber},
		{Name: "note", Kind: KindString},
	}, tbl.Columns())

	bob := tbl.Row(1)
	hired, err := bob.Get("hire_date")
	require.NoError(t, err)
	when, ok := hired.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), when)
	assert.Equal(t, "", bob.Text("note"))
	assert.Equal(t, "1200.5", tbl.Row(0).Text("salary"))
}

func TestFromRecords_SchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		rows   [][]string
		field  string
	}{
		{
			name:   "missing required field",
			header: []string{"id", "full_name", "salary"},
			field:  "hire_date",
		},
		{
			name:   "unparseable number",
			header: []string{"id", "full_name", "salary", "hire_date"},
			rows:   [][]string{{"1", "Ann", "lots", "2020-01-01"}},
			field:  "salary",
		},
		{
			name:   "unparseable date",
			header: []string{"id", "full_name", "salary", "hire_date"},
			rows:   [][]string{{"1", "Ann", "10", "yesterday"}},
			field:  "hire_date",
		},
		{
			name:   "duplicate header",
			header: []string{"id", "full_name", "salary", "hire_date", "salary"},
			field:  "salary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRecords("employees", tt.header, tt.rows, employeeSchema)
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.field, schemaErr.Field)
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestFromRecords_RowTooLong(t *testing.T) {
	_, err := FromRecords("tasks", []string{"id", "status"}, [][]string{{"1", "Planned", "oops"}}, Schema{})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 1, schemaErr.Row)
}

func TestSchema_Validate(t *testing.T) {
	tbl := New("employees", []Column{
		{Name: "id", Kind: KindNumber},
		{Name: "full_name", Kind: KindString},
		{Name: "salary", Kind: KindString},
	})
	err := employeeSchema.Validate(tbl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), `field "salary"`)
	assert.Contains(t, err.Error(), `field "hire_date"`)
}

func TestTable_Append(t *testing.T) {
	tbl := New("tasks", []Column{{Name: "id", Kind: KindNumber}, {Name: "status", Kind: KindString}})
	require.NoError(t, tbl.Append(Int(1), String("Planned")))

	assert.ErrorIs(t, tbl.Append(String("2"), String("Planned")), ErrSchema)
	assert.ErrorIs(t, tbl.Append(Int(2)), ErrSchema)
	assert.Equal(t, 1, tbl.Len())
}

func TestInferKind(t *testing.T) {
	assert.Equal(t, KindNumber, inferKind([]string{"1", " 2.5 ", ""}))
	assert.Equal(t, KindDate, inferKind([]string{"2020-01-01", "", "2021-12-31"}))
	assert.Equal(t, KindString, inferKind([]string{"1", "two"}))
	assert.Equal(t, KindString, inferKind([]string{"", ""}))
}

func TestParseValue_Dates(t *testing.T) {
	march1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2026-03-01", "2026-03-01 00:00:00", "2026-03-01T00:00:00Z", "03/01/2026", "3/1/2026"} {
		v, err := ParseValue(KindDate, raw)
		require.NoError(t, err, raw)
		got, ok := v.Time()
		require.True(t, ok)
		assert.Equal(t, march1, got, raw)
	}

	v, err := ParseValue(KindDate, " ")
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	_, err = ParseValue(KindDate, "3/1/26 00:00")
	assert.Error(t, err)
}
