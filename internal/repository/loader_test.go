package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

const employeesCSV = `id,full_name,position,department_id,salary,hire_date
1,Ann Lee,Engineer,1,1200.50,2023-01-15
2,Bob Ray,Analyst,2,900,2021-06-01
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCSVLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "employees.csv", employeesCSV)
	writeFile(t, dir, "tasks.csv", "id,priority\n1,high\n")
	writeFile(t, dir, "projects.csv", "id,project_name,client_id,budget,status\n1,A,2,lots,Planned\n")
	writeFile(t, dir, "departments.csv", "id,name\n1,Engineering,extra\n")

	loader := NewCSVLoader(dir)
	ctx := context.Background()

	t.Run("loads typed rows", func(t *testing.T) {
		tbl, err := loader.Load(ctx, "employees")
		require.NoError(t, err)
		require.Equal(t, 2, tbl.Len())

		salary, err := tbl.Row(0).Get("salary")
		require.NoError(t, err)
		d, ok := salary.Decimal()
		require.True(t, ok)
		assert.Equal(t, "1200.5", d.String())

		hired, _ := tbl.Row(1).Get("hire_date")
		when, ok := hired.Time()
		require.True(t, ok)
		assert.Equal(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), when)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(ctx, "marketing_campaigns")
		var nf *dataframe.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "marketing_campaigns", nf.Dataset)
	})

	t.Run("path traversal is not found", func(t *testing.T) {
		_, err := loader.Load(ctx, "../employees")
		assert.ErrorIs(t, err, dataframe.ErrNotFound)
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := loader.Load(ctx, "tasks")
		var se *dataframe.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "status", se.Field)
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := loader.Load(ctx, "projects")
		var se *dataframe.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "budget", se.Field)
		assert.Equal(t, 1, se.Row)
	})

	t.Run("ragged record", func(t *testing.T) {
		_, err := loader.Load(ctx, "departments")
		assert.ErrorIs(t, err, dataframe.ErrSchema)
	})
}

func TestExcelLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("departments")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("departments", "A1", &[]interface{}{"id", "name"}))
	require.NoError(t, f.SetSheetRow("departments", "A2", &[]interface{}{1, "Engineering"}))
	require.NoError(t, f.SetSheetRow("departments", "A3", &[]interface{}{2, "Finance"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ctx := context.Background()
	loader := NewExcelLoader(path)

	tbl, err := loader.Load(ctx, "departments")
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Finance", tbl.Row(1).Text("name"))
	assert.Equal(t, "2", tbl.Row(1).Text("id"))

	_, err = loader.Load(ctx, "employees")
	assert.ErrorIs(t, err, dataframe.ErrNotFound)

	_, err = NewExcelLoader(filepath.Join(t.TempDir(), "missing.xlsx")).Load(ctx, "departments")
	assert.ErrorIs(t, err, dataframe.ErrNotFound)
}

func TestExcelLoader_DateCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("employees")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("employees", "A1",
		&[]interface{}{"id", "full_name", "position", "department_id", "salary", "hire_date"}))
	require.NoError(t, f.SetSheetRow("employees", "A2",
		&[]interface{}{1, "Ann Lee", "Engineer", 1, 1200.5, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}))
	require.NoError(t, f.SetSheetRow("employees", "A3",
		&[]interface{}{2, "Bob Ray", "Analyst", 2, 900, "2021-06-01"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := NewExcelLoader(path).Load(context.Background(), "employees")
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	for i, want := range []time.Time{
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
	} {
		hired, err := tbl.Row(i).Get("hire_date")
		require.NoError(t, err)
		when, ok := hired.Time()
		require.True(t, ok)
		assert.Equal(t, want, when)
	}
	assert.Equal(t, "1200.5", tbl.Row(0).Text("salary"))
}

func TestSerialDates(t *testing.T) {
	rows := serialDates("employees", valuesToRows([][]interface{}{
		{"id", "full_name", "position", "department_id", "salary", "hire_date"},
		{float64(1), "Ann Lee", "Engineer", float64(1), float64(1200), float64(46082)},
		{float64(2), "Bob Ray", "Analyst", float64(2), float64(900), "3/1/2026"},
		{float64(3), "Cy Dow", "Analyst", float64(2), float64(800)},
	}))
	assert.Equal(t, "2026-03-01", rows[1][5])
	assert.Equal(t, "3/1/2026", rows[2][5])
	assert.Equal(t, "1200", rows[1][4], "non-date columns keep their numbers")

	tbl, err := tableFromRows("employees", rows)
	require.NoError(t, err)
	first, _ := tbl.Row(0).Get("hire_date")
	second, _ := tbl.Row(1).Get("hire_date")
	assert.True(t, first.Equal(second))
	third, _ := tbl.Row(2).Get("hire_date")
	assert.True(t, third.IsNull())
}

func TestSQLLoader_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sqlx.Connect("sqlite", filepath.Join(t.TempDir(), "company.db"))
	require.NoError(t, err)
	defer db.Close()

	db.MustExec(`CREATE TABLE tasks (id INTEGER PRIMARY KEY, status TEXT NOT NULL, note TEXT)`)
	db.MustExec(`INSERT INTO tasks (id, status, note) VALUES (2, 'Planned', NULL), (1, 'Completed', 'x')`)
	db.MustExec(`CREATE TABLE projects (id INTEGER PRIMARY KEY, project_name TEXT, client_id INTEGER, budget NUMERIC(14, 2), status TEXT)`)
	db.MustExec(`INSERT INTO projects VALUES (1, 'Apollo', 4, 5000.25, 'Planned')`)
	db.MustExec(`CREATE VIEW "project_projEm" AS SELECT p.project_name, 7 AS employee_id, p.status FROM projects p`)

	loader := NewSQLLoader(db, DialectSQLite)

	tasks, err := loader.Load(ctx, "tasks")
	require.NoError(t, err)
	require.Equal(t, 2, tasks.Len())
	assert.Equal(t, "Completed", tasks.Row(0).Text("status"), "rows come back ordered")
	assert.Equal(t, "", tasks.Row(1).Text("note"))

	projects, err := loader.Load(ctx, "projects")
	require.NoError(t, err)
	budget, _ := projects.Row(0).Get("budget")
	d, ok := budget.Decimal()
	require.True(t, ok)
	assert.Equal(t, "5000.25", d.String())

	view, err := loader.Load(ctx, "project_projEm")
	require.NoError(t, err)
	assert.Equal(t, "7", view.Row(0).Text("employee_id"))

	_, err = loader.Load(ctx, "transactions")
	assert.ErrorIs(t, err, dataframe.ErrNotFound)

	_, err = loader.Load(ctx, "tasks; DROP TABLE tasks")
	assert.ErrorIs(t, err, dataframe.ErrNotFound)
}

func TestValuesToRows(t *testing.T) {
	rows := valuesToRows([][]interface{}{
		{"id", "amount", "type"},
		{float64(1), 1200.5, "Invoice"},
		{float64(2), float64(-40), "Estimate"},
		{float64(3)},
	})
	assert.Equal(t, [][]string{
		{"id", "amount", "type"},
		{"1", "1200.5", "Invoice"},
		{"2", "-40", "Estimate"},
		{"3"},
	}, rows)

	tbl, err := tableFromRows("transactions_sheet", rows)
	require.NoError(t, err)
	assert.Equal(t, "", tbl.Row(2).Text("type"))
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "", cellText(nil))
	assert.Equal(t, "abc", cellText([]byte("abc")))
	assert.Equal(t, "42", cellText(int64(42)))
	assert.Equal(t, "true", cellText(true))
	assert.Equal(t, "2024-03-01", cellText(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-01T10:30:00Z", cellText(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
}

func TestMemoryLoader(t *testing.T) {
	tasks := dataframe.New("tasks", []dataframe.Column{
		{Name: "id", Kind: dataframe.KindNumber},
		{Name: "status", Kind: dataframe.KindString},
	})
	require.NoError(t, tasks.Append(dataframe.Int(1), dataframe.String("Planned")))
	broken := dataframe.New("departments", []dataframe.Column{{Name: "id", Kind: dataframe.KindNumber}})

	loader := NewMemoryLoader(tasks, broken)
	ctx := context.Background()

	got, err := loader.Load(ctx, "tasks")
	require.NoError(t, err)
	assert.Same(t, tasks, got)

	_, err = loader.Load(ctx, "departments")
	assert.ErrorIs(t, err, dataframe.ErrSchema)

	_, err = loader.Load(ctx, "employees")
	assert.ErrorIs(t, err, dataframe.ErrNotFound)
}
