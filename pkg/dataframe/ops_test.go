package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_SuffixesOverlappingColumns(t *testing.T) {
	transactions := mustRecords(t, "transactions",
		[]string{"id", "project_id", "client_id", "amount", "type"},
		[][]string{
			{"1", "20", "3", "100", "Invoice"},
			{"2", "10", "4", "40", "Estimate"},
			{"3", "99", "5", "1", "Invoice"},
			{"4", "20", "3", "7", "Invoice"},
		})
	projects := mustRecords(t, "projects",
		[]string{"id", "project_name", "client_id", "budget"},
		[][]string{
			{"10", "Apollo", "4", "5000"},
			{"20", "Zephyr", "3", "9000"},
		})

	joined, err := Join("transaction_project", transactions, projects, "project_id", "id")
	require.NoError(t, err)

	names := make([]string, 0)
	for _, c := range joined.Columns() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"id_x", "project_id", "client_id_x", "amount", "type",
		"id_y", "project_name", "client_id_y", "budget",
	}, names)

	require.Equal(t, 3, joined.Len())
	assert.Equal(t, "Zephyr", joined.Row(0).Text("project_name"))
	assert.Equal(t, "Apollo", joined.Row(1).Text("project_name"))
	assert.Equal(t, "4", joined.Row(2).Text("id_x"))
	assert.Equal(t, "transaction_project", joined.Name())
}

func TestJoin_NumericKeysMatchAcrossScale(t *testing.T) {
	left := mustRecords(t, "employees", []string{"full_name", "department_id"}, [][]string{{"Ann", "1.0"}, {"Bob", ""}})
	right := mustRecords(t, "departments", []string{"id", "name"}, [][]string{{"1", "Engineering"}})

	joined, err := Join("employees_department", left, right, "department_id", "id")
	require.NoError(t, err)
	require.Equal(t, 1, joined.Len())
	assert.Equal(t, "Engineering", joined.Row(0).Text("name"))
}

func TestJoin_UnknownKey(t *testing.T) {
	left := mustRecords(t, "a", []string{"id"}, [][]string{{"1"}})
	_, err := Join("ab", left, left, "id", "missing")
	assert.ErrorIs(t, err, ErrSchema)
}

func TestReplace(t *testing.T) {
	tbl := mustRecords(t, "transaction_project", []string{"type"},
		[][]string{{"Invoice"}, {"Estimate"}, {"Refund"}, {"Income"}, {""}})
	subs := map[string]string{"Invoice": "Income", "Estimate": "Expense"}

	out, err := tbl.Replace("type", subs)
	require.NoError(t, err)

	got := make([]string, 0, out.Len())
	for _, r := range out.Rows() {
		got = append(got, r.Text("type"))
	}
	assert.Equal(t, []string{"Income", "Expense", "Refund", "Income", ""}, got)
	assert.Equal(t, "Invoice", tbl.Row(0).Text("type"), "source table is untouched")

	again, err := out.Replace("type", subs)
	require.NoError(t, err)
	for i, r := range again.Rows() {
		assert.Equal(t, got[i], r.Text("type"))
	}
}

func TestReplace_RequiresStringColumn(t *testing.T) {
	tbl := mustRecords(t, "t", []string{"amount"}, [][]string{{"1"}})
	_, err := tbl.Replace("amount", map[string]string{"1": "2"})
	assert.ErrorIs(t, err, ErrSchema)
}

func TestFilter(t *testing.T) {
	tbl := salaries(t)
	high := tbl.Filter(func(r Row) bool {
		v, _ := r.Get("salary")
		d, _ := v.Decimal()
		return d.IntPart() >= 70
	})
	assert.Equal(t, 3, high.Len())
	assert.Equal(t, "Ann", high.Row(0).Text("full_name"))
	assert.Equal(t, 5, tbl.Len())
}
