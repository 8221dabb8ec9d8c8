package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/company_dashboard/internal/domain"
)

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATA_SOURCE", "csv")
	t.Setenv("DATA_DIR", filepath.Join("..", "..", "dataset"))
	t.Setenv("REPORT_AS_OF", "2026-10-19")
	t.Setenv("MISSING_CATEGORY_POLICY", "fail")
	t.Setenv("REPORT_LAYOUT_PATH", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCommand(t *testing.T) {
	setEnv(t)

	out, err := run(t, "report")
	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "2026-10-19", report.AsOf)
	assert.Len(t, report.Sections, 5)

	employees, ok := report.Section(domain.SectionEmployees)
	require.True(t, ok)
	hires, ok := employees.Metric("New Hires in Last Year", "Number of New Hires")
	require.True(t, ok)
	assert.Equal(t, "5", hires.Value)

	again, err := run(t)
	require.NoError(t, err)
	assert.Equal(t, out, again, "root command prints the same report")
}

func TestReportCommand_Section(t *testing.T) {
	setEnv(t)

	out, err := run(t, "report", "--section", "tasks", "--indent=false")
	require.NoError(t, err)

	var sec domain.Section
	require.NoError(t, json.Unmarshal([]byte(out), &sec))
	assert.Equal(t, domain.SectionTasks, sec.Key)
	_, ok := sec.Metric("Task Status", "Number of Planned Tasks")
	assert.True(t, ok)

	_, err = run(t, "report", "--section", "inventory")
	assert.Error(t, err)
}

func TestReportCommand_BadConfig(t *testing.T) {
	setEnv(t)
	t.Setenv("MISSING_CATEGORY_POLICY", "ignore")

	_, err := run(t, "report")
	assert.ErrorContains(t, err, "MISSING_CATEGORY_POLICY")
}

func TestExportCommand(t *testing.T) {
	setEnv(t)
	path := filepath.Join(t.TempDir(), "dash.xlsx")

	_, err := run(t, "export", "--out", path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestChartsCommand(t *testing.T) {
	setEnv(t)
	dir := t.TempDir()

	out, err := run(t, "charts", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "tasks_task_status.png"))
	assert.FileExists(t, filepath.Join(dir, "employees_employees_per_department.png"))
}
