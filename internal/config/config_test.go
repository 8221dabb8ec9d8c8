package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DATA_SOURCE", "DATA_DIR", "MISSING_CATEGORY_POLICY", "REPORT_AS_OF", "CURRENCY_SYMBOL"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, 8080, cfg.APP_PORT)
	assert.Equal(t, SourceCSV, cfg.DATA_SOURCE)
	assert.Equal(t, "dataset", cfg.DATA_DIR)
	assert.Equal(t, PolicyFail, cfg.MISSING_CATEGORY_POLICY)
	assert.Equal(t, "$", cfg.CURRENCY_SYMBOL)
	assert.Equal(t, 20*time.Minute, cfg.DB_CONN_MAX_LIFETIME)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATA_SOURCE", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30")
	t.Setenv("MISSING_CATEGORY_POLICY", "Zero")

	cfg := FromEnv()
	assert.Equal(t, 9090, cfg.APP_PORT)
	assert.Equal(t, SourceSQLite, cfg.DATA_SOURCE)
	assert.Equal(t, 30*time.Second, cfg.DB_CONN_MAX_LIFETIME)
	assert.Equal(t, PolicyZero, cfg.MISSING_CATEGORY_POLICY)
	require.NoError(t, cfg.Validate())
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := &EnvConfig{
		APP_PORT:                0,
		DATA_SOURCE:             "ftp",
		MISSING_CATEGORY_POLICY: "ignore",
		REPORT_AS_OF:            "19/10/2026",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
	assert.Contains(t, err.Error(), `DATA_SOURCE must be one of [csv xlsx sqlite postgres sheets], got "ftp"`)
	assert.Contains(t, err.Error(), "MISSING_CATEGORY_POLICY")
	assert.Contains(t, err.Error(), "REPORT_AS_OF")
}

func TestValidate_SourceRequirements(t *testing.T) {
	cfg := FromEnv()
	cfg.DATA_SOURCE = SourceSheets
	cfg.GOOGLE_SPREADSHEET_ID = ""
	assert.ErrorContains(t, cfg.Validate(), "GOOGLE_SPREADSHEET_ID is required for sheets source")

	cfg = FromEnv()
	cfg.DATA_SOURCE = SourcePostgres
	cfg.DB_NAME = ""
	assert.EqualError(t, cfg.Validate(), "DB_NAME is required for postgres source")

	cfg = FromEnv()
	cfg.DATA_SOURCE = SourceCSV
	cfg.SQLITE_PATH = ""
	cfg.LOAD_RETRIES = -1
	assert.EqualError(t, cfg.Validate(), "LOAD_RETRIES must be at least 0, got -1")
}

func TestAsOf(t *testing.T) {
	now := time.Date(2026, 10, 19, 17, 45, 0, 0, time.FixedZone("x", 7*3600))

	cfg := &EnvConfig{}
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), cfg.AsOf(now))

	cfg.REPORT_AS_OF = "2024-02-29"
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), cfg.AsOf(now))
}

func TestPostgresDSN(t *testing.T) {
	cfg := &EnvConfig{DB_HOST: "db", DB_PORT: 5433, DB_USER: "u", DB_PASSWORD: "p", DB_NAME: "dash", DB_SSL_MODE: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=dash sslmode=disable", cfg.PostgresDSN())
}
