package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/company_dashboard/internal/config"
	"github.com/locvowork/company_dashboard/internal/repository"
)

func TestNewTableLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("csv", func(t *testing.T) {
		loader, closer, err := NewTableLoader(ctx, &config.EnvConfig{DATA_SOURCE: config.SourceCSV, DATA_DIR: t.TempDir()})
		require.NoError(t, err)
		assert.Nil(t, closer)
		assert.IsType(t, &repository.CSVLoader{}, loader)
	})

	t.Run("xlsx", func(t *testing.T) {
		loader, _, err := NewTableLoader(ctx, &config.EnvConfig{DATA_SOURCE: config.SourceXLSX, XLSX_PATH: "company.xlsx"})
		require.NoError(t, err)
		assert.IsType(t, &repository.ExcelLoader{}, loader)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.EnvConfig{DATA_SOURCE: config.SourceSQLite, SQLITE_PATH: filepath.Join(t.TempDir(), "company.db")}
		loader, closer, err := NewTableLoader(ctx, cfg)
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer()
		assert.IsType(t, &repository.SQLLoader{}, loader)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := NewTableLoader(ctx, &config.EnvConfig{DATA_SOURCE: "parquet"})
		assert.Error(t, err)
	})
}

func TestJSONSerializer(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}

	t.Run("serialize", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, c.JSON(http.StatusOK, map[string]int{"employees": 6}))
		assert.JSONEq(t, `{"employees":6}`, rec.Body.String())
	})

	t.Run("deserialize", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"section":"tasks"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())

		var body struct {
			Section string `json:"section"`
		}
		require.NoError(t, c.Bind(&body))
		assert.Equal(t, "tasks", body.Section)
	})

	t.Run("syntax error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"section":`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())

		var body map[string]string
		err := c.Bind(&body)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}
