package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Data sources understood by DATA_SOURCE.
const (
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceSheets   = "sheets"
)

// Missing category policies understood by MISSING_CATEGORY_POLICY.
const (
	PolicyFail = "fail"
	PolicyZero = "zero"
)

const asOfLayout = "2006-01-02"

var DefaultEnvConfig *EnvConfig

var validate = validator.New()

type EnvConfig struct {
	// server config
	APP_PORT int `validate:"min=1,max=65535"`
	// database config
	DB_HOST              string `validate:"required_if=DATA_SOURCE postgres"`
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string `validate:"required_if=DATA_SOURCE postgres"`
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	// data source config
	DATA_SOURCE                 string `validate:"oneof=csv xlsx sqlite postgres sheets"`
	DATA_DIR                    string `validate:"required_if=DATA_SOURCE csv"`
	XLSX_PATH                   string `validate:"required_if=DATA_SOURCE xlsx"`
	SQLITE_PATH                 string `validate:"required_if=DATA_SOURCE sqlite"`
	GOOGLE_SPREADSHEET_ID       string `validate:"required_if=DATA_SOURCE sheets"`
	GOOGLE_SERVICE_ACCOUNT_FILE string
	GOOGLE_SERVICE_ACCOUNT_JSON string
	LOAD_WORKERS                int `validate:"min=0"`
	LOAD_RETRIES                int `validate:"min=0"`
	// report config
	REPORT_AS_OF            string `validate:"omitempty,datetime=2006-01-02"`
	MISSING_CATEGORY_POLICY string `validate:"oneof=fail zero"`
	CURRENCY_SYMBOL         string
	REPORT_LAYOUT_PATH      string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads an optional .env file, then the environment, into
// DefaultEnvConfig and validates the result.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}
	DefaultEnvConfig = cfg
	return nil
}

// FromEnv builds a config from the process environment with defaults.
func FromEnv() *EnvConfig {
	return &EnvConfig{
		APP_PORT:                    getEnvInt("APP_PORT", 8080),
		DB_HOST:                     getEnvString("DB_HOST", "localhost"),
		DB_PORT:                     getEnvInt("DB_PORT", 5432),
		DB_USER:                     getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:                 getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:                     getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:                 getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME:        getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:           getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DB_MAX_OPEN_CONNS:           getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DATA_SOURCE:                 strings.ToLower(getEnvString("DATA_SOURCE", SourceCSV)),
		DATA_DIR:                    getEnvString("DATA_DIR", "dataset"),
		XLSX_PATH:                   getEnvString("XLSX_PATH", "dataset/company.xlsx"),
		SQLITE_PATH:                 getEnvString("SQLITE_PATH", "dataset/company.db"),
		GOOGLE_SPREADSHEET_ID:       getEnvString("GOOGLE_SPREADSHEET_ID", ""),
		GOOGLE_SERVICE_ACCOUNT_FILE: getEnvString("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GOOGLE_SERVICE_ACCOUNT_JSON: getEnvString("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		LOAD_WORKERS:                getEnvInt("LOAD_WORKERS", 4),
		LOAD_RETRIES:                getEnvInt("LOAD_RETRIES", 2),
		REPORT_AS_OF:                getEnvString("REPORT_AS_OF", ""),
		MISSING_CATEGORY_POLICY:     strings.ToLower(getEnvString("MISSING_CATEGORY_POLICY", PolicyFail)),
		CURRENCY_SYMBOL:             getEnvString("CURRENCY_SYMBOL", "$"),
		REPORT_LAYOUT_PATH:          getEnvString("REPORT_LAYOUT_PATH", ""),
		LOG_FILE_PATH:               getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:                   getEnvString("LOG_LEVEL", "info"),
	}
}

// Validate reports every invalid setting at once.
func (c *EnvConfig) Validate() error {
	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, len(fieldErrs))
	for i, fe := range fieldErrs {
		errs[i] = fieldError(fe)
	}
	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required_if":
		source := strings.TrimPrefix(fe.Param(), "DATA_SOURCE ")
		return fmt.Errorf("%s is required for %s source", fe.Field(), source)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "min":
		return fmt.Errorf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "max":
		return fmt.Errorf("%s must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "datetime":
		return fmt.Errorf("%s must be YYYY-MM-DD, got %q", fe.Field(), fe.Value())
	default:
		return fmt.Errorf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// AsOf is the report reference date: REPORT_AS_OF, or today in UTC.
func (c *EnvConfig) AsOf(now time.Time) time.Time {
	if t, err := time.Parse(asOfLayout, c.REPORT_AS_OF); err == nil {
		return t
	}
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// PostgresDSN builds a lib/pq connection string.
func (c *EnvConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB_HOST, c.DB_PORT, c.DB_USER, c.DB_PASSWORD, c.DB_NAME, c.DB_SSL_MODE)
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
