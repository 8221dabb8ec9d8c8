package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/company_dashboard/internal/config"
	"github.com/locvowork/company_dashboard/internal/database"
	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/handler"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/internal/repository"
	"github.com/locvowork/company_dashboard/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Echo    *echo.Echo
	Config  *config.EnvConfig
	Loader  domain.TableLoader
	Reports *service.ReportService
	closers []func() error
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = JSONSerializer{}
	return &App{Echo: e}
}

// Initialize loads the environment, sets up logging and opens the data
// source behind the report service.
func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	a.Config = config.DefaultEnvConfig

	logger.InitLogging(a.Config.LOG_FILE_PATH, a.Config.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	loader, closer, err := NewTableLoader(ctx, a.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize %s data source: %w", a.Config.DATA_SOURCE, err)
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.Loader = loader

	a.Reports = service.NewReportService(loader, service.ReportOptions{
		AsOf:     a.Config.AsOf(time.Now()),
		Policy:   service.MissingCategoryPolicy(a.Config.MISSING_CATEGORY_POLICY),
		Currency: a.Config.CURRENCY_SYMBOL,
		Workers:  a.Config.LOAD_WORKERS,
		Retries:  a.Config.LOAD_RETRIES,
	})
	logger.InfoLog(ctx, "Report service ready on %s source", a.Config.DATA_SOURCE)
	return nil
}

// NewTableLoader opens the loader selected by DATA_SOURCE. The returned
// closer is nil when the loader holds no resources.
func NewTableLoader(ctx context.Context, cfg *config.EnvConfig) (domain.TableLoader, func() error, error) {
	switch cfg.DATA_SOURCE {
	case config.SourceCSV:
		return repository.NewCSVLoader(cfg.DATA_DIR), nil, nil
	case config.SourceXLSX:
		return repository.NewExcelLoader(cfg.XLSX_PATH), nil, nil
	case config.SourceSQLite, config.SourcePostgres:
		dialect := repository.Dialect(cfg.DATA_SOURCE)
		db, err := database.Open(ctx, cfg, dialect)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLLoader(db, dialect), db.Close, nil
	case config.SourceSheets:
		loader, err := repository.NewSheetsLoader(ctx, cfg.GOOGLE_SPREADSHEET_ID,
			cfg.GOOGLE_SERVICE_ACCOUNT_JSON, cfg.GOOGLE_SERVICE_ACCOUNT_FILE)
		if err != nil {
			return nil, nil, err
		}
		return loader, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.DATA_SOURCE)
	}
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	a.Echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logger.Logger().Info()
			if v.Error != nil {
				ev = logger.Logger().Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes() {
	h := handler.NewDashboardHandler(a.Reports, a.Config.DATA_SOURCE, a.Config.REPORT_LAYOUT_PATH)
	h.Register(a.Echo)
}

// Run serves the dashboard until ctx is done, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.RegisterMiddlewares()
	a.RegisterRoutes()

	addr := fmt.Sprintf(":%d", a.Config.APP_PORT)
	errCh := make(chan error, 1)
	go func() {
		logger.InfoLog(ctx, "Dashboard listening on %s", addr)
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.InfoLog(context.Background(), "Shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

// Close releases the data source.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
