package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/internal/render"
	"github.com/locvowork/company_dashboard/internal/service"
	"github.com/locvowork/company_dashboard/internal/service/serviceutils"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ReportBuilder produces the report served by the dashboard.
type ReportBuilder interface {
	Build(ctx context.Context) (*domain.Report, error)
	BuildSection(ctx context.Context, key domain.SectionKey) (*domain.Section, error)
}

type DashboardHandler struct {
	reports    ReportBuilder
	dataSource string
	layoutPath string
}

func NewDashboardHandler(reports ReportBuilder, dataSource, layoutPath string) *DashboardHandler {
	return &DashboardHandler{reports: reports, dataSource: dataSource, layoutPath: layoutPath}
}

// Register mounts the dashboard routes on e.
func (h *DashboardHandler) Register(e *echo.Echo) {
	e.GET("/", h.IndexHandler)
	e.GET("/healthz", h.HealthHandler)

	api := e.Group("/api")
	api.GET("/report", h.ReportHandler)
	api.GET("/report/sections", h.SectionsHandler)
	api.GET("/report/:section", h.SectionHandler)

	e.GET("/charts/:section/:chart", h.ChartHandler)
	e.GET("/export/report.xlsx", h.ExportHandler)
}

func (h *DashboardHandler) HealthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", HealthResponse{Status: "ok", DataSource: h.dataSource})
}

func (h *DashboardHandler) IndexHandler(c echo.Context) error {
	report, err := h.reports.Build(c.Request().Context())
	if err != nil {
		return h.reportError(c, "Failed to build report", err)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "dashboard.html", newDashboardView(report)); err != nil {
		logger.ErrorLog(c.Request().Context(), "Dashboard template failed", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to render dashboard", err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *DashboardHandler) ReportHandler(c echo.Context) error {
	report, err := h.reports.Build(c.Request().Context())
	if err != nil {
		return h.reportError(c, "Failed to build report", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Report built successfully", report)
}

func (h *DashboardHandler) SectionsHandler(c echo.Context) error {
	report, err := h.reports.Build(c.Request().Context())
	if err != nil {
		return h.reportError(c, "Failed to build report", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Sections listed successfully", summarize(report))
}

func (h *DashboardHandler) SectionHandler(c echo.Context) error {
	sec, err := h.reports.BuildSection(c.Request().Context(), domain.SectionKey(c.Param("section")))
	if err != nil {
		return h.reportError(c, "Failed to build section", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Section built successfully", sec)
}

func (h *DashboardHandler) ChartHandler(c echo.Context) error {
	sec, err := h.reports.BuildSection(c.Request().Context(), domain.SectionKey(c.Param("section")))
	if err != nil {
		return h.reportError(c, "Failed to build section", err)
	}
	chart, ok := sec.Chart(c.Param("chart"))
	if !ok {
		return serviceutils.ResponseError(c, http.StatusNotFound, "Chart not found", nil)
	}

	var buf bytes.Buffer
	if err := render.WritePNG(&buf, *chart); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to render chart", err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *DashboardHandler) ExportHandler(c echo.Context) error {
	report, err := h.reports.Build(c.Request().Context())
	if err != nil {
		return h.reportError(c, "Failed to build report", err)
	}
	data, err := service.ExportWorkbook(report, h.layoutPath)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate Excel file", err)
	}

	c.Response().Header().Set("Content-Disposition", `attachment; filename="company_dashboard.xlsx"`)
	c.Response().Header().Set("Content-Length", strconv.Itoa(len(data)))
	return c.Blob(http.StatusOK, service.WorkbookContentType, data)
}

func (h *DashboardHandler) reportError(c echo.Context, msg string, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorLog(c.Request().Context(), msg, err)
	}
	return serviceutils.ResponseError(c, status, msg, err)
}

// statusFor maps report errors onto HTTP statuses. Data problems at the
// source are 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownSection):
		return http.StatusNotFound
	case errors.Is(err, dataframe.ErrNotFound),
		errors.Is(err, dataframe.ErrSchema),
		errors.Is(err, dataframe.ErrEmptyTable),
		errors.Is(err, dataframe.ErrMissingCategory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
