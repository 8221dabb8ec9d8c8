package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/internal/repository"
)

// ReportTitle heads every generated report.
const ReportTitle = "Company Dashboard"

// MissingCategoryPolicy decides what an absent enumerated key renders as.
type MissingCategoryPolicy string

const (
	// PolicyFail fails the metric with a MissingCategoryError.
	PolicyFail MissingCategoryPolicy = "fail"
	// PolicyZero renders the metric as 0 and logs a warning.
	PolicyZero MissingCategoryPolicy = "zero"
)

// ErrUnknownSection is returned by BuildSection for keys with no recipe.
var ErrUnknownSection = errors.New("unknown section")

// ReportOptions tune a ReportService.
type ReportOptions struct {
	// AsOf anchors date windows such as new hires in the last year.
	AsOf     time.Time
	Policy   MissingCategoryPolicy
	Currency string
	// Workers > 0 prefetches every report dataset concurrently before the
	// sections run; Retries applies to source failures during the prefetch.
	Workers int
	Retries int
}

// SectionError names the section, metric and dataset a failure belongs to.
type SectionError struct {
	Section domain.SectionKey
	Metric  string
	Dataset string
	Err     error
}

func (e *SectionError) Error() string {
	msg := fmt.Sprintf("section %s", e.Section)
	if e.Metric != "" {
		msg += fmt.Sprintf(": metric %q", e.Metric)
	}
	if e.Dataset != "" {
		msg += fmt.Sprintf(": dataset %s", e.Dataset)
	}
	return msg + ": " + e.Err.Error()
}

func (e *SectionError) Unwrap() error { return e.Err }

type sectionRecipe struct {
	key   domain.SectionKey
	title string
	build func(b *sectionBuilder) error
}

var recipes = []sectionRecipe{
	{key: domain.SectionEmployees, title: "Employees analysis", build: buildEmployees},
	{key: domain.SectionProjects, title: "Projects Analysis", build: buildProjects},
	{key: domain.SectionTransactions, title: "Transaction analysis", build: buildTransactions},
	{key: domain.SectionMarketing, title: "Marketing analysis", build: buildMarketing},
	{key: domain.SectionTasks, title: "Tasks analysis", build: buildTasks},
}

// reportDatasets are read by the recipes, directly or to derive a join.
var reportDatasets = []string{
	domain.DatasetEmployeesDepartment,
	domain.DatasetEmployees,
	domain.DatasetDepartments,
	domain.DatasetProjectAssignments,
	domain.DatasetProjects,
	domain.DatasetProjectEmployees,
	domain.DatasetTransactionProject,
	domain.DatasetTransactions,
	domain.DatasetMarketingCampaigns,
	domain.DatasetTasks,
}

// SectionKeys lists the report sections in display order.
func SectionKeys() []domain.SectionKey {
	keys := make([]domain.SectionKey, len(recipes))
	for i, r := range recipes {
		keys[i] = r.key
	}
	return keys
}

// ReportService turns the datasets behind a TableLoader into a Report.
// It holds no state between calls; every Build reloads all tables.
type ReportService struct {
	loader domain.TableLoader
	opts   ReportOptions
}

func NewReportService(loader domain.TableLoader, opts ReportOptions) *ReportService {
	if opts.Policy == "" {
		opts.Policy = PolicyFail
	}
	if opts.AsOf.IsZero() {
		now := time.Now().UTC()
		opts.AsOf = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return &ReportService{loader: loader, opts: opts}
}

// Build runs every section recipe. The first failing section aborts the
// report with a *SectionError.
func (s *ReportService) Build(ctx context.Context) (*domain.Report, error) {
	start := time.Now()
	loader := s.loader
	if s.opts.Workers > 0 {
		snap, err := repository.NewSnapshotLoader(ctx, s.loader, reportDatasets, s.opts.Workers, s.opts.Retries)
		if err != nil {
			logger.ErrorLog(ctx, "Dataset prefetch failed", err)
			return nil, fmt.Errorf("prefetch datasets: %w", err)
		}
		loader = snap
	}

	report := &domain.Report{
		Title:    ReportTitle,
		AsOf:     s.opts.AsOf.Format("2006-01-02"),
		Sections: make([]domain.Section, 0, len(recipes)),
	}
	for _, r := range recipes {
		sec, err := s.run(ctx, loader, r)
		if err != nil {
			logger.ErrorLog(ctx, "Report build failed", err)
			return nil, err
		}
		report.Sections = append(report.Sections, *sec)
	}
	logger.InfoLog(ctx, "Report built with %d sections in %v", len(report.Sections), time.Since(start))
	return report, nil
}

// BuildSection runs a single section recipe.
func (s *ReportService) BuildSection(ctx context.Context, key domain.SectionKey) (*domain.Section, error) {
	for _, r := range recipes {
		if r.key == key {
			return s.run(ctx, s.loader, r)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, key)
}

func (s *ReportService) run(ctx context.Context, loader domain.TableLoader, r sectionRecipe) (*domain.Section, error) {
	ctx = logger.WithLogger(ctx, map[string]interface{}{"section": string(r.key)})
	b := &sectionBuilder{
		ctx:     ctx,
		svc:     s,
		loader:  loader,
		section: &domain.Section{Key: r.key, Title: r.title, Metrics: []domain.Metric{}, Charts: []domain.Chart{}},
	}
	if err := r.build(b); err != nil {
		return nil, err
	}
	logger.DebugLog(ctx, "Section %s: %d metrics, %d charts", r.key, len(b.section.Metrics), len(b.section.Charts))
	return b.section, nil
}
