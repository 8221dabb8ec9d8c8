package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// sectionBuilder accumulates one section and tags errors with the metric
// being computed.
type sectionBuilder struct {
	ctx     context.Context
	svc     *ReportService
	loader  domain.TableLoader
	section *domain.Section
	metric  string
	dataset string
}

// step records which metric and dataset the following calls serve.
func (b *sectionBuilder) step(metric, dataset string) {
	b.metric, b.dataset = metric, dataset
}

func (b *sectionBuilder) fail(err error) error {
	var se *SectionError
	if errors.As(err, &se) {
		return err
	}
	return &SectionError{Section: b.section.Key, Metric: b.metric, Dataset: b.dataset, Err: err}
}

// load fetches a dataset. Precomputed join tables missing at the source are
// rebuilt from their base datasets.
func (b *sectionBuilder) load(name string) (*dataframe.Table, error) {
	t, err := b.loader.Load(b.ctx, name)
	if err == nil {
		return t, nil
	}
	recipe, derivable := domain.DerivedDatasets[name]
	if !derivable || !errors.Is(err, dataframe.ErrNotFound) {
		return nil, b.loadErr(name, err)
	}

	logger.DebugLog(b.ctx, "%s not stored, joining %s and %s", name, recipe.Left, recipe.Right)
	left, err := b.loader.Load(b.ctx, recipe.Left)
	if err != nil {
		return nil, b.loadErr(recipe.Left, err)
	}
	right, err := b.loader.Load(b.ctx, recipe.Right)
	if err != nil {
		return nil, b.loadErr(recipe.Right, err)
	}
	joined, err := dataframe.Join(name, left, right, recipe.LeftKey, recipe.RightKey)
	if err == nil {
		err = domain.SchemaFor(name).Validate(joined)
	}
	if err != nil {
		return nil, b.loadErr(name, err)
	}
	return joined, nil
}

func (b *sectionBuilder) loadErr(dataset string, err error) error {
	return &SectionError{Section: b.section.Key, Metric: b.metric, Dataset: dataset, Err: err}
}

// lookup reads an enumerated key under the configured missing category policy.
func (b *sectionBuilder) lookup(s *dataframe.Series, category string) (decimal.Decimal, error) {
	v, err := s.Lookup(category)
	if err == nil {
		return v, nil
	}
	if b.svc.opts.Policy == PolicyZero && errors.Is(err, dataframe.ErrMissingCategory) {
		logger.WarnLog(b.ctx, "Category %q missing from %s, rendering 0", category, s.Name())
		return decimal.Zero, nil
	}
	return decimal.Zero, b.fail(err)
}

// lookupCounts adds one count metric per category, in order.
func (b *sectionBuilder) lookupCounts(s *dataframe.Series, group string, labels map[string]string, order []string) error {
	for _, category := range order {
		b.metric = labels[category]
		v, err := b.lookup(s, category)
		if err != nil {
			return err
		}
		b.count(group, labels[category], v)
	}
	return nil
}

func (b *sectionBuilder) count(group, label string, v decimal.Decimal) {
	n := v.Truncate(0)
	b.section.Metrics = append(b.section.Metrics, domain.Metric{Group: group, Label: label, Value: n.String(), Number: &n})
}

func (b *sectionBuilder) money(group, label string, v decimal.Decimal) {
	b.section.Metrics = append(b.section.Metrics, domain.Metric{
		Group: group, Label: label, Value: formatMoney(b.svc.opts.Currency, v), Number: &v,
	})
}

func (b *sectionBuilder) text(group, label, value string) {
	b.section.Metrics = append(b.section.Metrics, domain.Metric{Group: group, Label: label, Value: value})
}

func (b *sectionBuilder) chart(id, title string, kind domain.ChartKind, xLabel, yLabel string, s *dataframe.Series) {
	points := make([]domain.ChartPoint, 0, s.Len())
	for _, p := range s.Points() {
		points = append(points, domain.ChartPoint{X: p.Label, Y: p.Value, Series: p.Label})
	}
	b.section.Charts = append(b.section.Charts, domain.Chart{
		ID: id, Title: title, Kind: kind, XLabel: xLabel, YLabel: yLabel, Points: points,
	})
}

// rowText reads a field of an argmax row as display text.
func (b *sectionBuilder) rowText(r dataframe.Row, field string) (string, error) {
	v, err := r.Get(field)
	if err != nil {
		return "", b.fail(err)
	}
	return v.Text(), nil
}

// rowNumber reads a numeric field of an argmax row.
func (b *sectionBuilder) rowNumber(r dataframe.Row, field string) (decimal.Decimal, error) {
	v, err := r.Get(field)
	if err != nil {
		return decimal.Zero, b.fail(err)
	}
	d, ok := v.Decimal()
	if !ok {
		return decimal.Zero, b.fail(&dataframe.SchemaError{Table: b.dataset, Field: field, Row: r.Position() + 1, Reason: "expected a number"})
	}
	return d, nil
}

func formatMoney(currency string, v decimal.Decimal) string {
	if v.IsNegative() {
		return "-" + currency + v.Neg().StringFixed(2)
	}
	return currency + v.StringFixed(2)
}
