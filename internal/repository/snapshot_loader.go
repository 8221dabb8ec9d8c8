package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/pkg/dataflow"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// SnapshotLoader holds the outcome of loading a fixed set of datasets once.
// Data errors (missing dataset, bad schema) are kept and replayed on Load so
// they surface at the metric that needs the dataset. Names outside the
// snapshot are read from the source.
type SnapshotLoader struct {
	src    domain.TableLoader
	tables map[string]*dataframe.Table
	errs   map[string]error
}

var _ domain.TableLoader = (*SnapshotLoader)(nil)

// NewSnapshotLoader loads names from src on workers goroutines. Errors that
// are not data errors are retried up to retries times and then abort the
// snapshot.
func NewSnapshotLoader(ctx context.Context, src domain.TableLoader, names []string, workers, retries int) (*SnapshotLoader, error) {
	s := &SnapshotLoader{
		src:    src,
		tables: make(map[string]*dataframe.Table, len(names)),
		errs:   make(map[string]error),
	}
	start := time.Now()

	type outcome struct {
		table *dataframe.Table
		err   error
	}
	results, err := dataflow.Map(ctx, names, func(ctx context.Context, name string) (outcome, error) {
		t, err := src.Load(ctx, name)
		if err != nil && !IsDataError(err) {
			logger.WarnLog(ctx, "Loading %s failed: %v", name, err)
			return outcome{}, fmt.Errorf("load %s: %w", name, err)
		}
		return outcome{table: t, err: err}, nil
	},
		dataflow.WithWorkers(workers),
		dataflow.WithRetry(retries, dataflow.ExponentialBackoff(200*time.Millisecond)),
		dataflow.WithRetryIf(func(err error) bool { return !IsDataError(err) && ctx.Err() == nil }),
	)
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		if results[i].err != nil {
			s.errs[name] = results[i].err
		} else {
			s.tables[name] = results[i].table
		}
	}
	logger.DebugLog(ctx, "Snapshot of %d datasets (%d unavailable) loaded in %v", len(s.tables), len(s.errs), time.Since(start))
	return s, nil
}

func (s *SnapshotLoader) Load(ctx context.Context, name string) (*dataframe.Table, error) {
	if t, ok := s.tables[name]; ok {
		return t, nil
	}
	if err, ok := s.errs[name]; ok {
		return nil, err
	}
	return s.src.Load(ctx, name)
}

// IsDataError reports whether err describes the data itself rather than a
// failure to reach it.
func IsDataError(err error) bool {
	return errors.Is(err, dataframe.ErrNotFound) ||
		errors.Is(err, dataframe.ErrSchema) ||
		errors.Is(err, dataframe.ErrEmptyTable) ||
		errors.Is(err, dataframe.ErrMissingCategory)
}
