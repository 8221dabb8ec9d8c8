package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// flakyLoader fails the first n loads of each dataset with a source error.
type flakyLoader struct {
	inner domain.TableLoader
	fails int

	mu    sync.Mutex
	calls map[string]int
}

func (f *flakyLoader) Load(ctx context.Context, name string) (*dataframe.Table, error) {
	f.mu.Lock()
	f.calls[name]++
	n := f.calls[name]
	f.mu.Unlock()
	if n <= f.fails {
		return nil, errors.New("connection reset")
	}
	return f.inner.Load(ctx, name)
}

func tasksTable(t *testing.T) *dataframe.Table {
	t.Helper()
	tbl, err := dataframe.FromRecords(domain.DatasetTasks, []string{"id", "status"},
		[][]string{{"1", "Planned"}}, domain.SchemaFor(domain.DatasetTasks))
	require.NoError(t, err)
	return tbl
}

func TestSnapshotLoader(t *testing.T) {
	ctx := context.Background()
	src := &flakyLoader{inner: NewMemoryLoader(tasksTable(t)), fails: 1, calls: map[string]int{}}

	snap, err := NewSnapshotLoader(ctx, src, []string{domain.DatasetTasks, domain.DatasetProjects}, 2, 2)
	require.NoError(t, err)

	tasks, err := snap.Load(ctx, domain.DatasetTasks)
	require.NoError(t, err)
	assert.Equal(t, 1, tasks.Len())

	// missing datasets are remembered, not reloaded
	_, err = snap.Load(ctx, domain.DatasetProjects)
	assert.ErrorIs(t, err, dataframe.ErrNotFound)
	assert.Equal(t, 2, src.calls[domain.DatasetProjects])

	_, err = snap.Load(ctx, domain.DatasetTasks)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls[domain.DatasetTasks])
}

func TestSnapshotLoader_GivesUpAfterRetries(t *testing.T) {
	src := &flakyLoader{inner: NewMemoryLoader(), fails: 10, calls: map[string]int{}}

	_, err := NewSnapshotLoader(context.Background(), src, []string{domain.DatasetTasks}, 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load tasks")
	assert.Equal(t, 2, src.calls[domain.DatasetTasks])
}

func TestSnapshotLoader_FallsThroughForOtherNames(t *testing.T) {
	ctx := context.Background()
	snap, err := NewSnapshotLoader(ctx, NewMemoryLoader(tasksTable(t)), nil, 1, 0)
	require.NoError(t, err)

	tasks, err := snap.Load(ctx, domain.DatasetTasks)
	require.NoError(t, err)
	assert.Equal(t, 1, tasks.Len())
}

func TestIsDataError(t *testing.T) {
	assert.True(t, IsDataError(&dataframe.NotFoundError{Dataset: "x"}))
	assert.True(t, IsDataError(errors.Join(&dataframe.SchemaError{Table: "x", Field: "id", Reason: "missing"})))
	assert.False(t, IsDataError(errors.New("connection reset")))
}
