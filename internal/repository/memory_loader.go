package repository

import (
	"context"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// MemoryLoader serves tables held in process. Tables are immutable, so the
// same instance is handed out on every Load.
type MemoryLoader struct {
	tables map[string]*dataframe.Table
}

var _ domain.TableLoader = (*MemoryLoader)(nil)

func NewMemoryLoader(tables ...*dataframe.Table) *MemoryLoader {
	m := &MemoryLoader{tables: make(map[string]*dataframe.Table, len(tables))}
	for _, t := range tables {
		m.tables[t.Name()] = t
	}
	return m
}

func (m *MemoryLoader) Load(ctx context.Context, name string) (*dataframe.Table, error) {
	t, ok := m.tables[name]
	if !ok {
		return nil, &dataframe.NotFoundError{Dataset: name, Location: "memory"}
	}
	if err := domain.SchemaFor(name).Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
