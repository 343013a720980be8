package metadata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/duckdbtype/types"
)

var ErrDuplicateTable = errors.New("table already exists")

// Repository keeps registered tables in memory.
type Repository struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewRepository() *Repository {
	return &Repository{
		tables: map[string]*Table{},
	}
}

// TableFromData parses every column type of data.
func (r *Repository) TableFromData(ctx context.Context, data *types.Table) (*Table, error) {
	fields, err := data.Fields(ctx)
	if err != nil {
		return nil, err
	}
	return NewTable(data, fields), nil
}

func (r *Repository) FindTable(ctx context.Context, id string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	table, exists := r.tables[id]
	if !exists {
		return nil, nil
	}
	return table, nil
}

// FindAllTables returns every table ordered by ID.
func (r *Repository) FindAllTables(ctx context.Context) ([]*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tables := make([]*Table, 0, len(r.tables))
	for _, table := range r.tables {
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].ID < tables[j].ID
	})
	return tables, nil
}

func (r *Repository) AddTable(ctx context.Context, table *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tables[table.ID]; exists {
		return fmt.Errorf("%s: %w", table.ID, ErrDuplicateTable)
	}
	r.tables[table.ID] = table
	return nil
}

func (r *Repository) AddOrReplaceTable(ctx context.Context, table *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[table.ID] = table
	return nil
}

func (r *Repository) DeleteTable(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tables[id]; !exists {
		return fmt.Errorf("table %s is not found", id)
	}
	delete(r.tables, id)
	return nil
}
