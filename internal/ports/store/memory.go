package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory RowStore used by tests and the local graph-mock
// tool. Tables must be seeded with a header row before use.
type Memory struct {
	mu     sync.Mutex
	tables map[string]*memTable
}

type memTable struct {
	headers []string
	rows    [][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]*memTable)}
}

// Seed creates or replaces a table with the given headers and rows.
func (m *Memory) Seed(table string, headers []string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}
	m.tables[table] = &memTable{headers: append([]string(nil), headers...), rows: copied}
}

func (m *Memory) lookup(table string) (*memTable, error) {
	t, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	return t, nil
}

// ListHeaders implements RowStore.
func (m *Memory) ListHeaders(_ context.Context, table string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.lookup(table)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), t.headers...), nil
}

// ListRows implements RowStore.
func (m *Memory) ListRows(_ context.Context, table string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.lookup(table)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rows[i] = append([]string(nil), r...)
	}
	return rows, nil
}

// AppendValues implements RowStore.
func (m *Memory) AppendValues(_ context.Context, table string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.lookup(table)
	if err != nil {
		return err
	}
	t.rows = append(t.rows, append([]string(nil), values...))
	return nil
}
