package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelStore implements RowStore over a local .xlsx file, one sheet per
// table. It exists for local development and tests where no Graph tenant is
// available; the semantics mirror the workbook tables API (first row is the
// header, appends go below the last used row).
type ExcelStore struct {
	mu   sync.Mutex
	path string
}

// NewExcelStore creates a store backed by the workbook at path. The file must
// exist and contain one sheet per configured table.
func NewExcelStore(path string) *ExcelStore {
	return &ExcelStore{path: path}
}

func (e *ExcelStore) readSheet(table string) ([][]string, error) {
	file, err := excelize.OpenFile(e.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", e.path, err)
	}
	defer func() { _ = file.Close() }()

	rows, err := file.GetRows(table)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", table)
	}
	return rows, nil
}

// ListHeaders implements RowStore.
func (e *ExcelStore) ListHeaders(_ context.Context, table string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rows, err := e.readSheet(table)
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// ListRows implements RowStore, excluding the header row.
func (e *ExcelStore) ListRows(_ context.Context, table string) ([][]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rows, err := e.readSheet(table)
	if err != nil {
		return nil, err
	}
	return rows[1:], nil
}

// AppendValues implements RowStore by writing one row below the last used row
// and saving the file.
func (e *ExcelStore) AppendValues(_ context.Context, table string, values []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	file, err := excelize.OpenFile(e.path)
	if err != nil {
		return fmt.Errorf("open workbook %q: %w", e.path, err)
	}
	defer func() { _ = file.Close() }()

	rows, err := file.GetRows(table)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", table, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("compute append position: %w", err)
	}
	if err := file.SetSheetRow(table, cell, &values); err != nil {
		return fmt.Errorf("write row to %q: %w", table, err)
	}

	if err := file.Save(); err != nil {
		return fmt.Errorf("save workbook %q: %w", e.path, err)
	}
	return nil
}
