package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/repository/store"
)

const defaultSheet = "Sheet1"

// Repository keeps the ledger in a local .xlsx file, one worksheet per table.
// Every write rebuilds the workbook in a temporary file and renames it over the
// original, so a crash never leaves a half-written ledger behind.
type Repository struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

var _ store.LedgerStore = (*Repository)(nil)

// NewRepository returns a workbook store rooted at path. The file is created on
// the first write.
func NewRepository(path string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{path: path, logger: logger}
}

// ReadTable returns the worksheet contents. A missing file or sheet reads as an
// empty table.
func (r *Repository) ReadTable(ctx context.Context, name store.TableName) (store.Table, error) {
	if err := ctx.Err(); err != nil {
		return store.Table{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sheets, err := r.load()
	if err != nil {
		return store.Table{}, err
	}
	return store.NewTable(sheets.rows[string(name)]), nil
}

// WriteTable replaces one worksheet and keeps the others untouched.
func (r *Repository) WriteTable(ctx context.Context, name store.TableName, table store.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sheets, err := r.load()
	if err != nil {
		return err
	}

	if _, ok := sheets.rows[string(name)]; !ok {
		sheets.order = append(sheets.order, string(name))
	}
	sheets.rows[string(name)] = table.Values()

	if err := r.save(sheets); err != nil {
		return err
	}

	r.logger.Debug("worksheet written", zap.String("sheet", string(name)), zap.Int("rows", len(table.Rows)))
	return nil
}

type workbookSheets struct {
	order []string
	rows  map[string][][]string
}

func (r *Repository) load() (workbookSheets, error) {
	sheets := workbookSheets{rows: make(map[string][][]string)}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sheets, nil
		}
		return sheets, fmt.Errorf("open workbook %s: %w: %w", r.path, store.ErrUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return sheets, fmt.Errorf("read sheet %s: %w: %w", sheet, store.ErrUnavailable, err)
		}
		sheets.order = append(sheets.order, sheet)
		sheets.rows[sheet] = rows
	}
	return sheets, nil
}

func (r *Repository) save(sheets workbookSheets) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	keepDefault := false
	for _, sheet := range sheets.order {
		if sheet == defaultSheet {
			keepDefault = true
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w: %w", sheet, store.ErrUnavailable, err)
		}

		for i, row := range sheets.rows[sheet] {
			cellName, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return fmt.Errorf("address row %d: %w", i+1, err)
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(sheet, cellName, &values); err != nil {
				return fmt.Errorf("write sheet %s: %w: %w", sheet, store.ErrUnavailable, err)
			}
		}
	}
	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("drop default sheet: %w: %w", store.ErrUnavailable, err)
		}
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "ledger-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w: %w", store.ErrUnavailable, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write workbook: %w: %w", store.ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close workbook: %w: %w", store.ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace workbook %s: %w: %w", r.path, store.ErrUnavailable, err)
	}
	return nil
}
