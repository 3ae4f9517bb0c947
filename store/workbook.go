package store

import (
	"context"
	"fmt"
	"strings"

	errs "github.com/integrada/portal/errors"
	"github.com/tealeg/xlsx/v3"
)

// workbookStore serves the collections from a local spreadsheet file where each
// collection is a sheet and the first row holds the column names. The file is
// read on every search so edits are picked up without a restart.
type workbookStore struct {
	path string
}

var _ Store = &workbookStore{}

func NewWorkbookStore(cfg *Config) (Store, error) {
	if cfg.WorkbookPath == "" {
		return nil, fmt.Errorf("workbook path is required for the %v backend", BackendWorkbook)
	}

	return &workbookStore{path: cfg.WorkbookPath}, nil
}

func (w *workbookStore) Search(ctx context.Context, collection Collection, filter Filter) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.StoreUnavailable, err)
	}

	file, err := xlsx.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open workbook: %v", errs.StoreUnavailable, err)
	}

	sheet, ok := file.Sheet[string(collection)]
	if !ok {
		return nil, fmt.Errorf("%w: sheet %v not found in workbook", errs.StoreUnavailable, collection)
	}

	var header []string
	rows := make([]Row, 0)
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		if header == nil {
			header = readHeader(r, sheet.MaxCol)
			return nil
		}

		row := make(Row, len(header))
		empty := true
		for i, column := range header {
			if column == "" {
				continue
			}
			value := r.GetCell(i).String()
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			row[column] = value
		}

		if !empty && matches(row, filter) {
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read sheet %v: %v", errs.StoreUnavailable, collection, err)
	}

	return rows, nil
}

func readHeader(r *xlsx.Row, maxCol int) []string {
	header := make([]string, maxCol)
	for i := range header {
		header[i] = strings.TrimSpace(r.GetCell(i).String())
	}
	return header
}

// matches compares filter values the way the remote search endpoint does:
// case-insensitively and ignoring surrounding whitespace.
func matches(row Row, filter Filter) bool {
	for column, expected := range filter {
		if !strings.EqualFold(strings.TrimSpace(row[column]), strings.TrimSpace(expected)) {
			return false
		}
	}
	return true
}
