package test

import (
	"path/filepath"

	"github.com/tealeg/xlsx/v3"
)

// Sheet describes the content of a workbook sheet: a header row followed by rows
// of cell values in header order.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// WriteWorkbook saves the sheets as an xlsx file in dir and returns its path.
func WriteWorkbook(dir string, sheets ...Sheet) (string, error) {
	file := xlsx.NewFile()
	for _, s := range sheets {
		sh, err := file.AddSheet(s.Name)
		if err != nil {
			return "", err
		}

		header := sh.AddRow()
		for _, column := range s.Columns {
			header.AddCell().SetString(column)
		}
		for _, values := range s.Rows {
			row := sh.AddRow()
			for _, value := range values {
				row.AddCell().SetString(value)
			}
		}
	}

	path := filepath.Join(dir, "portal.xlsx")
	if err := file.Save(path); err != nil {
		return "", err
	}
	return path, nil
}
