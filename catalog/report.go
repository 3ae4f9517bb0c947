package catalog

import (
	"strconv"
	"strings"

	"github.com/integrada/portal/markers"
	"github.com/tealeg/xlsx/v3"
)

const ReportSheetName = "Tests"

// ReportColumns match the columns of the tests collection so an exported catalog
// can be served by the workbook backend.
var ReportColumns = []string{"code", "label", "order", "shareable", "targets", "form_url", "share_url", "source", "active"}

type Report struct {
	definitions []TestDefinition
}

func NewReport(definitions []TestDefinition) Report {
	return Report{definitions: definitions}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()
	sh, err := report.AddSheet(ReportSheetName)
	if err != nil {
		return nil, err
	}

	header := sh.AddRow()
	for _, column := range ReportColumns {
		header.AddCell().SetValue(column)
	}

	for _, definition := range r.definitions {
		shareable := markers.Negative
		if definition.Shareable {
			shareable = markers.Affirmative
		}

		row := sh.AddRow()
		row.AddCell().SetValue(definition.Code)
		row.AddCell().SetValue(definition.Label)
		row.AddCell().SetValue(strconv.Itoa(definition.Order))
		row.AddCell().SetValue(shareable)
		row.AddCell().SetValue(strings.Join(definition.Targets, ";"))
		row.AddCell().SetValue(definition.FormUrl)
		row.AddCell().SetValue(definition.ShareUrl)
		row.AddCell().SetValue(definition.Source)
		row.AddCell().SetValue(markers.Affirmative)
	}

	return report, nil
}
