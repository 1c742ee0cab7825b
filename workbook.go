package main

import "github.com/xuri/excelize/v2"

const (
	indexSheet      = "Raporty"
	maxSheetNameLen = 31
)

// WriteWorkbook stores every bar report's sums in one workbook: an index
// sheet listing the reports and one sheet per report.
func WriteWorkbook(path string, defs []ReportDefinition, results []*Aggregated) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", indexSheet); err != nil {
		return outputError("naming index sheet", err)
	}

	if err := writeHeader(f, indexSheet, 28, "Raport", "Typ wykresu", "Tytuł", "Plik", "Arkusz"); err != nil {
		return err
	}

	byName := make(map[string]ReportDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	for i, agg := range results {
		def := byName[agg.Report]
		sheet := sheetName(agg.Report)
		row := i + 2

		if err := writeRow(f, indexSheet, row, agg.Report, string(def.Kind), def.Title, def.File, sheet); err != nil {
			return err
		}

		if _, err := f.NewSheet(sheet); err != nil {
			return outputError("creating sheet", err).WithContext("sheet", sheet)
		}
		if err := writeAggregateSheet(f, sheet, agg); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return outputError("saving workbook", err).WithContext("path", path)
	}
	return nil
}

func writeAggregateSheet(f *excelize.File, sheet string, agg *Aggregated) error {
	headers := append([]string{agg.GroupColumn}, agg.Measures...)
	if err := writeHeader(f, sheet, 22, headers...); err != nil {
		return err
	}

	for i, label := range agg.Labels {
		values := make([]any, 0, len(agg.Measures)+1)
		values = append(values, label)
		for _, v := range agg.Values[i] {
			values = append(values, v)
		}
		if err := writeRow(f, sheet, i+2, values...); err != nil {
			return err
		}
	}
	return nil
}

// writeHeader fills row 1 with headers and sets every header column to width.
func writeHeader(f *excelize.File, sheet string, width float64, headers ...string) error {
	values := make([]any, len(headers))
	for i, header := range headers {
		values[i] = header
	}
	if err := writeRow(f, sheet, 1, values...); err != nil {
		return err
	}
	for col := range headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return outputError("addressing column", err).WithContext("sheet", sheet)
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return outputError("setting column width", err).WithContext("sheet", sheet)
		}
	}
	return nil
}

// writeRow stores values in consecutive cells of row, starting at column A.
func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return outputError("addressing cell", err).WithContext("sheet", sheet)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return outputError("writing cell", err).WithContext("sheet", sheet).WithContext("cell", cell)
		}
	}
	return nil
}

// sheetName fits a report name into Excel's sheet-name limit.
func sheetName(report string) string {
	if len(report) > maxSheetNameLen {
		return report[:maxSheetNameLen]
	}
	return report
}
