package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of an export workbook. Records carry typed
// values so numeric columns land in Excel as numbers; nil means an
// empty cell.
type Sheet struct {
	Name    string
	Headers []string
	Records [][]any
}

// WriteWorkbook streams an Excel workbook containing the given sheets
func WriteWorkbook(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook requires at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// Reuse the default sheet for the first worksheet
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
			}
		}

		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	writeRow := func(rowNum int, values []any) error {
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := writeRow(1, header); err != nil {
		return fmt.Errorf("failed to write headers for %q: %w", sheet.Name, err)
	}
	for i, record := range sheet.Records {
		if err := writeRow(i+2, record); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i, sheet.Name, err)
		}
	}
	return nil
}

// WriteWorkbookFile writes an Excel workbook under the export directory
// and returns its full path.
func (e *Exporter) WriteWorkbookFile(filename string, sheets []Sheet) (string, error) {
	fullPath := filepath.Join(e.dir, filename)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := WriteWorkbook(file, sheets); err != nil {
		return "", err
	}

	e.logger.Info("workbook export complete", "path", fullPath)
	return fullPath, nil
}
