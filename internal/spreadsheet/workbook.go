// Package spreadsheet reads and writes the xlsx workbooks that feed the
// data-driven tests.
package spreadsheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrInvalidCell   = errors.New("row and column must not be negative")
)

const (
	fillGreen = "00FF00"
	fillRed   = "FF0000"
)

// Workbook addresses an xlsx file on disk. Every call opens the file and
// closes it again, so the workbook can be edited between calls.
// Rows and columns are zero based.
type Workbook struct {
	path string
}

// NewWorkbook returns a workbook for path. The file does not need to exist
// until it is read.
func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// Path returns the file path
func (w *Workbook) Path() string {
	return w.path
}

// RowCount returns the index of the last row, which is the number of data
// rows below a header row.
func (w *Workbook) RowCount(sheet string) (int, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows) - 1, nil
}

// CellCount returns the number of cells in row
func (w *Workbook) CellCount(sheet string, row int) (int, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return 0, err
	}
	if row < 0 || row >= len(rows) {
		return 0, nil
	}
	return len(rows[row]), nil
}

// CellData returns the formatted value of a cell, or "" when it is empty
func (w *Workbook) CellData(sheet string, row, col int) (string, error) {
	cell, err := cellName(row, col)
	if err != nil {
		return "", err
	}
	f, err := w.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := requireSheet(f, sheet); err != nil {
		return "", err
	}
	value, err := f.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("failed to read %s!%s: %w", sheet, cell, err)
	}
	return value, nil
}

// SetCellData writes value into a cell, creating the file and sheet when
// they do not exist yet.
func (w *Workbook) SetCellData(sheet string, row, col int, value string) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	return w.update(sheet, func(f *excelize.File) error {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
		return nil
	})
}

// FillGreen paints a cell with a solid green background
func (w *Workbook) FillGreen(sheet string, row, col int) error {
	return w.fill(sheet, row, col, fillGreen)
}

// FillRed paints a cell with a solid red background
func (w *Workbook) FillRed(sheet string, row, col int) error {
	return w.fill(sheet, row, col, fillRed)
}

// FillColor returns the solid fill colour of a cell, or "" when it has none
func (w *Workbook) FillColor(sheet string, row, col int) (string, error) {
	cell, err := cellName(row, col)
	if err != nil {
		return "", err
	}
	f, err := w.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := requireSheet(f, sheet); err != nil {
		return "", err
	}
	id, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("failed to read style of %s!%s: %w", sheet, cell, err)
	}
	if id == 0 {
		return "", nil
	}
	style, err := f.GetStyle(id)
	if err != nil {
		return "", fmt.Errorf("failed to load style %d: %w", id, err)
	}
	if len(style.Fill.Color) == 0 {
		return "", nil
	}
	return style.Fill.Color[0], nil
}

func (w *Workbook) fill(sheet string, row, col int, color string) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	return w.update(sheet, func(f *excelize.File) error {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return fmt.Errorf("failed to create fill style: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style %s!%s: %w", sheet, cell, err)
		}
		return nil
	})
}

// update opens or creates the workbook, makes sure sheet exists, applies fn
// and saves the file.
func (w *Workbook) update(sheet string, fn func(*excelize.File) error) error {
	var f *excelize.File
	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		if dir := filepath.Dir(w.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}
		f = excelize.NewFile()
	} else {
		f, err = w.open()
		if err != nil {
			return err
		}
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %s: %w", sheet, err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	if err := fn(f); err != nil {
		return err
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", w.path, err)
	}
	return nil
}

func (w *Workbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", w.path, err)
	}
	return f, nil
}

func (w *Workbook) rows(sheet string) ([][]string, error) {
	f, err := w.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := requireSheet(f, sheet); err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", sheet, err)
	}
	return rows, nil
}

func requireSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %s: %w", sheet, err)
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	return nil
}

func cellName(row, col int) (string, error) {
	if row < 0 || col < 0 {
		return "", fmt.Errorf("%w: row %d, col %d", ErrInvalidCell, row, col)
	}
	return excelize.CoordinatesToCellName(col+1, row+1)
}
