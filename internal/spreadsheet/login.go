package spreadsheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LoginSheet is the sheet holding the login test data
const LoginSheet = "Sheet1"

// Columns of the login sheet
const (
	ColEmail = iota
	ColPassword
	ColExpected
	ColResult
)

// ParamSheetRow is the LoginData value holding the 0-based sheet row the
// values came from. Blank rows are skipped, so it can differ from the
// invocation index.
const ParamSheetRow = ColResult

// Expectations in the login sheet
const (
	ExpectValid   = "Valid"
	ExpectInvalid = "Invalid"
)

var ErrInvalidExpectation = errors.New("expectation must be Valid or Invalid")

// LoginData reads the login sheet below its header and returns one
// {email, password, expectation, sheet row} row per data row. Blank rows
// are skipped. The expectation is normalised to ExpectValid or
// ExpectInvalid.
func LoginData(path string) ([][]string, error) {
	sheet, err := NewWorkbook(path).rows(LoginSheet)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet))
	for i := 1; i < len(sheet); i++ {
		if blank(sheet[i]) {
			continue
		}
		row := make([]string, ParamSheetRow+1)
		copy(row, sheet[i][:min(len(sheet[i]), ColResult)])
		expected, err := normaliseExpectation(row[ColExpected])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		row[ColExpected] = expected
		row[ParamSheetRow] = strconv.Itoa(i)
		rows = append(rows, row)
	}
	return rows, nil
}

// SheetRow returns the sheet row recorded in a LoginData row
func SheetRow(params []string) (int, bool) {
	if len(params) <= ParamSheetRow {
		return 0, false
	}
	row, err := strconv.Atoi(params[ParamSheetRow])
	if err != nil {
		return 0, false
	}
	return row, true
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteResult records PASS or FAIL in a cell of the login sheet and colours it
func WriteResult(path string, row, col int, passed bool) error {
	wb := NewWorkbook(path)
	value, fill := "FAIL", wb.FillRed
	if passed {
		value, fill = "PASS", wb.FillGreen
	}
	if err := wb.SetCellData(LoginSheet, row, col, value); err != nil {
		return err
	}
	return fill(LoginSheet, row, col)
}

func normaliseExpectation(v string) (string, error) {
	v = strings.TrimSpace(v)
	switch {
	case strings.EqualFold(v, ExpectValid):
		return ExpectValid, nil
	case strings.EqualFold(v, ExpectInvalid):
		return ExpectInvalid, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidExpectation, v)
}
