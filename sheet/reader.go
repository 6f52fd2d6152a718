// Package sheet reads label records from the first worksheet of an xlsx file.
package sheet

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ByLCY/labelgrid/layout"
)

// Column positions, 0-based.
const (
	colCode = iota
	colDescription
	colPrice
	colQuantity
)

var columnNames = [...]string{"A", "B", "C", "D"}

// Options configures Open.
type Options struct {
	// Sheet selects a worksheet by name. Empty means the first sheet.
	Sheet  string
	Logger *zap.Logger
}

// Reader streams records from a worksheet. The first non-blank row is the
// header; blank rows are skipped.
type Reader struct {
	path  string
	sheet string
	file  *excelize.File
	rows  *excelize.Rows
	log  *zap.Logger

	row        int // 1-based index of the last row pulled from rows
	pending    []string
	pendingRow int
}

var _ layout.RowSource = (*Reader)(nil)

// Open opens path and positions the reader on the first data row.
// The returned Reader must be closed.
func Open(path string, opts Options) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &InputError{Path: path, Err: ErrInputNotFound}
		}
		return nil, &InputError{Path: path, Err: fmt.Errorf("%w: %v", ErrInputUnreadable, err)}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: fmt.Errorf("%w: %v", ErrInputUnreadable, err)}
	}

	sheetName := opts.Sheet
	if sheetName == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			f.Close()
			return nil, &InputError{Path: path, Err: fmt.Errorf("%w: workbook has no sheets", ErrInputUnreadable)}
		}
		sheetName = list[0]
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		f.Close()
		return nil, &InputError{Path: path, Err: fmt.Errorf("%w: sheet %q: %v", ErrInputUnreadable, sheetName, err)}
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &Reader{path: path, sheet: sheetName, file: f, rows: rows, log: log}

	header, headerRow, err := r.advance()
	if err == nil && header != nil {
		r.log.Debug("header skipped", zap.Int("row", headerRow), zap.Strings("cells", header))
		r.pending, r.pendingRow, err = r.advance()
	}
	if err != nil {
		r.Close()
		return nil, &InputError{Path: path, Err: fmt.Errorf("%w: %v", ErrInputUnreadable, err)}
	}
	if r.pending == nil {
		r.Close()
		return nil, &InputError{Path: path, Err: ErrNoRows}
	}
	return r, nil
}

// Next implements layout.RowSource.
func (r *Reader) Next() (layout.LabelRecord, bool, error) {
	if r.pending == nil {
		return layout.LabelRecord{}, false, nil
	}
	cells, rowNum := r.pending, r.pendingRow

	var err error
	r.pending, r.pendingRow, err = r.advance()
	if err != nil {
		return layout.LabelRecord{}, false, &InputError{Path: r.path, Err: fmt.Errorf("%w: %v", ErrInputUnreadable, err)}
	}

	if cells, err = r.rawQuantity(rowNum, cells); err != nil {
		return layout.LabelRecord{}, false, &InputError{Path: r.path, Err: fmt.Errorf("%w: %v", ErrInputUnreadable, err)}
	}
	rec, err := ParseRow(rowNum, cells)
	if err != nil {
		return layout.LabelRecord{}, false, err
	}
	r.log.Info("row read",
		zap.Int("row", rec.Row),
		zap.String("code", rec.Code),
		zap.String("description", rec.Description),
		zap.String("price", rec.Price),
		zap.Int("quantity", rec.Quantity),
	)
	return rec, true, nil
}

// rawQuantity swaps the displayed quantity for the stored cell value, so a
// number format such as "#,##0" does not hide the integer. Text cells are
// returned as-is.
func (r *Reader) rawQuantity(rowNum int, cells []string) ([]string, error) {
	if len(cells) <= colQuantity {
		return cells, nil
	}
	axis, err := excelize.CoordinatesToCellName(colQuantity+1, rowNum)
	if err != nil {
		return nil, err
	}
	raw, err := r.file.GetCellValue(r.sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return cells, nil
	}
	out := append([]string(nil), cells...)
	out[colQuantity] = raw
	return out, nil
}

// advance returns the next non-blank row, or nil at the end of the sheet.
func (r *Reader) advance() ([]string, int, error) {
	for r.rows.Next() {
		r.row++
		cells, err := r.rows.Columns()
		if err != nil {
			return nil, 0, err
		}
		if isBlank(cells) {
			continue
		}
		return cells, r.row, nil
	}
	return nil, 0, r.rows.Error()
}

// Close releases the workbook.
func (r *Reader) Close() error {
	var errs []error
	if r.rows != nil {
		errs = append(errs, r.rows.Close())
		r.rows = nil
	}
	if r.file != nil {
		errs = append(errs, r.file.Close())
		r.file = nil
	}
	return errors.Join(errs...)
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]layout.LabelRecord, error) {
	var out []layout.LabelRecord
	for {
		rec, ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, rec)
	}
}

// ParseRow converts the cells of one data row into a record.
func ParseRow(rowNum int, cells []string) (layout.LabelRecord, error) {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	rec := layout.LabelRecord{
		Row:         rowNum,
		Code:        cell(colCode),
		Description: cell(colDescription),
		Price:       cell(colPrice),
	}
	if strings.TrimSpace(rec.Code) == "" {
		return layout.LabelRecord{}, &RowError{Row: rowNum, Column: columnNames[colCode], Err: ErrMissingCell}
	}

	qty, err := parseQuantity(cell(colQuantity))
	if err != nil {
		return layout.LabelRecord{}, &RowError{Row: rowNum, Column: columnNames[colQuantity], Err: err}
	}
	rec.Quantity = qty
	return rec, nil
}

// parseQuantity accepts integers and whole-number decimals such as "3.0".
func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingCell
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("quantity %q is not an integer", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("quantity %d is negative", n)
	}
	return n, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
