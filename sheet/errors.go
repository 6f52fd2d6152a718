package sheet

import (
	"errors"
	"fmt"
)

// ErrInputNotFound indicates the input workbook does not exist.
var ErrInputNotFound = errors.New("input file not found")

// ErrInputUnreadable indicates the input is not a readable xlsx workbook.
var ErrInputUnreadable = errors.New("input file unreadable")

// ErrNoRows indicates the sheet has no data rows below the header.
var ErrNoRows = errors.New("no data rows below header")

// ErrMalformedRow is wrapped by every RowError.
var ErrMalformedRow = errors.New("malformed row")

// ErrMissingCell indicates a required cell is empty.
var ErrMissingCell = errors.New("required cell is empty")

// RowError identifies the row and column of a cell that could not be read.
type RowError struct {
	Row    int
	Column string // "A".."D"
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrMalformedRow, e.Err}
}

// InputError wraps a failure to open the workbook with its path.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
