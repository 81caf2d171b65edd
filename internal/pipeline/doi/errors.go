package doi

import (
	"errors"
	"fmt"
)

var errEmptyDate = errors.New("empty date")

// SchemaError reports a required sheet or column missing from an uploaded
// workbook. Column is empty when the whole sheet is missing.
type SchemaError struct {
	Sheet  string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("workbook has no %q sheet", e.Sheet)
	}
	return fmt.Sprintf("sheet %q is missing required column %q", e.Sheet, e.Column)
}

// ParseError reports a cell value that could not be parsed. Row is the
// 1-based sheet row the value came from.
type ParseError struct {
	Sheet string
	Row   int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sheet %q row %d: cannot parse %q: %v", e.Sheet, e.Row, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyDataError reports that the sales table has no rows, so there is no
// max date to anchor the trailing window on.
type EmptyDataError struct {
	Reason string
}

func (e *EmptyDataError) Error() string { return e.Reason }
