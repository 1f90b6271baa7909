package core

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyData      = errors.New("data cannot be empty")
	ErrMissingField   = errors.New("missing required field")
	ErrOutOfOrder     = errors.New("record is older than the trailing record")
	ErrInvalidRecord  = errors.New("invalid record")
	ErrPaneNotFound   = errors.New("pane not found")
	ErrSeriesNotFound = errors.New("series not found")
	ErrDuplicateName  = errors.New("name already in use")
	ErrInboxFull      = errors.New("update inbox is full")
)

// DataError reports a data-contract violation detected at set time.
type DataError struct {
	Series string
	Index  int
	Field  Field
	Err    error
}

func (e *DataError) Error() string {
	switch {
	case e.Field != 0:
		return fmt.Sprintf("%s: data point at index %d missing %q field: %v", e.Series, e.Index, e.Field, e.Err)
	case e.Index >= 0:
		return fmt.Sprintf("%s: data point at index %d: %v", e.Series, e.Index, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Series, e.Err)
	}
}

func (e *DataError) Unwrap() error {
	return e.Err
}
