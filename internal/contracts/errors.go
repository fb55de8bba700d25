package contracts

import (
	"errors"
	"fmt"
)

// Error taxonomy for the signal-to-score pipeline.
// All failures are deterministic: never retried, never partially applied.
var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrMissingColumn      = errors.New("missing column")
	ErrInsufficientLength = errors.New("insufficient length")
	ErrMisaligned         = errors.New("misaligned columns")
	ErrNonFinite          = errors.New("non-finite value")
)

// ColumnError ties a taxonomy error to the column (and row, when known) that caused it
type ColumnError struct {
	Column string
	Row    int // -1 when the whole column is at fault
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%s: %s[%d]", e.Err, e.Column, e.Row)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Column)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// MissingColumn reports a required column that is absent
func MissingColumn(column string) error {
	return &ColumnError{Column: column, Row: -1, Err: ErrMissingColumn}
}

// NonFinite reports a NaN or Inf in a required column
func NonFinite(column string, row int) error {
	return &ColumnError{Column: column, Row: row, Err: ErrNonFinite}
}

// Misaligned reports a column whose length differs from the row count
func Misaligned(column string, got, want int) error {
	return &ColumnError{
		Column: column,
		Row:    -1,
		Err:    fmt.Errorf("%w: %d rows, want %d", ErrMisaligned, got, want),
	}
}

// IsInputError reports whether err is caused by malformed series input
// (as opposed to invalid generator parameters or infrastructure failures)
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrInsufficientLength) ||
		errors.Is(err, ErrMisaligned) ||
		errors.Is(err, ErrNonFinite)
}
