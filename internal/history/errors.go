package history

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord is returned when a record cannot be dated
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNoTitle is returned when a block never reaches its first date line
	ErrNoTitle = errors.New("history block has no title")
)

// RecordError describes a record that could not be turned into an action
type RecordError struct {
	Line   int    // Line that closed the record
	Reason string // What was wrong with it
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, ErrMalformedRecord, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}
