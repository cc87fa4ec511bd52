package cif

import (
	"fmt"

	"github.com/railcore/cif-engine/src/common/types"
)

// ParseError wraps a record level failure with the line it occurred on. Line
// numbers are 1-based, matching the human readable position in the file.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownRecordTypeError reports a line whose two character identifier does
// not match any known record kind. Raw keeps the whole line for diagnostics.
type UnknownRecordTypeError struct {
	ID  string
	Raw string
}

func (e *UnknownRecordTypeError) Error() string {
	return fmt.Sprintf("invalid record type %q", e.ID)
}

// TruncatedLineError reports a physical line shorter than the fixed 80
// column record length. It is distinct from MalformedFieldError so callers
// can tell a cut-off file from bad data inside a full-length line.
type TruncatedLineError struct {
	Length int
}

func (e *TruncatedLineError) Error() string {
	return fmt.Sprintf("line is %d characters, want %d", e.Length, recordLength)
}

// MalformedFieldError reports a single field that could not be decoded. It
// names the field, its column offset and the raw text found there.
type MalformedFieldError struct {
	Record types.RecordKind
	Field  string
	Offset int
	Raw    string
	Reason string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("%s record: malformed field %s at column %d: %s (raw %q)",
		e.Record, e.Field, e.Offset, e.Reason, e.Raw)
}

// MalformedScheduleSequenceError reports a record arriving outside the
// BS [BX] LO (LI [CR])* LT grammar. The in-progress schedule, if any, has
// been discarded and aggregation resumed at the offending record.
type MalformedScheduleSequenceError struct {
	Got      types.RecordKind
	State    string
	TrainUID string
}

func (e *MalformedScheduleSequenceError) Error() string {
	if e.TrainUID != "" {
		return fmt.Sprintf("%s record out of sequence while %s (schedule %s discarded)", e.Got, e.State, e.TrainUID)
	}
	return fmt.Sprintf("%s record out of sequence while %s", e.Got, e.State)
}
