package timetable

import (
	"fmt"

	"github.com/railcore/cif-engine/src/common/types"
)

// EntityKind names the database table an apply error relates to.
type EntityKind string

const (
	EntityTiploc      EntityKind = "tiploc"
	EntityAssociation EntityKind = "association"
	EntitySchedule    EntityKind = "schedule"
)

// DuplicateKeyError reports a new-transaction record whose key is already
// present.
type DuplicateKeyError struct {
	Entity EntityKind
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

// UnknownKeyForRevisionError reports a revise-transaction record whose key is
// not present.
type UnknownKeyForRevisionError struct {
	Entity EntityKind
	Key    string
}

func (e *UnknownKeyForRevisionError) Error() string {
	return fmt.Sprintf("cannot revise %s %q: no such entry", e.Entity, e.Key)
}

// UnknownKeyForDeletionError reports a delete-transaction record whose key is
// not present.
type UnknownKeyForDeletionError struct {
	Entity EntityKind
	Key    string
}

func (e *UnknownKeyForDeletionError) Error() string {
	return fmt.Sprintf("cannot delete %s %q: no such entry", e.Entity, e.Key)
}

// ConflictingScheduleError reports two schedules for one train UID at the
// same STP precedence whose validity windows overlap. CIF data is expected
// to avoid this; the engine detects it rather than silently picking one.
type ConflictingScheduleError struct {
	TrainUID string
	STP      types.STPIndicator
	Window   types.ValidityWindow
	Other    types.ValidityWindow
}

func (e *ConflictingScheduleError) Error() string {
	return fmt.Sprintf("conflicting %s schedules for %s: %s..%s overlaps %s..%s",
		e.STP, e.TrainUID,
		e.Window.From.Format("2006-01-02"), e.Window.To.Format("2006-01-02"),
		e.Other.From.Format("2006-01-02"), e.Other.To.Format("2006-01-02"))
}

// ApplyError ties an error to the record that produced it. Index is the
// record's position in the applied sequence; Line is its 1-based source line
// when known, zero otherwise.
type ApplyError struct {
	Index int
	Line  int
	Err   error
}

func (e ApplyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record %d (line %d): %v", e.Index, e.Line, e.Err)
	}
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e ApplyError) Unwrap() error { return e.Err }
