package cif

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/railcore/cif-engine/src/common/types"
)

// recordLength is the fixed CIF physical line length, excluding the newline.
const recordLength = 80

// trim drops the insignificant right padding (and any stray left padding)
// from a text field when moving it into a resolved entity.
func trim(s string) string { return strings.TrimSpace(s) }

// Column layouts come from the Network Rail CIF end user specification. All
// offsets are 0-based [start, end) into the 80 character line.

// row wraps one full-length line and carries the record kind for error
// reporting. All field decoding goes through row methods so every failure is
// a MalformedFieldError naming the field, offset and raw text.
type row struct {
	kind types.RecordKind
	raw  string
}

func newRow(kind types.RecordKind, raw string) row {
	return row{kind: kind, raw: raw}
}

func (r row) fail(field string, off int, raw, reason string) error {
	return &MalformedFieldError{Record: r.kind, Field: field, Offset: off, Raw: raw, Reason: reason}
}

// text returns the raw column slice with padding preserved, so records can be
// re-encoded byte for byte. Only the CIF character set is accepted.
func (r row) text(field string, start, end int) (string, error) {
	s := r.raw[start:end]
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return "", r.fail(field, start, s, fmt.Sprintf("illegal character 0x%02x", s[i]))
		}
	}
	return s, nil
}

// char returns a single column as a byte.
func (r row) char(field string, at int) (byte, error) {
	c := r.raw[at]
	if c < 0x20 || c > 0x7e {
		return 0, r.fail(field, at, string(c), fmt.Sprintf("illegal character 0x%02x", c))
	}
	return c, nil
}

// number decodes a fixed width numeric field. Leading spaces count as zeros;
// an all-space field decodes to zero, matching CIF's optional numerics. The
// raw column text is kept on the value so re-encoding reproduces the
// original padding.
func (r row) number(field string, start, end int) (types.Numeric, error) {
	s := r.raw[start:end]
	trimmed := strings.TrimLeft(s, " ")
	if trimmed == "" {
		return types.Numeric{Raw: s}, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return types.Numeric{}, r.fail(field, start, s, "not a fixed-width integer")
	}
	return types.Numeric{Value: n, Raw: s}, nil
}

// date decodes a 6 digit date. CIF uses DDMMYY in header records and YYMMDD
// everywhere else; layout picks between them.
func (r row) date(field string, start int, layout string) (time.Time, error) {
	s := r.raw[start : start+6]
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, r.fail(field, start, s, "not a valid date")
	}
	return t, nil
}

// optionalDate is date, but an all-space field decodes to the zero time.
// Basic schedule delete transactions carry only the start date.
func (r row) optionalDate(field string, start int, layout string) (time.Time, error) {
	if strings.TrimSpace(r.raw[start:start+6]) == "" {
		return time.Time{}, nil
	}
	return r.date(field, start, layout)
}

const (
	layoutHeaderDate = "020106" // DDMMYY
	layoutDate       = "060102" // YYMMDD
)

// journeyTime decodes a 5 column HHMM[H] working time, where a trailing H
// marks the half minute.
func (r row) journeyTime(field string, start int) (types.JourneyTime, error) {
	s := r.raw[start : start+5]
	hour, err := strconv.Atoi(s[0:2])
	if err != nil || hour > 23 {
		return types.JourneyTime{}, r.fail(field, start, s, "not a valid time")
	}
	minute, err := strconv.Atoi(s[2:4])
	if err != nil || minute > 59 {
		return types.JourneyTime{}, r.fail(field, start, s, "not a valid time")
	}
	t := types.JourneyTime{Hour: hour, Minute: minute}
	switch s[4] {
	case 'H':
		t.Half = true
	case ' ':
	default:
		return types.JourneyTime{}, r.fail(field, start, s, "half-minute flag must be 'H' or space")
	}
	return t, nil
}

// optionalJourneyTime is journeyTime, but an all-space field decodes to nil.
func (r row) optionalJourneyTime(field string, start int) (*types.JourneyTime, error) {
	if strings.TrimSpace(r.raw[start:start+5]) == "" {
		return nil, nil
	}
	t, err := r.journeyTime(field, start)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// publicTime decodes a 4 column HHMM public timetable time. 0000 means not
// advertised and decodes to the zero value.
func (r row) publicTime(field string, start int) (types.JourneyTime, error) {
	s := r.raw[start : start+4]
	hour, err := strconv.Atoi(s[0:2])
	if err != nil || hour > 23 {
		return types.JourneyTime{}, r.fail(field, start, s, "not a valid time")
	}
	minute, err := strconv.Atoi(s[2:4])
	if err != nil || minute > 59 {
		return types.JourneyTime{}, r.fail(field, start, s, "not a valid time")
	}
	return types.JourneyTime{Hour: hour, Minute: minute}, nil
}

// optionalPublicTime is publicTime, but an all-space field decodes to nil.
func (r row) optionalPublicTime(field string, start int) (*types.JourneyTime, error) {
	if strings.TrimSpace(r.raw[start:start+4]) == "" {
		return nil, nil
	}
	t, err := r.publicTime(field, start)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// daysRun decodes the 7 column running days mask, Monday first. An all-space
// field decodes to the empty mask with blank set; delete transactions leave
// the column blank, and an explicit 0000000 is a different line.
func (r row) daysRun(field string, start int) (types.DaysRun, bool, error) {
	s := r.raw[start : start+7]
	if strings.TrimSpace(s) == "" {
		return 0, true, nil
	}
	var d types.DaysRun
	for i := 0; i < 7; i++ {
		switch s[i] {
		case '1':
			d |= 1 << (6 - i)
		case '0':
		default:
			return 0, false, r.fail(field, start, s, "running days must be '0' or '1'")
		}
	}
	return d, false, nil
}
