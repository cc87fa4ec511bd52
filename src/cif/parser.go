// Package cif decodes and encodes the Network Rail Common Interface File
// format: fixed 80 column records carrying the national rail timetable. The
// package only consumes text lines; opening and decompressing extract files
// is the caller's concern.
package cif

import (
	"bufio"
	"io"
	"strings"

	"github.com/railcore/cif-engine/src/common/types"
)

// decoders maps the two character record identifier to its decoder. The set
// is closed; anything else is an UnknownRecordTypeError.
var decoders = map[string]func(string) (types.Record, error){
	"HD": decodeHeader,
	"TI": decodeTiplocInsert,
	"TA": decodeTiplocAmend,
	"TD": decodeTiplocDelete,
	"AA": decodeAssociation,
	"BS": decodeBasicSchedule,
	"BX": decodeBasicScheduleExtra,
	"LO": decodeLocationOrigin,
	"LI": decodeLocationIntermediate,
	"CR": decodeChangeEnRoute,
	"LT": decodeLocationTerminus,
	"ZZ": decodeTrailer,
}

// DecodeLine decodes a single 80 column line into a typed record. It never
// consumes more than the given line.
func DecodeLine(line string) (types.Record, error) {
	line = strings.TrimRight(line, "\r")
	if len(line) < recordLength {
		return nil, &TruncatedLineError{Length: len(line)}
	}
	line = line[:recordLength]
	dec, ok := decoders[line[0:2]]
	if !ok {
		return nil, &UnknownRecordTypeError{ID: line[0:2], Raw: line}
	}
	return dec(line)
}

// Reader is a lazy, one pass record reader over a CIF extract. It is not
// rewindable; callers wanting the whole file at once should use Parse.
type Reader struct {
	br   *bufio.Reader
	line int
	done bool
}

// NewReader wraps an already decoded text stream. The reader stops at the ZZ
// trailer or at end of input, whichever comes first. Lines of any length are
// accepted; anything past the 79th column is dealt with per line rather than
// aborting the read.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Line returns the 1-based line number of the record most recently returned
// by Next.
func (r *Reader) Line() int { return r.line }

// Next returns the next record, a *ParseError for a bad line, or io.EOF when
// the input is exhausted. Parsing can continue after a *ParseError; the
// offending line is skipped.
func (r *Reader) Next() (types.Record, error) {
	if r.done {
		return nil, io.EOF
	}
	text, err := r.br.ReadString('\n')
	if err == io.EOF {
		r.done = true
		if text == "" {
			return nil, io.EOF
		}
	} else if err != nil {
		r.done = true
		return nil, err
	}
	r.line++
	rec, derr := DecodeLine(strings.TrimSuffix(text, "\n"))
	if derr != nil {
		return nil, &ParseError{Line: r.line, Err: derr}
	}
	if rec.Kind() == types.KindTrailer {
		r.done = true
	}
	return rec, nil
}

// File is a fully parsed CIF extract: the flat ordered record sequence.
type File struct {
	Records []types.Record
	// Lines maps each record in Records to its 1-based source line.
	Lines []int
}

// ParseOptions selects the error policy for Parse.
type ParseOptions struct {
	// FailFast aborts on the first bad line instead of collecting errors
	// and continuing with the remaining records.
	FailFast bool
}

// Parse reads a whole extract into a File. In the default accumulate mode it
// returns every structural error alongside the records that did parse; in
// fail fast mode the first error is returned immediately with err set.
func Parse(r io.Reader, opts ParseOptions) (*File, []*ParseError, error) {
	file := &File{}
	var errs []*ParseError
	reader := NewReader(r)
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return file, errs, nil
		}
		if err != nil {
			pe, ok := err.(*ParseError)
			if !ok {
				// read failure, not a record failure
				return file, errs, err
			}
			if opts.FailFast {
				return file, append(errs, pe), pe
			}
			errs = append(errs, pe)
			continue
		}
		file.Records = append(file.Records, rec)
		file.Lines = append(file.Lines, reader.Line())
	}
}
