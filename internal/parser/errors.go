// Package parser implements the decode pipeline for Cielo EDI extracts: the
// line decoder, the record dispatcher state machine and its streaming
// variant.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhamerski/cielo-edi/internal/model"
)

// State-machine error sentinels. These are fatal to the current decode; no
// partial document is returned when one is raised.
var (
	// ErrUnrecognizedFile indicates the first non-empty line is not a valid
	// header record, so the file type cannot be established.
	ErrUnrecognizedFile = errors.New("unrecognized file: first record is not a valid header")

	// ErrUnknownRecordType indicates a discriminator with no layout under
	// the established file type. Fatal by default; Config.SkipUnknownRecords
	// downgrades it to skip-and-log.
	ErrUnknownRecordType = errors.New("unknown record type")

	// ErrDuplicateRecord indicates a second header or trailer line.
	ErrDuplicateRecord = errors.New("duplicate record")

	// ErrMissingTrailer indicates end of input was reached without a trailer
	// record.
	ErrMissingTrailer = errors.New("missing trailer record")

	// ErrTrailingContent indicates a record line after the trailer.
	ErrTrailingContent = errors.New("content after trailer record")

	// ErrEncoding indicates bytes that are invalid under the declared source
	// encoding.
	ErrEncoding = errors.New("invalid bytes for declared source encoding")
)

// FieldError is one field-level decode failure within a line.
type FieldError struct {
	Field string
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// LineError aggregates every field-level failure of one line. The line
// decoder never stops at the first bad field: extract files come from a fixed
// external system and a full diagnostic per line beats fail-fast.
type LineError struct {
	Line   int
	Record model.RecordType
	Fields []*FieldError
}

func (e *LineError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		parts[i] = fe.Error()
	}
	return fmt.Sprintf("line %d (%s): %s", e.Line, e.Record, strings.Join(parts, "; "))
}

// Unwrap exposes the field errors to errors.Is/As.
func (e *LineError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, fe := range e.Fields {
		errs[i] = fe
	}
	return errs
}

// LineLengthError indicates a physical line whose length does not match the
// schema's expected length. Nothing on such a line is decoded.
type LineLengthError struct {
	Line     int
	Record   model.RecordType
	Expected int
	Actual   int
}

func (e *LineLengthError) Error() string {
	return fmt.Sprintf("line %d (%s): length mismatch: expected %d characters, got %d",
		e.Line, e.Record, e.Expected, e.Actual)
}

// RecordError attaches the offending line number and raw content to a fatal
// state-machine error.
type RecordError struct {
	Line    int
	Content string
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Content)
}

func (e *RecordError) Unwrap() error { return e.Err }

// DecodeError aggregates every line-level failure of a batch decode. The
// dispatcher keeps scanning after a bad line so one pass reports everything,
// but a decode that produced line errors never returns a document.
type DecodeError struct {
	Lines []error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed: %d malformed line(s); first: %v", len(e.Lines), e.Lines[0])
}

// Unwrap exposes the line errors to errors.Is/As.
func (e *DecodeError) Unwrap() []error { return e.Lines }

// truncate limits raw line content embedded in error messages.
func truncate(s string) string {
	const max = 100
	if len(s) > max {
		return s[:max]
	}
	return s
}
