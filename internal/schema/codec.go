// Package schema holds the data-driven description of the Cielo EDI layouts:
// the field codec kinds, the per-record field descriptor tables and the
// registry that resolves a (file type, record type) pair to its schema.
//
// Adding or changing a record layout is a data change in this package, never
// a control-flow change in the decoder. The descriptor tables and expected
// line lengths are fixed for a layout version; any change to them is a
// breaking compatibility change for every consumer of the document model.
package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhamerski/cielo-edi/internal/model"
)

// Codec-level error sentinels. The line decoder wraps these per field.
var (
	// ErrInvalidInteger indicates non-numeric content in an integer field.
	ErrInvalidInteger = errors.New("invalid integer field")

	// ErrInvalidDecimal indicates non-numeric content in an implied-decimal field.
	ErrInvalidDecimal = errors.New("invalid decimal field")

	// ErrInvalidDate indicates non-digit content or an out-of-range calendar
	// date in a date field.
	ErrInvalidDate = errors.New("invalid date field")

	// ErrInvalidTime indicates non-digit content or an out-of-range time of
	// day in a time field.
	ErrInvalidTime = errors.New("invalid time field")

	// ErrRequiredField indicates an empty value in a field marked required.
	ErrRequiredField = errors.New("required field is empty")
)

// Kind enumerates the field codecs of the layout.
type Kind int

const (
	// KindText is space-padded text, trimmed on decode.
	KindText Kind = iota

	// KindInteger is a zero-padded base-10 integer.
	KindInteger

	// KindDecimal is a zero-padded integer with an implied decimal scale.
	KindDecimal

	// KindDate is a digit-string calendar date; the layout variant is held
	// by the descriptor.
	KindDate

	// KindTime is an HHMMSS time of day.
	KindTime
)

// DateLayout enumerates the digit orderings used by date fields across the
// record types.
type DateLayout int

const (
	// DateDDMMYYYY is day-month-year, 8 digits.
	DateDDMMYYYY DateLayout = iota

	// DateYYYYMMDD is year-month-day, 8 digits.
	DateYYYYMMDD

	// DateYYMMDD is two-digit-year month day, 6 digits; years are 2000-based.
	DateYYMMDD
)

// dateSentinels are raw contents that mean "no date" rather than a decode
// error; the layout uses both all-zeros and the 1001-01-01 placeholder.
var dateSentinels = map[string]bool{
	"":         true,
	"00000000": true,
	"000000":   true,
	"01011001": true,
}

// Decode converts the raw content of one fixed-width field into its typed
// value, per the descriptor's codec kind. The input is the already-sliced
// field content in the declared source encoding, transcoded to UTF-8.
//
// An all-space value decodes to Absent when the field is optional and to
// ErrRequiredField when it is required. Decode is pure; it never mutates the
// descriptor or retains the input.
func Decode(raw string, d FieldDescriptor) (model.FieldValue, error) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		if d.Required {
			return model.FieldValue{}, ErrRequiredField
		}
		return model.Absent(trimmed), nil
	}

	switch d.Kind {
	case KindText:
		return model.TextValue(trimmed), nil

	case KindInteger:
		n, err := parseSigned(trimmed)
		if err != nil {
			return model.FieldValue{}, fmt.Errorf("%w: %q", ErrInvalidInteger, trimmed)
		}
		return model.IntValue(n, trimmed), nil

	case KindDecimal:
		n, err := parseSigned(trimmed)
		if err != nil {
			return model.FieldValue{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, trimmed)
		}
		return model.DecimalValue(decimal.New(n, -d.Scale), trimmed), nil

	case KindDate:
		return decodeDate(trimmed, d)

	case KindTime:
		return decodeTime(trimmed)
	}

	return model.FieldValue{}, fmt.Errorf("unknown codec kind %d for field %q", d.Kind, d.Name)
}

// Encode renders a decoded field value back to its textual form, as used by
// the CSV exporter. Decimal values render with their exact implied scale
// (e.g. "123.45"), dates as ISO "2006-01-02", absent values as "".
func Encode(v model.FieldValue) string {
	switch v.Kind {
	case model.ValueAbsent:
		return ""
	case model.ValueText:
		return v.Text
	case model.ValueInteger:
		return strconv.FormatInt(v.Int, 10)
	case model.ValueDecimal:
		return model.DecimalText(v.Dec)
	case model.ValueDate:
		return v.Date.Format("2006-01-02")
	case model.ValueTime:
		return v.Clock.String()
	}
	return ""
}

// parseSigned parses a zero-padded integer, accepting the trailing-sign
// convention some record types use ("0001234-" meaning -1234). A leading
// sign is also accepted since strconv handles it natively.
func parseSigned(s string) (int64, error) {
	neg := false
	switch {
	case strings.HasSuffix(s, "-"):
		neg = true
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "+"):
		s = s[:len(s)-1]
	}
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		n = -n
	}
	return n, nil
}

func decodeDate(raw string, d FieldDescriptor) (model.FieldValue, error) {
	if dateSentinels[raw] {
		return model.Absent(raw), nil
	}

	wantLen := 8
	if d.DateLayout == DateYYMMDD {
		wantLen = 6
	}
	if len(raw) != wantLen || !allDigits(raw) {
		return model.FieldValue{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}

	var year, month, day int
	switch d.DateLayout {
	case DateDDMMYYYY:
		day = atoi(raw[0:2])
		month = atoi(raw[2:4])
		year = atoi(raw[4:8])
	case DateYYYYMMDD:
		year = atoi(raw[0:4])
		month = atoi(raw[4:6])
		day = atoi(raw[6:8])
	case DateYYMMDD:
		year = 2000 + atoi(raw[0:2])
		month = atoi(raw[2:4])
		day = atoi(raw[4:6])
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; reject anything that
	// did not survive the round trip.
	if month < 1 || month > 12 || day < 1 || t.Day() != day || int(t.Month()) != month {
		return model.FieldValue{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return model.DateValue(t, raw), nil
}

func decodeTime(raw string) (model.FieldValue, error) {
	if raw == "000000" {
		return model.Absent(raw), nil
	}
	if len(raw) != 6 || !allDigits(raw) {
		return model.FieldValue{}, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	tod := model.TimeOfDay{
		Hour:   atoi(raw[0:2]),
		Minute: atoi(raw[2:4]),
		Second: atoi(raw[4:6]),
	}
	if tod.Hour > 23 || tod.Minute > 59 || tod.Second > 59 {
		return model.FieldValue{}, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return model.TimeValue(tod, raw), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// atoi is only called on digit-checked substrings.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
