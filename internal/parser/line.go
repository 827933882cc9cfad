package parser

import (
	"strings"

	"github.com/jhamerski/cielo-edi/internal/model"
	"github.com/jhamerski/cielo-edi/internal/schema"
)

// DecodeLine decodes one raw line against a resolved schema.
//
// The line length is verified first; a mismatch fails the whole line with a
// LineLengthError and no field is decoded. Otherwise every descriptor is
// sliced and decoded, collecting all field-level failures into a single
// LineError instead of stopping at the first, so one pass over a malformed
// line reports everything wrong with it.
//
// Slicing operates on characters: the source is a single-byte encoding, so
// after transcoding to UTF-8 the character index equals the original byte
// position of the layout manual.
func DecodeLine(line string, lineNo int, s *schema.Schema) (*model.DecodedRecord, error) {
	chars := []rune(line)
	if len(chars) != s.LineLen {
		return nil, &LineLengthError{
			Line:     lineNo,
			Record:   s.Record,
			Expected: s.LineLen,
			Actual:   len(chars),
		}
	}

	fields := make(map[string]model.FieldValue, len(s.Fields))
	var fieldErrs []*FieldError

	for _, d := range s.Fields {
		raw := string(chars[d.Start : d.Start+d.Len])
		v, err := schema.Decode(raw, d)
		if err != nil {
			fieldErrs = append(fieldErrs, &FieldError{
				Field: d.Name,
				Raw:   strings.TrimSpace(raw),
				Err:   err,
			})
			continue
		}
		fields[d.Name] = v
	}

	if len(fieldErrs) > 0 {
		return nil, &LineError{Line: lineNo, Record: s.Record, Fields: fieldErrs}
	}

	return &model.DecodedRecord{Type: s.Record, Line: lineNo, Fields: fields}, nil
}
