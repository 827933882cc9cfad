// Package model defines the core data types for the Cielo EDI decoding pipeline.
//
// This package contains the typed document model produced by the decoder:
// file and record type enumerations, the tagged field value union, decoded
// records, the complete document and its derived statistics.
// All monetary values use decimal.Decimal for exact fixed-point arithmetic,
// avoiding the floating-point rounding drift that would accumulate when
// summing currency fields across large settlement files.
package model

import (
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// FileType identifies the EDI extract variant declared by the header record.
//
// The file type is established once from the header line and is immutable for
// the remainder of the decode; it selects which record layouts are valid for
// the file.
type FileType string

const (
	// FileCielo03 is the capture/forecast extract.
	FileCielo03 FileType = "03"

	// FileCielo04 is the settlement/payment extract.
	FileCielo04 FileType = "04"

	// FileCielo09 is the open balance extract.
	FileCielo09 FileType = "09"

	// FileCielo15 is the receivables negotiation (NRC) extract.
	FileCielo15 FileType = "15"

	// FileCielo16 is the Pix transactions extract.
	FileCielo16 FileType = "16"
)

// Known reports whether the file type is one of the supported extract variants.
func (ft FileType) Known() bool {
	switch ft {
	case FileCielo03, FileCielo04, FileCielo09, FileCielo15, FileCielo16:
		return true
	}
	return false
}

func (ft FileType) String() string {
	return "CIELO" + string(ft)
}

// RecordType identifies a line's layout through its discriminator character,
// the first byte of every record.
type RecordType byte

const (
	// RecordHeader is the file header record (discriminator '0').
	RecordHeader RecordType = '0'

	// RecordURAgenda is the receiving-unit schedule record (discriminator 'D').
	RecordURAgenda RecordType = 'D'

	// RecordLaunchDetail is the launch detail record (discriminator 'E').
	RecordLaunchDetail RecordType = 'E'

	// RecordPix is the Pix transaction detail record (discriminator '8').
	RecordPix RecordType = '8'

	// RecordNegotiationSummary is the negotiation summary record (discriminator 'A').
	RecordNegotiationSummary RecordType = 'A'

	// RecordNegotiationDetail is the negotiation detail record (discriminator 'B').
	RecordNegotiationDetail RecordType = 'B'

	// RecordReceivableAccount is the receiving account record (discriminator 'C').
	RecordReceivableAccount RecordType = 'C'

	// RecordFinancialReserve is the financial reserve record (discriminator 'R').
	RecordFinancialReserve RecordType = 'R'

	// RecordTrailer is the file trailer record (discriminator '9').
	RecordTrailer RecordType = '9'
)

func (rt RecordType) String() string {
	switch rt {
	case RecordHeader:
		return "header"
	case RecordURAgenda:
		return "ur_agenda"
	case RecordLaunchDetail:
		return "detalhes"
	case RecordPix:
		return "pix"
	case RecordNegotiationSummary:
		return "negociacoes_resumo"
	case RecordNegotiationDetail:
		return "negociacoes_detalhe"
	case RecordReceivableAccount:
		return "contas_recebimento"
	case RecordFinancialReserve:
		return "reserva_financeira"
	case RecordTrailer:
		return "trailer"
	}
	return fmt.Sprintf("unknown(%q)", string(rt))
}

// Detail reports whether the record type is a body (detail) record as opposed
// to the header or trailer envelope records.
func (rt RecordType) Detail() bool {
	return rt != RecordHeader && rt != RecordTrailer
}

// ValueKind discriminates the variants of FieldValue.
type ValueKind int

const (
	// ValueAbsent marks an optional field whose raw content was the empty
	// sentinel (all spaces, or an all-zero date).
	ValueAbsent ValueKind = iota

	// ValueText is trimmed textual content.
	ValueText

	// ValueInteger is a parsed base-10 integer.
	ValueInteger

	// ValueDecimal is an exact fixed-point number with an implied scale.
	ValueDecimal

	// ValueDate is a calendar date with no time component.
	ValueDate

	// ValueTime is a time of day with second precision.
	ValueTime
)

// DecimalText renders a decimal with its full implied scale. shopspring's
// String trims trailing zeros, which would turn 1000.00 into "1000"; the
// decoded values keep exponent -scale, so StringFixed restores the exact
// textual form of the layout.
func DecimalText(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// TimeOfDay is a wall-clock time (HHMMSS in the source layout) without an
// attached date or location.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// FieldValue is the closed tagged union of typed values a field can decode to.
//
// Only the variant selected by Kind is meaningful; the remaining payload
// fields hold their zero values. Raw preserves the trimmed original content
// of the source field, so the exact zero-padded monetary strings survive the
// conversion to decimal.
type FieldValue struct {
	Kind  ValueKind
	Text  string
	Int   int64
	Dec   decimal.Decimal
	Date  time.Time
	Clock TimeOfDay

	// Raw is the trimmed source content the value was decoded from.
	Raw string
}

// Absent is the value of an optional field whose source content was empty.
func Absent(raw string) FieldValue {
	return FieldValue{Kind: ValueAbsent, Raw: raw}
}

// TextValue wraps trimmed text content.
func TextValue(s string) FieldValue {
	return FieldValue{Kind: ValueText, Text: s, Raw: s}
}

// IntValue wraps a parsed integer, keeping the raw zero-padded source.
func IntValue(n int64, raw string) FieldValue {
	return FieldValue{Kind: ValueInteger, Int: n, Raw: raw}
}

// DecimalValue wraps an exact fixed-point number, keeping the raw source.
func DecimalValue(d decimal.Decimal, raw string) FieldValue {
	return FieldValue{Kind: ValueDecimal, Dec: d, Raw: raw}
}

// DateValue wraps a calendar date, keeping the raw source.
func DateValue(d time.Time, raw string) FieldValue {
	return FieldValue{Kind: ValueDate, Date: d, Raw: raw}
}

// TimeValue wraps a time of day, keeping the raw source.
func TimeValue(t TimeOfDay, raw string) FieldValue {
	return FieldValue{Kind: ValueTime, Clock: t, Raw: raw}
}

// IsAbsent reports whether the field decoded to the absent sentinel.
func (v FieldValue) IsAbsent() bool {
	return v.Kind == ValueAbsent
}

// MarshalJSON renders the selected variant. Decimal values are emitted as
// exact decimal number literals, never as binary floating point, so that a
// JSON round-trip preserves every cent.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueAbsent:
		return []byte("null"), nil
	case ValueText:
		return json.Marshal(v.Text)
	case ValueInteger:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case ValueDecimal:
		return []byte(DecimalText(v.Dec)), nil
	case ValueDate:
		return []byte(strconv.Quote(v.Date.Format("2006-01-02"))), nil
	case ValueTime:
		return []byte(strconv.Quote(v.Clock.String())), nil
	}
	return nil, fmt.Errorf("unknown field value kind %d", v.Kind)
}

// DecodedRecord is one fully typed line of the extract.
//
// The record is owned by the document that decoded it; field names are
// validated against the schema at decode time, so the mapping never grows
// ad-hoc entries.
type DecodedRecord struct {
	Type   RecordType
	Line   int // 1-based input line number
	Fields map[string]FieldValue
}

// Get returns the named field value.
func (r *DecodedRecord) Get(name string) (FieldValue, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Text returns the named field as a string, or "" when absent or non-text.
func (r *DecodedRecord) Text(name string) string {
	if v, ok := r.Fields[name]; ok && v.Kind == ValueText {
		return v.Text
	}
	return ""
}

// Decimal returns the named field as an exact decimal, or zero when the field
// is absent or not a decimal.
func (r *DecodedRecord) Decimal(name string) decimal.Decimal {
	if v, ok := r.Fields[name]; ok && v.Kind == ValueDecimal {
		return v.Dec
	}
	return decimal.Zero
}

// Date returns the named field as a date; ok is false when absent.
func (r *DecodedRecord) Date(name string) (time.Time, bool) {
	if v, ok := r.Fields[name]; ok && v.Kind == ValueDate {
		return v.Date, true
	}
	return time.Time{}, false
}

// MarshalJSON renders the field mapping directly.
func (r *DecodedRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields)
}

// SkippedLine records an input line that was not decoded, either because its
// record type was unknown under the skip-and-log policy or, in streaming mode,
// because the caller chose to continue past a malformed line.
type SkippedLine struct {
	Line    int    `json:"linha"`
	Type    string `json:"tipo"`
	Reason  string `json:"erro"`
	Content string `json:"conteudo"`
}

// Statistics summarizes the decoded detail records of a document.
//
// Everything here is derived: recomputing over the detail sequence in any
// order yields the same counts, the same exact decimal sums and the same
// settlement date bounds.
type Statistics struct {
	// TotalLines is the number of physical input lines consumed, including
	// header, trailer and blank lines.
	TotalLines int

	// Counts holds the number of decoded records per record type.
	Counts map[RecordType]int

	// GrossTotal is the exact sum of the gross value field of every detail
	// record type that carries one.
	GrossTotal decimal.Decimal

	// NetTotal is the exact sum of the net value fields.
	NetTotal decimal.Decimal

	// FirstSettlement and LastSettlement bound the settlement dates seen in
	// the detail records. Zero when no detail carried a settlement date.
	FirstSettlement time.Time
	LastSettlement  time.Time
}

// Count returns the number of decoded records of the given type.
func (s Statistics) Count(rt RecordType) int {
	return s.Counts[rt]
}

// MarshalJSON renders the statistics with the export vocabulary used by the
// rest of the document: per-type counts keyed by record-type name, exact
// decimal number literals for the sums and ISO dates for the bounds.
func (s Statistics) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, `{"total_linhas":`...)
	buf = strconv.AppendInt(buf, int64(s.TotalLines), 10)
	for _, rt := range []RecordType{
		RecordURAgenda, RecordLaunchDetail, RecordPix,
		RecordNegotiationSummary, RecordNegotiationDetail,
		RecordReceivableAccount, RecordFinancialReserve,
	} {
		buf = append(buf, `,"total_`...)
		buf = append(buf, rt.String()...)
		buf = append(buf, `":`...)
		buf = strconv.AppendInt(buf, int64(s.Counts[rt]), 10)
	}
	buf = append(buf, `,"valor_bruto_total":`...)
	buf = append(buf, DecimalText(s.GrossTotal)...)
	buf = append(buf, `,"valor_liquido_total":`...)
	buf = append(buf, DecimalText(s.NetTotal)...)
	buf = append(buf, `,"data_liquidacao_inicial":`...)
	buf = appendJSONDate(buf, s.FirstSettlement)
	buf = append(buf, `,"data_liquidacao_final":`...)
	buf = appendJSONDate(buf, s.LastSettlement)
	buf = append(buf, '}')
	return buf, nil
}

func appendJSONDate(buf []byte, t time.Time) []byte {
	if t.IsZero() {
		return append(buf, "null"...)
	}
	return append(buf, strconv.Quote(t.Format("2006-01-02"))...)
}

// Document is the complete decode result for one extract file: one header,
// the detail records in input order, one trailer and a statistics snapshot.
//
// In batch mode the document is immutable once decode completes. In streaming
// mode it is populated incrementally and the statistics snapshot is not final
// until the trailer has been consumed.
type Document struct {
	FileType FileType
	Header   *DecodedRecord
	Details  []*DecodedRecord
	Trailer  *DecodedRecord
	Stats    Statistics

	// FieldOrder carries the schema-order field names per record type
	// observed in this document, so exporters can render columns in layout
	// order without reaching back into the registry.
	FieldOrder map[RecordType][]string

	// Skipped lists lines left undecoded under the skip-and-log policy.
	Skipped []SkippedLine
}

// DetailsOf returns the detail records of one type, preserving input order.
func (d *Document) DetailsOf(rt RecordType) []*DecodedRecord {
	var out []*DecodedRecord
	for _, rec := range d.Details {
		if rec.Type == rt {
			out = append(out, rec)
		}
	}
	return out
}
