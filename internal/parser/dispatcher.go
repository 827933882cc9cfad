package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhamerski/cielo-edi/internal/model"
	"github.com/jhamerski/cielo-edi/internal/schema"
	"github.com/jhamerski/cielo-edi/internal/stats"
)

// Supported source encodings. EDI extracts are issued in a single-byte
// Latin-alphabet encoding; latin1 is the acquirer's default.
const (
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows1252"
	EncodingUTF8        = "utf8"
)

// Config holds decoder configuration.
type Config struct {
	// Encoding is the declared source text encoding. Defaults to latin1.
	Encoding string `validate:"omitempty,oneof=latin1 windows1252 utf8"`

	// SkipUnknownRecords downgrades unknown-record-type failures from fatal
	// to skip-and-log. This is an explicit opt-in, never the default.
	SkipUnknownRecords bool
}

// defaultConfig provides the decoder defaults.
var defaultConfig = Config{
	Encoding: EncodingLatin1,
}

// Decoder turns a raw extract stream into a typed document.
//
// The decoder only reads from its registry, so a single registry may be
// shared across concurrent decoders; each Decode call uses its own document
// and accumulator and the decoder itself holds no per-file state.
type Decoder struct {
	registry *schema.Registry
	cfg      Config
}

// NewDecoder creates a decoder over the given registry. A nil registry
// selects the built-in layouts. The configuration is validated; a zero
// Config selects the defaults.
func NewDecoder(registry *schema.Registry, cfg Config) (*Decoder, error) {
	if cfg.Encoding == "" {
		cfg.Encoding = defaultConfig.Encoding
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid decoder config: %w", err)
	}
	if registry == nil {
		registry = schema.NewRegistry()
	}
	return &Decoder{registry: registry, cfg: cfg}, nil
}

// DecodeFile decodes the extract at path.
func (d *Decoder) DecodeFile(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extract: %w", err)
	}
	defer f.Close()
	return d.Decode(f)
}

// Decode runs the full batch decode: header, detail records in input order,
// trailer, statistics.
//
// State-machine failures (missing or duplicate header/trailer, unknown
// record type) abort immediately. Line-level failures are collected so a
// single pass reports every malformed line, then surfaced together as a
// DecodeError; a decode with line errors never returns a partial document.
func (d *Decoder) Decode(r io.Reader) (*model.Document, error) {
	doc := &model.Document{FieldOrder: make(map[model.RecordType][]string)}
	acc := stats.NewAccumulator()

	sc := bufio.NewScanner(d.newReader(r))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	var (
		lineNo      int
		trailerSeen bool
		lineErrs    []error
	)

	for sc.Scan() {
		lineNo++
		acc.AddLine()

		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.ContainsRune(line, utf8.RuneError) {
			return nil, &RecordError{Line: lineNo, Content: truncate(line), Err: ErrEncoding}
		}

		rt := model.RecordType(line[0])

		switch {
		case doc.Header == nil:
			if rt != model.RecordHeader {
				return nil, &RecordError{Line: lineNo, Content: truncate(line), Err: ErrUnrecognizedFile}
			}
			rec, err := DecodeLine(line, lineNo, d.registry.Header())
			if err != nil {
				return nil, &RecordError{
					Line:    lineNo,
					Content: truncate(line),
					Err:     fmt.Errorf("%w: %v", ErrUnrecognizedFile, err),
				}
			}
			ft := model.FileType(rec.Text("opcao_extrato"))
			if !ft.Known() {
				return nil, &RecordError{
					Line:    lineNo,
					Content: truncate(line),
					Err:     fmt.Errorf("%w: unsupported extract option %q", ErrUnrecognizedFile, rec.Text("opcao_extrato")),
				}
			}
			doc.Header = rec
			doc.FileType = ft
			doc.FieldOrder[model.RecordHeader] = d.registry.Header().FieldNames()
			acc.AddRecord(rec, d.registry.Header())

		case trailerSeen:
			err := ErrTrailingContent
			if rt == model.RecordTrailer {
				err = ErrDuplicateRecord
			}
			return nil, &RecordError{Line: lineNo, Content: truncate(line), Err: err}

		case rt == model.RecordHeader:
			return nil, &RecordError{Line: lineNo, Content: truncate(line), Err: ErrDuplicateRecord}

		case rt == model.RecordTrailer:
			sch, err := d.registry.Resolve(doc.FileType, rt)
			if err != nil {
				return nil, &RecordError{Line: lineNo, Content: truncate(line), Err: fmt.Errorf("%w: %v", ErrUnknownRecordType, err)}
			}
			trailerSeen = true
			rec, err := DecodeLine(line, lineNo, sch)
			if err != nil {
				lineErrs = append(lineErrs, err)
				continue
			}
			doc.Trailer = rec
			doc.FieldOrder[rt] = sch.FieldNames()
			acc.AddRecord(rec, sch)

		default:
			sch, err := d.registry.Resolve(doc.FileType, rt)
			if err != nil {
				if d.cfg.SkipUnknownRecords && errors.Is(err, schema.ErrSchemaNotFound) {
					log.Warn().
						Int("line", lineNo).
						Str("type", string(rune(rt))).
						Str("file_type", doc.FileType.String()).
						Msg("skipping unknown record type")
					doc.Skipped = append(doc.Skipped, model.SkippedLine{
						Line:    lineNo,
						Type:    string(rune(rt)),
						Reason:  err.Error(),
						Content: truncate(line),
					})
					continue
				}
				return nil, &RecordError{Line: lineNo, Content: truncate(line), Err: fmt.Errorf("%w: %v", ErrUnknownRecordType, err)}
			}
			rec, err := DecodeLine(line, lineNo, sch)
			if err != nil {
				lineErrs = append(lineErrs, err)
				continue
			}
			doc.Details = append(doc.Details, rec)
			if _, ok := doc.FieldOrder[rt]; !ok {
				doc.FieldOrder[rt] = sch.FieldNames()
			}
			acc.AddRecord(rec, sch)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read extract: %w", err)
	}
	if doc.Header == nil {
		return nil, &RecordError{Line: lineNo, Err: ErrUnrecognizedFile}
	}
	if !trailerSeen {
		return nil, &RecordError{Line: lineNo, Err: ErrMissingTrailer}
	}
	if len(lineErrs) > 0 {
		return nil, &DecodeError{Lines: lineErrs}
	}

	doc.Stats = acc.Snapshot()
	return doc, nil
}

// newReader wraps the source with the declared encoding's decoder. Character
// positions in the transcoded text equal the original byte positions because
// the source encodings are single-byte.
func (d *Decoder) newReader(r io.Reader) io.Reader {
	switch d.cfg.Encoding {
	case EncodingWindows1252:
		return charmap.Windows1252.NewDecoder().Reader(r)
	case EncodingUTF8:
		return r
	default:
		return charmap.ISO8859_1.NewDecoder().Reader(r)
	}
}
