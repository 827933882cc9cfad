package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/jhamerski/cielo-edi/internal/model"
	"github.com/jhamerski/cielo-edi/internal/schema"
	"github.com/jhamerski/cielo-edi/internal/stats"
)

// StreamDecoder yields detail records one at a time without materializing
// the whole document, in the manner of bufio.Scanner.
//
// Line-level decode failures are returned from Scan as *LineError and the
// caller may keep scanning; structural failures (bad header, missing
// trailer, unknown record type) are sticky and end the stream. Statistics
// accumulate over successfully decoded records only, so a fully clean
// stream produces the same statistics as a batch decode of the same input.
type StreamDecoder struct {
	d  *Decoder
	sc *bufio.Scanner

	acc      *stats.Accumulator
	header   *model.DecodedRecord
	trailer  *model.DecodedRecord
	fileType model.FileType
	skipped  []model.SkippedLine

	lineNo      int
	trailerSeen bool
	done        bool
	err         error
}

// Stream starts a streaming decode over r.
func (d *Decoder) Stream(r io.Reader) *StreamDecoder {
	sc := bufio.NewScanner(d.newReader(r))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &StreamDecoder{d: d, sc: sc, acc: stats.NewAccumulator()}
}

// Scan returns the next detail record. It returns io.EOF after the trailer
// has been consumed and the input is exhausted. A *LineError return is
// recoverable; any other error is sticky.
func (s *StreamDecoder) Scan() (*model.DecodedRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.done {
		return nil, io.EOF
	}

	for s.sc.Scan() {
		s.lineNo++
		s.acc.AddLine()

		line := strings.TrimRight(s.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.ContainsRune(line, utf8.RuneError) {
			return nil, s.fail(&RecordError{Line: s.lineNo, Content: truncate(line), Err: ErrEncoding})
		}

		rt := model.RecordType(line[0])

		switch {
		case s.header == nil:
			if rt != model.RecordHeader {
				return nil, s.fail(&RecordError{Line: s.lineNo, Content: truncate(line), Err: ErrUnrecognizedFile})
			}
			rec, err := DecodeLine(line, s.lineNo, s.d.registry.Header())
			if err != nil {
				return nil, s.fail(&RecordError{
					Line:    s.lineNo,
					Content: truncate(line),
					Err:     fmt.Errorf("%w: %v", ErrUnrecognizedFile, err),
				})
			}
			ft := model.FileType(rec.Text("opcao_extrato"))
			if !ft.Known() {
				return nil, s.fail(&RecordError{
					Line:    s.lineNo,
					Content: truncate(line),
					Err:     fmt.Errorf("%w: unsupported extract option %q", ErrUnrecognizedFile, rec.Text("opcao_extrato")),
				})
			}
			s.header = rec
			s.fileType = ft
			s.acc.AddRecord(rec, s.d.registry.Header())

		case s.trailerSeen:
			err := ErrTrailingContent
			if rt == model.RecordTrailer {
				err = ErrDuplicateRecord
			}
			return nil, s.fail(&RecordError{Line: s.lineNo, Content: truncate(line), Err: err})

		case rt == model.RecordHeader:
			return nil, s.fail(&RecordError{Line: s.lineNo, Content: truncate(line), Err: ErrDuplicateRecord})

		case rt == model.RecordTrailer:
			sch, err := s.d.registry.Resolve(s.fileType, rt)
			if err != nil {
				return nil, s.fail(&RecordError{Line: s.lineNo, Content: truncate(line), Err: fmt.Errorf("%w: %v", ErrUnknownRecordType, err)})
			}
			s.trailerSeen = true
			rec, err := DecodeLine(line, s.lineNo, sch)
			if err != nil {
				return nil, err
			}
			s.trailer = rec
			s.acc.AddRecord(rec, sch)

		default:
			sch, err := s.d.registry.Resolve(s.fileType, rt)
			if err != nil {
				if s.d.cfg.SkipUnknownRecords && errors.Is(err, schema.ErrSchemaNotFound) {
					log.Warn().
						Int("line", s.lineNo).
						Str("type", string(rune(rt))).
						Str("file_type", s.fileType.String()).
						Msg("skipping unknown record type")
					s.skipped = append(s.skipped, model.SkippedLine{
						Line:    s.lineNo,
						Type:    string(rune(rt)),
						Reason:  err.Error(),
						Content: truncate(line),
					})
					continue
				}
				return nil, s.fail(&RecordError{Line: s.lineNo, Content: truncate(line), Err: fmt.Errorf("%w: %v", ErrUnknownRecordType, err)})
			}
			rec, err := DecodeLine(line, s.lineNo, sch)
			if err != nil {
				return nil, err
			}
			s.acc.AddRecord(rec, sch)
			return rec, nil
		}
	}

	if err := s.sc.Err(); err != nil {
		return nil, s.fail(fmt.Errorf("read extract: %w", err))
	}
	if s.header == nil {
		return nil, s.fail(&RecordError{Line: s.lineNo, Err: ErrUnrecognizedFile})
	}
	if !s.trailerSeen {
		return nil, s.fail(&RecordError{Line: s.lineNo, Err: ErrMissingTrailer})
	}
	s.done = true
	return nil, io.EOF
}

func (s *StreamDecoder) fail(err error) error {
	s.err = err
	return err
}

// Header returns the decoded header, available after the first Scan call.
func (s *StreamDecoder) Header() *model.DecodedRecord { return s.header }

// Trailer returns the decoded trailer, available once Scan returns io.EOF.
func (s *StreamDecoder) Trailer() *model.DecodedRecord { return s.trailer }

// FileType reports the extract's file type, available after the first Scan.
func (s *StreamDecoder) FileType() model.FileType { return s.fileType }

// Stats returns a snapshot of the statistics accumulated so far.
func (s *StreamDecoder) Stats() model.Statistics { return s.acc.Snapshot() }

// Skipped returns the lines skipped so far under SkipUnknownRecords.
func (s *StreamDecoder) Skipped() []model.SkippedLine { return s.skipped }

// Err returns the sticky error that ended the stream, if any.
func (s *StreamDecoder) Err() error { return s.err }
