// Package edi ties the decoder and exporters together behind one service.
package edi

import (
	"io"

	"github.com/rs/zerolog/log"

	"github.com/jhamerski/cielo-edi/internal/export"
	"github.com/jhamerski/cielo-edi/internal/model"
	"github.com/jhamerski/cielo-edi/internal/parser"
	"github.com/jhamerski/cielo-edi/internal/schema"
)

// Service is the high-level entry point for decoding settlement extracts
// and exporting the result.
type Service struct {
	decoder *parser.Decoder
}

// NewService creates a service with the given decoder configuration.
func NewService(cfg parser.Config) (*Service, error) {
	dec, err := parser.NewDecoder(schema.NewRegistry(), cfg)
	if err != nil {
		return nil, err
	}
	return &Service{decoder: dec}, nil
}

// DecodeFile decodes the extract at path into a document.
func (s *Service) DecodeFile(path string) (*model.Document, error) {
	doc, err := s.decoder.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("path", path).
		Str("file_type", doc.FileType.String()).
		Int("details", len(doc.Details)).
		Int("skipped", len(doc.Skipped)).
		Msg("extract decoded")
	return doc, nil
}

// Decode decodes an extract from r into a document.
func (s *Service) Decode(r io.Reader) (*model.Document, error) {
	return s.decoder.Decode(r)
}

// Stream starts a streaming decode over r.
func (s *Service) Stream(r io.Reader) *parser.StreamDecoder {
	return s.decoder.Stream(r)
}

// ExportJSON writes doc as JSON to path.
func (s *Service) ExportJSON(doc *model.Document, path string, opts export.JSONOptions) error {
	exp, err := export.NewJSONExporter(opts)
	if err != nil {
		return err
	}
	if err := exp.ExportFile(doc, path); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("json export written")
	return nil
}

// ExportCSV writes one CSV file per detail record type under dir and
// returns the files created.
func (s *Service) ExportCSV(doc *model.Document, dir string, opts export.CSVOptions) (map[model.RecordType]string, error) {
	created, err := export.NewCSVExporter(opts).ExportAll(doc, dir)
	if err != nil {
		return created, err
	}
	log.Info().Str("dir", dir).Int("files", len(created)).Msg("csv export written")
	return created, nil
}
