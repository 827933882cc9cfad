// Package export renders decoded documents as JSON and CSV.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/jhamerski/cielo-edi/internal/domain"
	"github.com/jhamerski/cielo-edi/internal/model"
)

// JSONOptions configures the JSON exporter.
type JSONOptions struct {
	// Indent is the number of spaces per indentation level. Zero produces
	// minified output.
	Indent int `validate:"gte=0"`

	// IncludeDescriptions adds the human-readable file type description.
	IncludeDescriptions bool
}

// DefaultJSONOptions returns the exporter defaults: two-space indentation
// with descriptions included.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Indent: 2, IncludeDescriptions: true}
}

// JSONExporter renders a whole document as a single JSON object with one
// list per detail record type.
type JSONExporter struct {
	opts JSONOptions
}

// NewJSONExporter creates a JSON exporter with the given options.
func NewJSONExporter(opts JSONOptions) (*JSONExporter, error) {
	if err := validator.New().Struct(&opts); err != nil {
		return nil, fmt.Errorf("invalid json options: %w", err)
	}
	return &JSONExporter{opts: opts}, nil
}

// jsonDocument fixes the key order of the exported object.
type jsonDocument struct {
	Header               *model.DecodedRecord   `json:"header"`
	TipoArquivo          model.FileType         `json:"tipo_arquivo"`
	TipoArquivoDescricao string                 `json:"tipo_arquivo_descricao,omitempty"`
	URAgenda             []*model.DecodedRecord `json:"ur_agenda"`
	Detalhes             []*model.DecodedRecord `json:"detalhes"`
	Pix                  []*model.DecodedRecord `json:"pix"`
	NegociacoesResumo    []*model.DecodedRecord `json:"negociacoes_resumo"`
	NegociacoesDetalhe   []*model.DecodedRecord `json:"negociacoes_detalhe"`
	ContasRecebimento    []*model.DecodedRecord `json:"contas_recebimento"`
	ReservaFinanceira    []*model.DecodedRecord `json:"reserva_financeira"`
	Trailer              *model.DecodedRecord   `json:"trailer"`
	Estatisticas         model.Statistics       `json:"estatisticas"`
	LinhasNaoProcessadas []model.SkippedLine    `json:"linhas_nao_processadas"`
}

// Export renders doc as JSON.
func (e *JSONExporter) Export(doc *model.Document) ([]byte, error) {
	out := jsonDocument{
		Header:               doc.Header,
		TipoArquivo:          doc.FileType,
		URAgenda:             records(doc, model.RecordURAgenda),
		Detalhes:             records(doc, model.RecordLaunchDetail),
		Pix:                  records(doc, model.RecordPix),
		NegociacoesResumo:    records(doc, model.RecordNegotiationSummary),
		NegociacoesDetalhe:   records(doc, model.RecordNegotiationDetail),
		ContasRecebimento:    records(doc, model.RecordReceivableAccount),
		ReservaFinanceira:    records(doc, model.RecordFinancialReserve),
		Trailer:              doc.Trailer,
		Estatisticas:         doc.Stats,
		LinhasNaoProcessadas: skipped(doc),
	}
	if e.opts.IncludeDescriptions {
		out.TipoArquivoDescricao = domain.Describe(domain.FileTypes, string(doc.FileType))
	}

	if e.opts.Indent == 0 {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", strings.Repeat(" ", e.opts.Indent))
}

// ExportTo writes the JSON rendering of doc to w.
func (e *JSONExporter) ExportTo(doc *model.Document, w io.Writer) error {
	b, err := e.Export(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ExportFile writes the JSON rendering of doc to path.
func (e *JSONExporter) ExportFile(doc *model.Document, path string) error {
	b, err := e.Export(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// records returns the records of type rt, never nil so empty lists export
// as [] rather than null.
func records(doc *model.Document, rt model.RecordType) []*model.DecodedRecord {
	recs := doc.DetailsOf(rt)
	if recs == nil {
		recs = []*model.DecodedRecord{}
	}
	return recs
}

func skipped(doc *model.Document) []model.SkippedLine {
	if doc.Skipped == nil {
		return []model.SkippedLine{}
	}
	return doc.Skipped
}
