package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jhamerski/cielo-edi/internal/model"
	"github.com/jhamerski/cielo-edi/internal/schema"
)

// utf8BOM marks CSV files as UTF-8 so Excel picks the right encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// detailTypes is the export order for ExportAll.
var detailTypes = []model.RecordType{
	model.RecordURAgenda,
	model.RecordLaunchDetail,
	model.RecordPix,
	model.RecordNegotiationSummary,
	model.RecordNegotiationDetail,
	model.RecordReceivableAccount,
	model.RecordFinancialReserve,
}

// CSVOptions configures the CSV exporter.
type CSVOptions struct {
	// Delimiter separates fields. Defaults to ','. Brazilian spreadsheet
	// setups usually want ';' instead.
	Delimiter rune

	// Prefix is prepended to file names produced by ExportAll.
	Prefix string
}

// CSVExporter renders detail records as delimited text, one record type per
// table since CSV is flat.
type CSVExporter struct {
	opts CSVOptions
}

// NewCSVExporter creates a CSV exporter with the given options.
func NewCSVExporter(opts CSVOptions) *CSVExporter {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &CSVExporter{opts: opts}
}

// Export writes the records of type rt to w with a header row in schema
// field order. Nothing is written when the document has no records of that
// type.
func (e *CSVExporter) Export(doc *model.Document, rt model.RecordType, w io.Writer) error {
	recs := doc.DetailsOf(rt)
	if len(recs) == 0 {
		return nil
	}
	columns := doc.FieldOrder[rt]
	if len(columns) == 0 {
		return fmt.Errorf("no field order recorded for record type %s", rt)
	}

	cw := csv.NewWriter(w)
	cw.Comma = e.opts.Delimiter

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(columns))
	for _, rec := range recs {
		for i, col := range columns {
			v, _ := rec.Get(col)
			row[i] = schema.Encode(v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFile writes the records of type rt to path, prefixed with a UTF-8
// BOM. No file is created when the document has no records of that type.
func (e *CSVExporter) ExportFile(doc *model.Document, rt model.RecordType, path string) error {
	if len(doc.DetailsOf(rt)) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if _, err := f.Write(utf8BOM); err != nil {
		f.Close()
		return err
	}
	if err := e.Export(doc, rt, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportAll writes one CSV file per detail record type present in doc,
// named <prefix><type>.csv under dir. It returns the files created, keyed
// by record type.
func (e *CSVExporter) ExportAll(doc *model.Document, dir string) (map[model.RecordType]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	created := make(map[model.RecordType]string)
	for _, rt := range detailTypes {
		if len(doc.DetailsOf(rt)) == 0 {
			continue
		}
		path := filepath.Join(dir, e.opts.Prefix+rt.String()+".csv")
		if err := e.ExportFile(doc, rt, path); err != nil {
			return created, err
		}
		created[rt] = path
	}
	return created, nil
}
