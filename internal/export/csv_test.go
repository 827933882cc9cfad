package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhamerski/cielo-edi/internal/model"
)

func TestCSVExportUsesSchemaColumnOrder(t *testing.T) {
	doc := decodeSettlement(t)

	var buf bytes.Buffer
	err := NewCSVExporter(CSVOptions{}).Export(doc, model.RecordURAgenda, &buf)
	require.NoError(t, err)

	// the default delimiter is a comma
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, doc.FieldOrder[model.RecordURAgenda], rows[0])
	assert.Equal(t, "tipo_registro", rows[0][0])
}

func TestCSVExportCellValues(t *testing.T) {
	doc := decodeSettlement(t)

	var buf bytes.Buffer
	err := NewCSVExporter(CSVOptions{Delimiter: ';'}).Export(doc, model.RecordLaunchDetail, &buf)
	require.NoError(t, err)

	r := csv.NewReader(&buf)
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	cell := func(name string) string {
		for i, col := range rows[0] {
			if col == name {
				return rows[1][i]
			}
		}
		t.Fatalf("column %s not found", name)
		return ""
	}

	assert.Equal(t, "E", cell("tipo_registro"))
	assert.Equal(t, "975.00", cell("valor_liquido_venda"))
	assert.Equal(t, "1000.00", cell("valor_bruto_venda_parcela"))
	assert.Equal(t, "2.500", cell("taxa_mdr"))
	assert.Equal(t, "2024-12-18", cell("data_lancamento"))
	assert.Equal(t, "14:30:25", cell("hora_transacao"))
	assert.Equal(t, "", cell("chave_ur"))
}

func TestCSVExportCustomDelimiter(t *testing.T) {
	doc := decodeSettlement(t)

	var buf bytes.Buffer
	err := NewCSVExporter(CSVOptions{Delimiter: ';'}).Export(doc, model.RecordURAgenda, &buf)
	require.NoError(t, err)

	header, _, _ := strings.Cut(buf.String(), "\n")
	assert.Contains(t, header, "tipo_registro;estabelecimento_submissor")
}

func TestCSVExportEmptyRecordTypeWritesNothing(t *testing.T) {
	doc := decodeSettlement(t)

	var buf bytes.Buffer
	err := NewCSVExporter(CSVOptions{}).Export(doc, model.RecordFinancialReserve, &buf)
	require.NoError(t, err)
	assert.Zero(t, buf.Len())
}

func TestCSVExportAll(t *testing.T) {
	doc := decodeSettlement(t)
	dir := t.TempDir()

	created, err := NewCSVExporter(CSVOptions{}).ExportAll(doc, dir)
	require.NoError(t, err)

	// only the record types present in the document produce files
	require.Len(t, created, 2)
	assert.Equal(t, filepath.Join(dir, "ur_agenda.csv"), created[model.RecordURAgenda])
	assert.Equal(t, filepath.Join(dir, "detalhes.csv"), created[model.RecordLaunchDetail])
	assert.NoFileExists(t, filepath.Join(dir, "pix.csv"))

	b, err := os.ReadFile(created[model.RecordLaunchDetail])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}), "expected UTF-8 BOM for Excel")
	assert.Contains(t, string(b), "975.00")
}

func TestCSVExportAllWithPrefix(t *testing.T) {
	doc := decodeSettlement(t)
	dir := t.TempDir()

	created, err := NewCSVExporter(CSVOptions{Prefix: "cielo04_"}).ExportAll(doc, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cielo04_ur_agenda.csv"), created[model.RecordURAgenda])
}
