package edi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhamerski/cielo-edi/internal/export"
	"github.com/jhamerski/cielo-edi/internal/model"
	"github.com/jhamerski/cielo-edi/internal/parser"
	"github.com/jhamerski/cielo-edi/internal/testutil"
)

func TestNewServiceRejectsInvalidConfig(t *testing.T) {
	_, err := NewService(parser.Config{Encoding: "ebcdic"})
	assert.Error(t, err)
}

func TestServiceDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CIELO04_20241218.txt")
	require.NoError(t, os.WriteFile(path, []byte(testutil.SettlementFile()), 0o644))

	svc, err := NewService(parser.Config{Encoding: parser.EncodingUTF8})
	require.NoError(t, err)

	doc, err := svc.DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, model.FileCielo04, doc.FileType)
	assert.Len(t, doc.Details, 2)
}

func TestServiceDecodeFileMissing(t *testing.T) {
	svc, err := NewService(parser.Config{})
	require.NoError(t, err)

	_, err = svc.DecodeFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestServiceStream(t *testing.T) {
	svc, err := NewService(parser.Config{Encoding: parser.EncodingUTF8})
	require.NoError(t, err)

	s := svc.Stream(strings.NewReader(testutil.SettlementFile()))
	rec, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, model.RecordURAgenda, rec.Type)
}

func TestServiceExportRoundTrip(t *testing.T) {
	svc, err := NewService(parser.Config{Encoding: parser.EncodingUTF8})
	require.NoError(t, err)

	doc, err := svc.Decode(strings.NewReader(testutil.SettlementFile()))
	require.NoError(t, err)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "extract.json")
	require.NoError(t, svc.ExportJSON(doc, jsonPath, export.DefaultJSONOptions()))

	b, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tipo_arquivo": "04"`)

	created, err := svc.ExportCSV(doc, filepath.Join(dir, "csv"), export.CSVOptions{})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.FileExists(t, created[model.RecordURAgenda])
}
