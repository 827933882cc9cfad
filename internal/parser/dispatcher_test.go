package parser

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhamerski/cielo-edi/internal/model"
	"github.com/jhamerski/cielo-edi/internal/testutil"
)

func newTestDecoder(t *testing.T, cfg Config) *Decoder {
	t.Helper()
	if cfg.Encoding == "" {
		cfg.Encoding = EncodingUTF8
	}
	d, err := NewDecoder(nil, cfg)
	require.NoError(t, err)
	return d
}

func TestNewDecoderRejectsUnknownEncoding(t *testing.T) {
	_, err := NewDecoder(nil, Config{Encoding: "utf16"})
	assert.Error(t, err)
}

func TestNewDecoderDefaultsToLatin1(t *testing.T) {
	d, err := NewDecoder(nil, Config{})
	require.NoError(t, err)
	assert.Equal(t, EncodingLatin1, d.cfg.Encoding)
}

func TestDecodeSettlementFile(t *testing.T) {
	d := newTestDecoder(t, Config{})

	doc, err := d.Decode(strings.NewReader(testutil.SettlementFile()))
	require.NoError(t, err)

	assert.Equal(t, model.FileCielo04, doc.FileType)
	require.NotNil(t, doc.Header)
	require.NotNil(t, doc.Trailer)
	require.Len(t, doc.Details, 2)
	assert.Equal(t, model.RecordURAgenda, doc.Details[0].Type)
	assert.Equal(t, model.RecordLaunchDetail, doc.Details[1].Type)

	// detail records keep their input line numbers
	assert.Equal(t, 2, doc.Details[0].Line)
	assert.Equal(t, 3, doc.Details[1].Line)

	assert.Equal(t, 4, doc.Stats.TotalLines)
	assert.Equal(t, 1, doc.Stats.Count(model.RecordURAgenda))
	assert.Equal(t, 1, doc.Stats.Count(model.RecordLaunchDetail))
	assert.True(t, doc.Stats.GrossTotal.Equal(decimal.RequireFromString("2000.00")),
		"gross total %s", doc.Stats.GrossTotal)
	assert.True(t, doc.Stats.NetTotal.Equal(decimal.RequireFromString("1950.00")),
		"net total %s", doc.Stats.NetTotal)
	assert.Equal(t, "2024-12-18", doc.Stats.FirstSettlement.Format("2006-01-02"))
	assert.Equal(t, "2024-12-18", doc.Stats.LastSettlement.Format("2006-01-02"))

	// exporters rely on schema-order columns per record type
	assert.Equal(t, "tipo_registro", doc.FieldOrder[model.RecordURAgenda][0])
	assert.Contains(t, doc.FieldOrder[model.RecordLaunchDetail], "valor_liquido_venda")
}

func TestDecodeSingleDetailExactNetValue(t *testing.T) {
	d := newTestDecoder(t, Config{})

	// net value 123.45 under the implied 2-decimal scale
	detail := testutil.Overwrite(testutil.LaunchDetailLine(), 276, "0000000012345")
	doc, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("04"),
		detail,
		testutil.TrailerLine(),
	)))
	require.NoError(t, err)

	require.Len(t, doc.Details, 1)
	net := doc.Details[0].Decimal("valor_liquido_venda")
	assert.Equal(t, "123.45", net.String())
	assert.Equal(t, "123.45", doc.Stats.NetTotal.String())
}

func TestDecodeMinimalFile(t *testing.T) {
	d := newTestDecoder(t, Config{})

	doc, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("04"),
		testutil.TrailerLine(),
	)))
	require.NoError(t, err)

	assert.Empty(t, doc.Details)
	assert.True(t, doc.Stats.GrossTotal.IsZero())
	assert.True(t, doc.Stats.FirstSettlement.IsZero())
}

func TestDecodeNegotiationFile(t *testing.T) {
	d := newTestDecoder(t, Config{})

	doc, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("15"),
		testutil.NegotiationSummaryLine(),
		testutil.NegotiationDetailLine(),
		testutil.ReceivableAccountLine(),
		testutil.FinancialReserveLine(),
		testutil.TrailerLine(),
	)))
	require.NoError(t, err)

	assert.Equal(t, model.FileCielo15, doc.FileType)
	require.Len(t, doc.Details, 4)

	// only the negotiation records carry gross/net amounts
	assert.True(t, doc.Stats.GrossTotal.Equal(decimal.RequireFromString("15000.00")),
		"gross total %s", doc.Stats.GrossTotal)
	assert.True(t, doc.Stats.NetTotal.Equal(decimal.RequireFromString("14475.00")),
		"net total %s", doc.Stats.NetTotal)
	assert.Equal(t, "2024-12-18", doc.Stats.FirstSettlement.Format("2006-01-02"))
	assert.Equal(t, "2024-12-20", doc.Stats.LastSettlement.Format("2006-01-02"))
}

func TestDecodePixFile(t *testing.T) {
	d := newTestDecoder(t, Config{})

	doc, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("16"),
		testutil.PixLine(),
		testutil.TrailerLine(),
	)))
	require.NoError(t, err)

	assert.Equal(t, model.FileCielo16, doc.FileType)
	require.Len(t, doc.Details, 1)
	pix := doc.Details[0]
	assert.Equal(t, "123e4567e89b12d3a456426614174000abcd", pix.Text("id_pix"))
	assert.True(t, pix.Decimal("valor_liquido").Equal(decimal.RequireFromString("490.00")))
}

func TestDecodeSkipsBlankLinesAndCarriageReturns(t *testing.T) {
	d := newTestDecoder(t, Config{})

	body := testutil.HeaderLine("04") + "\r\n" +
		"\r\n" +
		testutil.URAgendaLine() + "\r\n" +
		testutil.TrailerLine() + "\r\n"

	doc, err := d.Decode(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, doc.Details, 1)
	assert.Equal(t, 4, doc.Stats.TotalLines)
}

func TestDecodeFirstLineNotHeader(t *testing.T) {
	d := newTestDecoder(t, Config{})

	_, err := d.Decode(strings.NewReader(testutil.File(
		testutil.URAgendaLine(),
		testutil.TrailerLine(),
	)))

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 1, recErr.Line)
	assert.ErrorIs(t, err, ErrUnrecognizedFile)
}

func TestDecodeMalformedHeader(t *testing.T) {
	d := newTestDecoder(t, Config{})

	line := testutil.Overwrite(testutil.HeaderLine("04"), 12, "18I22024")
	_, err := d.Decode(strings.NewReader(testutil.File(line, testutil.TrailerLine())))

	assert.ErrorIs(t, err, ErrUnrecognizedFile)
}

func TestDecodeUnknownExtractOption(t *testing.T) {
	d := newTestDecoder(t, Config{})

	_, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("77"),
		testutil.TrailerLine(),
	)))

	assert.ErrorIs(t, err, ErrUnrecognizedFile)
	assert.Contains(t, err.Error(), "77")
}

func TestDecodeEmptyInput(t *testing.T) {
	d := newTestDecoder(t, Config{})

	_, err := d.Decode(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnrecognizedFile)
}

func TestDecodeMissingTrailer(t *testing.T) {
	d := newTestDecoder(t, Config{})

	_, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("04"),
		testutil.URAgendaLine(),
	)))

	assert.ErrorIs(t, err, ErrMissingTrailer)
}

func TestDecodeDuplicateHeader(t *testing.T) {
	d := newTestDecoder(t, Config{})

	_, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("04"),
		testutil.HeaderLine("04"),
		testutil.TrailerLine(),
	)))

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 2, recErr.Line)
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestDecodeDuplicateTrailer(t *testing.T) {
	d := newTestDecoder(t, Config{})

	_, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("04"),
		testutil.TrailerLine(),
		testutil.TrailerLine(),
	)))

	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestDecodeContentAfterTrailer(t *testing.T) {
	d := newTestDecoder(t, Config{})

	_, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("04"),
		testutil.TrailerLine(),
		testutil.URAgendaLine(),
	)))

	assert.ErrorIs(t, err, ErrTrailingContent)
}

func TestDecodeUnknownRecordTypeIsFatalByDefault(t *testing.T) {
	d := newTestDecoder(t, Config{})

	// a Pix record is not part of the capture extract's layout subset
	_, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("03"),
		testutil.PixLine(),
		testutil.TrailerLine(),
	)))

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 2, recErr.Line)
	assert.ErrorIs(t, err, ErrUnknownRecordType)
}

func TestDecodeSkipUnknownRecords(t *testing.T) {
	d := newTestDecoder(t, Config{SkipUnknownRecords: true})

	doc, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("03"),
		testutil.PixLine(),
		testutil.URAgendaLine(),
		testutil.TrailerLine(),
	)))
	require.NoError(t, err)

	require.Len(t, doc.Skipped, 1)
	assert.Equal(t, 2, doc.Skipped[0].Line)
	assert.Equal(t, "8", doc.Skipped[0].Type)
	require.Len(t, doc.Details, 1)
	assert.Equal(t, model.RecordURAgenda, doc.Details[0].Type)

	// skipped lines never feed the statistics
	assert.True(t, doc.Stats.GrossTotal.Equal(decimal.RequireFromString("1000.00")))
}

func TestDecodeCollectsAllLineErrors(t *testing.T) {
	d := newTestDecoder(t, Config{})

	badAgenda := testutil.Overwrite(testutil.URAgendaLine(), 73, "00000000XY000")
	badDetail := testutil.Overwrite(testutil.LaunchDetailLine(), 232, "0X500")

	_, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("04"),
		badAgenda,
		badDetail,
		testutil.TrailerLine(),
	)))

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Len(t, decErr.Lines, 2)

	var lineErr *LineError
	require.ErrorAs(t, decErr.Lines[0], &lineErr)
	assert.Equal(t, 2, lineErr.Line)
	assert.Equal(t, model.RecordURAgenda, lineErr.Record)
	require.ErrorAs(t, decErr.Lines[1], &lineErr)
	assert.Equal(t, 3, lineErr.Line)
}

func TestDecodeLineLengthMismatchIsCollected(t *testing.T) {
	d := newTestDecoder(t, Config{})

	short := testutil.URAgendaLine()[:250]
	_, err := d.Decode(strings.NewReader(testutil.File(
		testutil.HeaderLine("04"),
		short,
		testutil.TrailerLine(),
	)))

	var lenErr *LineLengthError
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, 400, lenErr.Expected)
	assert.Equal(t, 250, lenErr.Actual)
}

func TestDecodeLatin1Transcoding(t *testing.T) {
	d := newTestDecoder(t, Config{Encoding: EncodingLatin1})

	// 0xE7 0xE3 is "çã" in Latin-1; place it in the free-text mailbox field
	header := []byte(testutil.HeaderLine("04"))
	header[50] = 0xE7
	header[51] = 0xE3
	body := string(header) + "\n" + testutil.TrailerLine()

	doc, err := d.Decode(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "çã", doc.Header.Text("caixa_postal"))
}

func TestDecodeInvalidBytesForDeclaredEncoding(t *testing.T) {
	d := newTestDecoder(t, Config{Encoding: EncodingUTF8})

	header := []byte(testutil.HeaderLine("04"))
	header[50] = 0xE7 // bare Latin-1 byte, invalid as UTF-8
	body := string(header) + "\n" + testutil.TrailerLine()

	_, err := d.Decode(strings.NewReader(body))
	assert.ErrorIs(t, err, ErrEncoding)
}
