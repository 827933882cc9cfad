/*
Package main implements a command-line decoder for Cielo EDI settlement
extracts.

The tool reads a fixed-width extract file, decodes it against the built-in
record layouts for the supported file types (CIELO03, CIELO04, CIELO09,
CIELO15 and CIELO16), and writes the result as a single JSON document or as
one CSV file per detail record type.

Usage:

	go run main.go -input=CIELO03_20240115.txt -format=json -output=extract.json
	go run main.go -input=CIELO04_20240115.txt -format=csv -dir=out/ -delimiter=';'

With -info the tool decodes the file and prints only the file type and the
aggregate statistics, without exporting anything.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jhamerski/cielo-edi/internal/domain"
	"github.com/jhamerski/cielo-edi/internal/edi"
	"github.com/jhamerski/cielo-edi/internal/export"
	"github.com/jhamerski/cielo-edi/internal/model"
	"github.com/jhamerski/cielo-edi/internal/parser"
)

// Command-line flags for configuring the decoder behavior
var (
	// input is the path of the extract file to decode
	input = flag.String("input", "", "Path of the EDI extract file")
	// format selects the export format
	format = flag.String("format", "json", "Export format: json or csv")
	// output is the JSON output path (json format only)
	output = flag.String("output", "extract.json", "JSON output file path")
	// dir is the CSV output directory (csv format only)
	dir = flag.String("dir", "out", "CSV output directory")
	// delimiter separates CSV fields
	delimiter = flag.String("delimiter", ",", "CSV field delimiter")
	// indent is the JSON indentation width in spaces
	indent = flag.Int("indent", 2, "JSON indentation (0 for minified)")
	// encoding is the declared source text encoding
	encoding = flag.String("encoding", parser.EncodingLatin1, "Source encoding: latin1, windows1252 or utf8")
	// skipUnknown downgrades unknown record types from fatal to skip-and-log
	skipUnknown = flag.Bool("skip-unknown", false, "Skip unknown record types instead of failing")
	// info decodes and prints statistics without exporting
	info = flag.Bool("info", false, "Print file type and statistics only")
)

func main() {
	flag.Parse()

	// Initialize structured logger with timestamp and info level
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if *input == "" {
		log.Fatal().Msg("missing required -input flag")
	}
	if *format != "json" && *format != "csv" {
		log.Fatal().Str("format", *format).Msg("unsupported format")
	}
	delim := []rune(*delimiter)
	if len(delim) != 1 {
		log.Fatal().Str("delimiter", *delimiter).Msg("delimiter must be a single character")
	}

	svc, err := edi.NewService(parser.Config{
		Encoding:           *encoding,
		SkipUnknownRecords: *skipUnknown,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create service")
	}

	doc, err := svc.DecodeFile(*input)
	if err != nil {
		log.Fatal().Err(err).Str("input", *input).Msg("failed to decode extract")
	}

	if *info {
		fmt.Printf("arquivo:     %s\n", doc.FileType)
		fmt.Printf("descricao:   %s\n", domain.Describe(domain.FileTypes, string(doc.FileType)))
		fmt.Printf("linhas:      %d\n", doc.Stats.TotalLines)
		fmt.Printf("registros:   %d\n", len(doc.Details))
		fmt.Printf("valor bruto: %s\n", model.DecimalText(doc.Stats.GrossTotal))
		fmt.Printf("valor liq.:  %s\n", model.DecimalText(doc.Stats.NetTotal))
		return
	}

	switch *format {
	case "json":
		opts := export.JSONOptions{Indent: *indent, IncludeDescriptions: true}
		if err := svc.ExportJSON(doc, *output, opts); err != nil {
			log.Fatal().Err(err).Msg("failed to export json")
		}
	case "csv":
		opts := export.CSVOptions{Delimiter: delim[0]}
		if _, err := svc.ExportCSV(doc, *dir, opts); err != nil {
			log.Fatal().Err(err).Msg("failed to export csv")
		}
	}
}
