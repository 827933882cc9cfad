package schema

import (
	"errors"
	"fmt"

	"github.com/jhamerski/cielo-edi/internal/model"
)

// ErrSchemaNotFound indicates that no layout exists for a (file type, record
// type) pair: either the discriminator is unknown entirely or the record
// type is not part of the file type's valid subset.
var ErrSchemaNotFound = errors.New("schema not found")

// FieldDescriptor describes one fixed-width field of a record layout.
//
// Offsets are 0-based and lengths are in bytes of the single-byte source
// encoding. Descriptors never overlap; gaps between them are reserved filler
// of the physical layout.
type FieldDescriptor struct {
	Name       string
	Start      int
	Len        int
	Kind       Kind
	Scale      int32 // implied decimal places, KindDecimal only
	DateLayout DateLayout
	Required   bool
}

// Schema is the ordered field list of one record layout plus the metadata the
// rest of the pipeline needs: the expected physical line length and the field
// names the statistics aggregator folds over.
type Schema struct {
	Record  model.RecordType
	LineLen int
	Fields  []FieldDescriptor

	// GrossField and NetField name the monetary fields summed into the
	// document statistics; empty for record types without a gross/net pair.
	GrossField string
	NetField   string

	// SettlementField names the date field tracked as the settlement date
	// bound; empty for record types without one.
	SettlementField string

	names []string // built at package init, read-only afterwards
}

// FieldNames returns the field names in layout order. The returned slice is
// shared and must not be mutated.
func (s *Schema) FieldNames() []string {
	return s.names
}

// Registry resolves record layouts per file type.
//
// A registry is immutable after construction and safe to share across
// concurrent decodes; decoders only ever read from it.
type Registry struct {
	schemas map[model.RecordType]*Schema
	allowed map[model.FileType]map[model.RecordType]bool
}

// NewRegistry builds the registry from the built-in layout tables.
func NewRegistry() *Registry {
	r := &Registry{
		schemas: make(map[model.RecordType]*Schema, len(layouts)),
		allowed: make(map[model.FileType]map[model.RecordType]bool, len(recordTypesByFile)),
	}
	for _, s := range layouts {
		r.schemas[s.Record] = s
	}
	for ft, types := range recordTypesByFile {
		set := make(map[model.RecordType]bool, len(types))
		for _, rt := range types {
			set[rt] = true
		}
		r.allowed[ft] = set
	}
	return r
}

// Header returns the header record schema, which is shared by every file type
// and must be resolvable before the file type is known.
func (r *Registry) Header() *Schema {
	return r.schemas[model.RecordHeader]
}

// Resolve returns the schema for a record type under the given file type, or
// ErrSchemaNotFound when the record type does not belong to the file type's
// valid subset.
func (r *Registry) Resolve(ft model.FileType, rt model.RecordType) (*Schema, error) {
	if !r.allowed[ft][rt] {
		return nil, fmt.Errorf("%w: record type %q is not valid for %s", ErrSchemaNotFound, string(rune(rt)), ft)
	}
	s, ok := r.schemas[rt]
	if !ok {
		return nil, fmt.Errorf("%w: no layout for record type %q", ErrSchemaNotFound, string(rune(rt)))
	}
	return s, nil
}

// RecordTypes returns the record types valid for a file type, including the
// header and trailer envelope records.
func (r *Registry) RecordTypes(ft model.FileType) []model.RecordType {
	return recordTypesByFile[ft]
}
