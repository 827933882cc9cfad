// Package stats derives summary statistics from decoded EDI records.
//
// Accumulation is a pure fold over the record sequence: counts, exact
// decimal gross/net sums and min/max settlement dates. Because the sums use
// exact fixed-point arithmetic, the result is independent of accumulation
// order; a batch pass and an incremental streaming pass over the same
// records produce identical statistics.
package stats

import (
	"fmt"

	"github.com/jhamerski/cielo-edi/internal/model"
	"github.com/jhamerski/cielo-edi/internal/schema"
)

// Accumulator folds decoded records into a running Statistics value.
//
// An accumulator is owned by a single decode and is not safe for concurrent
// use; the pipeline is single-threaded by design.
type Accumulator struct {
	s model.Statistics
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{s: model.Statistics{Counts: make(map[model.RecordType]int)}}
}

// AddLine counts one consumed physical input line.
func (a *Accumulator) AddLine() {
	a.s.TotalLines++
}

// AddRecord folds one decoded record. The schema supplies which fields, if
// any, feed the gross/net sums and the settlement date bounds.
func (a *Accumulator) AddRecord(rec *model.DecodedRecord, sch *schema.Schema) {
	a.s.Counts[rec.Type]++

	if sch.GrossField != "" {
		if v, ok := rec.Get(sch.GrossField); ok && v.Kind == model.ValueDecimal {
			a.s.GrossTotal = a.s.GrossTotal.Add(v.Dec)
		}
	}
	if sch.NetField != "" {
		if v, ok := rec.Get(sch.NetField); ok && v.Kind == model.ValueDecimal {
			a.s.NetTotal = a.s.NetTotal.Add(v.Dec)
		}
	}
	if sch.SettlementField != "" {
		if d, ok := rec.Date(sch.SettlementField); ok {
			if a.s.FirstSettlement.IsZero() || d.Before(a.s.FirstSettlement) {
				a.s.FirstSettlement = d
			}
			if a.s.LastSettlement.IsZero() || d.After(a.s.LastSettlement) {
				a.s.LastSettlement = d
			}
		}
	}
}

// Snapshot returns a copy of the current statistics. The counts map is
// cloned so the snapshot stays stable if accumulation continues.
func (a *Accumulator) Snapshot() model.Statistics {
	out := a.s
	out.Counts = make(map[model.RecordType]int, len(a.s.Counts))
	for k, v := range a.s.Counts {
		out.Counts[k] = v
	}
	return out
}

// Aggregate recomputes statistics from a complete detail sequence. It is the
// batch form of the accumulator and exists so statistics stay re-derivable
// from the document alone; it never reads the source file.
//
// TotalLines is not derivable from the detail sequence and is left zero.
func Aggregate(reg *schema.Registry, ft model.FileType, details []*model.DecodedRecord) (model.Statistics, error) {
	acc := NewAccumulator()
	for _, rec := range details {
		sch, err := reg.Resolve(ft, rec.Type)
		if err != nil {
			return model.Statistics{}, fmt.Errorf("aggregate: record at line %d: %w", rec.Line, err)
		}
		acc.AddRecord(rec, sch)
	}
	return acc.Snapshot(), nil
}
