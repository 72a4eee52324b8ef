// Package table implements a single-table, in-memory record store with O(1)
// primary-key lookup, on-demand secondary indexes for exact-match queries,
// and a linear-scan fallback for unindexed or substring queries.
//
// The engine is single-threaded: no operation locks, and index rebuilds are
// not safe under concurrent mutation. Callers that need concurrent access
// wrap the table in a Locked.
package table

import (
	"log"

	"github.com/EKolev/QuickbaseDemo/internal/bloom"
	"github.com/EKolev/QuickbaseDemo/internal/observability"
	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

// Record is a stored record: a unique primary key plus a mapping from column
// name to field value. The field set must match the table's declared physical
// columns exactly.
type Record struct {
	ID     uint64
	Fields map[string]types.FieldValue
}

// Clone returns a deep copy of the record. The store hands out clones so
// callers cannot mutate stored state through the shared field map.
func (r Record) Clone() Record {
	fields := make(map[string]types.FieldValue, len(r.Fields))
	for name, v := range r.Fields {
		fields[name] = v
	}
	return Record{ID: r.ID, Fields: fields}
}

// Field returns the named physical field of the record.
func (r Record) Field(name string) (types.FieldValue, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// bucketKey identifies one secondary-index bucket: the indexed column plus
// the field value all records in the bucket hold for it. FieldValue is
// comparable, so the pair keys a plain map.
type bucketKey struct {
	column string
	value  types.FieldValue
}

const (
	defaultFilterRows = 4096
	defaultFilterFPR  = 0.01
)

// Table is the record store plus its indexes. The backing row slice and the
// parallel deleted markers own the data; the primary-key index, the secondary
// buckets, and the scan filters are derived state, rebuilt wholesale by the
// operations that renumber slots (hard delete, compaction).
type Table struct {
	schema  *Schema
	rows    []Record
	deleted []bool

	// pk maps primary key to slot; holds an entry for a slot iff it is active.
	pk map[uint64]int

	// indexed is the set of secondary-indexed columns (never the primary key).
	indexed map[string]struct{}

	// buckets maps (column, value) to the ascending slots holding that value.
	buckets map[bucketKey][]int

	// filters holds one scan filter per physical column, consulted before
	// exact-match linear scans.
	filters map[string]*bloom.Filter

	stats      *observability.QueryStats
	filterRows int
	filterFPR  float64
}

// Option configures a Table.
type Option func(*Table)

// WithQueryStats attaches a query statistics tracker; every FindMatching call
// records the column and the route that served it.
func WithQueryStats(qs *observability.QueryStats) Option {
	return func(t *Table) { t.stats = qs }
}

// WithScanFilterEstimates sizes the per-column scan filters for the expected
// row count and target false positive rate.
func WithScanFilterEstimates(expectedRows int, fpr float64) Option {
	return func(t *Table) {
		if expectedRows > 0 {
			t.filterRows = expectedRows
		}
		if fpr > 0 && fpr < 1 {
			t.filterFPR = fpr
		}
	}
}

// New creates an empty table over the given schema. A nil schema means a
// table with no physical columns (primary key only).
func New(schema *Schema, opts ...Option) *Table {
	if schema == nil {
		schema = NewSchema()
	}
	t := &Table{
		schema:     schema,
		pk:         make(map[uint64]int),
		indexed:    make(map[string]struct{}),
		buckets:    make(map[bucketKey][]int),
		filters:    make(map[string]*bloom.Filter),
		filterRows: defaultFilterRows,
		filterFPR:  defaultFilterFPR,
	}
	for _, opt := range opts {
		opt(t)
	}
	for _, col := range schema.PhysicalColumns() {
		t.filters[col] = bloom.NewWithEstimates(t.filterRows, t.filterFPR)
	}
	return t
}

// Schema returns the table's schema.
func (t *Table) Schema() *Schema {
	return t.schema
}

// ActiveRecordCount returns the number of records not soft-deleted.
func (t *Table) ActiveRecordCount() int {
	count := 0
	for _, del := range t.deleted {
		if !del {
			count++
		}
	}
	return count
}

// TotalRecordCount returns the number of backing slots, including
// soft-deleted ones awaiting compaction.
func (t *Table) TotalRecordCount() int {
	return len(t.rows)
}

// AddColumn declares a new physical column and backfills every existing slot
// (soft-deleted ones included) with the default value. Returns false if the
// name is already taken.
func (t *Table) AddColumn(name string, def types.FieldValue) bool {
	if !t.schema.AddColumn(name, def) {
		return false
	}
	f := bloom.NewWithEstimates(t.filterRows, t.filterFPR)
	for s := range t.rows {
		t.rows[s].Fields[name] = def
		f.AddValue(def)
	}
	t.filters[name] = f
	return true
}

// RemoveColumn removes a physical column: its schema declaration, any index
// over it, its scan filter, its query statistics, and the field from every
// stored record. No-op if the name is not a physical column.
func (t *Table) RemoveColumn(name string) {
	if !t.schema.RemoveColumn(name) {
		return
	}
	t.DropIndex(name)
	for s := range t.rows {
		delete(t.rows[s].Fields, name)
	}
	delete(t.filters, name)
	if t.stats != nil {
		t.stats.Forget(name)
	}
}

// AddDerivedColumn declares a derived column computing kind-typed values from
// a record's physical fields. Derived columns are not stored; they are
// evaluated on demand during scans and materialized into secondary indexes at
// build time only. Returns false on a name conflict or nil function.
func (t *Table) AddDerivedColumn(name string, kind types.Kind, fn DerivedFunc) bool {
	return t.schema.AddDerived(name, kind, fn)
}

// fieldAt resolves a column's value for a slot: the primary key, a stored
// physical field, or a computed derived value.
func (t *Table) fieldAt(slot int, column string) (types.FieldValue, bool) {
	if column == PrimaryKeyColumn {
		return types.Uint(t.rows[slot].ID), true
	}
	if v, ok := t.rows[slot].Fields[column]; ok {
		return v, true
	}
	if col, ok := t.schema.derived[column]; ok {
		return col.fn(t.rows[slot]), true
	}
	return types.FieldValue{}, false
}

func (t *Table) recordStat(column string, route observability.Route) {
	if t.stats != nil {
		t.stats.Record(column, route)
	}
}

// logf keeps the engine's log lines under one prefix.
func logf(format string, args ...interface{}) {
	log.Printf("table: "+format, args...)
}
