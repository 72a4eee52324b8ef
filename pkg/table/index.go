package table

import (
	"fmt"
	"sort"

	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

// CreateIndex builds a secondary index over a column, physical or derived.
// No-op if the column is the primary key or already indexed. Indexing an
// unknown column is a programming error and fails loudly with
// types.ErrUnknownColumn.
//
// Note the user-visible semantics change for text columns: an unindexed text
// column matches by substring during scans, while an indexed one matches the
// whole value exactly.
func (t *Table) CreateIndex(column string) error {
	if column == PrimaryKeyColumn {
		return nil
	}
	if _, ok := t.indexed[column]; ok {
		return nil
	}
	if !t.schema.HasColumn(column) {
		return fmt.Errorf("create index on %q: %w", column, types.ErrUnknownColumn)
	}

	t.indexed[column] = struct{}{}
	t.rebuildSecondaryIndex(column)
	logf("created index on %q (%d active records)", column, t.ActiveRecordCount())
	return nil
}

// DropIndex discards a column's secondary index, freeing its buckets.
// Idempotent; no-op on the primary key.
func (t *Table) DropIndex(column string) {
	if column == PrimaryKeyColumn {
		return
	}
	if _, ok := t.indexed[column]; !ok {
		return
	}
	delete(t.indexed, column)
	t.removeSecondaryEntries(column)
	logf("dropped index on %q", column)
}

// IsColumnIndexed reports whether queries on the column are served by an
// index. Always true for the primary key.
func (t *Table) IsColumnIndexed(column string) bool {
	if column == PrimaryKeyColumn {
		return true
	}
	_, ok := t.indexed[column]
	return ok
}

// IndexedColumns returns the secondary-indexed column names in sorted order.
// The primary key is implicit and not listed.
func (t *Table) IndexedColumns() []string {
	names := make([]string, 0, len(t.indexed))
	for name := range t.indexed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// rebuildPrimaryIndex rescans the store and maps each active record's key to
// its slot, last write wins. Used after any operation that renumbers slots.
func (t *Table) rebuildPrimaryIndex() {
	clear(t.pk)
	for s := range t.rows {
		if !t.deleted[s] {
			t.pk[t.rows[s].ID] = s
		}
	}
}

// rebuildSecondaryIndex discards a column's entries and rebuilds them from
// every active slot in ascending order, so bucket iteration stays
// deterministic.
func (t *Table) rebuildSecondaryIndex(column string) {
	t.removeSecondaryEntries(column)
	for s := range t.rows {
		if t.deleted[s] {
			continue
		}
		if v, ok := t.fieldAt(s, column); ok {
			key := bucketKey{column: column, value: v}
			t.buckets[key] = append(t.buckets[key], s)
		}
	}
}

// rebuildAllSecondaryIndexes discards every bucket and rebuilds each indexed
// column. Invoked by the bulk operations (hard delete, compaction) whose slot
// renumbering makes incremental maintenance unsafe.
func (t *Table) rebuildAllSecondaryIndexes() {
	clear(t.buckets)
	for column := range t.indexed {
		t.rebuildSecondaryIndex(column)
	}
}

// removeSecondaryEntries drops every bucket keyed by the column.
func (t *Table) removeSecondaryEntries(column string) {
	for key := range t.buckets {
		if key.column == column {
			delete(t.buckets, key)
		}
	}
}
