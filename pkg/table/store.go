package table

import (
	"fmt"

	"github.com/EKolev/QuickbaseDemo/internal/bloom"
	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

// AddRecord appends a record and returns its slot. The record's field set
// must match the declared physical columns exactly, and its primary key must
// not be held by an active record; on either failure nothing is mutated.
// Every currently indexed column (derived ones included) gets the new slot
// appended to its bucket, keeping buckets slot-ascending without a rebuild.
func (t *Table) AddRecord(rec Record) (int, error) {
	if err := t.schema.Validate(rec.Fields); err != nil {
		return 0, fmt.Errorf("add record %d: %w", rec.ID, err)
	}
	if _, ok := t.pk[rec.ID]; ok {
		return 0, fmt.Errorf("add record %d: %w", rec.ID, types.ErrDuplicateKey)
	}

	slot := len(t.rows)
	t.rows = append(t.rows, rec.Clone())
	t.deleted = append(t.deleted, false)
	t.pk[rec.ID] = slot

	for col := range t.indexed {
		if v, ok := t.fieldAt(slot, col); ok {
			key := bucketKey{column: col, value: v}
			t.buckets[key] = append(t.buckets[key], slot)
		}
	}
	for col, f := range t.filters {
		if v, ok := t.fieldAt(slot, col); ok {
			f.AddValue(v)
		}
	}
	return slot, nil
}

// DeleteRecordByID deletes the record holding the given primary key.
//
// Soft delete (hardDelete false) marks the slot deleted and removes it from
// the primary-key index and from every secondary-index bucket, pruning
// buckets that become empty; the record's bytes stay in place until
// compaction. Returns false if the key does not resolve to an active record.
//
// Hard delete swaps the target slot with the last slot, shrinks the store by
// one, and rebuilds every index from scratch, since the swap renumbers
// whichever record held the last slot. The key is resolved through the full
// store rather than the primary-key index, so hard-deleting a key that was
// already soft-deleted still succeeds and reclaims the slot.
func (t *Table) DeleteRecordByID(id uint64, hardDelete bool) bool {
	if !hardDelete {
		slot, ok := t.pk[id]
		if !ok {
			return false
		}
		t.deleted[slot] = true
		delete(t.pk, id)
		t.removeSlotFromBuckets(slot)
		return true
	}

	slot, ok := t.pk[id]
	if !ok {
		// Soft-deleted records no longer resolve through the index; scan the
		// store so the slot can still be reclaimed.
		slot = -1
		for s := range t.rows {
			if t.rows[s].ID == id {
				slot = s
				break
			}
		}
		if slot < 0 {
			return false
		}
	}

	last := len(t.rows) - 1
	if slot != last {
		t.rows[slot], t.rows[last] = t.rows[last], t.rows[slot]
		t.deleted[slot], t.deleted[last] = t.deleted[last], t.deleted[slot]
	}
	t.rows = t.rows[:last]
	t.deleted = t.deleted[:last]

	t.rebuildPrimaryIndex()
	t.rebuildAllSecondaryIndexes()
	return true
}

// removeSlotFromBuckets removes one slot from every secondary-index bucket
// containing it and prunes buckets that become empty, keeping index memory
// proportional to live data.
func (t *Table) removeSlotFromBuckets(slot int) {
	for key, slots := range t.buckets {
		kept := slots[:0]
		for _, s := range slots {
			if s != slot {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(t.buckets, key)
		} else {
			t.buckets[key] = kept
		}
	}
}

// CompactRecords reclaims all soft-deleted slots: active records are kept in
// their original relative order, the deleted markers reset, and every index
// and scan filter is rebuilt against the new slot numbering. Calling it again
// immediately is a no-op.
func (t *Table) CompactRecords() {
	before := len(t.rows)
	kept := make([]Record, 0, t.ActiveRecordCount())
	for s := range t.rows {
		if !t.deleted[s] {
			kept = append(kept, t.rows[s])
		}
	}
	t.rows = kept
	t.deleted = make([]bool, len(kept))

	t.rebuildPrimaryIndex()
	t.rebuildAllSecondaryIndexes()
	t.rebuildScanFilters()

	if reclaimed := before - len(kept); reclaimed > 0 {
		logf("compacted %d -> %d records (%d slots reclaimed)", before, len(kept), reclaimed)
	}
}

// rebuildScanFilters resizes each physical column's scan filter to the live
// row count and refeeds it. Filters only ever grow stale toward false
// positives, so this is the one point where deleted values leave them.
func (t *Table) rebuildScanFilters() {
	expected := len(t.rows)
	if expected < t.filterRows {
		expected = t.filterRows
	}
	for _, col := range t.schema.PhysicalColumns() {
		f := bloom.NewWithEstimates(expected, t.filterFPR)
		for s := range t.rows {
			if t.deleted[s] {
				continue
			}
			if v, ok := t.fieldAt(s, col); ok {
				f.AddValue(v)
			}
		}
		t.filters[col] = f
	}
}
