package table

import (
	"strings"

	"github.com/EKolev/QuickbaseDemo/internal/observability"
	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

// FindMatching returns the active records whose column matches the given
// text, routed through the cheapest applicable path:
//
//  1. Primary key: the text is parsed as an unsigned integer and looked up in
//     the primary-key index. Malformed text is "no match", not an error, and
//     no substring matching applies.
//  2. Indexed column: the text is parsed into the column's kind (text columns
//     take it verbatim as an exact-match key) and the bucket is returned in
//     slot order. Indexing a text column therefore trades away the substring
//     semantics the unindexed scan offers.
//  3. Unindexed column: a linear scan over active records. Text columns match
//     by substring containment; numeric columns by exact value, where a parse
//     failure aborts the scan with an empty result.
//
// Unknown columns yield an empty result. Returned records are clones.
func (t *Table) FindMatching(column, matchText string) []Record {
	if column == PrimaryKeyColumn {
		t.recordStat(column, observability.RoutePrimary)
		key, ok := types.ParseAs(types.KindUint, matchText)
		if !ok {
			return nil
		}
		slot, ok := t.pk[key.Uint()]
		if !ok {
			return nil
		}
		return []Record{t.rows[slot].Clone()}
	}

	kind, ok := t.schema.KindOf(column)
	if !ok {
		// Unknown column is a data condition for queries: empty, not an error.
		return nil
	}

	if _, indexed := t.indexed[column]; indexed {
		t.recordStat(column, observability.RouteIndex)
		value, ok := types.ParseAs(kind, matchText)
		if !ok {
			return nil
		}
		var result []Record
		for _, slot := range t.buckets[bucketKey{column: column, value: value}] {
			if !t.deleted[slot] {
				result = append(result, t.rows[slot].Clone())
			}
		}
		return result
	}

	t.recordStat(column, observability.RouteScan)
	return t.linearScan(column, kind, matchText)
}

// linearScan is the fallback for unindexed columns, guaranteeing every
// column stays queryable at O(active records) cost. Exact-match scans over
// physical columns consult the column's scan filter first and skip the pass
// entirely when the value was never stored.
func (t *Table) linearScan(column string, kind types.Kind, matchText string) []Record {
	if kind == types.KindText {
		var result []Record
		for s := range t.rows {
			if t.deleted[s] {
				continue
			}
			if v, ok := t.fieldAt(s, column); ok && strings.Contains(v.Text(), matchText) {
				result = append(result, t.rows[s].Clone())
			}
		}
		return result
	}

	value, ok := types.ParseAs(kind, matchText)
	if !ok {
		return nil
	}
	if f := t.filters[column]; f != nil && !f.MightContain(value) {
		return nil
	}

	var result []Record
	for s := range t.rows {
		if t.deleted[s] {
			continue
		}
		if v, ok := t.fieldAt(s, column); ok && v == value {
			result = append(result, t.rows[s].Clone())
		}
	}
	return result
}
