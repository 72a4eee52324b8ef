package table

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

func propertyTable(ids []uint64) *Table {
	s := NewSchema()
	s.AddColumn(Column1, types.Text(""))
	s.AddColumn(Column2, types.Int(0))
	s.AddColumn(Column3, types.Text(""))
	tbl := New(s)
	for _, id := range ids {
		// Duplicate ids in the generated slice are rejected; the properties
		// rely on that.
		_, _ = tbl.AddRecord(testRecord("prop", id))
	}
	return tbl
}

func TestTableProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	idsGen := gen.SliceOf(gen.UInt64Range(0, 500))

	properties.Property("primary key lookup returns at most one record", prop.ForAll(
		func(ids []uint64, probe uint64) bool {
			tbl := propertyTable(ids)
			return len(tbl.FindMatching(PrimaryKeyColumn, fmt.Sprintf("%d", probe))) <= 1
		},
		idsGen,
		gen.UInt64Range(0, 600),
	))

	properties.Property("index and scan agree on numeric exact match", prop.ForAll(
		func(ids []uint64, probe int64) bool {
			tbl := propertyTable(ids)
			query := fmt.Sprintf("%d", probe)

			scanned := tbl.FindMatching(Column2, query)
			if err := tbl.CreateIndex(Column2); err != nil {
				return false
			}
			indexed := tbl.FindMatching(Column2, query)

			if len(scanned) != len(indexed) {
				return false
			}
			for i := range scanned {
				if scanned[i].ID != indexed[i].ID {
					return false
				}
			}
			return true
		},
		idsGen,
		gen.Int64Range(0, 120),
	))

	properties.Property("soft-deleted keys never surface in query results", prop.ForAll(
		func(ids []uint64) bool {
			if len(ids) == 0 {
				return true
			}
			tbl := propertyTable(ids)
			victim := ids[0]
			if !tbl.DeleteRecordByID(victim, false) {
				return false
			}
			if len(tbl.FindMatching(PrimaryKeyColumn, fmt.Sprintf("%d", victim))) != 0 {
				return false
			}
			for _, rec := range tbl.FindMatching(Column1, "prop") {
				if rec.ID == victim {
					return false
				}
			}
			return true
		},
		idsGen.SuchThat(func(ids []uint64) bool { return len(ids) > 0 }),
	))

	properties.Property("compaction preserves the active record set", prop.ForAll(
		func(ids []uint64, deleteEvery uint64) bool {
			tbl := propertyTable(ids)
			for _, id := range ids {
				if id%(deleteEvery+1) == 0 {
					tbl.DeleteRecordByID(id, false)
				}
			}

			before := tbl.FindMatching(Column1, "prop")
			active := tbl.ActiveRecordCount()

			tbl.CompactRecords()

			if tbl.TotalRecordCount() != active || tbl.ActiveRecordCount() != active {
				return false
			}
			after := tbl.FindMatching(Column1, "prop")
			if len(before) != len(after) {
				return false
			}
			for i := range before {
				if before[i].ID != after[i].ID {
					return false
				}
			}
			return true
		},
		idsGen,
		gen.UInt64Range(0, 10),
	))

	properties.Property("hard delete shrinks by one and keeps the rest reachable", prop.ForAll(
		func(ids []uint64) bool {
			tbl := propertyTable(ids)
			victim := ids[0]
			total := tbl.TotalRecordCount()

			if !tbl.DeleteRecordByID(victim, true) {
				return false
			}
			if tbl.TotalRecordCount() != total-1 {
				return false
			}
			for _, rec := range tbl.FindMatching(Column1, "prop") {
				if rec.ID == victim {
					return false
				}
				if len(tbl.FindMatching(PrimaryKeyColumn, fmt.Sprintf("%d", rec.ID))) != 1 {
					return false
				}
			}
			return true
		},
		idsGen.SuchThat(func(ids []uint64) bool { return len(ids) > 0 }),
	))

	properties.TestingRun(t)
}
