package table

import (
	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

// Column names of the fixed four-column table. The primary key is
// PrimaryKeyColumn as everywhere else.
const (
	Column1 = "column1"
	Column2 = "column2"
	Column3 = "column3"
)

// FixedRecord is the fixed-schema record shape: a primary key, two text
// fields, and a signed integer field.
type FixedRecord struct {
	ID      uint64
	Column1 string
	Column2 int64
	Column3 string
}

// FixedTable is a typed facade over Table with the classic four-column
// schema declared up front. It exists so fixed-shape callers get compile-time
// field access while the generalized engine does all the work; there is no
// second engine underneath.
type FixedTable struct {
	tbl *Table
}

// NewFixedTable creates a table with columns (column1 text, column2 int,
// column3 text) plus the implicit primary key.
func NewFixedTable(opts ...Option) *FixedTable {
	s := NewSchema()
	s.AddColumn(Column1, types.Text(""))
	s.AddColumn(Column2, types.Int(0))
	s.AddColumn(Column3, types.Text(""))
	return &FixedTable{tbl: New(s, opts...)}
}

// Table returns the underlying generalized table, e.g. to wrap it in a
// Locked or to declare derived columns.
func (ft *FixedTable) Table() *Table {
	return ft.tbl
}

// AsRecord converts the fixed shape to the generalized record form.
func (r FixedRecord) AsRecord() Record {
	return Record{
		ID: r.ID,
		Fields: map[string]types.FieldValue{
			Column1: types.Text(r.Column1),
			Column2: types.Int(r.Column2),
			Column3: types.Text(r.Column3),
		},
	}
}

func fromRecord(rec Record) FixedRecord {
	return FixedRecord{
		ID:      rec.ID,
		Column1: rec.Fields[Column1].Text(),
		Column2: rec.Fields[Column2].Int(),
		Column3: rec.Fields[Column3].Text(),
	}
}

// AddRecord appends a record. See Table.AddRecord.
func (ft *FixedTable) AddRecord(rec FixedRecord) (int, error) {
	return ft.tbl.AddRecord(rec.AsRecord())
}

// FindMatching queries a column by match text. See Table.FindMatching.
func (ft *FixedTable) FindMatching(column, matchText string) []FixedRecord {
	matches := ft.tbl.FindMatching(column, matchText)
	result := make([]FixedRecord, 0, len(matches))
	for _, rec := range matches {
		result = append(result, fromRecord(rec))
	}
	return result
}

// DeleteRecordByID deletes by primary key. See Table.DeleteRecordByID.
func (ft *FixedTable) DeleteRecordByID(id uint64, hardDelete bool) bool {
	return ft.tbl.DeleteRecordByID(id, hardDelete)
}

// CompactRecords reclaims soft-deleted slots. See Table.CompactRecords.
func (ft *FixedTable) CompactRecords() {
	ft.tbl.CompactRecords()
}

// CreateIndex builds a secondary index. See Table.CreateIndex.
func (ft *FixedTable) CreateIndex(column string) error {
	return ft.tbl.CreateIndex(column)
}

// DropIndex discards a secondary index. See Table.DropIndex.
func (ft *FixedTable) DropIndex(column string) {
	ft.tbl.DropIndex(column)
}

// IsColumnIndexed reports whether queries on the column use an index.
func (ft *FixedTable) IsColumnIndexed(column string) bool {
	return ft.tbl.IsColumnIndexed(column)
}

// ActiveRecordCount returns the number of records not soft-deleted.
func (ft *FixedTable) ActiveRecordCount() int {
	return ft.tbl.ActiveRecordCount()
}

// TotalRecordCount returns the number of backing slots.
func (ft *FixedTable) TotalRecordCount() int {
	return ft.tbl.TotalRecordCount()
}
