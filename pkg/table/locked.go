package table

import (
	"sync"

	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

// Locked is the external synchronization layer for concurrent use of a
// Table. The bare engine performs no locking; Locked wraps the whole surface
// in a reader-writer lock, so mutations serialize against each other and
// against reads, while reads proceed in parallel. This is the only supported
// way to share a table across goroutines.
type Locked struct {
	mu  sync.RWMutex
	tbl *Table
}

// NewLocked wraps a table. The caller must not retain or use the bare table
// afterwards.
func NewLocked(tbl *Table) *Locked {
	return &Locked{tbl: tbl}
}

// AddRecord appends a record. See Table.AddRecord.
func (l *Locked) AddRecord(rec Record) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tbl.AddRecord(rec)
}

// DeleteRecordByID deletes by primary key. See Table.DeleteRecordByID.
func (l *Locked) DeleteRecordByID(id uint64, hardDelete bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tbl.DeleteRecordByID(id, hardDelete)
}

// CompactRecords reclaims soft-deleted slots. See Table.CompactRecords.
func (l *Locked) CompactRecords() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tbl.CompactRecords()
}

// CreateIndex builds a secondary index. See Table.CreateIndex.
func (l *Locked) CreateIndex(column string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tbl.CreateIndex(column)
}

// DropIndex discards a secondary index. See Table.DropIndex.
func (l *Locked) DropIndex(column string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tbl.DropIndex(column)
}

// AddColumn declares a physical column. See Table.AddColumn.
func (l *Locked) AddColumn(name string, def types.FieldValue) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tbl.AddColumn(name, def)
}

// RemoveColumn removes a physical column. See Table.RemoveColumn.
func (l *Locked) RemoveColumn(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tbl.RemoveColumn(name)
}

// AddDerivedColumn declares a derived column. See Table.AddDerivedColumn.
func (l *Locked) AddDerivedColumn(name string, kind types.Kind, fn DerivedFunc) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tbl.AddDerivedColumn(name, kind, fn)
}

// FindMatching queries under the read lock. See Table.FindMatching.
func (l *Locked) FindMatching(column, matchText string) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tbl.FindMatching(column, matchText)
}

// IsColumnIndexed reports index presence under the read lock.
func (l *Locked) IsColumnIndexed(column string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tbl.IsColumnIndexed(column)
}

// IndexedColumns lists secondary-indexed columns under the read lock.
func (l *Locked) IndexedColumns() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tbl.IndexedColumns()
}

// ActiveRecordCount returns the active record count under the read lock.
func (l *Locked) ActiveRecordCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tbl.ActiveRecordCount()
}

// TotalRecordCount returns the total slot count under the read lock.
func (l *Locked) TotalRecordCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tbl.TotalRecordCount()
}
