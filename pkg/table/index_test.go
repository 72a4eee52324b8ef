package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

func TestCreateIndexIdempotent(t *testing.T) {
	tbl := newTestTable(t)
	populate(t, tbl, 10)

	require.NoError(t, tbl.CreateIndex(Column2))
	require.NoError(t, tbl.CreateIndex(Column2))
	assert.True(t, tbl.IsColumnIndexed(Column2))
	assert.Len(t, tbl.FindMatching(Column2, "4"), 1)
}

func TestCreateIndexPrimaryKeyNoOp(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.CreateIndex(PrimaryKeyColumn))
	assert.True(t, tbl.IsColumnIndexed(PrimaryKeyColumn))
	assert.NotContains(t, tbl.IndexedColumns(), PrimaryKeyColumn)
}

func TestCreateIndexUnknownColumn(t *testing.T) {
	tbl := newTestTable(t)
	err := tbl.CreateIndex("nonexistent")
	assert.ErrorIs(t, err, types.ErrUnknownColumn)
	assert.False(t, tbl.IsColumnIndexed("nonexistent"))
}

func TestDropIndexIdempotent(t *testing.T) {
	tbl := newTestTable(t)
	populate(t, tbl, 10)
	require.NoError(t, tbl.CreateIndex(Column2))

	tbl.DropIndex(Column2)
	assert.False(t, tbl.IsColumnIndexed(Column2))

	// Dropping again, dropping the primary key, and dropping a never-indexed
	// column are all silent no-ops.
	tbl.DropIndex(Column2)
	tbl.DropIndex(PrimaryKeyColumn)
	tbl.DropIndex("nonexistent")

	assert.True(t, tbl.IsColumnIndexed(PrimaryKeyColumn))
	require.Len(t, tbl.FindMatching(PrimaryKeyColumn, "4"), 1)
}

func TestIndexedColumnsSorted(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.CreateIndex(Column3))
	require.NoError(t, tbl.CreateIndex(Column1))
	require.NoError(t, tbl.CreateIndex(Column2))
	assert.Equal(t, []string{Column1, Column2, Column3}, tbl.IndexedColumns())
}

// Index round trip: for a numeric column, every query must return the same
// records whether it is served by the index or by the scan fallback.
func TestIndexScanEquivalenceNumeric(t *testing.T) {
	tbl := newTestTable(t)
	populate(t, tbl, 500)
	for _, id := range []uint64{13, 113, 213} {
		require.True(t, tbl.DeleteRecordByID(id, false))
	}

	queries := []string{"0", "13", "42", "99", "100", "garbage", ""}

	scanned := make(map[string][]Record, len(queries))
	for _, q := range queries {
		scanned[q] = tbl.FindMatching(Column2, q)
	}

	require.NoError(t, tbl.CreateIndex(Column2))
	for _, q := range queries {
		assert.Equal(t, scanned[q], tbl.FindMatching(Column2, q), "query %q", q)
	}

	tbl.DropIndex(Column2)
	for _, q := range queries {
		assert.Equal(t, scanned[q], tbl.FindMatching(Column2, q), "query %q", q)
	}
}

func TestCreateIndexOnEmptyTable(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.CreateIndex(Column2))

	populate(t, tbl, 10)
	matches := tbl.FindMatching(Column2, "4")
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(4), matches[0].ID)
}
