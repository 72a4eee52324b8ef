package advisor

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/EKolev/QuickbaseDemo/internal/config"
	"github.com/EKolev/QuickbaseDemo/internal/observability"
)

// fakeTarget records the actions applied to it.
type fakeTarget struct {
	indexed   map[string]bool
	active    int
	total     int
	compacted int
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{indexed: make(map[string]bool)}
}

func (f *fakeTarget) CreateIndex(column string) error {
	f.indexed[column] = true
	return nil
}

func (f *fakeTarget) DropIndex(column string) {
	delete(f.indexed, column)
}

func (f *fakeTarget) IsColumnIndexed(column string) bool {
	return column == "id" || f.indexed[column]
}

func (f *fakeTarget) IndexedColumns() []string {
	cols := make([]string, 0, len(f.indexed))
	for col := range f.indexed {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func (f *fakeTarget) CompactRecords() {
	f.compacted++
	f.total = f.active
}

func (f *fakeTarget) ActiveRecordCount() int { return f.active }
func (f *fakeTarget) TotalRecordCount() int  { return f.total }

func testConfig() config.AdvisorConfig {
	return config.AdvisorConfig{
		CreateThreshold: 10,
		DropThreshold:   2,
		MaxIndexes:      2,
		CheckInterval:   time.Minute,
		CompactRatio:    0.5,
		StatsWindow:     time.Hour,
	}
}

func TestEvaluateCreatesIndexForScannedColumn(t *testing.T) {
	stats := observability.NewQueryStats(time.Hour)
	target := newFakeTarget()
	target.active, target.total = 100, 100
	policy := NewPolicy(stats, target, testConfig())

	for i := 0; i < 15; i++ {
		stats.Record("column2", observability.RouteScan)
	}
	// Below threshold: no action for this column.
	for i := 0; i < 5; i++ {
		stats.Record("column3", observability.RouteScan)
	}

	actions := policy.Evaluate()
	assert.Equal(t, []Action{{Type: ActionCreateIndex, Column: "column2"}}, actions)

	policy.Apply(actions)
	assert.True(t, target.IsColumnIndexed("column2"))
	assert.False(t, target.IsColumnIndexed("column3"))
}

func TestEvaluateRespectsMaxIndexes(t *testing.T) {
	stats := observability.NewQueryStats(time.Hour)
	target := newFakeTarget()
	target.active, target.total = 100, 100
	policy := NewPolicy(stats, target, testConfig())

	for _, col := range []string{"a", "b", "c"} {
		for i := 0; i < 20; i++ {
			stats.Record(col, observability.RouteScan)
		}
	}

	creates := 0
	for _, action := range policy.Evaluate() {
		if action.Type == ActionCreateIndex {
			creates++
		}
	}
	assert.Equal(t, 2, creates, "max_indexes must cap index creation")
}

func TestEvaluateDropsIdleIndex(t *testing.T) {
	stats := observability.NewQueryStats(time.Hour)
	target := newFakeTarget()
	target.active, target.total = 100, 100
	target.indexed["column2"] = true
	policy := NewPolicy(stats, target, testConfig())

	// One indexed query: below the drop threshold of 2.
	stats.Record("column2", observability.RouteIndex)

	actions := policy.Evaluate()
	assert.Equal(t, []Action{{Type: ActionDropIndex, Column: "column2"}}, actions)

	policy.Apply(actions)
	assert.False(t, target.IsColumnIndexed("column2"))
}

func TestEvaluateKeepsBusyIndex(t *testing.T) {
	stats := observability.NewQueryStats(time.Hour)
	target := newFakeTarget()
	target.active, target.total = 100, 100
	target.indexed["column2"] = true
	policy := NewPolicy(stats, target, testConfig())

	for i := 0; i < 50; i++ {
		stats.Record("column2", observability.RouteIndex)
	}

	assert.Empty(t, policy.Evaluate())
}

func TestEvaluateTriggersCompaction(t *testing.T) {
	stats := observability.NewQueryStats(time.Hour)
	target := newFakeTarget()
	target.active, target.total = 40, 100 // 60% soft-deleted
	policy := NewPolicy(stats, target, testConfig())

	actions := policy.Evaluate()
	assert.Equal(t, []Action{{Type: ActionCompact}}, actions)

	policy.Apply(actions)
	assert.Equal(t, 1, target.compacted)
	assert.Equal(t, target.active, target.total)

	// Once compacted, a second round proposes nothing.
	assert.Empty(t, policy.Evaluate())
}

func TestEvaluateEmptyTableNoCompaction(t *testing.T) {
	stats := observability.NewQueryStats(time.Hour)
	target := newFakeTarget()
	policy := NewPolicy(stats, target, testConfig())

	assert.Empty(t, policy.Evaluate())
}
