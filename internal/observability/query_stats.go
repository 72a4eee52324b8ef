// Package observability provides query statistics tracking for automated
// index maintenance and performance monitoring.
package observability

import (
	"sort"
	"sync"
	"time"
)

// Route identifies which path the query router took to serve a query.
type Route string

const (
	// RoutePrimary means the query was served by the primary-key index.
	RoutePrimary Route = "primary"

	// RouteIndex means the query was served by a secondary index.
	RouteIndex Route = "index"

	// RouteScan means the query fell back to a linear scan.
	RouteScan Route = "scan"
)

// QueryStats tracks per-column query frequency by route. The index advisor
// uses the scan counts to decide which columns deserve an index and which
// indexes no longer earn their keep.
type QueryStats struct {
	mu      sync.RWMutex
	columns map[string]*ColumnStats
	window  time.Duration
}

// ColumnStats holds query statistics for a single column.
type ColumnStats struct {
	Column    string
	Frequency int64
	LastSeen  time.Time
	Routes    map[Route]int64 // route → count
}

// NewQueryStats creates a new query statistics tracker.
// window: time duration for pruning old entries (e.g., 1 hour).
func NewQueryStats(window time.Duration) *QueryStats {
	return &QueryStats{
		columns: make(map[string]*ColumnStats),
		window:  window,
	}
}

// Record notes one query against a column and the route that served it.
// This method is O(1) and thread-safe.
func (q *QueryStats) Record(column string, route Route) {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats, exists := q.columns[column]
	if !exists {
		stats = &ColumnStats{
			Column: column,
			Routes: make(map[Route]int64),
		}
		q.columns[column] = stats
	}

	stats.Frequency++
	stats.LastSeen = time.Now()
	stats.Routes[route]++
}

// ScanCount returns the number of linear-scan queries recorded for a column.
func (q *QueryStats) ScanCount(column string) int64 {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if stats, ok := q.columns[column]; ok {
		return stats.Routes[RouteScan]
	}
	return 0
}

// Frequency returns the total query count recorded for a column.
func (q *QueryStats) Frequency(column string) int64 {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if stats, ok := q.columns[column]; ok {
		return stats.Frequency
	}
	return 0
}

// Top returns the top N columns by total query frequency, descending.
// Returned entries are deep copies.
func (q *QueryStats) Top(n int) []ColumnStats {
	return q.top(n, func(s *ColumnStats) int64 { return s.Frequency })
}

// TopScanned returns the top N columns by linear-scan frequency, descending.
// Columns never served by a scan are omitted.
func (q *QueryStats) TopScanned(n int) []ColumnStats {
	return q.top(n, func(s *ColumnStats) int64 { return s.Routes[RouteScan] })
}

func (q *QueryStats) top(n int, weight func(*ColumnStats) int64) []ColumnStats {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if n <= 0 || len(q.columns) == 0 {
		return []ColumnStats{}
	}

	stats := make([]ColumnStats, 0, len(q.columns))
	for _, s := range q.columns {
		if weight(s) == 0 {
			continue
		}
		// Deep copy to prevent external modification.
		cp := ColumnStats{
			Column:    s.Column,
			Frequency: s.Frequency,
			LastSeen:  s.LastSeen,
			Routes:    make(map[Route]int64, len(s.Routes)),
		}
		for r, c := range s.Routes {
			cp.Routes[r] = c
		}
		stats = append(stats, cp)
	}

	sort.Slice(stats, func(i, j int) bool {
		wi, wj := weight(&stats[i]), weight(&stats[j])
		if wi != wj {
			return wi > wj
		}
		return stats[i].Column < stats[j].Column
	})

	if n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// Forget drops the statistics for a column. Called when the column is removed
// from the schema so the advisor stops seeing it.
func (q *QueryStats) Forget(column string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.columns, column)
}

// Prune removes entries where time.Since(LastSeen) > window.
// This should be called periodically (e.g., every 5 minutes).
func (q *QueryStats) Prune() {
	q.mu.Lock()
	defer q.mu.Unlock()

	threshold := time.Now().Add(-q.window)
	for col, stats := range q.columns {
		if stats.LastSeen.Before(threshold) {
			delete(q.columns, col)
		}
	}
}
