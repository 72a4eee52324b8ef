// Package main implements the quickbase-bench binary: it populates a table
// with generated records and measures primary-key lookups, secondary-index
// queries, and substring scans against a plain slice-scan baseline, then
// exercises deletion, compaction, and concurrent reads.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/EKolev/QuickbaseDemo/internal/advisor"
	"github.com/EKolev/QuickbaseDemo/internal/config"
	"github.com/EKolev/QuickbaseDemo/internal/observability"
	"github.com/EKolev/QuickbaseDemo/pkg/table"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (YAML or JSON)")
		records    = flag.Int("records", 0, "Number of records to generate (overrides config)")
		iterations = flag.Int("iterations", 0, "Queries per measured phase (overrides config)")
		prefix     = flag.String("prefix", "", "Text prefix for generated records (overrides config)")
		readers    = flag.Int("readers", 0, "Concurrent readers in the parallel phase (overrides config)")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	config.LoadFromEnv(cfg)
	if *records > 0 {
		cfg.Bench.Records = *records
	}
	if *iterations > 0 {
		cfg.Bench.Iterations = *iterations
	}
	if *prefix != "" {
		cfg.Bench.Prefix = *prefix
	}
	if *readers > 0 {
		cfg.Bench.Readers = *readers
	}
	if len(cfg.Table.InitialIndexes) == 0 {
		cfg.Table.InitialIndexes = []string{table.Column2}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	run := uuid.New().String()[:8]
	log.Printf("bench %s: %d records, %d iterations, prefix %q",
		run, cfg.Bench.Records, cfg.Bench.Iterations, cfg.Bench.Prefix)

	baseline := generateRecords(cfg.Bench)
	ft := populateTable(cfg, baseline)

	runLookupPhases(cfg.Bench, ft, baseline)
	runMutationPhase(cfg.Bench, ft)
	runConcurrentPhase(cfg, baseline)

	log.Printf("bench %s: done", run)
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

// generateRecords builds the record set: column1 = prefix + i,
// column2 = i % 100, column3 = itoa(i) + prefix.
func generateRecords(cfg config.BenchConfig) []table.FixedRecord {
	records := make([]table.FixedRecord, cfg.Records)
	for i := range records {
		records[i] = table.FixedRecord{
			ID:      uint64(i),
			Column1: cfg.Prefix + strconv.Itoa(i),
			Column2: int64(i % 100),
			Column3: strconv.Itoa(i) + cfg.Prefix,
		}
	}
	return records
}

func populateTable(cfg *config.Config, records []table.FixedRecord) *table.FixedTable {
	ft := table.NewFixedTable(
		table.WithScanFilterEstimates(cfg.Table.ExpectedRows, cfg.Table.ScanFilterFPR),
	)

	start := time.Now()
	for _, rec := range records {
		if _, err := ft.AddRecord(rec); err != nil {
			log.Fatalf("populate: %v", err)
		}
	}
	log.Printf("populated %d records in %v", len(records), time.Since(start))

	for _, col := range cfg.Table.InitialIndexes {
		if err := ft.CreateIndex(col); err != nil {
			log.Fatalf("create index on %q: %v", col, err)
		}
	}
	return ft
}

// findMatchingBaseline is the reference implementation every phase is
// checked against: a straight scan over the record slice with the same
// matching rules the table applies to unindexed columns.
func findMatchingBaseline(records []table.FixedRecord, column, matchText string) []table.FixedRecord {
	var result []table.FixedRecord
	switch column {
	case table.PrimaryKeyColumn:
		id, err := strconv.ParseUint(matchText, 10, 64)
		if err != nil {
			return nil
		}
		for _, rec := range records {
			if rec.ID == id {
				result = append(result, rec)
			}
		}
	case table.Column1:
		for _, rec := range records {
			if strings.Contains(rec.Column1, matchText) {
				result = append(result, rec)
			}
		}
	case table.Column2:
		v, err := strconv.ParseInt(matchText, 10, 64)
		if err != nil {
			return nil
		}
		for _, rec := range records {
			if rec.Column2 == v {
				result = append(result, rec)
			}
		}
	case table.Column3:
		for _, rec := range records {
			if strings.Contains(rec.Column3, matchText) {
				result = append(result, rec)
			}
		}
	}
	return result
}

type phase struct {
	name   string
	column string
	query  func(i int) string
}

func runLookupPhases(cfg config.BenchConfig, ft *table.FixedTable, baseline []table.FixedRecord) {
	n := cfg.Records
	phases := []phase{
		{
			name:   "primary key lookup",
			column: table.PrimaryKeyColumn,
			query:  func(i int) string { return strconv.Itoa(i * (n / cfg.Iterations) % n) },
		},
		{
			name:   "indexed exact match",
			column: table.Column2,
			query:  func(i int) string { return strconv.Itoa(i % 100) },
		},
		{
			name:   "substring scan",
			column: table.Column1,
			query:  func(i int) string { return cfg.Prefix + strconv.Itoa(i%n) },
		},
	}

	if !ft.IsColumnIndexed(table.Column2) {
		log.Printf("note: %q is not indexed, exact-match phase runs as a scan", table.Column2)
	}

	for _, p := range phases {
		start := time.Now()
		var matched int
		for i := 0; i < cfg.Iterations; i++ {
			matched += len(ft.FindMatching(p.column, p.query(i)))
		}
		elapsed := time.Since(start)
		log.Printf("%s: %d queries, %d matches, %v total, %v/query",
			p.name, cfg.Iterations, matched, elapsed, elapsed/time.Duration(cfg.Iterations))

		verifyPhase(p, ft, baseline, cfg.Iterations)
	}
}

func verifyPhase(p phase, ft *table.FixedTable, baseline []table.FixedRecord, iterations int) {
	for i := 0; i < iterations; i++ {
		query := p.query(i)
		got := ft.FindMatching(p.column, query)
		want := findMatchingBaseline(baseline, p.column, query)
		if !equalRecords(got, want) {
			log.Fatalf("%s: query %q returned %d records, baseline %d",
				p.name, query, len(got), len(want))
		}
	}
}

func equalRecords(a, b []table.FixedRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// runMutationPhase soft-deletes a slice of the table, verifies the deleted
// records stop matching, compacts, and verifies again.
func runMutationPhase(cfg config.BenchConfig, ft *table.FixedTable) {
	deleteCount := cfg.Records / 10
	start := time.Now()
	for i := 0; i < deleteCount; i++ {
		if !ft.DeleteRecordByID(uint64(i*10), false) {
			log.Fatalf("soft delete of record %d failed", i*10)
		}
	}
	log.Printf("soft-deleted %d records in %v", deleteCount, time.Since(start))

	if got := ft.FindMatching(table.PrimaryKeyColumn, "0"); len(got) != 0 {
		log.Fatalf("soft-deleted record still matches: %v", got)
	}
	if active := ft.ActiveRecordCount(); active != cfg.Records-deleteCount {
		log.Fatalf("active count %d, want %d", active, cfg.Records-deleteCount)
	}

	start = time.Now()
	ft.CompactRecords()
	log.Printf("compacted in %v (%d records remain)", time.Since(start), ft.TotalRecordCount())

	if total := ft.TotalRecordCount(); total != cfg.Records-deleteCount {
		log.Fatalf("total count after compaction %d, want %d", total, cfg.Records-deleteCount)
	}
}

// runConcurrentPhase rebuilds the table behind a Locked wrapper, runs the
// index advisor in the background, and drives concurrent readers against a
// single mutating writer.
func runConcurrentPhase(cfg *config.Config, baseline []table.FixedRecord) {
	stats := observability.NewQueryStats(cfg.Advisor.StatsWindow)
	ft := table.NewFixedTable(
		table.WithQueryStats(stats),
		table.WithScanFilterEstimates(cfg.Table.ExpectedRows, cfg.Table.ScanFilterFPR),
	)
	lt := table.NewLocked(ft.Table())

	for _, rec := range baseline {
		if _, err := ft.AddRecord(rec); err != nil {
			log.Fatalf("populate locked table: %v", err)
		}
	}

	policy := advisor.NewPolicy(stats, lt, cfg.Advisor)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go policy.Run(ctx)

	n := cfg.Bench.Records
	start := time.Now()

	g, _ := errgroup.WithContext(ctx)
	for r := 0; r < cfg.Bench.Readers; r++ {
		r := r
		g.Go(func() error {
			for i := 0; i < cfg.Bench.Iterations; i++ {
				key := strconv.Itoa((r*cfg.Bench.Iterations + i) % n)
				lt.FindMatching(table.PrimaryKeyColumn, key)
				lt.FindMatching(table.Column2, strconv.Itoa(i%100))
			}
			return nil
		})
	}
	g.Go(func() error {
		for i := 0; i < cfg.Bench.Iterations; i++ {
			if !lt.DeleteRecordByID(uint64(i%n), false) {
				return fmt.Errorf("concurrent soft delete of record %d failed", i%n)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("concurrent phase: %v", err)
	}

	log.Printf("concurrent phase: %d readers x %d queries with one writer in %v",
		cfg.Bench.Readers, cfg.Bench.Iterations, time.Since(start))

	// One advisor round in the foreground so short runs still show it.
	policy.Apply(policy.Evaluate())
	log.Printf("indexes after advisor round: %v", lt.IndexedColumns())
}
