// Package main implements the unified quickbase binary: an interactive shell
// over a single in-memory table, with the index advisor running in the
// background.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/EKolev/QuickbaseDemo/internal/advisor"
	"github.com/EKolev/QuickbaseDemo/internal/config"
	"github.com/EKolev/QuickbaseDemo/internal/observability"
	"github.com/EKolev/QuickbaseDemo/pkg/table"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		noAdvisor   bool
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.BoolVar(&noAdvisor, "no-advisor", false, "Disable the background index advisor")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Quickbase - Single-Table In-Memory Record Store\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quickbase [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nShell commands:\n")
		fmt.Fprintf(os.Stderr, "  add <id> <column1> <column2> <column3>   Add a record\n")
		fmt.Fprintf(os.Stderr, "  find <column> <text>                     Query a column\n")
		fmt.Fprintf(os.Stderr, "  delete <id> [hard]                       Delete by primary key\n")
		fmt.Fprintf(os.Stderr, "  index <column> | drop <column>           Manage secondary indexes\n")
		fmt.Fprintf(os.Stderr, "  compact | stats | quit\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("quickbase version %s (commit %s)\n", version, commit)
		return
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	stats := observability.NewQueryStats(cfg.Advisor.StatsWindow)
	ft := table.NewFixedTable(
		table.WithQueryStats(stats),
		table.WithScanFilterEstimates(cfg.Table.ExpectedRows, cfg.Table.ScanFilterFPR),
	)
	lt := table.NewLocked(ft.Table())

	for _, col := range cfg.Table.InitialIndexes {
		if err := lt.CreateIndex(col); err != nil {
			log.Fatalf("create index on %q: %v", col, err)
		}
	}

	if !noAdvisor {
		policy := advisor.NewPolicy(stats, lt, cfg.Advisor)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go policy.Run(ctx)
	}

	runShell(lt, stats)
}

func runShell(lt *table.Locked, stats *observability.QueryStats) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			if quit := execute(lt, stats, strings.Fields(line)); quit {
				return
			}
		}
		fmt.Print("> ")
	}
}

func execute(lt *table.Locked, stats *observability.QueryStats, args []string) bool {
	switch args[0] {
	case "quit", "exit":
		return true

	case "add":
		if len(args) != 5 {
			fmt.Println("usage: add <id> <column1> <column2> <column3>")
			return false
		}
		rec, err := parseRecord(args[1:])
		if err != nil {
			fmt.Println(err)
			return false
		}
		if _, err := lt.AddRecord(rec); err != nil {
			fmt.Println(err)
			return false
		}
		fmt.Printf("added record %d\n", rec.ID)

	case "find":
		if len(args) < 2 {
			fmt.Println("usage: find <column> <text>")
			return false
		}
		matchText := ""
		if len(args) > 2 {
			matchText = strings.Join(args[2:], " ")
		}
		matches := lt.FindMatching(args[1], matchText)
		for _, rec := range matches {
			printRecord(rec)
		}
		fmt.Printf("%d record(s)\n", len(matches))

	case "delete":
		if len(args) < 2 {
			fmt.Println("usage: delete <id> [hard]")
			return false
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			fmt.Printf("bad id %q\n", args[1])
			return false
		}
		hard := len(args) > 2 && args[2] == "hard"
		if lt.DeleteRecordByID(id, hard) {
			fmt.Printf("deleted record %d\n", id)
		} else {
			fmt.Printf("record %d not found\n", id)
		}

	case "index":
		if len(args) != 2 {
			fmt.Println("usage: index <column>")
			return false
		}
		if err := lt.CreateIndex(args[1]); err != nil {
			fmt.Println(err)
			return false
		}
		fmt.Printf("indexed %q\n", args[1])

	case "drop":
		if len(args) != 2 {
			fmt.Println("usage: drop <column>")
			return false
		}
		lt.DropIndex(args[1])
		fmt.Printf("dropped index on %q\n", args[1])

	case "compact":
		lt.CompactRecords()
		fmt.Printf("%d record(s) remain\n", lt.TotalRecordCount())

	case "stats":
		fmt.Printf("records: %d active / %d total\n", lt.ActiveRecordCount(), lt.TotalRecordCount())
		fmt.Printf("indexes: %v\n", lt.IndexedColumns())
		for _, cs := range stats.Top(10) {
			fmt.Printf("  %-12s %5d queries (primary %d, index %d, scan %d)\n",
				cs.Column, cs.Frequency,
				cs.Routes[observability.RoutePrimary],
				cs.Routes[observability.RouteIndex],
				cs.Routes[observability.RouteScan])
		}

	default:
		fmt.Printf("unknown command %q\n", args[0])
	}
	return false
}

func parseRecord(args []string) (table.Record, error) {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return table.Record{}, fmt.Errorf("bad id %q", args[0])
	}
	c2, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return table.Record{}, fmt.Errorf("bad column2 value %q", args[2])
	}
	return table.FixedRecord{
		ID:      id,
		Column1: args[1],
		Column2: c2,
		Column3: args[3],
	}.AsRecord(), nil
}

func printRecord(rec table.Record) {
	fmt.Printf("  %d:", rec.ID)
	for _, col := range []string{table.Column1, table.Column2, table.Column3} {
		if v, ok := rec.Field(col); ok {
			fmt.Printf(" %s=%s", col, v.String())
		}
	}
	fmt.Println()
}
