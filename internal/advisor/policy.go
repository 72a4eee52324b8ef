// Package advisor evaluates query statistics and keeps a table's secondary
// indexes and storage tuned automatically: columns that keep falling back to
// linear scans gain an index, indexes that stop earning queries are dropped,
// and compaction runs once enough slots are soft-deleted.
package advisor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EKolev/QuickbaseDemo/internal/config"
	"github.com/EKolev/QuickbaseDemo/internal/observability"
)

// ActionType represents the type of maintenance action to perform.
type ActionType string

const (
	ActionCreateIndex ActionType = "CREATE_INDEX"
	ActionDropIndex   ActionType = "DROP_INDEX"
	ActionCompact     ActionType = "COMPACT"
)

// Action represents one maintenance action. Column is empty for COMPACT.
type Action struct {
	Type   ActionType
	Column string
}

// Target is the slice of the table surface the policy drives. Both
// table.Table and table.Locked satisfy it; use Locked when the policy runs
// on its own goroutine.
type Target interface {
	CreateIndex(column string) error
	DropIndex(column string)
	IsColumnIndexed(column string) bool
	IndexedColumns() []string
	CompactRecords()
	ActiveRecordCount() int
	TotalRecordCount() int
}

// Policy manages automated index creation, index deletion, and compaction
// based on query statistics and table occupancy.
type Policy struct {
	stats  *observability.QueryStats
	target Target
	cfg    config.AdvisorConfig
	mu     sync.Mutex
}

// NewPolicy creates a new maintenance policy over a table.
func NewPolicy(stats *observability.QueryStats, target Target, cfg config.AdvisorConfig) *Policy {
	return &Policy{
		stats:  stats,
		target: target,
		cfg:    cfg,
	}
}

// Evaluate determines which maintenance actions should be taken. It performs
// no mutation itself; pass the result to Apply.
func (p *Policy) Evaluate() []Action {
	p.mu.Lock()
	defer p.mu.Unlock()

	var actions []Action

	indexed := p.target.IndexedColumns()
	indexCount := len(indexed)

	// Columns scanned often enough deserve an index, up to the cap.
	for _, stats := range p.stats.TopScanned(p.cfg.MaxIndexes + 10) {
		if stats.Routes[observability.RouteScan] < p.cfg.CreateThreshold {
			break
		}
		if p.target.IsColumnIndexed(stats.Column) || indexCount >= p.cfg.MaxIndexes {
			continue
		}
		actions = append(actions, Action{Type: ActionCreateIndex, Column: stats.Column})
		indexCount++
	}

	// Existing indexes that stopped earning queries get dropped.
	for _, column := range indexed {
		if p.stats.Frequency(column) < p.cfg.DropThreshold {
			actions = append(actions, Action{Type: ActionDropIndex, Column: column})
		}
	}

	// Compact once the soft-deleted fraction crosses the threshold.
	if total := p.target.TotalRecordCount(); total > 0 {
		deleted := total - p.target.ActiveRecordCount()
		if float64(deleted)/float64(total) >= p.cfg.CompactRatio {
			actions = append(actions, Action{Type: ActionCompact})
		}
	}

	return actions
}

// Apply executes the given actions against the table. Failures are logged
// and do not stop the remaining actions.
func (p *Policy) Apply(actions []Action) {
	if len(actions) == 0 {
		return
	}
	round := uuid.New().String()[:8]
	for _, action := range actions {
		switch action.Type {
		case ActionCreateIndex:
			if err := p.target.CreateIndex(action.Column); err != nil {
				log.Printf("advisor: round %s: create index on %q failed: %v", round, action.Column, err)
				continue
			}
			log.Printf("advisor: round %s: created index on %q", round, action.Column)
		case ActionDropIndex:
			p.target.DropIndex(action.Column)
			log.Printf("advisor: round %s: dropped index on %q", round, action.Column)
		case ActionCompact:
			p.target.CompactRecords()
			log.Printf("advisor: round %s: compacted table", round)
		default:
			log.Printf("advisor: round %s: unknown action type %s", round, action.Type)
		}
	}
}

// Run starts the background evaluation loop. It prunes stale statistics and
// applies one evaluation round per tick until the context is cancelled. The
// target must be safe for concurrent use (a table.Locked).
func (p *Policy) Run(ctx context.Context) {
	interval := p.cfg.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.stats.Prune()
			p.Apply(p.Evaluate())
		}
	}
}
