// Package history persists a one-row-per-run audit trail of completed
// engine runs. It is never a correctness dependency for spec §8's
// invariants (a nil Store is a valid no-op); it exists so an operator
// can answer "what did the last run over this dataset count" without
// re-running the engine.
package history

import (
	"context"

	"github.com/cliquecount/pkg/model"
)

// Store is the persistence boundary the engine calls into after
// aggregation (spec SPEC_FULL §4.6).
type Store interface {
	// SaveRun records one completed run.
	SaveRun(ctx context.Context, summary *model.RunSummary) error

	// RecentRuns returns up to limit most recent runs over dataset,
	// newest first.
	RecentRuns(ctx context.Context, dataset string, limit int) ([]*model.RunSummary, error)
}
