// Package engine wires ingestion, transport, the worker/coordinator pair,
// persistence, and telemetry into one end-to-end run of the counting
// system (spec §2, §6). It is the only package that knows about every
// other subsystem at once; everything it calls is usable standalone.
package engine

import (
	"context"
	"fmt"

	"github.com/cliquecount/internal/coordinator"
	"github.com/cliquecount/internal/graph"
	"github.com/cliquecount/internal/history"
	"github.com/cliquecount/internal/ingest"
	"github.com/cliquecount/internal/resultlog"
	"github.com/cliquecount/internal/transport"
	"github.com/cliquecount/internal/worker"
	"github.com/cliquecount/pkg/config"
	apperrors "github.com/cliquecount/pkg/errors"
	"github.com/cliquecount/pkg/model"
	"github.com/cliquecount/pkg/telemetry"
	"github.com/cliquecount/pkg/utils"
)

// Engine owns the collaborators a run needs beyond the core algorithm:
// where the dataset comes from, where its audit trail goes, and where
// its metrics are reported. All three are optional in the sense the
// spec requires (a nil Store and a disabled telemetry Provider are both
// no-ops); Engine never special-cases their absence beyond constructing
// them correctly once.
type Engine struct {
	source  ingest.DataSource
	store   history.Store
	metrics *telemetry.Provider
	log     utils.Logger
	clock   utils.Clock
}

// New resolves cfg's storage, database, and telemetry settings into
// live collaborators and returns an Engine ready to run datasets.
// A zero-value telemetry Provider (metrics disabled) and a nil Store
// (no configured database) are both valid outcomes, not errors.
func New(ctx context.Context, cfg *config.Config, log utils.Logger) (*Engine, error) {
	source, err := ingest.New(&cfg.Storage)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "constructing data source", err)
	}

	var store history.Store
	if cfg.Database.Type != "" {
		store, err = history.New(&cfg.Database)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "constructing history store", err)
		}
	}

	metrics, err := telemetry.NewProvider(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "constructing telemetry provider", err)
	}

	return NewWithCollaborators(source, store, metrics, log), nil
}

// NewWithCollaborators builds an Engine directly from already-constructed
// collaborators, bypassing config resolution. Production code should use
// New; this exists so callers (tests, alternate entrypoints) can swap in
// a fake DataSource or Store without a live database or filesystem.
func NewWithCollaborators(source ingest.DataSource, store history.Store, metrics *telemetry.Provider, log utils.Logger) *Engine {
	return &Engine{
		source:  source,
		store:   store,
		metrics: metrics,
		log:     log,
		clock:   utils.NewRealClock(),
	}
}

// Run ingests rc.FilePath (or rc.Dataset, resolved by the configured
// DataSource), partitions it across rc.NumRanks-1 workers plus one
// coordinator rank, and returns the aggregated RunSummary. logPath, if
// non-empty, gets the spec §6 tab-separated line appended and a JSON
// snapshot written alongside it.
func (e *Engine) Run(ctx context.Context, rc model.RunConfig, logPath string) (*model.RunSummary, error) {
	if rc.NumRanks < 2 {
		return nil, apperrors.New(apperrors.CodeInputError, "num_ranks must be at least 2 (one coordinator, one worker)")
	}

	key := rc.FilePath
	if key == "" {
		key = rc.Dataset
	}
	reader, err := e.source.Open(ctx, key)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInputError, fmt.Sprintf("opening dataset %s", key), err)
	}
	defer reader.Close()

	g := graph.New()
	if err := ingest.ParseEdges(ctx, reader, g); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInputError, fmt.Sprintf("parsing dataset %s", key), err)
	}
	g.Finalize()

	start := e.clock.Now()
	result, stats, err := e.runRanks(ctx, rc, g)
	if err != nil {
		return nil, err
	}
	elapsed := e.clock.Since(start)

	summary := &model.RunSummary{
		Dataset:         rc.Dataset,
		NumRanks:        rc.NumRanks,
		DonationEnabled: rc.DonationEnabled,
		Threshold:       stats.threshold,
		Counts:          result.Counts.Map(),
		TotalCliques:    result.Counts.Total(),
		HelpSent:        result.HelpSent,
		HelpAccepted:    result.HelpAccepted,
		HelpRejected:    result.HelpRejected,
		ElapsedSeconds:  elapsed.Seconds(),
		CreatedAt:       e.clock.Now(),
	}

	e.metrics.RecordCliqueCounts(ctx, summary.Counts)

	if e.store != nil {
		if err := e.store.SaveRun(ctx, summary); err != nil {
			e.log.Warn("failed to persist run history: %v", err)
		}
	}

	logger := resultlog.New(logPath)
	if err := logger.AppendLine(summary); err != nil {
		e.log.Warn("failed to append result log: %v", err)
	}
	if err := resultlog.WriteSnapshot(resultlog.SnapshotPath(logPath), summary); err != nil {
		e.log.Warn("failed to write result snapshot: %v", err)
	}

	return summary, nil
}

// runStats carries the one piece of per-run information the workers
// decide for themselves (the auto-computed donation threshold) back to
// the caller for the result line, without the coordinator needing to
// know about it.
type runStats struct {
	threshold int
}

// runRanks starts one coordinator goroutine and rc.NumRanks-1 worker
// goroutines over an in-process Local transport and waits for the
// coordinator's aggregated Result.
//
// The dataset is handed to every worker directly as a shared *graph.Graph
// rather than via Coordinator.BroadcastFilePath: that broadcast exists in
// the protocol for ranks that ingest independently from a shared
// filesystem or object store, but this in-process transport already
// shares one parsed Graph by reference, so resending its path would be a
// no-op round trip. Out-of-process transports that can't share memory
// are the place BroadcastFilePath earns its keep.
func (e *Engine) runRanks(ctx context.Context, rc model.RunConfig, g *graph.Graph) (*coordinator.Result, runStats, error) {
	endpoints := transport.NewLocal(rc.NumRanks)
	numWorkers := rc.NumRanks - 1

	coord := coordinator.New(endpoints[0], numWorkers, e.log)

	workers := make([]*worker.Worker, numWorkers)
	for i := 0; i < numWorkers; i++ {
		rank := i + 1
		wcfg := worker.Config{
			ID:              rank,
			NumWorkers:      rc.NumRanks,
			DonationEnabled: rc.DonationEnabled,
			Threshold:       rc.Threshold,
		}
		workers[i] = worker.New(wcfg, endpoints[rank], g, e.log)
	}

	errs := make(chan error, numWorkers)
	e.metrics.SetWorkerActive(ctx, int64(numWorkers))
	for _, w := range workers {
		w := w
		go func() {
			errs <- w.Run(ctx)
		}()
	}

	result, err := coord.Run(ctx)
	e.metrics.SetWorkerActive(ctx, -int64(numWorkers))
	if err != nil {
		return nil, runStats{}, apperrors.Wrap(apperrors.CodeTransportError, "coordinator run failed", err)
	}

	for i := 0; i < numWorkers; i++ {
		if werr := <-errs; werr != nil {
			return nil, runStats{}, apperrors.Wrap(apperrors.CodeTransportError, "worker run failed", werr)
		}
	}

	for i := int64(0); i < result.HelpAccepted; i++ {
		e.metrics.RecordDonation(ctx)
	}

	threshold := rc.Threshold
	if threshold <= 0 {
		threshold = workers[0].Threshold()
	}

	return result, runStats{threshold: threshold}, nil
}

// Close releases the engine's telemetry provider. It does not close the
// history store's database connection.
func (e *Engine) Close(ctx context.Context) error {
	return e.metrics.Shutdown(ctx)
}
