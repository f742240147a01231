// Package coordinator implements rank 0's role: it never enumerates,
// instead brokering donation requests, tracking each worker's status,
// detecting global termination, and aggregating the final counts and
// donation statistics (spec §4.4).
package coordinator

import (
	"context"
	"runtime"

	"github.com/cliquecount/internal/enumerator"
	"github.com/cliquecount/internal/transport"
	"github.com/cliquecount/pkg/utils"
)

// Status is one worker's lifecycle state (spec §3).
type Status int

const (
	Running Status = iota
	Idle
	Helping
)

// Result is the coordinator's final aggregate: the summed CountTable
// across every worker, plus the summed help-request statistics.
type Result struct {
	Counts       *enumerator.CountTable
	HelpSent     int64
	HelpAccepted int64
	HelpRejected int64
}

// Coordinator owns the brokering loop and per-rank status table. It does
// not load a Graph and never runs enumeration itself.
type Coordinator struct {
	t          transport.Transport
	numWorkers int // N-1
	log        utils.Logger

	status      map[transport.Rank]Status
	activeCount int
}

// New constructs a Coordinator for numWorkers non-coordinator ranks
// (1..numWorkers), bound to t (rank 0's transport endpoint).
func New(t transport.Transport, numWorkers int, log utils.Logger) *Coordinator {
	c := &Coordinator{
		t:          t,
		numWorkers: numWorkers,
		log:        log,
		status:     make(map[transport.Rank]Status, numWorkers),
	}
	for r := 1; r <= numWorkers; r++ {
		c.status[transport.Rank(r)] = Running
	}
	c.activeCount = numWorkers
	return c
}

// BroadcastFilePath sends the dataset path to every worker (spec §4.4).
func (c *Coordinator) BroadcastFilePath(ctx context.Context, path string) error {
	payload := transport.EncodeString(path)
	for r := 1; r <= c.numWorkers; r++ {
		if err := c.t.Send(ctx, transport.Rank(r), transport.FilePath, payload); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the brokering loop until every worker is Idle, broadcasts
// ALL_DONE, and aggregates the final result. The loop never blocks: it
// spins on non-blocking probes for SUBTASK_DONE and HELP_REQUEST, exactly
// mirroring the spec's no-timeout, first-fit brokering discipline.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	for c.activeCount > 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.t.Probe(transport.AnySource, transport.SubtaskDone) {
			src, _, err := c.t.Recv(ctx, transport.AnySource, transport.SubtaskDone)
			if err != nil {
				return nil, err
			}
			c.activeCount--
			c.status[src] = Idle
			c.log.Debug("rank %d reported SUBTASK_DONE, active=%d", src, c.activeCount)
		}
		if c.t.Probe(transport.AnySource, transport.HelpRequest) {
			src, _, err := c.t.Recv(ctx, transport.AnySource, transport.HelpRequest)
			if err != nil {
				return nil, err
			}
			helper := c.selectHelper()
			if helper != 0 {
				c.status[helper] = Helping
				c.activeCount++
			}
			if err := c.t.Send(ctx, src, transport.HelpResponse, transport.EncodeInt(int(helper))); err != nil {
				return nil, err
			}
		}
		runtime.Gosched()
	}

	for r := 1; r <= c.numWorkers; r++ {
		if err := c.t.Send(ctx, transport.Rank(r), transport.AllDone, transport.EncodeInt(0)); err != nil {
			return nil, err
		}
	}

	return c.aggregate(ctx)
}

// selectHelper scans ranks 1..N-1 for the first Idle rank (first-fit,
// deterministic given message arrival order; no fairness or affinity).
func (c *Coordinator) selectHelper() transport.Rank {
	for r := 1; r <= c.numWorkers; r++ {
		rank := transport.Rank(r)
		if c.status[rank] == Idle {
			return rank
		}
	}
	return 0
}

// aggregate receives each worker's CountTable and statistics, summing
// pairwise by clique size and by statistic.
func (c *Coordinator) aggregate(ctx context.Context) (*Result, error) {
	result := &Result{Counts: enumerator.NewCountTable()}
	for r := 1; r <= c.numWorkers; r++ {
		rank := transport.Rank(r)
		_, countsPayload, err := c.t.Recv(ctx, rank, transport.ResultCounts)
		if err != nil {
			return nil, err
		}
		result.Counts.Merge(enumerator.FromSlice(transport.DecodeInt64s(countsPayload)))

		_, sentPayload, err := c.t.Recv(ctx, rank, transport.StatSent)
		if err != nil {
			return nil, err
		}
		_, acceptedPayload, err := c.t.Recv(ctx, rank, transport.StatAccepted)
		if err != nil {
			return nil, err
		}
		_, rejectedPayload, err := c.t.Recv(ctx, rank, transport.StatRejected)
		if err != nil {
			return nil, err
		}
		result.HelpSent += sum(transport.DecodeInt64s(sentPayload))
		result.HelpAccepted += sum(transport.DecodeInt64s(acceptedPayload))
		result.HelpRejected += sum(transport.DecodeInt64s(rejectedPayload))
	}
	return result, nil
}

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}
