// Package enumerator implements the Chiba-Nishizeki-style, node-ordered
// depth-first clique extension described in the engine's core design: a
// strict total order on node identifiers eliminates duplicate discovery
// without any auxiliary seen-set, and mid-search donation offers let an
// idle peer take over the remainder of a candidate range.
package enumerator

import (
	"context"

	"github.com/cliquecount/internal/graph"
	"github.com/cliquecount/pkg/collections"
)

// candidatePoolCap is the initial per-slice capacity handed out by the
// enumerator's []int pools. Candidate lists shrink by at least one node
// per recursion level, so a buffer sized for the average degree covers
// most levels without regrowing.
const candidatePoolCap = 64

// Enumerator holds one worker's count table and runs the recursive
// extension against a read-only Graph. A zero Threshold means "compute
// lazily from the graph on first use" (spec §4.2).
type Enumerator struct {
	graph     *graph.Graph
	counts    *CountTable
	requester HelpRequester

	donationEnabled bool
	threshold       int
	thresholdSet    bool

	candidatePool *collections.SlicePool[int]
	basePool      *collections.SlicePool[int]
}

// New creates an Enumerator over g, reporting into a fresh CountTable and
// offering donations through requester when donationEnabled is true.
// threshold <= 0 means auto-compute per spec §4.2 on first use.
func New(g *graph.Graph, requester HelpRequester, donationEnabled bool, threshold int) *Enumerator {
	e := &Enumerator{
		graph:           g,
		counts:          NewCountTable(),
		requester:       requester,
		donationEnabled: donationEnabled,
		candidatePool:   collections.NewSlicePool[int](candidatePoolCap),
		basePool:        collections.NewSlicePool[int](candidatePoolCap),
	}
	if threshold > 0 {
		e.threshold = threshold
		e.thresholdSet = true
	}
	return e
}

// Counts returns the enumerator's accumulated count table.
func (e *Enumerator) Counts() *CountTable { return e.counts }

// Threshold returns the donation threshold, computing it lazily from the
// graph's (num_edges / num_nodes) * 5, floored at 2, on first call.
func (e *Enumerator) Threshold() int {
	if !e.thresholdSet {
		e.threshold = computeThreshold(e.graph.NumEdges(), e.graph.NumNodes())
		e.thresholdSet = true
	}
	return e.threshold
}

func computeThreshold(numEdges, numNodes int) int {
	if numNodes == 0 {
		return 2
	}
	t := (numEdges / numNodes) * 5
	if t < 2 {
		return 2
	}
	return t
}

// RunPartition enumerates every base node this worker (rank workerID, out
// of numWorkers-1 non-coordinator workers) is responsible for under the
// spec's source-mod-(N-1) partition: worker p owns every edge (s,t) with
// s<t and s mod (N-1) == p-1.
func (e *Enumerator) RunPartition(ctx context.Context, workerID, numWorkers int) error {
	workerCount := numWorkers - 1
	for _, s := range e.graph.Nodes() {
		if workerCount <= 0 || s%workerCount != workerID-1 {
			continue
		}
		candidates := e.candidatesAbove(s)
		if len(candidates) <= 1 {
			e.counts.Add(2, int64(len(candidates)))
			continue
		}
		if err := e.extend(ctx, 3, []int{s}, candidates, 0, len(candidates), false); err != nil {
			return err
		}
	}
	return nil
}

// candidatesAbove returns C_s = {t : (s,t) is an edge, s<t}, in node order
// (the Graph's neighbor lists are sorted after Finalize).
func (e *Enumerator) candidatesAbove(s int) []int {
	neighbors := e.graph.Neighbors(s)
	out := make([]int, 0, e.graph.Degree(s))
	for _, t := range neighbors {
		if t > s {
			out = append(out, t)
		}
	}
	return out
}

// RunFrame processes a DonationFrame received from a peer. The recursion
// guard suppresses only the first donation check this invocation would
// make (spec's anti-thrash rule): a freshly helped worker must make at
// least one unit of local progress before it is allowed to re-donate.
func (e *Enumerator) RunFrame(ctx context.Context, f DonationFrame) error {
	return e.extend(ctx, f.Depth, f.Base, f.Candidates, f.Start, f.End, true)
}

// extend is the recursive core. guardFirstIter suppresses the donation
// check for exactly the first iteration of this call (i==start); it is
// always false for recursive calls this invocation spawns, matching the
// spec's "guard covers exactly one candidate iteration" rule.
func (e *Enumerator) extend(ctx context.Context, depth int, base, candidates []int, start, end int, guardFirstIter bool) error {
	for i := start; i < end; i++ {
		guardThisIter := guardFirstIter && i == start
		if !guardThisIter && e.donationEnabled && (end-i) > e.Threshold() {
			if helper, ok := e.requester.RequestHelp(ctx); ok {
				e.requester.Donate(ctx, DonationFrame{
					Depth:      depth,
					Base:       append([]int(nil), base...),
					Candidates: candidates,
					Start:      i,
					End:        end,
				}, helper)
				return nil
			}
		}

		ci := candidates[i]
		candidatePtr := e.candidatePool.Get()
		newCandidates := (*candidatePtr)[:0]
		for j := i + 1; j < len(candidates); j++ {
			cj := candidates[j]
			if e.graph.IsEdge(ci, cj) {
				newCandidates = append(newCandidates, cj)
				e.counts.Add(depth, 1)
			}
		}

		var err error
		if len(newCandidates) > 1 {
			basePtr := e.basePool.Get()
			newBase := append((*basePtr)[:0], base...)
			newBase = append(newBase, ci)

			err = e.extend(ctx, depth+1, newBase, newCandidates, 0, len(newCandidates), false)

			*basePtr = newBase
			e.basePool.Put(basePtr)
		}

		*candidatePtr = newCandidates
		e.candidatePool.Put(candidatePtr)

		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}
