// Package worker implements the non-coordinator side of the engine: one
// Graph, one CliqueEnumerator, the donation protocol's request/offer
// side, and the help-standby loop that keeps a finished worker available
// to absorb donated work until the coordinator broadcasts completion.
package worker

import (
	"context"
	"runtime"

	"github.com/cliquecount/internal/enumerator"
	"github.com/cliquecount/internal/graph"
	"github.com/cliquecount/internal/transport"
	"github.com/cliquecount/pkg/utils"
)

// Stats tracks this worker's donation activity, reported to the
// coordinator alongside its CountTable (spec §4.3).
type Stats struct {
	Sent     int64
	Accepted int64
	Rejected int64
}

// Config controls one worker's behavior, mirroring the CLI/engine-wide
// settings; the engine fills it in directly for each rank.
type Config struct {
	ID              int
	NumWorkers      int
	DonationEnabled bool
	Threshold       int
}

// Worker owns the Graph, the Enumerator, and the transport endpoint for
// one non-coordinator rank.
type Worker struct {
	cfg   Config
	t     transport.Transport
	log   utils.Logger
	graph *graph.Graph
	enum  *enumerator.Enumerator
	stats Stats
}

// New constructs a Worker bound to t (its own rank's transport endpoint).
// The graph is supplied already-loaded (ingestion is an external
// collaborator per spec §1); Run drives the enumeration and donation
// protocol against it.
func New(cfg Config, t transport.Transport, g *graph.Graph, log utils.Logger) *Worker {
	w := &Worker{cfg: cfg, t: t, log: log, graph: g}
	w.enum = enumerator.New(g, w, cfg.DonationEnabled, cfg.Threshold)
	return w
}

// RequestHelp implements enumerator.HelpRequester: it performs the
// synchronous HELP_REQUEST/HELP_RESPONSE round trip with the coordinator
// and updates this worker's accepted/rejected statistics.
func (w *Worker) RequestHelp(ctx context.Context) (int, bool) {
	w.stats.Sent++
	if err := w.t.Send(ctx, 0, transport.HelpRequest, transport.EncodeInt(0)); err != nil {
		panic(err)
	}
	_, payload, err := w.t.Recv(ctx, 0, transport.HelpResponse)
	if err != nil {
		panic(err)
	}
	helper := transport.DecodeInt(payload)
	if helper == 0 {
		w.stats.Rejected++
		return 0, false
	}
	w.stats.Accepted++
	return helper, true
}

// Donate implements enumerator.HelpRequester: it ships the frame's five
// fields to helper as five distinctly tagged messages, in the fixed
// order the spec requires (depth, start, end, base, candidates), so the
// helper may receive them in any order via tag-specific probed receives.
func (w *Worker) Donate(ctx context.Context, frame enumerator.DonationFrame, helper int) {
	dest := transport.Rank(helper)
	send := func(tag transport.Tag, payload []byte) {
		if err := w.t.Send(ctx, dest, tag, payload); err != nil {
			panic(err)
		}
	}
	send(transport.DonationDepth, transport.EncodeInt(frame.Depth))
	send(transport.DonationStart, transport.EncodeInt(frame.Start))
	send(transport.DonationEnd, transport.EncodeInt(frame.End))
	send(transport.DonationBase, transport.EncodeInts(frame.Base))
	send(transport.DonationCandidates, transport.EncodeInts(frame.Candidates))
}

// Run executes the full worker lifecycle (spec §4.3): run the initial
// partition, signal SUBTASK_DONE, then loop accepting donated frames
// until ALL_DONE, finally transmitting the CountTable and statistics.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Debug("rank %d starting initial partition", w.cfg.ID)
	if err := w.enum.RunPartition(ctx, w.cfg.ID, w.cfg.NumWorkers); err != nil {
		return err
	}
	if err := w.signalSubtaskDone(ctx); err != nil {
		return err
	}
	if err := w.helpStandby(ctx); err != nil {
		return err
	}
	w.log.Debug("rank %d done, sent=%d accepted=%d rejected=%d", w.cfg.ID, w.stats.Sent, w.stats.Accepted, w.stats.Rejected)
	return w.sendResults(ctx)
}

func (w *Worker) signalSubtaskDone(ctx context.Context) error {
	return w.t.Send(ctx, 0, transport.SubtaskDone, transport.EncodeInt(0))
}

// helpStandby probes for the ALL_DONE broadcast and then for a donated
// frame (any source), in that priority order, until ALL_DONE is observed.
// The spec permits substituting a blocking probe on a tag-union; this
// implementation spins on non-blocking probes, matching the coordinator's
// own brokering-loop style.
func (w *Worker) helpStandby(ctx context.Context) error {
	for {
		if w.t.Probe(transport.AnySource, transport.AllDone) {
			_, _, err := w.t.Recv(ctx, transport.AnySource, transport.AllDone)
			return err
		}
		if w.t.Probe(transport.AnySource, transport.DonationDepth) {
			frame, donor, err := w.recvFrame(ctx)
			if err != nil {
				return err
			}
			if err := w.enum.RunFrame(ctx, frame); err != nil {
				return err
			}
			_ = donor
			if err := w.signalSubtaskDone(ctx); err != nil {
				return err
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		runtime.Gosched()
	}
}

// recvFrame pulls the five donation fields, matching by tag rather than
// arrival order since distinct tags carry no cross-tag ordering guarantee.
func (w *Worker) recvFrame(ctx context.Context) (enumerator.DonationFrame, transport.Rank, error) {
	donor, depthPayload, err := w.t.Recv(ctx, transport.AnySource, transport.DonationDepth)
	if err != nil {
		return enumerator.DonationFrame{}, 0, err
	}
	_, startPayload, err := w.t.Recv(ctx, donor, transport.DonationStart)
	if err != nil {
		return enumerator.DonationFrame{}, 0, err
	}
	_, endPayload, err := w.t.Recv(ctx, donor, transport.DonationEnd)
	if err != nil {
		return enumerator.DonationFrame{}, 0, err
	}
	_, basePayload, err := w.t.Recv(ctx, donor, transport.DonationBase)
	if err != nil {
		return enumerator.DonationFrame{}, 0, err
	}
	_, candPayload, err := w.t.Recv(ctx, donor, transport.DonationCandidates)
	if err != nil {
		return enumerator.DonationFrame{}, 0, err
	}
	return enumerator.DonationFrame{
		Depth:      transport.DecodeInt(depthPayload),
		Start:      transport.DecodeInt(startPayload),
		End:        transport.DecodeInt(endPayload),
		Base:       transport.DecodeInts(basePayload),
		Candidates: transport.DecodeInts(candPayload),
	}, donor, nil
}

func (w *Worker) sendResults(ctx context.Context) error {
	maxSize := w.enum.Counts().MaxSize()
	if err := w.t.Send(ctx, 0, transport.ResultCounts, transport.EncodeInt64s(w.enum.Counts().ToSlice(maxSize))); err != nil {
		return err
	}
	if err := w.t.Send(ctx, 0, transport.StatSent, transport.EncodeInt64s([]int64{w.stats.Sent})); err != nil {
		return err
	}
	if err := w.t.Send(ctx, 0, transport.StatAccepted, transport.EncodeInt64s([]int64{w.stats.Accepted})); err != nil {
		return err
	}
	return w.t.Send(ctx, 0, transport.StatRejected, transport.EncodeInt64s([]int64{w.stats.Rejected}))
}

// Stats returns a copy of this worker's donation statistics.
func (w *Worker) Stats() Stats { return w.stats }

// Threshold returns this worker's donation threshold, resolving the
// auto-computed value (spec §4.2) if Config.Threshold was zero.
func (w *Worker) Threshold() int { return w.enum.Threshold() }
