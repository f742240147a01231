package transport

import (
	"context"
	"sync"

	apperrors "github.com/cliquecount/pkg/errors"
)

// queueKey identifies one FIFO queue: all messages sent to dest under tag,
// regardless of sender. Per-sender FIFO ordering (the spec's (source,
// dest, tag) guarantee) falls out naturally because a single sender only
// ever appends to this queue in the order it calls Send.
type queueKey struct {
	dest Rank
	tag  Tag
}

type queuedMsg struct {
	source  Rank
	payload []byte
}

// hub is the shared medium every rank's endpoint sends into and receives
// from. It is the in-process substitute for the spec's "ranked processes"
// transport: one goroutine per rank, one hub, channel-shaped FIFO queues
// guarded by a condition variable instead of unbounded channels so that
// Probe can peek without consuming.
type hub struct {
	size int

	mu     sync.Mutex
	cond   *sync.Cond
	queues map[queueKey][]queuedMsg
	closed bool
}

// NewLocal creates size endpoints (rank 0..size-1) sharing one in-process
// hub. This is the only Transport implementation the spec requires (§6
// treats the transport as an interface); ranks are goroutines, and a
// mutex-guarded FIFO slice queue per (dest, tag) renders the spec's
// ordering guarantee exactly.
func NewLocal(size int) []Transport {
	h := &hub{
		size:   size,
		queues: make(map[queueKey][]queuedMsg),
	}
	h.cond = sync.NewCond(&h.mu)
	endpoints := make([]Transport, size)
	for r := 0; r < size; r++ {
		endpoints[r] = &endpoint{hub: h, self: Rank(r)}
	}
	return endpoints
}

// Close wakes any endpoint blocked in Recv with a transport error. Useful
// for tests that want to assert a worker would otherwise hang.
func (h *hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.cond.Broadcast()
}

type endpoint struct {
	hub  *hub
	self Rank
}

func (e *endpoint) Rank() Rank { return e.self }
func (e *endpoint) Size() int  { return e.hub.size }

func (e *endpoint) Send(ctx context.Context, dest Rank, tag Tag, payload []byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	h := e.hub
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return apperrors.Wrap(apperrors.CodeTransportError, "send on closed transport", ctx.Err())
	}
	key := queueKey{dest: dest, tag: tag}
	h.queues[key] = append(h.queues[key], queuedMsg{source: e.self, payload: payload})
	h.mu.Unlock()
	h.cond.Broadcast()
	return nil
}

func (e *endpoint) Recv(ctx context.Context, source Rank, tag Tag) (Rank, []byte, error) {
	h := e.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	for {
		if idx, ok := findMatch(h.queues[queueKey{dest: e.self, tag: tag}], source); ok {
			q := h.queues[queueKey{dest: e.self, tag: tag}]
			msg := q[idx]
			h.queues[queueKey{dest: e.self, tag: tag}] = append(q[:idx], q[idx+1:]...)
			return msg.source, msg.payload, nil
		}
		if h.closed {
			return 0, nil, apperrors.New(apperrors.CodeTransportError, "recv on closed transport")
		}
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		h.cond.Wait()
	}
}

func (e *endpoint) Probe(source Rank, tag Tag) bool {
	h := e.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := findMatch(h.queues[queueKey{dest: e.self, tag: tag}], source)
	return ok
}

func findMatch(q []queuedMsg, source Rank) (int, bool) {
	if source == AnySource {
		if len(q) == 0 {
			return 0, false
		}
		return 0, true
	}
	for i, m := range q {
		if m.source == source {
			return i, true
		}
	}
	return 0, false
}
