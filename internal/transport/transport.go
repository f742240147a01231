// Package transport defines the ranked, tagged message-passing abstraction
// the coordinator and workers exchange control and data over, plus one
// concrete in-process implementation backed by goroutines and a shared,
// mutex-guarded queue hub.
package transport

import "context"

// Rank identifies a participant. Rank 0 is always the coordinator.
type Rank int

// AnySource matches a message from any sender when passed to Probe or Recv.
const AnySource Rank = -1

// Tag names a message kind. Tags are compared across (source, dest) pairs
// that are ordered FIFO independently of any other tag or pair.
type Tag int

// Tags required by the coordinator/worker donation protocol.
const (
	FilePath Tag = iota
	HelpRequest
	HelpResponse
	DonationDepth
	DonationStart
	DonationEnd
	DonationBase
	DonationCandidates
	SubtaskDone
	AllDone
	ResultCounts
	StatSent
	StatAccepted
	StatRejected
)

// Transport is the message-passing surface the core algorithm depends on.
// Implementations are not required to support concurrent use of the same
// Transport value from multiple goroutines unless the value represents a
// distinct rank's endpoint into a shared medium (as Local does).
type Transport interface {
	// Rank returns this endpoint's own rank.
	Rank() Rank
	// Size returns the total number of ranks (including the coordinator).
	Size() int
	// Send delivers payload to dest under tag. May block on back-pressure.
	Send(ctx context.Context, dest Rank, tag Tag, payload []byte) error
	// Recv blocks until a message from source (or AnySource) under tag is
	// available, then returns it along with the rank that actually sent it.
	Recv(ctx context.Context, source Rank, tag Tag) (Rank, []byte, error)
	// Probe non-blockingly reports whether a matching message is queued.
	Probe(source Rank, tag Tag) bool
}
