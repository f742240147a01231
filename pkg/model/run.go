// Package model defines the core data structures used throughout the application.
package model

import "time"

// RunConfig captures the parameters a single engine invocation was
// launched with (spec §6's CLI flags), independent of where the
// dataset came from or how the run turned out.
type RunConfig struct {
	Dataset         string
	FilePath        string
	NumRanks        int
	DonationEnabled bool
	Threshold       int
	Verbose         bool
}

// WorkerStats is one rank's donation activity, mirroring
// worker.Stats but decoupled from the transport layer so it can be
// persisted or logged independently of a live run.
type WorkerStats struct {
	Rank     int
	Sent     int64
	Accepted int64
	Rejected int64
}

// RunSummary is the result of one completed engine run: the clique
// counts by size, aggregate donation statistics, and timing, in the
// shape spec §6's output line and history.Store both need.
type RunSummary struct {
	Dataset         string
	NumRanks        int
	DonationEnabled bool
	Threshold       int
	Counts          map[int]int64
	TotalCliques    int64
	HelpSent        int64
	HelpAccepted    int64
	HelpRejected    int64
	ElapsedSeconds  float64
	CreatedAt       time.Time
}
