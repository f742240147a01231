package enumerator

import "context"

// DonationFrame describes a work unit transferable between workers: the
// slice of candidates[start:end] still to be scanned at this recursion
// depth, together with the base clique it extends.
type DonationFrame struct {
	Depth      int
	Base       []int
	Candidates []int
	Start      int
	End        int
}

// HelpRequester is the narrow capability the worker hands to the
// enumerator so the enumerator can offer work without holding a
// back-reference to the worker or the transport (spec §9). RequestHelp
// performs the synchronous HELP_REQUEST/HELP_RESPONSE round trip and
// returns the granted helper rank, or ok=false if the request was
// declined. Donate ships the frame to the given helper; it is only ever
// called immediately after a RequestHelp that returned ok=true.
type HelpRequester interface {
	RequestHelp(ctx context.Context) (helper int, ok bool)
	Donate(ctx context.Context, frame DonationFrame, helper int)
}
