package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliquecount/internal/testutil"
	"github.com/cliquecount/internal/transport"
	"github.com/cliquecount/pkg/utils"
)

// TestWorker_SingleWorkerLifecycle drives one worker against a fake
// coordinator endpoint (rank 0) over the Local transport, asserting the
// SUBTASK_DONE -> ALL_DONE -> RESULT_COUNTS sequence and that the
// aggregated count matches the triangle scenario (spec §8 scenario 1).
func TestWorker_SingleWorkerLifecycle(t *testing.T) {
	endpoints := transport.NewLocal(2)
	coord := endpoints[0]
	cfg := Config{ID: 1, NumWorkers: 2, DonationEnabled: false}
	w := New(cfg, endpoints[1], testutil.BuildGraph(testutil.TriangleEdges()), &utils.NullLogger{})

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err := coord.Recv(ctx, 1, transport.SubtaskDone)
	require.NoError(t, err)

	require.NoError(t, coord.Send(ctx, 1, transport.AllDone, transport.EncodeInt(0)))

	_, payload, err := coord.Recv(ctx, 1, transport.ResultCounts)
	require.NoError(t, err)
	counts := transport.DecodeInt64s(payload)
	require.NoError(t, <-done)

	require.Greater(t, len(counts), 3)
	assert.Equal(t, int64(1), counts[3])
}

// TestWorker_DonationRoundTrip drives two workers through a minimal
// coordinator stand-in that grants each HELP_REQUEST to the other worker
// when that worker is idle, and checks that the triangle counts summed
// across both workers equal the graph's full triangle count.
func TestWorker_DonationRoundTrip(t *testing.T) {
	g := testutil.BuildGraph(testutil.StarOfCliquesEdges(2))

	endpoints := transport.NewLocal(3)
	coord := endpoints[0]

	w1 := New(Config{ID: 1, NumWorkers: 3, DonationEnabled: true, Threshold: 2}, endpoints[1], g, &utils.NullLogger{})
	w2 := New(Config{ID: 2, NumWorkers: 3, DonationEnabled: true, Threshold: 2}, endpoints[2], g, &utils.NullLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	doneCh := make(chan error, 2)
	go func() { doneCh <- w1.Run(ctx) }()
	go func() { doneCh <- w2.Run(ctx) }()

	go func() {
		active := 2
		status := map[transport.Rank]bool{1: true, 2: true} // true == running/helping
		for active > 0 {
			if coord.Probe(transport.AnySource, transport.SubtaskDone) {
				src, _, err := coord.Recv(ctx, transport.AnySource, transport.SubtaskDone)
				if err != nil {
					return
				}
				active--
				status[src] = false
			}
			if coord.Probe(transport.AnySource, transport.HelpRequest) {
				src, _, err := coord.Recv(ctx, transport.AnySource, transport.HelpRequest)
				if err != nil {
					return
				}
				helper := transport.Rank(0)
				for r := transport.Rank(1); r < 3; r++ {
					if r != src && !status[r] {
						helper = r
						break
					}
				}
				if helper != 0 {
					status[helper] = true
					active++
				}
				_ = coord.Send(ctx, src, transport.HelpResponse, transport.EncodeInt(int(helper)))
			}
		}
		_ = coord.Send(ctx, 1, transport.AllDone, transport.EncodeInt(0))
		_ = coord.Send(ctx, 2, transport.AllDone, transport.EncodeInt(0))
	}()

	total := int64(0)
	for i := 0; i < 2; i++ {
		_, payload, err := coord.Recv(ctx, transport.AnySource, transport.ResultCounts)
		require.NoError(t, err)
		counts := transport.DecodeInt64s(payload)
		if len(counts) > 3 {
			total += counts[3]
		}
	}
	require.NoError(t, <-doneCh)
	require.NoError(t, <-doneCh)

	assert.Equal(t, int64(8), total)
}
