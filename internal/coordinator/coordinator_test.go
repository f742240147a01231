package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliquecount/internal/graph"
	"github.com/cliquecount/internal/testutil"
	"github.com/cliquecount/internal/transport"
	"github.com/cliquecount/internal/worker"
	"github.com/cliquecount/pkg/utils"
)

// runFleet wires one Coordinator and numWorkers Workers over the Local
// transport and returns the aggregated Result, mirroring the control flow
// of spec §2: the coordinator distributes the graph (here, supplied
// directly to each worker since ingest is out of scope), then brokers
// until every worker is idle.
func runFleet(t *testing.T, g *graph.Graph, numWorkers int, donate bool, threshold int) *Result {
	t.Helper()
	endpoints := transport.NewLocal(numWorkers + 1)
	coord := New(endpoints[0], numWorkers, &utils.NullLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for r := 1; r <= numWorkers; r++ {
		w := worker.New(worker.Config{
			ID:              r,
			NumWorkers:      numWorkers + 1,
			DonationEnabled: donate,
			Threshold:       threshold,
		}, endpoints[r], g, &utils.NullLogger{})
		go func() {
			_ = w.Run(ctx)
		}()
	}

	result, err := coord.Run(ctx)
	require.NoError(t, err)
	return result
}

func TestCoordinator_Triangle(t *testing.T) {
	g := testutil.BuildGraph(testutil.TriangleEdges())
	result := runFleet(t, g, 1, false, 0)
	assert.Equal(t, int64(1), result.Counts.Get(3))
	assert.Equal(t, int64(0), result.Counts.Get(4))
}

func TestCoordinator_K4(t *testing.T) {
	g := testutil.BuildGraph(testutil.K4Edges())
	result := runFleet(t, g, 1, false, 0)
	assert.Equal(t, int64(4), result.Counts.Get(3))
	assert.Equal(t, int64(1), result.Counts.Get(4))
}

func TestCoordinator_K5TwoWorkers(t *testing.T) {
	g := testutil.BuildGraph(testutil.K5Edges())
	result := runFleet(t, g, 2, false, 0)
	assert.Equal(t, int64(10), result.Counts.Get(3))
	assert.Equal(t, int64(5), result.Counts.Get(4))
	assert.Equal(t, int64(1), result.Counts.Get(5))
}

func TestCoordinator_TwoDisjointTriangles(t *testing.T) {
	g := testutil.BuildGraph(testutil.TwoDisjointTrianglesEdges())
	result := runFleet(t, g, 1, false, 0)
	assert.Equal(t, int64(2), result.Counts.Get(3))
}

func TestCoordinator_Bowtie(t *testing.T) {
	g := testutil.BuildGraph(testutil.BowtieEdges())
	result := runFleet(t, g, 1, false, 0)
	assert.Equal(t, int64(2), result.Counts.Get(3))
	assert.Equal(t, int64(0), result.Counts.Get(4))
}

// TestCoordinator_DonationNeutrality is the donation-stress scenario
// (spec §8 scenario 6): a star-of-cliques under N=4 with a low threshold
// must aggregate to the same total as the single-worker, donation-off
// baseline.
func TestCoordinator_DonationNeutrality(t *testing.T) {
	g := testutil.BuildGraph(testutil.StarOfCliquesEdges(4))

	baseline := runFleet(t, g, 1, false, 0)
	withDonation := runFleet(t, g, 3, true, 2)

	assert.Equal(t, baseline.Counts.Get(3), withDonation.Counts.Get(3))
	assert.Equal(t, baseline.Counts.Get(4), withDonation.Counts.Get(4))
}

func TestCoordinator_HelpStatsAggregated(t *testing.T) {
	g := testutil.BuildGraph(testutil.StarOfCliquesEdges(2))
	result := runFleet(t, g, 3, true, 2)
	assert.Equal(t, result.HelpSent, result.HelpAccepted+result.HelpRejected)
}
