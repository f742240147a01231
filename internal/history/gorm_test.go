package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliquecount/pkg/model"
)

func TestGormStore_SaveAndRecentRuns(t *testing.T) {
	store, err := NewSQLiteStore("")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	summary := &model.RunSummary{
		Dataset:         "triangle.tsv",
		NumRanks:        3,
		DonationEnabled: true,
		Threshold:       2,
		Counts:          map[int]int64{3: 1},
		HelpSent:        4,
		HelpAccepted:    2,
		HelpRejected:    2,
		ElapsedSeconds:  0.5,
	}
	require.NoError(t, store.SaveRun(ctx, summary))

	runs, err := store.RecentRuns(ctx, "triangle.tsv", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(1), runs[0].Counts[3])
	assert.Equal(t, int64(4), runs[0].HelpSent)
	assert.True(t, runs[0].DonationEnabled)
}

func TestGormStore_RecentRunsOrderedNewestFirst(t *testing.T) {
	store, err := NewSQLiteStore("")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveRun(ctx, &model.RunSummary{
			Dataset: "d.tsv",
			Counts:  map[int]int64{3: int64(i)},
		}))
	}

	runs, err := store.RecentRuns(ctx, "d.tsv", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(2), runs[0].Counts[3])
	assert.Equal(t, int64(1), runs[1].Counts[3])
}

func TestGormStore_RecentRunsFiltersByDataset(t *testing.T) {
	store, err := NewSQLiteStore("")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, &model.RunSummary{Dataset: "a.tsv", Counts: map[int]int64{}}))
	require.NoError(t, store.SaveRun(ctx, &model.RunSummary{Dataset: "b.tsv", Counts: map[int]int64{}}))

	runs, err := store.RecentRuns(ctx, "a.tsv", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a.tsv", runs[0].Dataset)
}

func TestNew_NilConfigIsNoOp(t *testing.T) {
	store, err := New(nil)
	require.NoError(t, err)
	assert.Nil(t, store)
}
