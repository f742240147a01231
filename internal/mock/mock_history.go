// Package mock provides testify-based test doubles for the engine's
// external collaborators (history.Store, ingest.DataSource).
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cliquecount/pkg/model"
)

// MockStore is a mock implementation of the history.Store interface.
type MockStore struct {
	mock.Mock
}

// SaveRun mocks the SaveRun method.
func (m *MockStore) SaveRun(ctx context.Context, summary *model.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// RecentRuns mocks the RecentRuns method.
func (m *MockStore) RecentRuns(ctx context.Context, dataset string, limit int) ([]*model.RunSummary, error) {
	args := m.Called(ctx, dataset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RunSummary), args.Error(1)
}

// ExpectSaveRun sets up an expectation for SaveRun.
func (m *MockStore) ExpectSaveRun(err error) *mock.Call {
	return m.On("SaveRun", mock.Anything, mock.Anything).Return(err)
}

// ExpectRecentRuns sets up an expectation for RecentRuns.
func (m *MockStore) ExpectRecentRuns(dataset string, limit int, runs []*model.RunSummary, err error) *mock.Call {
	return m.On("RecentRuns", mock.Anything, dataset, limit).Return(runs, err)
}
