package mock

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of the ingest.DataSource
// interface.
type MockDataSource struct {
	mock.Mock
}

// Open mocks the Open method.
func (m *MockDataSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// ExpectOpen sets up an expectation for Open.
func (m *MockDataSource) ExpectOpen(key string, rc io.ReadCloser, err error) *mock.Call {
	return m.On("Open", mock.Anything, key).Return(rc, err)
}
