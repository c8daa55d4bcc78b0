package ingest

import (
	"context"

	"github.com/dmitrijs2005/clipvault/internal/server/models"
	"github.com/dmitrijs2005/clipvault/internal/server/transcoder"
	"github.com/stretchr/testify/mock"
)

type MockTranscoder struct {
	mock.Mock
}

func (m *MockTranscoder) Transcode(ctx context.Context, job transcoder.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Publish(ctx context.Context, srcPath, name, contentType string) (string, error) {
	args := m.Called(ctx, srcPath, name, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Remove(ctx context.Context, storedPath string) error {
	args := m.Called(ctx, storedPath)
	return args.Error(0)
}

func (m *MockStore) Manages(storedPath string) bool {
	args := m.Called(storedPath)
	return args.Bool(0)
}

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Put(ctx context.Context, v *models.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVideoRepository) Get(ctx context.Context, id string) (*models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockVideoRepository) List(ctx context.Context) ([]*models.Video, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Video), args.Error(1)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, v any) error {
	args := m.Called(ctx, subject, v)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
