package mocks

import (
	"context"

	"nicecatcher/internal/model"
	"nicecatcher/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockMemoService struct {
	mock.Mock
}

func (m *MockMemoService) Capture(ctx context.Context, userID string, in service.CaptureInput) (*service.CaptureResult, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CaptureResult), args.Error(1)
}

func (m *MockMemoService) Update(ctx context.Context, userID, memoID string, patch service.MemoPatch) (*model.Memo, error) {
	args := m.Called(ctx, userID, memoID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoService) List(ctx context.Context, userID string, f service.ListFilter) ([]model.Memo, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Memo), args.Error(1)
}

func (m *MockMemoService) ListProjects(ctx context.Context, userID string) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockMemoService) AddMedia(ctx context.Context, userID, memoID string, files []service.MediaUpload) (*model.Memo, error) {
	args := m.Called(ctx, userID, memoID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoService) AddLocation(ctx context.Context, userID, memoID string, lat, lng float64) (*model.Memo, error) {
	args := m.Called(ctx, userID, memoID, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoService) Delete(ctx context.Context, userID, memoID string) error {
	args := m.Called(ctx, userID, memoID)
	return args.Error(0)
}
