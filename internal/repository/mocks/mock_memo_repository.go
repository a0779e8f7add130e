package mocks

import (
	"context"

	"nicecatcher/internal/model"
	"nicecatcher/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockMemoRepository struct {
	mock.Mock
}

func (m *MockMemoRepository) Insert(ctx context.Context, memo *model.Memo) (*model.Memo, error) {
	args := m.Called(ctx, memo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoRepository) Find(ctx context.Context, id, userID string) (*model.Memo, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoRepository) Update(ctx context.Context, id, userID string, upd repository.MemoUpdate) (*model.Memo, error) {
	args := m.Called(ctx, id, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoRepository) List(ctx context.Context, userID string, f repository.MemoFilter) ([]model.Memo, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Memo), args.Error(1)
}

func (m *MockMemoRepository) SetAttachments(ctx context.Context, id, userID string, attachments []model.Attachment) (*model.Memo, error) {
	args := m.Called(ctx, id, userID, attachments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoRepository) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
