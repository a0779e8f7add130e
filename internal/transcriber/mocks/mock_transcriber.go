package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, filename, contentType string, audio []byte) (string, error) {
	args := m.Called(ctx, filename, contentType, audio)
	return args.String(0), args.Error(1)
}

func (m *MockTranscriber) EstimatedWait() string {
	args := m.Called()
	return args.String(0)
}
