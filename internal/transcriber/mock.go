package transcriber

import (
	"context"
	"fmt"
)

// Mock fabricates a transcript without leaving the process. It stands in
// for the provider in mock mode and keeps offline development usable.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

// EstimatedWait reports the fixed short wait advertised in mock mode.
func (m *Mock) EstimatedWait() string { return "2s" }

func (m *Mock) Transcribe(_ context.Context, filename, _ string, _ []byte) (string, error) {
	return fmt.Sprintf("Mock transcription for %s", filename), nil
}
