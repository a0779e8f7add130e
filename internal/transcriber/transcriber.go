// Package transcriber turns captured audio into transcript text.
package transcriber

import (
	"context"
	"errors"
)

var (
	// ErrMissingToken means provider credentials were never configured.
	ErrMissingToken = errors.New("transcription provider token missing")
	// ErrUnavailable wraps provider-side failures: network errors,
	// non-success responses and undecodable bodies.
	ErrUnavailable = errors.New("transcription provider unavailable")
)

// Transcriber converts an audio blob into text.
type Transcriber interface {
	// Transcribe submits the audio and returns the transcript. filename
	// and contentType describe the blob as stored.
	Transcribe(ctx context.Context, filename, contentType string, audio []byte) (string, error)

	// EstimatedWait is the hint returned to capture callers: a short fixed
	// duration when transcription is immediate, "pending" when the result
	// arrives asynchronously.
	EstimatedWait() string
}
