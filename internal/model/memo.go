package model

import "time"

// Statuses the service itself assigns. Callers may write arbitrary status
// strings through the update endpoint; these two are the only values the
// backend sets on its own.
const (
	StatusPending      = "pending"
	StatusReviewNeeded = "review_needed"
)

// Memo is a single captured voice note: transcript, audio reference,
// attachments and review status. This is a pure domain model with no
// persistence-specific tags; adapters map it to their own representation.
type Memo struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Content     *string      `json:"content"`
	AudioPath   string       `json:"audio_path"`
	ProjectID   *string      `json:"project_id"`
	Status      string       `json:"status"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"created_at"`

	// AudioURL is derived: a fresh time-limited download URL computed for
	// outgoing responses. It is never persisted.
	AudioURL string `json:"audio_url,omitempty"`
}
