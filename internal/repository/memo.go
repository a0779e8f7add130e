package repository

import (
	"context"

	"nicecatcher/internal/model"
)

// MemoFilter narrows List results. Nil fields mean no constraint; set
// fields are ANDed together.
type MemoFilter struct {
	Status    *string
	ProjectID *string
}

// MemoUpdate is a partial update. Only fields whose Set flag is true are
// applied; the pointer fields distinguish "set to null" from "leave
// untouched".
type MemoUpdate struct {
	Content      *string
	ContentSet   bool
	ProjectID    *string
	ProjectIDSet bool
	Status       string
	StatusSet    bool
}

// IsZero reports whether the update would change nothing.
func (u MemoUpdate) IsZero() bool {
	return !u.ContentSet && !u.ProjectIDSet && !u.StatusSet
}

// MemoRepository defines data access for memos.
// No business logic here — strictly persistence operations, always scoped
// to the owning user.
type MemoRepository interface {
	// Insert stores a new memo record and returns the stored memo.
	Insert(ctx context.Context, memo *model.Memo) (*model.Memo, error)

	// Find returns the memo with the given id owned by userID, or
	// ErrNotFound when no such row exists.
	Find(ctx context.Context, id, userID string) (*model.Memo, error)

	// Update applies a partial update to an owned memo and returns the
	// updated record, or ErrNotFound.
	Update(ctx context.Context, id, userID string, upd MemoUpdate) (*model.Memo, error)

	// List returns all memos owned by userID matching the filter, oldest
	// first.
	List(ctx context.Context, userID string, f MemoFilter) ([]model.Memo, error)

	// SetAttachments replaces the memo's attachment list in one write and
	// returns the updated record, or ErrNotFound.
	SetAttachments(ctx context.Context, id, userID string, attachments []model.Attachment) (*model.Memo, error)

	// Delete removes an owned memo, or returns ErrNotFound.
	Delete(ctx context.Context, id, userID string) error
}
