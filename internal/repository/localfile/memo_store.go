package localfile

import (
	"context"
	"path/filepath"

	"nicecatcher/internal/model"
	"nicecatcher/internal/repository"
)

// MemoStore is the JSON-file implementation of repository.MemoRepository.
type MemoStore struct {
	path string
}

// NewMemoStore creates the data directory if needed and returns a store
// backed by memos.json inside it.
func NewMemoStore(dir string) (*MemoStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &MemoStore{path: filepath.Join(dir, memosFile)}, nil
}

var _ repository.MemoRepository = (*MemoStore)(nil)

func (s *MemoStore) Insert(_ context.Context, memo *model.Memo) (*model.Memo, error) {
	memos, err := readAll[model.Memo](s.path)
	if err != nil {
		return nil, err
	}
	stored := *memo
	normalize(&stored)
	memos = append(memos, stored)
	if err := writeAll(s.path, memos); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *MemoStore) Find(_ context.Context, id, userID string) (*model.Memo, error) {
	memos, err := readAll[model.Memo](s.path)
	if err != nil {
		return nil, err
	}
	for i := range memos {
		if memos[i].ID == id && memos[i].UserID == userID {
			m := memos[i]
			normalize(&m)
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *MemoStore) Update(_ context.Context, id, userID string, upd repository.MemoUpdate) (*model.Memo, error) {
	memos, err := readAll[model.Memo](s.path)
	if err != nil {
		return nil, err
	}
	for i := range memos {
		if memos[i].ID != id || memos[i].UserID != userID {
			continue
		}
		if upd.ContentSet {
			memos[i].Content = upd.Content
		}
		if upd.ProjectIDSet {
			memos[i].ProjectID = upd.ProjectID
		}
		if upd.StatusSet {
			memos[i].Status = upd.Status
		}
		if err := writeAll(s.path, memos); err != nil {
			return nil, err
		}
		m := memos[i]
		normalize(&m)
		return &m, nil
	}
	return nil, repository.ErrNotFound
}

func (s *MemoStore) List(_ context.Context, userID string, f repository.MemoFilter) ([]model.Memo, error) {
	memos, err := readAll[model.Memo](s.path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Memo, 0, len(memos))
	for i := range memos {
		m := memos[i]
		if m.UserID != userID {
			continue
		}
		if f.Status != nil && m.Status != *f.Status {
			continue
		}
		if f.ProjectID != nil && (m.ProjectID == nil || *m.ProjectID != *f.ProjectID) {
			continue
		}
		normalize(&m)
		out = append(out, m)
	}
	return out, nil
}

func (s *MemoStore) SetAttachments(_ context.Context, id, userID string, attachments []model.Attachment) (*model.Memo, error) {
	if attachments == nil {
		attachments = []model.Attachment{}
	}
	memos, err := readAll[model.Memo](s.path)
	if err != nil {
		return nil, err
	}
	for i := range memos {
		if memos[i].ID != id || memos[i].UserID != userID {
			continue
		}
		memos[i].Attachments = attachments
		if err := writeAll(s.path, memos); err != nil {
			return nil, err
		}
		m := memos[i]
		return &m, nil
	}
	return nil, repository.ErrNotFound
}

func (s *MemoStore) Delete(_ context.Context, id, userID string) error {
	memos, err := readAll[model.Memo](s.path)
	if err != nil {
		return err
	}
	for i := range memos {
		if memos[i].ID == id && memos[i].UserID == userID {
			memos = append(memos[:i], memos[i+1:]...)
			return writeAll(s.path, memos)
		}
	}
	return repository.ErrNotFound
}

// normalize keeps the attachments field a non-nil slice so responses
// always render it as a JSON array.
func normalize(m *model.Memo) {
	if m.Attachments == nil {
		m.Attachments = []model.Attachment{}
	}
}
