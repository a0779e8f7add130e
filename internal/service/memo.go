package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nicecatcher/internal/model"
	"nicecatcher/internal/repository"
	"nicecatcher/internal/storage"
	"nicecatcher/internal/transcriber"
)

var (
	// ErrMemoNotFound is returned when the memo does not exist or belongs
	// to another user; callers cannot tell the two cases apart.
	ErrMemoNotFound = errors.New("memo not found")
	// ErrAttachmentsJSON flags an attachments form field that is not JSON.
	ErrAttachmentsJSON = errors.New("attachments must be valid JSON")
	// ErrAttachmentsArray flags attachments JSON that is not an array.
	ErrAttachmentsArray = errors.New("attachments must be a JSON array")
	// ErrProjectNotOwned is returned when a referenced project is missing
	// or owned by someone else.
	ErrProjectNotOwned = errors.New("project not found or not owned")
	// ErrTooManyFiles rejects media batches above the per-request cap.
	ErrTooManyFiles = errors.New("too many files")
	// ErrFileTooLarge rejects a media file above the per-file size cap.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsupportedMedia rejects media outside the accepted MIME types.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

const (
	maxMediaFiles    = 5
	maxMediaFileSize = 50 << 20 // 50 MiB
)

// allowedMediaTypes is the accepted set of media MIME types, mapped to the
// extension used when the uploaded filename has none.
var allowedMediaTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/heic":      ".heic",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

// CaptureInput is everything the capture endpoint extracts from the
// multipart request. The original filename contributes only its extension.
type CaptureInput struct {
	Filename       string
	ContentType    string
	Audio          []byte
	AttachmentsRaw string
}

// CaptureResult is the capture response payload. Memo carries the full
// record; the top-level fields repeat the bits clients poll on.
type CaptureResult struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	AudioURL      string      `json:"audio_url"`
	EstimatedWait string      `json:"estimated_wait"`
	Memo          *model.Memo `json:"memo"`
}

// MemoPatch is a partial memo update. The Set flags record which keys the
// caller actually supplied, so absent fields never overwrite stored values
// while explicit nulls clear them.
type MemoPatch struct {
	Content        *string
	ContentSet     bool
	ProjectID      *string
	ProjectIDSet   bool
	Status         *string
	StatusSet      bool
	NewProjectName string
}

// ListFilter narrows memo listings. Empty strings mean no constraint.
type ListFilter struct {
	Status    string
	ProjectID string
}

// MediaUpload is one file from the media endpoint. Reader streams the
// content; Size is the declared byte count from the multipart header.
type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MemoService defines the use cases around captured voice memos.
type MemoService interface {
	// Capture stores the audio, persists a pending memo, requests a
	// transcription and returns the signed result.
	Capture(ctx context.Context, userID string, in CaptureInput) (*CaptureResult, error)

	// Update applies a partial update to an owned memo and returns the
	// updated record.
	Update(ctx context.Context, userID, memoID string, patch MemoPatch) (*model.Memo, error)

	// List returns the caller's memos matching the filter.
	List(ctx context.Context, userID string, f ListFilter) ([]model.Memo, error)

	// ListProjects returns the caller's projects.
	ListProjects(ctx context.Context, userID string) ([]model.Project, error)

	// AddMedia validates and stores a batch of media files, appending one
	// attachment entry per stored file.
	AddMedia(ctx context.Context, userID, memoID string, files []MediaUpload) (*model.Memo, error)

	// AddLocation appends a location attachment to an owned memo.
	AddLocation(ctx context.Context, userID, memoID string, lat, lng float64) (*model.Memo, error)

	// Delete removes the memo record. Stored blobs are cleaned up in the
	// background after the call returns.
	Delete(ctx context.Context, userID, memoID string) error
}

// Deps bundles the adapters the memo service runs on. Which concrete
// implementations arrive here is decided once at startup; the service
// never branches on the deployment mode.
type Deps struct {
	Memos       repository.MemoRepository
	Projects    repository.ProjectRepository
	AudioStore  storage.Storage
	MediaStore  storage.Storage
	Transcriber transcriber.Transcriber
	SignTTL     time.Duration
	Logger      *zap.Logger
}

type memoService struct {
	memos      repository.MemoRepository
	projects   repository.ProjectRepository
	audioStore storage.Storage
	mediaStore storage.Storage
	transcribe transcriber.Transcriber
	signTTL    time.Duration
	logger     *zap.Logger

	// cleanup tracks in-flight background blob removals.
	cleanup sync.WaitGroup
}

// NewMemoService creates the memo service.
func NewMemoService(d Deps) MemoService {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &memoService{
		memos:      d.Memos,
		projects:   d.Projects,
		audioStore: d.AudioStore,
		mediaStore: d.MediaStore,
		transcribe: d.Transcriber,
		signTTL:    d.SignTTL,
		logger:     d.Logger,
	}
}

func (s *memoService) Capture(ctx context.Context, userID string, in CaptureInput) (*CaptureResult, error) {
	// Attachments are validated before any side effect so a bad field
	// leaves no orphaned audio behind.
	attachments, err := parseAttachments(in.AttachmentsRaw)
	if err != nil {
		return nil, err
	}

	memoID := uuid.NewString()
	ext := filepath.Ext(in.Filename)
	if ext == "" {
		ext = ".wav"
	}
	filename := memoID + ext
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	audioPath := fmt.Sprintf("%s/%s", userID, filename)
	err = s.audioStore.Put(ctx, audioPath, bytes.NewReader(in.Audio), storage.PutObjectOptions{
		Size:        int64(len(in.Audio)),
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	stored, err := s.memos.Insert(ctx, &model.Memo{
		ID:          memoID,
		UserID:      userID,
		AudioPath:   audioPath,
		Status:      model.StatusPending,
		Attachments: attachments,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert memo: %w", err)
	}

	text, err := s.transcribe.Transcribe(ctx, filename, contentType, in.Audio)
	if err != nil {
		// The row stays at "pending": transcription failure does not roll
		// back the capture.
		s.logger.Error("transcription failed",
			zap.String("memo_id", memoID),
			zap.Error(err))
		return nil, err
	}

	stored, err = s.memos.Update(ctx, memoID, userID, repository.MemoUpdate{
		Content:    &text,
		ContentSet: true,
		Status:     model.StatusReviewNeeded,
		StatusSet:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("store transcript: %w", err)
	}

	signed, err := s.sign(ctx, stored)
	if err != nil {
		return nil, err
	}
	return &CaptureResult{
		ID:            signed.ID,
		Status:        signed.Status,
		AudioURL:      signed.AudioURL,
		EstimatedWait: s.transcribe.EstimatedWait(),
		Memo:          signed,
	}, nil
}

func (s *memoService) Update(ctx context.Context, userID, memoID string, patch MemoPatch) (*model.Memo, error) {
	upd := repository.MemoUpdate{
		Content:      patch.Content,
		ContentSet:   patch.ContentSet,
		ProjectID:    patch.ProjectID,
		ProjectIDSet: patch.ProjectIDSet,
	}
	// A null status is ignored rather than cleared; the column is not
	// nullable.
	if patch.StatusSet && patch.Status != nil {
		upd.Status = *patch.Status
		upd.StatusSet = true
	}

	switch {
	case patch.NewProjectName != "" && !patch.ProjectIDSet:
		project, err := s.createProject(ctx, userID, patch.NewProjectName)
		if err != nil {
			return nil, err
		}
		upd.ProjectID = &project.ID
		upd.ProjectIDSet = true
	case upd.ProjectIDSet && upd.ProjectID != nil:
		owned, err := s.projects.Owned(ctx, *upd.ProjectID, userID)
		if err != nil {
			return nil, fmt.Errorf("check project ownership: %w", err)
		}
		if !owned {
			return nil, ErrProjectNotOwned
		}
	}

	memo, err := s.memos.Update(ctx, memoID, userID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemoNotFound
		}
		return nil, fmt.Errorf("update memo: %w", err)
	}
	return s.sign(ctx, memo)
}

func (s *memoService) List(ctx context.Context, userID string, f ListFilter) ([]model.Memo, error) {
	filter := repository.MemoFilter{}
	if f.Status != "" {
		filter.Status = &f.Status
	}
	if f.ProjectID != "" {
		filter.ProjectID = &f.ProjectID
	}

	memos, err := s.memos.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}

	signed := make([]model.Memo, 0, len(memos))
	for i := range memos {
		m, err := s.sign(ctx, &memos[i])
		if err != nil {
			return nil, err
		}
		signed = append(signed, *m)
	}
	return signed, nil
}

func (s *memoService) ListProjects(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.projects.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *memoService) AddMedia(ctx context.Context, userID, memoID string, files []MediaUpload) (*model.Memo, error) {
	if len(files) > maxMediaFiles {
		return nil, fmt.Errorf("%w (max %d)", ErrTooManyFiles, maxMediaFiles)
	}

	memo, err := s.memos.Find(ctx, memoID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemoNotFound
		}
		return nil, fmt.Errorf("find memo: %w", err)
	}

	// Files are validated and stored one by one; the first violation
	// aborts the batch, leaving earlier uploads in place but unreferenced.
	attachments := memo.Attachments
	for _, f := range files {
		ext, ok := allowedMediaTypes[f.ContentType]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, f.ContentType)
		}
		if f.Size > maxMediaFileSize {
			return nil, fmt.Errorf("%w: %s exceeds 50 MiB", ErrFileTooLarge, f.Filename)
		}
		if e := filepath.Ext(f.Filename); e != "" {
			ext = e
		}

		path := fmt.Sprintf("%s/%s/%s%s", userID, memoID, uuid.NewString(), ext)
		err := s.mediaStore.Put(ctx, path, f.Reader, storage.PutObjectOptions{
			Size:        f.Size,
			ContentType: f.ContentType,
		})
		if err != nil {
			return nil, fmt.Errorf("upload media: %w", err)
		}

		kind := model.AttachmentVideo
		if strings.HasPrefix(f.ContentType, "image/") {
			kind = model.AttachmentImage
		}
		attachments = append(attachments, model.NewMediaAttachment(kind, path, f.ContentType, time.Now().Unix()))
	}

	updated, err := s.memos.SetAttachments(ctx, memoID, userID, attachments)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemoNotFound
		}
		return nil, fmt.Errorf("persist attachments: %w", err)
	}
	return s.sign(ctx, updated)
}

func (s *memoService) AddLocation(ctx context.Context, userID, memoID string, lat, lng float64) (*model.Memo, error) {
	memo, err := s.memos.Find(ctx, memoID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemoNotFound
		}
		return nil, fmt.Errorf("find memo: %w", err)
	}

	attachments := append(memo.Attachments, model.NewLocationAttachment(lat, lng))
	updated, err := s.memos.SetAttachments(ctx, memoID, userID, attachments)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemoNotFound
		}
		return nil, fmt.Errorf("persist attachments: %w", err)
	}
	return s.sign(ctx, updated)
}

func (s *memoService) Delete(ctx context.Context, userID, memoID string) error {
	memo, err := s.memos.Find(ctx, memoID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemoNotFound
		}
		return fmt.Errorf("find memo: %w", err)
	}

	if err := s.memos.Delete(ctx, memoID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemoNotFound
		}
		return fmt.Errorf("delete memo: %w", err)
	}

	// The record deletion is the authoritative state change; blob removal
	// happens after the response and its outcome is invisible to callers.
	s.cleanup.Add(1)
	go s.removeBlobs(memo)
	return nil
}

// removeBlobs deletes the memo's audio object and stored media
// attachments, logging failures instead of surfacing them.
func (s *memoService) removeBlobs(memo *model.Memo) {
	defer s.cleanup.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if memo.AudioPath != "" {
		if err := s.audioStore.Delete(ctx, memo.AudioPath); err != nil {
			s.logger.Warn("failed to delete audio object",
				zap.String("memo_id", memo.ID),
				zap.String("path", memo.AudioPath),
				zap.Error(err))
		}
	}
	for _, att := range memo.Attachments {
		if !att.IsMedia() || att.Path() == "" {
			continue
		}
		if err := s.mediaStore.Delete(ctx, att.Path()); err != nil {
			s.logger.Warn("failed to delete media object",
				zap.String("memo_id", memo.ID),
				zap.String("path", att.Path()),
				zap.Error(err))
		}
	}
}

// sign produces the outgoing representation of a memo: a fresh
// time-limited audio URL plus media attachments carrying a url instead of
// their storage path. The stored record is never mutated.
func (s *memoService) sign(ctx context.Context, memo *model.Memo) (*model.Memo, error) {
	signed := *memo
	url, err := s.audioStore.PresignGet(ctx, memo.AudioPath, s.signTTL)
	if err != nil {
		return nil, fmt.Errorf("sign audio url: %w", err)
	}
	signed.AudioURL = url

	signed.Attachments = make([]model.Attachment, 0, len(memo.Attachments))
	for _, att := range memo.Attachments {
		if !att.IsMedia() || att.Path() == "" {
			signed.Attachments = append(signed.Attachments, att)
			continue
		}
		u, err := s.mediaStore.PresignGet(ctx, att.Path(), s.signTTL)
		if err != nil {
			return nil, fmt.Errorf("sign attachment url: %w", err)
		}
		entry := att.Clone()
		delete(entry, "path")
		entry["url"] = u
		signed.Attachments = append(signed.Attachments, entry)
	}
	return &signed, nil
}

func (s *memoService) createProject(ctx context.Context, userID, name string) (*model.Project, error) {
	owner := userID
	project, err := s.projects.Insert(ctx, &model.Project{
		ID:        uuid.NewString(),
		UserID:    &owner,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// parseAttachments decodes the optional attachments form field. The field
// must hold a JSON array of objects; entries are kept verbatim.
func parseAttachments(raw string) ([]model.Attachment, error) {
	if raw == "" {
		return []model.Attachment{}, nil
	}
	var probe any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, ErrAttachmentsJSON
	}
	if _, ok := probe.([]any); !ok {
		return nil, ErrAttachmentsArray
	}
	var attachments []model.Attachment
	if err := json.Unmarshal([]byte(raw), &attachments); err != nil {
		return nil, ErrAttachmentsArray
	}
	if attachments == nil {
		attachments = []model.Attachment{}
	}
	return attachments, nil
}
