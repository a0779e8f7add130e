package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nicecatcher/internal/model"
	"nicecatcher/internal/repository"
)

const memoColumns = "id, user_id, content, audio_path, project_id, status, attachments, created_at"

// MemoPostgres is a PostgreSQL implementation of repository.MemoRepository.
// It uses database/sql with parameterized queries and contains no business
// logic. The attachment list lives in a JSONB column.
type MemoPostgres struct {
	db *sql.DB
}

// NewMemoPostgres creates a new MemoPostgres repository.
func NewMemoPostgres(db *sql.DB) *MemoPostgres {
	return &MemoPostgres{db: db}
}

var _ repository.MemoRepository = (*MemoPostgres)(nil)

// Insert stores a new memo row and returns the stored record.
func (r *MemoPostgres) Insert(ctx context.Context, memo *model.Memo) (*model.Memo, error) {
	const q = `
		INSERT INTO memos (id, user_id, content, audio_path, project_id, status, attachments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + memoColumns

	attachments, err := marshalAttachments(memo.Attachments)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, q,
		memo.ID,
		memo.UserID,
		memo.Content,
		memo.AudioPath,
		memo.ProjectID,
		memo.Status,
		attachments,
		memo.CreatedAt,
	)
	return scanMemo(row)
}

// Find fetches a single memo by id, scoped to its owner.
func (r *MemoPostgres) Find(ctx context.Context, id, userID string) (*model.Memo, error) {
	const q = `SELECT ` + memoColumns + ` FROM memos WHERE id = $1 AND user_id = $2`

	m, err := scanMemo(r.db.QueryRowContext(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// Update applies the set fields of upd to an owned memo. The SET clause is
// assembled dynamically so absent fields never touch stored values.
func (r *MemoPostgres) Update(ctx context.Context, id, userID string, upd repository.MemoUpdate) (*model.Memo, error) {
	if upd.IsZero() {
		return r.Find(ctx, id, userID)
	}

	set := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if upd.ContentSet {
		args = append(args, upd.Content)
		set = append(set, fmt.Sprintf("content = $%d", len(args)))
	}
	if upd.ProjectIDSet {
		args = append(args, upd.ProjectID)
		set = append(set, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if upd.StatusSet {
		args = append(args, upd.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	args = append(args, id, userID)

	q := fmt.Sprintf("UPDATE memos SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args)-1, len(args), memoColumns)

	m, err := scanMemo(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns the owner's memos, optionally narrowed by status and
// project, oldest first.
func (r *MemoPostgres) List(ctx context.Context, userID string, f repository.MemoFilter) ([]model.Memo, error) {
	q := `SELECT ` + memoColumns + ` FROM memos WHERE user_id = $1`
	args := []any{userID}
	if f.Status != nil {
		args = append(args, *f.Status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.ProjectID != nil {
		args = append(args, *f.ProjectID)
		q += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	q += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memos := make([]model.Memo, 0)
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return memos, nil
}

// SetAttachments replaces the memo's attachment list in a single write.
func (r *MemoPostgres) SetAttachments(ctx context.Context, id, userID string, attachments []model.Attachment) (*model.Memo, error) {
	const q = `UPDATE memos SET attachments = $1 WHERE id = $2 AND user_id = $3 RETURNING ` + memoColumns

	blob, err := marshalAttachments(attachments)
	if err != nil {
		return nil, err
	}
	m, err := scanMemo(r.db.QueryRowContext(ctx, q, blob, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// Delete removes an owned memo and reports ErrNotFound when no row matched.
func (r *MemoPostgres) Delete(ctx context.Context, id, userID string) error {
	const q = `DELETE FROM memos WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemo(row rowScanner) (*model.Memo, error) {
	var (
		m    model.Memo
		blob []byte
	)
	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Content,
		&m.AudioPath,
		&m.ProjectID,
		&m.Status,
		&blob,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := unmarshalAttachments(blob, &m.Attachments); err != nil {
		return nil, err
	}
	return &m, nil
}

// marshalAttachments encodes the list for the JSONB column. The value is
// passed as a string so the driver lets the server coerce it to jsonb.
func marshalAttachments(attachments []model.Attachment) (string, error) {
	if attachments == nil {
		attachments = []model.Attachment{}
	}
	b, err := json.Marshal(attachments)
	if err != nil {
		return "", fmt.Errorf("marshal attachments: %w", err)
	}
	return string(b), nil
}

func unmarshalAttachments(blob []byte, dst *[]model.Attachment) error {
	*dst = []model.Attachment{}
	if len(blob) == 0 {
		return nil
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return fmt.Errorf("unmarshal attachments: %w", err)
	}
	if *dst == nil {
		*dst = []model.Attachment{}
	}
	return nil
}
