package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"nicecatcher/internal/model"
	"nicecatcher/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var memoCols = []string{"id", "user_id", "content", "audio_path", "project_id", "status", "attachments", "created_at"}

func TestMemoPostgres_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMemoPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	memo := &model.Memo{
		ID:          "memo-1",
		UserID:      "user-1",
		AudioPath:   "user-1/memo-1.wav",
		Status:      model.StatusPending,
		Attachments: []model.Attachment{{"type": "note"}},
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows(memoCols).
		AddRow(memo.ID, memo.UserID, nil, memo.AudioPath, nil, memo.Status, []byte(`[{"type":"note"}]`), now)

	mock.ExpectQuery("INSERT INTO memos").
		WithArgs(memo.ID, memo.UserID, nil, memo.AudioPath, nil, memo.Status, `[{"type":"note"}]`, now).
		WillReturnRows(rows)

	result, err := repo.Insert(ctx, memo)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "memo-1", result.ID)
	assert.Nil(t, result.Content)
	assert.Equal(t, []model.Attachment{{"type": "note"}}, result.Attachments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoPostgres_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMemoPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(memoCols).
			AddRow("memo-1", "user-1", "hello", "user-1/memo-1.wav", nil, "review_needed", []byte(`[]`), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM memos WHERE id").
			WithArgs("memo-1", "user-1").
			WillReturnRows(rows)

		memo, err := repo.Find(ctx, "memo-1", "user-1")

		assert.NoError(t, err)
		assert.NotNil(t, memo)
		assert.Equal(t, "hello", *memo.Content)
		assert.NotNil(t, memo.Attachments)
		assert.Len(t, memo.Attachments, 0)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM memos WHERE id").
			WithArgs("missing", "user-1").
			WillReturnError(sql.ErrNoRows)

		memo, err := repo.Find(ctx, "missing", "user-1")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, memo)
	})
}

func TestMemoPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMemoPostgres(db)
	ctx := context.Background()

	t.Run("content and status", func(t *testing.T) {
		content := "transcribed text"
		rows := sqlmock.NewRows(memoCols).
			AddRow("memo-1", "user-1", content, "p.wav", nil, "review_needed", []byte(`[]`), time.Now())

		mock.ExpectQuery("UPDATE memos SET content = (.+), status = (.+) WHERE id").
			WithArgs(content, "review_needed", "memo-1", "user-1").
			WillReturnRows(rows)

		memo, err := repo.Update(ctx, "memo-1", "user-1", repository.MemoUpdate{
			Content:    &content,
			ContentSet: true,
			Status:     "review_needed",
			StatusSet:  true,
		})

		assert.NoError(t, err)
		assert.Equal(t, content, *memo.Content)
	})

	t.Run("clear project", func(t *testing.T) {
		rows := sqlmock.NewRows(memoCols).
			AddRow("memo-1", "user-1", nil, "p.wav", nil, "pending", []byte(`[]`), time.Now())

		mock.ExpectQuery("UPDATE memos SET project_id = (.+) WHERE id").
			WithArgs(nil, "memo-1", "user-1").
			WillReturnRows(rows)

		memo, err := repo.Update(ctx, "memo-1", "user-1", repository.MemoUpdate{ProjectIDSet: true})

		assert.NoError(t, err)
		assert.Nil(t, memo.ProjectID)
	})

	t.Run("empty update reads current row", func(t *testing.T) {
		rows := sqlmock.NewRows(memoCols).
			AddRow("memo-1", "user-1", nil, "p.wav", nil, "pending", []byte(`[]`), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM memos WHERE id").
			WithArgs("memo-1", "user-1").
			WillReturnRows(rows)

		memo, err := repo.Update(ctx, "memo-1", "user-1", repository.MemoUpdate{})

		assert.NoError(t, err)
		assert.Equal(t, "memo-1", memo.ID)
	})

	t.Run("not found", func(t *testing.T) {
		status := "done"
		mock.ExpectQuery("UPDATE memos SET status = (.+) WHERE id").
			WithArgs(status, "missing", "user-1").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(ctx, "missing", "user-1", repository.MemoUpdate{Status: status, StatusSet: true})

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestMemoPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMemoPostgres(db)
	ctx := context.Background()

	t.Run("all for user", func(t *testing.T) {
		rows := sqlmock.NewRows(memoCols).
			AddRow("memo-1", "user-1", nil, "a.wav", nil, "pending", []byte(`[]`), time.Now()).
			AddRow("memo-2", "user-1", "done", "b.wav", nil, "review_needed", []byte(`[]`), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM memos WHERE user_id").
			WithArgs("user-1").
			WillReturnRows(rows)

		memos, err := repo.List(ctx, "user-1", repository.MemoFilter{})

		assert.NoError(t, err)
		assert.Len(t, memos, 2)
	})

	t.Run("filtered by status and project", func(t *testing.T) {
		status := "pending"
		projectID := "proj-1"
		rows := sqlmock.NewRows(memoCols).
			AddRow("memo-1", "user-1", nil, "a.wav", projectID, status, []byte(`[]`), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM memos WHERE user_id").
			WithArgs("user-1", status, projectID).
			WillReturnRows(rows)

		memos, err := repo.List(ctx, "user-1", repository.MemoFilter{Status: &status, ProjectID: &projectID})

		assert.NoError(t, err)
		assert.Len(t, memos, 1)
		assert.Equal(t, "proj-1", *memos[0].ProjectID)
	})

	t.Run("empty result is a slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM memos WHERE user_id").
			WithArgs("user-2").
			WillReturnRows(sqlmock.NewRows(memoCols))

		memos, err := repo.List(ctx, "user-2", repository.MemoFilter{})

		assert.NoError(t, err)
		assert.NotNil(t, memos)
		assert.Len(t, memos, 0)
	})
}

func TestMemoPostgres_SetAttachments(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMemoPostgres(db)
	ctx := context.Background()

	attachments := []model.Attachment{{"type": "location", "lat": 1.5, "lng": 2.5}}
	rows := sqlmock.NewRows(memoCols).
		AddRow("memo-1", "user-1", nil, "a.wav", nil, "pending", []byte(`[{"type":"location","lat":1.5,"lng":2.5}]`), time.Now())

	mock.ExpectQuery("UPDATE memos SET attachments").
		WithArgs(`[{"lat":1.5,"lng":2.5,"type":"location"}]`, "memo-1", "user-1").
		WillReturnRows(rows)

	memo, err := repo.SetAttachments(ctx, "memo-1", "user-1", attachments)

	assert.NoError(t, err)
	assert.Len(t, memo.Attachments, 1)
	assert.Equal(t, "location", memo.Attachments[0].Type())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMemoPostgres(db)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM memos WHERE id").
			WithArgs("memo-1", "user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "memo-1", "user-1"))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM memos WHERE id").
			WithArgs("missing", "user-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "missing", "user-1"), repository.ErrNotFound)
	})
}
