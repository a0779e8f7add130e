package postgres

import (
	"context"
	"database/sql"

	"nicecatcher/internal/model"
	"nicecatcher/internal/repository"
)

const projectColumns = "id, user_id, name, description, created_at"

// ProjectPostgres is a PostgreSQL implementation of
// repository.ProjectRepository.
type ProjectPostgres struct {
	db *sql.DB
}

// NewProjectPostgres creates a new ProjectPostgres repository.
func NewProjectPostgres(db *sql.DB) *ProjectPostgres {
	return &ProjectPostgres{db: db}
}

var _ repository.ProjectRepository = (*ProjectPostgres)(nil)

// Insert stores a new project row and returns the stored record.
func (r *ProjectPostgres) Insert(ctx context.Context, project *model.Project) (*model.Project, error) {
	const q = `
		INSERT INTO projects (id, user_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + projectColumns

	row := r.db.QueryRowContext(ctx, q,
		project.ID,
		project.UserID,
		project.Name,
		project.Description,
		project.CreatedAt,
	)
	var out model.Project
	if err := row.Scan(
		&out.ID,
		&out.UserID,
		&out.Name,
		&out.Description,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the owner's projects, oldest first.
func (r *ProjectPostgres) List(ctx context.Context, userID string) ([]model.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]model.Project, 0)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.Description,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// Owned reports whether the project row exists with the given owner.
func (r *ProjectPostgres) Owned(ctx context.Context, id, userID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1 AND user_id = $2)`

	var owned bool
	if err := r.db.QueryRowContext(ctx, q, id, userID).Scan(&owned); err != nil {
		return false, err
	}
	return owned, nil
}
