package repository

import (
	"context"

	"nicecatcher/internal/model"
)

// ProjectRepository defines data access for projects.
type ProjectRepository interface {
	// Insert stores a new project record and returns the stored project.
	Insert(ctx context.Context, project *model.Project) (*model.Project, error)

	// List returns all projects owned by userID, oldest first.
	List(ctx context.Context, userID string) ([]model.Project, error)

	// Owned reports whether the project exists and is owned by userID.
	Owned(ctx context.Context, id, userID string) (bool, error)
}
