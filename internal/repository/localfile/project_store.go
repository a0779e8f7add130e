package localfile

import (
	"context"
	"path/filepath"

	"nicecatcher/internal/model"
	"nicecatcher/internal/repository"
)

// ProjectStore is the JSON-file implementation of
// repository.ProjectRepository.
type ProjectStore struct {
	path string
}

// NewProjectStore creates the data directory if needed and returns a store
// backed by projects.json inside it.
func NewProjectStore(dir string) (*ProjectStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &ProjectStore{path: filepath.Join(dir, projectsFile)}, nil
}

var _ repository.ProjectRepository = (*ProjectStore)(nil)

func (s *ProjectStore) Insert(_ context.Context, project *model.Project) (*model.Project, error) {
	projects, err := readAll[model.Project](s.path)
	if err != nil {
		return nil, err
	}
	stored := *project
	projects = append(projects, stored)
	if err := writeAll(s.path, projects); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *ProjectStore) List(_ context.Context, userID string) ([]model.Project, error) {
	projects, err := readAll[model.Project](s.path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.UserID != nil && *p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ProjectStore) Owned(_ context.Context, id, userID string) (bool, error) {
	projects, err := readAll[model.Project](s.path)
	if err != nil {
		return false, err
	}
	for _, p := range projects {
		if p.ID == id && p.UserID != nil && *p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
