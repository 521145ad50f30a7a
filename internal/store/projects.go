package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// CreateProject inserts a new project with a slug derived from its name.
func (s *Store) CreateProject(ctx context.Context, name string) (*Project, error) {
	now := time.Now().UTC()
	project := &Project{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: now,
	}
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO projects (id, name, slug, created_at) VALUES (?, ?, ?, ?)`,
		project.ID,
		project.Name,
		project.Slug,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

// GetProject fetches a project by identifier, returning nil when absent.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, slug, created_at FROM projects WHERE id = ?`, id)

	var (
		project    Project
		createdRaw string
	)
	err := row.Scan(&project.ID, &project.Name, &project.Slug, &createdRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		project.CreatedAt = created
	}
	return &project, nil
}
