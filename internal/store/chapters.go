package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// UpsertChapter inserts a chapter keyed by (project, slug-of-title) or returns
// the existing row. Repeated doc-generation runs against the same project
// converge on one chapter per title instead of duplicating.
func (s *Store) UpsertChapter(ctx context.Context, projectID, title string) (*Chapter, error) {
	chapterSlug := slug.Make(title)
	now := time.Now().UTC()

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO chapters (id, project_id, title, slug, created_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT (project_id, slug) DO UPDATE SET title = excluded.title`,
		uuid.NewString(),
		projectID,
		title,
		chapterSlug,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert chapter: %w", err)
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, project_id, title, slug, created_at FROM chapters WHERE project_id = ? AND slug = ?`,
		projectID,
		chapterSlug,
	)
	var (
		chapter    Chapter
		createdRaw string
	)
	if err := row.Scan(&chapter.ID, &chapter.ProjectID, &chapter.Title, &chapter.Slug, &createdRaw); err != nil {
		return nil, fmt.Errorf("read chapter: %w", err)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		chapter.CreatedAt = created
	}
	return &chapter, nil
}

// CountChapters returns the number of chapters in a project.
func (s *Store) CountChapters(ctx context.Context, projectID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM chapters WHERE project_id = ?`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count chapters: %w", err)
	}
	return count, nil
}
