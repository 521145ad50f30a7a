package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const articleColumns = "id, project_id, video_id, chapter_id, title, slug, language, content_json, content_text, status, created_at, updated_at"

// InsertArticle persists one generated documentation unit. The slug is derived
// from the title; the identifier is assigned here.
func (s *Store) InsertArticle(ctx context.Context, article *Article) (*Article, error) {
	if article == nil {
		return nil, fmt.Errorf("article is nil")
	}
	now := time.Now().UTC()
	stored := *article
	stored.ID = uuid.NewString()
	if stored.Slug == "" {
		stored.Slug = slug.Make(stored.Title)
	}
	if stored.Status == "" {
		stored.Status = ArticleDraft
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	timestamp := now.Format(time.RFC3339Nano)
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO articles (`+articleColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID,
		stored.ProjectID,
		stored.VideoID,
		nullableString(stored.ChapterID),
		stored.Title,
		stored.Slug,
		stored.Language,
		stored.ContentJSON,
		stored.ContentText,
		stored.Status,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return &stored, nil
}

// CountArticles returns the number of articles for a video in a language.
// This is the checkpoint predicate for both doc generation and translation:
// article-set identity is (video, language), not per-article.
func (s *Store) CountArticles(ctx context.Context, videoID, language string) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM articles WHERE video_id = ? AND language = ?`,
		videoID,
		language,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// ArticlesByVideoAndLanguage returns a video's articles in one language in
// generation order.
func (s *Store) ArticlesByVideoAndLanguage(ctx context.Context, videoID, language string) ([]*Article, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+articleColumns+` FROM articles WHERE video_id = ? AND language = ? ORDER BY created_at, id`,
		videoID,
		language,
	)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []*Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func scanArticle(scanner interface{ Scan(dest ...any) error }) (*Article, error) {
	var (
		article    Article
		chapterID  sql.NullString
		statusStr  string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&article.ID,
		&article.ProjectID,
		&article.VideoID,
		&chapterID,
		&article.Title,
		&article.Slug,
		&article.Language,
		&article.ContentJSON,
		&article.ContentText,
		&statusStr,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}
	article.ChapterID = chapterID.String
	article.Status = ArticleStatus(statusStr)
	if created, err := parseTimeString(createdRaw); err == nil {
		article.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		article.UpdatedAt = updated
	}
	return &article, nil
}
