package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const videoColumns = "id, project_id, title, storage_path, status, captions_json, created_at, updated_at"

// CreateVideo inserts a new video row in the uploading state.
func (s *Store) CreateVideo(ctx context.Context, projectID, title, storagePath string) (*Video, error) {
	now := time.Now().UTC()
	video := &Video{
		ID:                 uuid.NewString(),
		ProjectID:          projectID,
		Title:              title,
		StoragePath:        storagePath,
		Status:             VideoUploading,
		CaptionsByLanguage: map[string]string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	timestamp := now.Format(time.RFC3339Nano)
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO videos (id, project_id, title, storage_path, status, captions_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, '{}', ?, ?)`,
		video.ID,
		video.ProjectID,
		video.Title,
		video.StoragePath,
		video.Status,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return video, nil
}

// GetVideo fetches a video by identifier, returning nil when absent.
func (s *Store) GetVideo(ctx context.Context, id string) (*Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// UpdateVideoStatus transitions a video's lifecycle state.
func (s *Store) UpdateVideoStatus(ctx context.Context, id string, status VideoStatus) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update video status: %w", err)
	}
	return nil
}

// SetVideoCaption stores a caption document under the given language key. The
// read-modify-write runs in a transaction so concurrent language writes do not
// drop each other.
func (s *Store) SetVideoCaption(ctx context.Context, id, language, captions string) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin caption tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var captionsRaw string
		if err := tx.QueryRowContext(ctx, `SELECT captions_json FROM videos WHERE id = ?`, id).Scan(&captionsRaw); err != nil {
			return fmt.Errorf("read captions: %w", err)
		}
		byLanguage := map[string]string{}
		if captionsRaw != "" {
			if err := json.Unmarshal([]byte(captionsRaw), &byLanguage); err != nil {
				return fmt.Errorf("decode captions: %w", err)
			}
		}
		byLanguage[language] = captions
		encoded, err := json.Marshal(byLanguage)
		if err != nil {
			return fmt.Errorf("encode captions: %w", err)
		}

		if _, err := tx.ExecContext(
			ctx,
			`UPDATE videos SET captions_json = ?, updated_at = ? WHERE id = ?`,
			string(encoded),
			time.Now().UTC().Format(time.RFC3339Nano),
			id,
		); err != nil {
			return fmt.Errorf("write captions: %w", err)
		}
		return tx.Commit()
	})
}

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		video       Video
		statusStr   string
		captionsRaw string
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(
		&video.ID,
		&video.ProjectID,
		&video.Title,
		&video.StoragePath,
		&statusStr,
		&captionsRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	video.Status = VideoStatus(statusStr)
	video.CaptionsByLanguage = map[string]string{}
	if captionsRaw != "" {
		if err := json.Unmarshal([]byte(captionsRaw), &video.CaptionsByLanguage); err != nil {
			return nil, fmt.Errorf("decode captions: %w", err)
		}
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		video.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		video.UpdatedAt = updated
	}
	return &video, nil
}
