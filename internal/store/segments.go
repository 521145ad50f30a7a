package store

import (
	"context"
	"fmt"
)

// InsertSegments persists the full segment set for a video in one transaction,
// preserving the provided order as the order index. The segment set is written
// exactly once per successful extraction; callers must consult
// CountSegments first and skip the write when rows already exist.
func (s *Store) InsertSegments(ctx context.Context, videoID string, segments []Segment) error {
	if len(segments) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin segments tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(
			ctx,
			`INSERT INTO video_segments (video_id, start_time, end_time, spoken_content, visual_context, order_index)
             VALUES (?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare segment insert: %w", err)
		}
		defer stmt.Close()

		for i, segment := range segments {
			if _, err := stmt.ExecContext(
				ctx,
				videoID,
				segment.StartTime,
				segment.EndTime,
				segment.SpokenContent,
				segment.VisualContext,
				i,
			); err != nil {
				return fmt.Errorf("insert segment %d: %w", i, err)
			}
		}
		return tx.Commit()
	})
}

// CountSegments returns the number of segments stored for a video.
func (s *Store) CountSegments(ctx context.Context, videoID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM video_segments WHERE video_id = ?`, videoID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count segments: %w", err)
	}
	return count, nil
}

// SegmentsByVideo returns a video's segments in extraction order.
func (s *Store) SegmentsByVideo(ctx context.Context, videoID string) ([]Segment, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, video_id, start_time, end_time, spoken_content, visual_context, order_index
         FROM video_segments WHERE video_id = ? ORDER BY order_index`,
		videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		var segment Segment
		if err := rows.Scan(
			&segment.ID,
			&segment.VideoID,
			&segment.StartTime,
			&segment.EndTime,
			&segment.SpokenContent,
			&segment.VisualContext,
			&segment.OrderIndex,
		); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, segment)
	}
	return segments, rows.Err()
}
