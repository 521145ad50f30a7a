package pipeline

import (
	"context"

	"reeldocs/internal/store"
)

// Checkpoint reports whether a stage's durable output already exists and, if
// so, carries the persisted data the stage would otherwise produce.
type Checkpoint[T any] struct {
	Done bool
	Data T
}

// Resolver answers, per stage, whether its expensive work is already
// committed. It is read-only and is consulted fresh before every stage on
// every run; it is the sole idempotency mechanism, there is no separate
// checkpoint ledger.
type Resolver interface {
	// Segments reports whether extraction already ran for the video.
	Segments(ctx context.Context, videoID string) (Checkpoint[[]store.Segment], error)
	// Captions reports whether a caption document exists for the language.
	Captions(ctx context.Context, videoID, language string) (Checkpoint[string], error)
	// Articles reports whether an article set exists for (video, language).
	Articles(ctx context.Context, videoID, language string) (Checkpoint[[]*store.Article], error)
}

type storeResolver struct {
	store *store.Store
}

// NewResolver builds the store-backed checkpoint resolver.
func NewResolver(st *store.Store) Resolver {
	return &storeResolver{store: st}
}

func (r *storeResolver) Segments(ctx context.Context, videoID string) (Checkpoint[[]store.Segment], error) {
	count, err := r.store.CountSegments(ctx, videoID)
	if err != nil {
		return Checkpoint[[]store.Segment]{}, err
	}
	if count == 0 {
		return Checkpoint[[]store.Segment]{}, nil
	}
	segments, err := r.store.SegmentsByVideo(ctx, videoID)
	if err != nil {
		return Checkpoint[[]store.Segment]{}, err
	}
	return Checkpoint[[]store.Segment]{Done: true, Data: segments}, nil
}

func (r *storeResolver) Captions(ctx context.Context, videoID, language string) (Checkpoint[string], error) {
	video, err := r.store.GetVideo(ctx, videoID)
	if err != nil {
		return Checkpoint[string]{}, err
	}
	if video == nil {
		return Checkpoint[string]{}, nil
	}
	document, ok := video.CaptionsByLanguage[language]
	if !ok || document == "" {
		return Checkpoint[string]{}, nil
	}
	return Checkpoint[string]{Done: true, Data: document}, nil
}

func (r *storeResolver) Articles(ctx context.Context, videoID, language string) (Checkpoint[[]*store.Article], error) {
	count, err := r.store.CountArticles(ctx, videoID, language)
	if err != nil {
		return Checkpoint[[]*store.Article]{}, err
	}
	if count == 0 {
		return Checkpoint[[]*store.Article]{}, nil
	}
	articles, err := r.store.ArticlesByVideoAndLanguage(ctx, videoID, language)
	if err != nil {
		return Checkpoint[[]*store.Article]{}, err
	}
	return Checkpoint[[]*store.Article]{Done: true, Data: articles}, nil
}
