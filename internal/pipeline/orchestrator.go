package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"reeldocs/internal/captions"
	"reeldocs/internal/docmodel"
	"reeldocs/internal/logging"
	"reeldocs/internal/services"
	"reeldocs/internal/services/gemini"
	"reeldocs/internal/store"
)

// ObjectStore is the slice of object storage the orchestrator needs: reading
// the stored source video back for upload to the AI service.
type ObjectStore interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Orchestrator runs one job through the full stage sequence. Stage failures
// in extract, caption, and generation are fatal; translation failures are
// contained per language and per article.
type Orchestrator struct {
	store    *store.Store
	objects  ObjectStore
	ai       gemini.Service
	resolver Resolver
	logger   *slog.Logger
}

// workingSet carries stage outputs forward within a single run, whether the
// stage executed or its output was loaded from a checkpoint.
type workingSet struct {
	segments []store.Segment
	captions string
	articles []*store.Article
}

// New builds an orchestrator with a store-backed checkpoint resolver.
func New(st *store.Store, objects ObjectStore, ai gemini.Service, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    st,
		objects:  objects,
		ai:       ai,
		resolver: NewResolver(st),
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the stage sequence for a claimed job and writes terminal state
// to the store. It returns the fatal error, if any, for the caller's log.
func (o *Orchestrator) Run(ctx context.Context, job *store.Job) error {
	ctx = services.WithJobID(ctx, job.ID)
	ctx = services.WithVideoID(ctx, job.VideoID)
	log := o.logger.With(
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldVideoID, job.VideoID),
	)

	if len(job.Languages) == 0 {
		return o.fail(ctx, log, job, nil,
			services.Wrap(services.ErrValidation, "pipeline", "run", "job has no languages", nil))
	}

	video, err := o.store.GetVideo(ctx, job.VideoID)
	if err != nil {
		return o.fail(ctx, log, job, nil, err)
	}
	if video == nil {
		return o.fail(ctx, log, job, nil,
			services.Wrap(services.ErrNotFound, "pipeline", "run", "video "+job.VideoID+" not found", nil))
	}

	if err := o.store.UpdateVideoStatus(ctx, video.ID, store.VideoProcessing); err != nil {
		return o.fail(ctx, log, job, video, err)
	}

	if err := o.execute(ctx, log, job, video); err != nil {
		return o.fail(ctx, log, job, video, err)
	}

	log.Info("job completed", logging.String(logging.FieldVideoID, video.ID))
	return nil
}

// fail is the single fatal path: video failed, job failed with the cause.
func (o *Orchestrator) fail(ctx context.Context, log *slog.Logger, job *store.Job, video *store.Video, cause error) error {
	log.Error("job failed",
		logging.Error(cause),
		logging.String("error_kind", services.Kind(cause)))

	if video != nil {
		if err := o.store.UpdateVideoStatus(ctx, video.ID, store.VideoFailed); err != nil {
			log.Error("failed to mark video failed", logging.Error(err))
		}
	}
	job.SetFailed(cause.Error())
	if err := o.store.UpdateJob(ctx, job); err != nil {
		log.Error("failed to persist failed job", logging.Error(err))
	}
	return cause
}

func (o *Orchestrator) execute(ctx context.Context, log *slog.Logger, job *store.Job, video *store.Video) error {
	primary := job.Languages[0]
	targets := targetLanguages(job.Languages)
	ws := &workingSet{}

	// Extract.
	if err := o.advance(ctx, job, StepUploading, "Uploading video to AI", 0, len(targets)); err != nil {
		return err
	}
	cp, err := o.resolver.Segments(ctx, video.ID)
	if err != nil {
		return err
	}
	if cp.Done {
		ws.segments = cp.Data
		log.Info("segments already extracted", logging.Int("segments", len(ws.segments)))
	} else {
		ws.segments, err = o.extract(ctx, video)
		if err != nil {
			return err
		}
	}
	if err := o.advance(ctx, job, StepTranscribing,
		fmt.Sprintf("Extracted %d segments", len(ws.segments)), 0, len(targets)); err != nil {
		return err
	}

	// Caption.
	capCP, err := o.resolver.Captions(ctx, video.ID, primary)
	if err != nil {
		return err
	}
	if capCP.Done {
		ws.captions = capCP.Data
	} else {
		document, err := captions.Build(ws.segments)
		if err != nil {
			return err
		}
		if err := o.store.SetVideoCaption(ctx, video.ID, primary, document); err != nil {
			return err
		}
		ws.captions = document
	}

	// Generate docs.
	if err := o.updateStep(ctx, job, StepGeneratingDocs, "Generating documentation"); err != nil {
		return err
	}
	artCP, err := o.resolver.Articles(ctx, video.ID, primary)
	if err != nil {
		return err
	}
	if artCP.Done {
		ws.articles = artCP.Data
		log.Info("articles already generated",
			logging.Int("articles", len(ws.articles)),
			logging.String(logging.FieldLanguage, primary))
	} else {
		ws.articles, err = o.generateDocs(ctx, video, primary)
		if err != nil {
			return err
		}
	}
	if err := o.advance(ctx, job, StepGeneratingDocs,
		fmt.Sprintf("Generated %d articles", len(ws.articles)), 0, len(targets)); err != nil {
		return err
	}

	// Translate, per target language in request order. Failures inside a
	// language are contained; the run still completes.
	for i, language := range targets {
		if err := o.updateStep(ctx, job, StepTranslating, "Translating to "+language); err != nil {
			return err
		}
		o.translateLanguage(ctx, log, video, ws, language)
		if err := o.advance(ctx, job, StepTranslating, "Translated to "+language, i+1, len(targets)); err != nil {
			return err
		}
	}

	// Finalize.
	if err := o.store.UpdateVideoStatus(ctx, video.ID, store.VideoReady); err != nil {
		return err
	}
	job.SetCompleted()
	return o.store.UpdateJob(ctx, job)
}

// extract uploads the stored video to the AI service, requests segmentation,
// and persists the full segment set in one batch. The persisted rows are read
// back so the working set carries authoritative order indexes.
func (o *Orchestrator) extract(ctx context.Context, video *store.Video) ([]store.Segment, error) {
	source, err := o.objects.Open(ctx, video.StoragePath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "extract", "open", video.StoragePath, err)
	}
	defer source.Close()

	uploaded, err := o.ai.UploadVideo(ctx, source)
	if err != nil {
		return nil, err
	}
	extracted, err := o.ai.ExtractSegments(ctx, uploaded)
	if err != nil {
		return nil, err
	}

	rows := make([]store.Segment, len(extracted))
	for i, segment := range extracted {
		rows[i] = store.Segment{
			VideoID:       video.ID,
			StartTime:     segment.StartTime,
			EndTime:       segment.EndTime,
			SpokenContent: segment.SpokenContent,
			VisualContext: segment.VisualContext,
		}
	}
	if err := o.store.InsertSegments(ctx, video.ID, rows); err != nil {
		return nil, err
	}
	return o.store.SegmentsByVideo(ctx, video.ID)
}

// generateDocs calls the documentation model, upserts one chapter per
// generated chapter, and inserts one primary-language article per chapter.
func (o *Orchestrator) generateDocs(ctx context.Context, video *store.Video, primary string) ([]*store.Article, error) {
	segments, err := o.store.SegmentsByVideo(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	doc, err := o.ai.GenerateDoc(ctx, toAISegments(segments))
	if err != nil {
		return nil, err
	}

	var articles []*store.Article
	for _, chapter := range doc.Chapters {
		chapterRow, err := o.store.UpsertChapter(ctx, video.ProjectID, chapter.Title)
		if err != nil {
			return nil, err
		}
		sections := make([]docmodel.Section, len(chapter.Sections))
		for i, section := range chapter.Sections {
			sections[i] = docmodel.Section{
				Heading:      section.Heading,
				Content:      section.Content,
				TimestampRef: section.TimestampRef,
			}
		}
		contentJSON, err := docmodel.FromSections(sections).ToJSON()
		if err != nil {
			return nil, err
		}
		article, err := o.store.InsertArticle(ctx, &store.Article{
			ProjectID:   video.ProjectID,
			VideoID:     video.ID,
			ChapterID:   chapterRow.ID,
			Title:       chapter.Title,
			Language:    primary,
			ContentJSON: contentJSON,
			ContentText: chapterPlainText(chapter),
			Status:      store.ArticleDraft,
		})
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func chapterPlainText(chapter gemini.GeneratedChapter) string {
	parts := make([]string, 0, len(chapter.Sections))
	for _, section := range chapter.Sections {
		parts = append(parts, strings.TrimSpace(section.Heading+"\n"+section.Content))
	}
	return strings.Join(parts, "\n\n")
}

func toAISegments(segments []store.Segment) []gemini.Segment {
	converted := make([]gemini.Segment, len(segments))
	for i, segment := range segments {
		converted[i] = gemini.Segment{
			StartTime:     segment.StartTime,
			EndTime:       segment.EndTime,
			SpokenContent: segment.SpokenContent,
			VisualContext: segment.VisualContext,
		}
	}
	return converted
}

// translateLanguage runs the caption and article translations for one target
// language. Nothing in here is fatal: failures are logged and the language is
// simply left incomplete.
func (o *Orchestrator) translateLanguage(ctx context.Context, log *slog.Logger, video *store.Video, ws *workingSet, language string) {
	langLog := log.With(logging.String(logging.FieldLanguage, language))

	// Caption translation has its own checkpoint, finer than the article
	// one: a re-run translates captions even when articles already exist.
	capCP, err := o.resolver.Captions(ctx, video.ID, language)
	if err != nil {
		langLog.Warn("caption checkpoint read failed", logging.Error(err))
	} else if !capCP.Done && ws.captions != "" {
		o.translateCaptions(ctx, langLog, video, ws.captions, language)
	}

	artCP, err := o.resolver.Articles(ctx, video.ID, language)
	if err != nil {
		langLog.Warn("article checkpoint read failed", logging.Error(err))
		return
	}
	if artCP.Done {
		langLog.Info("articles already translated", logging.Int("articles", len(artCP.Data)))
		return
	}

	for _, article := range ws.articles {
		if err := o.translateArticle(ctx, article, language); err != nil {
			langLog.Warn("article translation failed",
				logging.String("article_id", article.ID),
				logging.String("title", article.Title),
				logging.Error(err))
		}
	}
}

func (o *Orchestrator) translateCaptions(ctx context.Context, log *slog.Logger, video *store.Video, source, language string) {
	translated, err := o.ai.TranslateCaptions(ctx, source, language)
	if err != nil {
		log.Warn("caption translation failed", logging.Error(err))
		return
	}
	if err := captions.Validate(translated); err != nil {
		log.Warn("translated captions invalid, keeping source language only", logging.Error(err))
		return
	}
	if err := o.store.SetVideoCaption(ctx, video.ID, language, translated); err != nil {
		log.Warn("failed to store translated captions", logging.Error(err))
	}
}

// translateArticle inserts a translated sibling of a primary-language
// article. The translated row shares the source's slug and chapter so the
// rendered site can pair language variants.
func (o *Orchestrator) translateArticle(ctx context.Context, source *store.Article, language string) error {
	translatedJSON, err := o.ai.TranslateDocument(ctx, source.ContentJSON, language)
	if err != nil {
		return err
	}
	if _, err := docmodel.FromJSON(translatedJSON); err != nil {
		return fmt.Errorf("translated content tree not parseable: %w", err)
	}

	translatedText, err := o.ai.TranslateText(ctx, source.ContentText, language)
	if err != nil {
		return err
	}
	translatedTitle, err := o.ai.TranslateText(ctx, source.Title, language)
	if err != nil {
		return err
	}
	translatedTitle = strings.TrimSpace(translatedTitle)
	if translatedTitle == "" {
		translatedTitle = source.Title
	}

	_, err = o.store.InsertArticle(ctx, &store.Article{
		ProjectID:   source.ProjectID,
		VideoID:     source.VideoID,
		ChapterID:   source.ChapterID,
		Title:       translatedTitle,
		Slug:        source.Slug,
		Language:    language,
		ContentJSON: translatedJSON,
		ContentText: strings.TrimSpace(translatedText),
		Status:      store.ArticleDraft,
	})
	return err
}

// updateStep records a step transition without moving the progress fraction.
func (o *Orchestrator) updateStep(ctx context.Context, job *store.Job, step, message string) error {
	job.SetProgress(step, message, job.Progress)
	return o.store.UpdateJob(ctx, job)
}

// advance records a step's completion anchor from the progress estimator.
func (o *Orchestrator) advance(ctx context.Context, job *store.Job, step, message string, subIndex, totalSubItems int) error {
	job.SetProgress(step, message, EstimateProgress(step, subIndex, totalSubItems))
	return o.store.UpdateJob(ctx, job)
}

// targetLanguages returns the non-primary languages in request order, with
// duplicates and repeats of the primary removed.
func targetLanguages(languages []string) []string {
	if len(languages) < 2 {
		return nil
	}
	primary := languages[0]
	seen := map[string]struct{}{primary: {}}
	var targets []string
	for _, language := range languages[1:] {
		if _, ok := seen[language]; ok {
			continue
		}
		seen[language] = struct{}{}
		targets = append(targets, language)
	}
	return targets
}
