package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"reeldocs/internal/logging"
	"reeldocs/internal/services"
	"reeldocs/internal/store"
)

type projectView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type videoView struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	StoragePath string    `json:"storage_path"`
	Status      string    `json:"status"`
	Languages   []string  `json:"caption_languages,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type jobView struct {
	ID           string     `json:"id"`
	VideoID      string     `json:"video_id"`
	ProjectID    string     `json:"project_id"`
	Status       string     `json:"status"`
	Step         string     `json:"step,omitempty"`
	StepMessage  string     `json:"step_message,omitempty"`
	Progress     float64    `json:"progress"`
	Languages    []string   `json:"languages"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func toProjectView(project *store.Project) projectView {
	return projectView{
		ID:        project.ID,
		Name:      project.Name,
		Slug:      project.Slug,
		CreatedAt: project.CreatedAt,
	}
}

func toVideoView(video *store.Video) videoView {
	languages := make([]string, 0, len(video.CaptionsByLanguage))
	for language := range video.CaptionsByLanguage {
		languages = append(languages, language)
	}
	return videoView{
		ID:          video.ID,
		ProjectID:   video.ProjectID,
		Title:       video.Title,
		StoragePath: video.StoragePath,
		Status:      string(video.Status),
		Languages:   languages,
		CreatedAt:   video.CreatedAt,
	}
}

func toJobView(job *store.Job) jobView {
	return jobView{
		ID:           job.ID,
		VideoID:      job.VideoID,
		ProjectID:    job.ProjectID,
		Status:       string(job.Status),
		Step:         job.Step,
		StepMessage:  job.StepMessage,
		Progress:     job.Progress,
		Languages:    job.Languages,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		StartedAt:    job.StartedAt,
		CompletedAt:  job.CompletedAt,
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := s.jobs.Health(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"jobs": map[string]int{
			"total":      summary.Total,
			"pending":    summary.Pending,
			"processing": summary.Processing,
			"completed":  summary.Completed,
			"failed":     summary.Failed,
			"retried":    summary.Retried,
		},
	})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	project, err := s.store.CreateProject(r.Context(), body.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toProjectView(project))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if project == nil {
		s.writeError(w, http.StatusNotFound, "project not found")
		return
	}
	s.writeJSON(w, http.StatusOK, toProjectView(project))
}

func (s *Server) handleProjectJobs(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	query := r.URL.Query()

	var (
		rows []*store.Job
		err  error
	)
	if query.Get("active") == "1" {
		rows, err = s.jobs.ListActive(r.Context(), projectID)
	} else {
		limit := 0
		if raw := query.Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
		}
		rows, err = s.jobs.ListRecent(r.Context(), projectID, limit)
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	views := make([]jobView, len(rows))
	for i, job := range rows {
		views[i] = toJobView(job)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"jobs": views})
}

func (s *Server) handleRegisterVideo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProjectID   string `json:"project_id"`
		Title       string `json:"title"`
		StoragePath string `json:"storage_path"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.ProjectID == "" || strings.TrimSpace(body.Title) == "" || body.StoragePath == "" {
		s.writeError(w, http.StatusBadRequest, "project_id, title, and storage_path are required")
		return
	}
	if ok := s.requireProject(w, r, body.ProjectID); !ok {
		return
	}
	video, err := s.store.CreateVideo(r.Context(), body.ProjectID, body.Title, body.StoragePath)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toVideoView(video))
}

// handleUploadURL registers a video row and returns a presigned PUT target
// for the client to upload the file directly to object storage.
func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProjectID string `json:"project_id"`
		Title     string `json:"title"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.ProjectID == "" || strings.TrimSpace(body.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "project_id and title are required")
		return
	}
	if ok := s.requireProject(w, r, body.ProjectID); !ok {
		return
	}

	path := fmt.Sprintf("videos/%s-%s.mp4", uuid.NewString(), slug.Make(body.Title))
	video, err := s.store.CreateVideo(r.Context(), body.ProjectID, body.Title, path)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	uploadURL, err := s.objects.SignedUploadURL(r.Context(), path, s.signedTTL)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{
		"video_id":     video.ID,
		"storage_path": path,
		"upload_url":   uploadURL,
	})
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := s.store.GetVideo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if video == nil {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}
	s.writeJSON(w, http.StatusOK, toVideoView(video))
}

// handleDownloadURL returns a presigned GET URL for the stored source video.
func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	video, err := s.store.GetVideo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if video == nil {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}
	downloadURL, err := s.objects.SignedReadURL(r.Context(), video.StoragePath, s.signedTTL)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"video_id":     video.ID,
		"download_url": downloadURL,
	})
}

func (s *Server) handleProcessVideo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Languages []string `json:"languages"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	job, err := s.jobs.Start(r.Context(), chi.URLParam(r, "id"), body.Languages)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

func (s *Server) handleCaptions(w http.ResponseWriter, r *http.Request) {
	video, err := s.store.GetVideo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if video == nil {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}
	language := chi.URLParam(r, "lang")
	document, ok := video.CaptionsByLanguage[language]
	if !ok || document == "" {
		s.writeError(w, http.StatusNotFound, "no captions for language "+language)
		return
	}
	w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
	if _, err := w.Write([]byte(document)); err != nil {
		s.logger.Error("failed to write caption response", logging.Error(err))
	}
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toJobView(job))
}

func (s *Server) handleRetryJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Retry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

func (s *Server) requireProject(w http.ResponseWriter, r *http.Request, projectID string) bool {
	project, err := s.store.GetProject(r.Context(), projectID)
	if err != nil {
		s.writeServiceError(w, err)
		return false
	}
	if project == nil {
		s.writeError(w, http.StatusNotFound, "project not found")
		return false
	}
	return true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch services.Kind(err) {
	case "not_found":
		status = http.StatusNotFound
	case "validation", "invalid_state":
		status = http.StatusBadRequest
	case "configuration":
		status = http.StatusInternalServerError
	case "timeout":
		status = http.StatusGatewayTimeout
	}
	s.writeError(w, status, err.Error())
}
