package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"reeldocs/internal/store"
)

// jobEvent is one server-sent progress update.
type jobEvent struct {
	Status      string  `json:"status"`
	Step        string  `json:"step,omitempty"`
	StepMessage string  `json:"step_message,omitempty"`
	Progress    float64 `json:"progress"`
	Error       string  `json:"error,omitempty"`
}

const eventPollInterval = time.Second

// handleJobEvents streams job progress as server-sent events until the job
// reaches a terminal status or the client disconnects. Updates come from
// polling the store, so granularity is one event per changed row.
func (s *Server) handleJobEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	jobID := chi.URLParam(r, "id")
	job, err := s.jobs.Get(r.Context(), jobID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var last jobEvent
	send := func(event jobEvent) {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		last = event
	}

	send(eventFor(job))
	if job.Status.IsTerminal() {
		return
	}

	ticker := time.NewTicker(eventPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		job, err = s.jobs.Get(r.Context(), jobID)
		if err != nil {
			return
		}
		event := eventFor(job)
		if event != last {
			send(event)
		}
		if job.Status.IsTerminal() {
			return
		}
	}
}

func eventFor(job *store.Job) jobEvent {
	return jobEvent{
		Status:      string(job.Status),
		Step:        job.Step,
		StepMessage: job.StepMessage,
		Progress:    job.Progress,
		Error:       job.ErrorMessage,
	}
}
