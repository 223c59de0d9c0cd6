package httpapi

import (
	"net/http"
	"strconv"

	"github.com/studypartner/backend/internal/model"
	"github.com/studypartner/backend/internal/service"
)

type trackActivityRequest struct {
	Type     string   `json:"type" validate:"required,oneof=flashcards quiz notes"`
	NoteID   *int64   `json:"note_id"`
	Duration int      `json:"duration" validate:"gte=0"`
	Score    *float64 `json:"score"`
}

func (s *Server) handleTrackActivity(w http.ResponseWriter, r *http.Request) {
	var req trackActivityRequest
	if !readJSON(w, r, &req) {
		return
	}

	session, err := s.analytics.Track(r.Context(), callerIdentity(r).UserID, service.TrackActivityInput{
		Type:     model.ActivityType(req.Type),
		NoteID:   req.NoteID,
		Duration: req.Duration,
		Score:    req.Score,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	analytics, err := s.analytics.Analytics(r.Context(), callerIdentity(r).UserID, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleFocusStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.analytics.Focus(r.Context(), callerIdentity(r).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
