package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/backend/internal/service"
)

func sessionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return 0, false
	}
	return id, true
}

type requestSessionRequest struct {
	TutorID       int64     `json:"tutor_id" validate:"required"`
	Subject       string    `json:"subject" validate:"required"`
	Description   string    `json:"description"`
	ScheduledTime time.Time `json:"scheduled_time" validate:"required"`
	Duration      int       `json:"duration" validate:"required,gt=0"`
}

func (s *Server) handleRequestSession(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(w, r)
	if !ok {
		return
	}

	var req requestSessionRequest
	if !readJSON(w, r, &req) {
		return
	}

	session, err := s.tutoring.Request(r.Context(), profile, service.SessionRequestInput{
		TutorID:       req.TutorID,
		Subject:       req.Subject,
		Description:   req.Description,
		ScheduledTime: req.ScheduledTime,
		Duration:      req.Duration,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

type respondSessionRequest struct {
	Accept      bool   `json:"accept"`
	MeetingLink string `json:"meeting_link"`
}

func (s *Server) handleRespondSession(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(w, r)
	if !ok {
		return
	}
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req respondSessionRequest
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.tutoring.Respond(r.Context(), profile, id, req.Accept, req.MeetingLink); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type completeSessionRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(w, r)
	if !ok {
		return
	}
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req completeSessionRequest
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.tutoring.Complete(r.Context(), profile, id, req.Notes); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type rateSessionRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review"`
}

func (s *Server) handleRateSession(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(w, r)
	if !ok {
		return
	}
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req rateSessionRequest
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.tutoring.Rate(r.Context(), profile, id, req.Rating, req.Review); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(w, r)
	if !ok {
		return
	}
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := s.tutoring.Cancel(r.Context(), profile, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStudentSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.tutoring.StudentSessions(r.Context(), callerIdentity(r).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleTutorSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.tutoring.TutorSessions(r.Context(), callerIdentity(r).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}
