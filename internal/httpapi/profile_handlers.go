package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/backend/internal/model"
	"github.com/studypartner/backend/internal/service"
)

type createProfileRequest struct {
	Role           string   `json:"role" validate:"required,oneof=student tutor"`
	FirstName      string   `json:"first_name" validate:"required"`
	LastName       string   `json:"last_name" validate:"required"`
	Bio            string   `json:"bio"`
	Expertise      []string `json:"expertise"`
	HourlyRate     int64    `json:"hourly_rate" validate:"gte=0"`
	TelegramChatID *int64   `json:"telegram_chat_id"`
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if !readJSON(w, r, &req) {
		return
	}

	profile, err := s.profiles.Create(r.Context(), callerIdentity(r).UserID, service.CreateProfileInput{
		Role:           model.Role(req.Role),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Bio:            req.Bio,
		Expertise:      req.Expertise,
		HourlyRate:     req.HourlyRate,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	FirstName      *string  `json:"first_name"`
	LastName       *string  `json:"last_name"`
	Bio            *string  `json:"bio"`
	Expertise      []string `json:"expertise"`
	HourlyRate     *int64   `json:"hourly_rate"`
	TelegramChatID *int64   `json:"telegram_chat_id"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !readJSON(w, r, &req) {
		return
	}

	profile, err := s.profiles.Update(r.Context(), callerIdentity(r).UserID, service.UpdateProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Bio:            req.Bio,
		Expertise:      req.Expertise,
		HourlyRate:     req.HourlyRate,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListTutors(w http.ResponseWriter, r *http.Request) {
	tutors, err := s.profiles.ListTutors(r.Context(), r.URL.Query().Get("subject"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tutors)
}

func (s *Server) handleGetTutor(w http.ResponseWriter, r *http.Request) {
	tutorID, err := strconv.ParseInt(chi.URLParam(r, "tutorID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid tutor id"})
		return
	}

	tutor, err := s.profiles.GetTutor(r.Context(), tutorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if tutor == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "tutor not found"})
		return
	}

	writeJSON(w, http.StatusOK, tutor)
}
