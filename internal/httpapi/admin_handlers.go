package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/backend/internal/model"
)

func pathUserID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return 0, false
	}
	return id, true
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.admin.ListUsers(r.Context(), callerIdentity(r).Profile, model.Role(r.URL.Query().Get("role")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type approveTutorRequest struct {
	Approved bool `json:"approved"`
}

func (s *Server) handleAdminApproveTutor(w http.ResponseWriter, r *http.Request) {
	tutorID, ok := pathUserID(w, r, "tutorID")
	if !ok {
		return
	}

	var req approveTutorRequest
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.admin.ApproveTutor(r.Context(), callerIdentity(r).Profile, tutorID, req.Approved); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type adjustTokensRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
	Deduct bool  `json:"deduct"`
}

func (s *Server) handleAdminAdjustTokens(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r, "userID")
	if !ok {
		return
	}

	var req adjustTokensRequest
	if !readJSON(w, r, &req) {
		return
	}

	var (
		balance int64
		err     error
	)
	if req.Deduct {
		balance, err = s.admin.DeductTokens(r.Context(), callerIdentity(r).Profile, userID, req.Amount)
	} else {
		balance, err = s.admin.AddTokens(r.Context(), callerIdentity(r).Profile, userID, req.Amount)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func (s *Server) handleAdminListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.admin.ListNotes(r.Context(), callerIdentity(r).Profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleAdminListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.admin.ListSessions(r.Context(), callerIdentity(r).Profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleAdminListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.admin.ListTransactions(r.Context(), callerIdentity(r).Profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.Stats(r.Context(), callerIdentity(r).Profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r, "userID")
	if !ok {
		return
	}

	if err := s.admin.DeleteUser(r.Context(), callerIdentity(r).Profile, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
