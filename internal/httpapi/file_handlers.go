package httpapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file field is required"})
		return
	}
	defer src.Close()

	file, err := s.files.Save(r.Context(), callerIdentity(r).UserID, header.Filename, header.Header.Get("Content-Type"), src)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, file)
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	file, body, err := s.files.Open(r.Context(), callerIdentity(r).UserID, chi.URLParam(r, "fileID"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	if file.ContentType != "" {
		w.Header().Set("Content-Type", file.ContentType)
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+file.Name+"\"")
	_, _ = io.Copy(w, body)
}
