package server

import (
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/maya/resume-studio/internal/server/middleware"
	"github.com/maya/resume-studio/internal/storage/object"
	"github.com/maya/resume-studio/internal/types"
)

// handleUploadProfileImage stores an uploaded profile image and returns the
// URL the editor swaps in for its local preview.
func (s *Server) handleUploadProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "Image too large")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	key, _, err := s.objects.Save(r.Context(), userID.String(), header.Filename, file)
	if err != nil {
		if errors.Is(err, object.ErrNotImage) {
			s.errorResponse(w, http.StatusUnsupportedMediaType, "File is not a supported image")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	writeJSON(w, http.StatusOK, types.UploadResponse{ImageURL: "/uploads/" + key})
}

// handleServeUpload streams a stored object back to the client. Keys are
// opaque and unguessable (uuid prefix), so no auth wall here; the editor
// embeds these URLs directly in rendered resumes.
func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	rc, err := s.objects.Open(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	// Re-sniff rather than trusting the extension.
	var sniff [512]byte
	n, _ := io.ReadFull(rc, sniff[:])
	w.Header().Set("Content-Type", http.DetectContentType(sniff[:n]))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Disposition", "inline; filename="+path.Base(key))
	if n > 0 {
		if _, err := w.Write(sniff[:n]); err != nil {
			return
		}
	}
	io.Copy(w, rc) //nolint:errcheck
}
