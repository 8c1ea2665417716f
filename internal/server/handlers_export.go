package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/maya/resume-studio/internal/db"
	"github.com/maya/resume-studio/internal/document"
	"github.com/maya/resume-studio/internal/export"
	"github.com/maya/resume-studio/internal/render"
)

// loadDocument fetches a resume and parses its stored document.
func (s *Server) loadDocument(r *http.Request) (*db.ResumeRecord, *document.Resume, error) {
	userID, resumeID, err := requestIDs(r)
	if err != nil {
		return nil, nil, err
	}

	rec, err := s.db.GetResume(r.Context(), userID, resumeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if rec == nil {
		return nil, nil, &ErrResumeNotFound{ResumeID: resumeID}
	}

	var doc document.Resume
	if err := json.Unmarshal(rec.Document, &doc); err != nil {
		return nil, nil, fmt.Errorf("stored document is corrupt: %w", err)
	}
	return rec, &doc, nil
}

// acquireExport claims the export slot for a resume. Only one export per
// resume runs at a time; a second request gets ErrExportInProgress.
func (s *Server) acquireExport(resumeID uuid.UUID) error {
	s.exportMu.Lock()
	defer s.exportMu.Unlock()
	if _, busy := s.exportsInFlight[resumeID]; busy {
		return &ErrExportInProgress{ResumeID: resumeID}
	}
	s.exportsInFlight[resumeID] = struct{}{}
	return nil
}

func (s *Server) releaseExport(resumeID uuid.UUID) {
	s.exportMu.Lock()
	defer s.exportMu.Unlock()
	delete(s.exportsInFlight, resumeID)
}

// handleExport produces a PDF or JPEG download for a resume
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := export.Format(r.PathValue("format"))
	if !format.Valid() {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", r.PathValue("format")))
		return
	}

	rec, doc, err := s.loadDocument(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.acquireExport(rec.ID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer s.releaseExport(rec.ID)

	result, err := s.exporter.Export(r.Context(), doc, format)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Export failed")
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		// Response already started, nothing to recover.
		return
	}
}

// handleExportStream runs an export while streaming progress as SSE events.
// The artifact itself is fetched afterwards from the plain export endpoint.
func (s *Server) handleExportStream(w http.ResponseWriter, r *http.Request) {
	format := export.Format(r.PathValue("format"))
	if !format.Valid() {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", r.PathValue("format")))
		return
	}

	rec, doc, err := s.loadDocument(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.acquireExport(rec.ID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer s.releaseExport(rec.ID)

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	sse.WriteEvent("started", map[string]string{ //nolint:errcheck
		"resume_id": rec.ID.String(),
		"format":    string(format),
	})

	result, err := s.exporter.Export(r.Context(), doc, format)
	if err != nil {
		sse.WriteError("Export failed")
		return
	}

	sse.WriteComplete(result.Filename, len(result.Data))
}

// handlePreview renders the resume as a standalone HTML page, the server
// side twin of the editor's live preview pane.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	_, doc, err := s.loadDocument(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	html, err := render.DocumentHTML(doc)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to render preview")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, html) //nolint:errcheck
}
