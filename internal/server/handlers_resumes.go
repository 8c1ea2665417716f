package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/maya/resume-studio/internal/db"
	"github.com/maya/resume-studio/internal/document"
	"github.com/maya/resume-studio/internal/server/middleware"
	"github.com/maya/resume-studio/internal/types"
)

// maxResumeBytes caps the size of a resume document payload.
const maxResumeBytes = 1 << 20

// readResumeDocument reads, validates and parses the request body as a
// resume document. The raw JSON is returned alongside the parsed form so
// the database stores exactly what the client sent.
func readResumeDocument(r *http.Request) (json.RawMessage, *document.Resume, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxResumeBytes+1))
	if err != nil {
		return nil, nil, &ErrValidation{Field: "body", Message: "failed to read request body"}
	}
	if len(data) > maxResumeBytes {
		return nil, nil, &ErrValidation{Field: "body", Message: "document too large"}
	}

	if err := document.ValidateJSON(data); err != nil {
		var ve *document.ValidationError
		if errors.As(err, &ve) && len(ve.Errors) > 0 {
			return nil, nil, &ErrValidation{Field: ve.Errors[0].Field, Message: ve.Errors[0].Message}
		}
		return nil, nil, &ErrValidation{Field: "body", Message: err.Error()}
	}

	var doc document.Resume
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if doc.Title == "" {
		doc.Title = "Untitled Resume"
	}
	return data, &doc, nil
}

// requestIDs pulls the authenticated user and the resume path parameter.
func requestIDs(r *http.Request) (userID, resumeID uuid.UUID, err error) {
	userID, err = middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	resumeID, err = uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, &ErrValidation{Field: "id", Message: "invalid resume id"}
	}
	return userID, resumeID, nil
}

// handleCreateResume stores a new resume document for the authenticated user
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, doc, err := readResumeDocument(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := s.db.CreateResume(r.Context(), userID, doc.Title, data)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create resume")
		return
	}

	writeJSON(w, http.StatusCreated, types.CreateResumeResponse{ID: id})
}

// handleListResumes lists the authenticated user's resumes
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summaries, err := s.db.ListResumes(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list resumes")
		return
	}

	response := make([]types.ResumeSummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		response = append(response, types.ResumeSummaryResponse{
			ID:        sum.ID,
			Title:     sum.Title,
			CreatedAt: sum.CreatedAt,
			UpdatedAt: sum.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

// handleGetResume returns a single resume with its full document
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, resumeID, err := requestIDs(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec, err := s.db.GetResume(r.Context(), userID, resumeID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get resume")
		return
	}
	if rec == nil {
		notFound := &ErrResumeNotFound{ResumeID: resumeID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, resumeResponse(rec))
}

// handleUpdateResume replaces a resume document
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, resumeID, err := requestIDs(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	data, doc, err := readResumeDocument(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.db.UpdateResume(r.Context(), userID, resumeID, doc.Title, data); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			notFound := &ErrResumeNotFound{ResumeID: resumeID}
			s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update resume")
		return
	}

	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Resume updated successfully"})
}

// handleDeleteResume deletes a resume
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, resumeID, err := requestIDs(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.db.DeleteResume(r.Context(), userID, resumeID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			notFound := &ErrResumeNotFound{ResumeID: resumeID}
			s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete resume")
		return
	}

	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Resume deleted successfully"})
}

func resumeResponse(rec *db.ResumeRecord) types.ResumeResponse {
	return types.ResumeResponse{
		ID:        rec.ID,
		Title:     rec.Title,
		Document:  rec.Document,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
