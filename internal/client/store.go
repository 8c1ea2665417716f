package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/maya/resume-studio/internal/document"
	"github.com/maya/resume-studio/internal/editor"
)

// EditorStore adapts the API client to the editor's persistence and upload
// collaborators, so an Editor can run against a remote server.
type EditorStore struct {
	client *Client
}

var (
	_ editor.DocumentStore = (*EditorStore)(nil)
	_ editor.ImageUploader = (*EditorStore)(nil)
)

// NewEditorStore wraps an API client for use by the editor.
func NewEditorStore(c *Client) *EditorStore {
	return &EditorStore{client: c}
}

// Create stores a new resume and returns its id.
func (s *EditorStore) Create(ctx context.Context, doc *document.Resume) (string, error) {
	id, err := s.client.CreateResume(ctx, doc)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Get loads a stored resume document.
func (s *EditorStore) Get(ctx context.Context, id string) (*document.Resume, error) {
	resumeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid resume id %q: %w", id, err)
	}
	resp, err := s.client.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	var doc document.Resume
	if err := json.Unmarshal(resp.Document, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode stored document: %w", err)
	}
	return &doc, nil
}

// Update replaces a stored resume document.
func (s *EditorStore) Update(ctx context.Context, id string, doc *document.Resume) error {
	resumeID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid resume id %q: %w", id, err)
	}
	return s.client.UpdateResume(ctx, resumeID, doc)
}

// Upload stores a profile image and returns the URL it is served from.
func (s *EditorStore) Upload(ctx context.Context, image io.Reader, filename string) (string, error) {
	return s.client.UploadProfileImage(ctx, image, filename)
}
