// Package editor owns the in-memory draft resume and mediates every
// field-level edit. It is the state machine behind the editing screen:
// loading, editing, saving and the concurrent profile-image upload.
package editor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/maya/resume-studio/internal/document"
)

// State is the editor lifecycle state.
type State string

// Editor states. ImageUploading is not a State: it is an independent
// concurrent flag that blocks Save but not field edits.
const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateSaving  State = "saving"
	StateError   State = "error"
)

// Editor operation errors.
var (
	// ErrUploadInProgress is returned by Save while a profile-image upload
	// has not resolved yet.
	ErrUploadInProgress = errors.New("image upload in progress")
	// ErrSaveInProgress suppresses a second save while one is in flight.
	ErrSaveInProgress = errors.New("save already in progress")
	// ErrNotReady is returned when an operation needs a loaded document.
	ErrNotReady = errors.New("editor is not ready")
)

// DocumentStore is the persistence collaborator. Create returns the id
// assigned to the new document.
type DocumentStore interface {
	Create(ctx context.Context, doc *document.Resume) (string, error)
	Get(ctx context.Context, id string) (*document.Resume, error)
	Update(ctx context.Context, id string, doc *document.Resume) error
}

// ImageUploader is the image upload collaborator. Upload returns the remote
// URL of the stored image.
type ImageUploader interface {
	Upload(ctx context.Context, image io.Reader, filename string) (string, error)
}

// Editor holds the canonical draft document. All mutations go through its
// methods; the document is never shared mutably with callers.
type Editor struct {
	mu        sync.Mutex
	state     State
	uploading bool
	editing   bool
	resumeID  string
	doc       *document.Resume
	store     DocumentStore
	uploader  ImageUploader
}

// New creates an editor holding a fresh default draft for the given
// template (create mode).
func New(store DocumentStore, uploader ImageUploader, template document.TemplateID) *Editor {
	return &Editor{
		state:    StateReady,
		doc:      document.NewDraft(template),
		store:    store,
		uploader: uploader,
	}
}

// State returns the current lifecycle state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Uploading reports whether a profile-image upload is in flight.
func (e *Editor) Uploading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uploading
}

// Document returns a deep copy of the draft for rendering or inspection.
func (e *Editor) Document() *document.Resume {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// ResumeID returns the persisted id once known (after Load or a successful
// create-mode Save).
func (e *Editor) ResumeID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resumeID
}

// Load fetches a persisted document and hydrates the draft from it (edit
// mode). A load failure is terminal for the editing session: the editor
// moves to StateError and the caller is expected to navigate away.
func (e *Editor) Load(ctx context.Context, id string) error {
	e.mu.Lock()
	e.state = StateLoading
	e.mu.Unlock()

	doc, err := e.store.Get(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateError
		return err
	}
	e.doc = hydrate(doc)
	e.resumeID = id
	e.editing = true
	e.state = StateReady
	return nil
}

// Save persists the draft: create in create mode, update in edit mode.
// It fails fast while a profile-image upload is pending and suppresses
// re-entry while a save is already in flight. Failures leave the editor in
// StateReady so the user can retry.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.uploading {
		e.mu.Unlock()
		return ErrUploadInProgress
	}
	switch e.state {
	case StateSaving:
		e.mu.Unlock()
		return ErrSaveInProgress
	case StateReady:
	default:
		e.mu.Unlock()
		return ErrNotReady
	}
	e.state = StateSaving
	doc := e.doc.Clone()
	editing, id := e.editing, e.resumeID
	e.mu.Unlock()

	var newID string
	var err error
	if editing {
		err = e.store.Update(ctx, id, doc)
	} else {
		newID, err = e.store.Create(ctx, doc)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateReady
	if err != nil {
		return err
	}
	if !editing {
		e.resumeID = newID
		e.editing = true
	}
	return nil
}

// UploadProfileImage applies the local preview reference immediately and
// uploads the image in the background. On success the preview is replaced
// with the remote URL; on failure the optimistic preview stays in place and
// only the error is surfaced. The returned channel receives the upload
// result exactly once.
func (e *Editor) UploadProfileImage(ctx context.Context, image []byte, preview string) <-chan error {
	e.mu.Lock()
	e.doc.PersonalInfo.ProfileImage = preview
	e.uploading = true
	e.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		url, err := e.uploader.Upload(ctx, bytes.NewReader(image), "profile-image")

		e.mu.Lock()
		if err == nil {
			e.doc.PersonalInfo.ProfileImage = url
		}
		e.uploading = false
		e.mu.Unlock()
		done <- err
	}()
	return done
}

// hydrate fills in everything the editor relies on: a title, a placeholder
// row per empty list, a valid template and a non-empty section list.
func hydrate(doc *document.Resume) *document.Resume {
	out := doc.Clone()
	if out == nil {
		out = document.NewDraft(document.TemplateModern)
	}
	if out.Title == "" {
		out.Title = "Untitled Resume"
	}
	if len(out.Experience) == 0 {
		out.Experience = []document.Experience{{}}
	}
	if len(out.Education) == 0 {
		out.Education = []document.Education{{}}
	}
	if len(out.Projects) == 0 {
		out.Projects = []document.Project{{}}
	}
	if len(out.Certifications) == 0 {
		out.Certifications = []document.Certification{{}}
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	if !out.TemplateID.Valid() {
		out.TemplateID = document.TemplateModern
	}
	if len(out.Sections) == 0 {
		out.Sections = document.DefaultSections()
	}
	return out
}
