package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/maya/resume-studio/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu        sync.Mutex
	docs      map[string]*document.Resume
	nextID    int
	getErr    error
	createErr error
	updateErr error
	block     chan struct{} // when set, Create/Update block until closed
	creates   int
	updates   int
}

func newMockStore() *mockStore {
	return &mockStore{docs: map[string]*document.Resume{}}
}

func (m *mockStore) Create(_ context.Context, doc *document.Resume) (string, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return "", m.createErr
	}
	m.nextID++
	id := fmt.Sprintf("resume-%d", m.nextID)
	m.docs[id] = doc.Clone()
	return id, nil
}

func (m *mockStore) Get(_ context.Context, id string) (*document.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	doc, ok := m.docs[id]
	if !ok {
		return nil, errors.New("resume not found")
	}
	return doc.Clone(), nil
}

func (m *mockStore) Update(_ context.Context, id string, doc *document.Resume) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.docs[id] = doc.Clone()
	return nil
}

type mockUploader struct {
	url     string
	err     error
	release chan struct{} // when set, Upload blocks until closed
}

func (u *mockUploader) Upload(_ context.Context, _ io.Reader, _ string) (string, error) {
	if u.release != nil {
		<-u.release
	}
	return u.url, u.err
}

func newTestEditor() (*Editor, *mockStore, *mockUploader) {
	store := newMockStore()
	uploader := &mockUploader{url: "https://cdn.example.com/photo.jpg"}
	return New(store, uploader, document.TemplateModern), store, uploader
}

func TestNew_StartsReadyWithDraft(t *testing.T) {
	e, _, _ := newTestEditor()
	assert.Equal(t, StateReady, e.State())
	assert.False(t, e.Uploading())

	doc := e.Document()
	assert.Equal(t, "Untitled Resume", doc.Title)
	assert.Equal(t, document.DefaultSections(), doc.Sections)
}

func TestFieldSetters(t *testing.T) {
	e, _, _ := newTestEditor()

	e.SetTitle("Backend Resume")
	e.SetSummary("Hello")
	e.SetTemplate(document.TemplateProfessional)
	e.SetPersonalInfo(document.PersonalInfo{FullName: "Ada", Email: "ada@example.com"})

	doc := e.Document()
	assert.Equal(t, "Backend Resume", doc.Title)
	assert.Equal(t, "Hello", doc.Summary)
	assert.Equal(t, document.TemplateProfessional, doc.TemplateID)
	assert.Equal(t, "Ada", doc.PersonalInfo.FullName)

	// Unknown template ids are ignored.
	e.SetTemplate("fancy")
	assert.Equal(t, document.TemplateProfessional, e.Document().TemplateID)
}

func TestListOperations(t *testing.T) {
	e, _, _ := newTestEditor()

	e.AddExperience()
	assert.Len(t, e.Document().Experience, 2)

	e.UpdateExperience(1, document.Experience{Position: "Engineer"})
	assert.Equal(t, "Engineer", e.Document().Experience[1].Position)

	// Out-of-range update is a silent no-op.
	e.UpdateExperience(7, document.Experience{Position: "Ghost"})
	assert.Len(t, e.Document().Experience, 2)

	e.RemoveExperience(0)
	assert.Len(t, e.Document().Experience, 1)
	assert.Equal(t, "Engineer", e.Document().Experience[0].Position)
}

// TestRemoveLastEntryLeavesEmptyList covers the scenario where the only
// experience entry is removed: the list becomes empty rather than being
// refilled with a placeholder, and the renderer omits the section.
func TestRemoveLastEntryLeavesEmptyList(t *testing.T) {
	e, _, _ := newTestEditor()
	require.Len(t, e.Document().Experience, 1)

	e.RemoveExperience(0)
	assert.Empty(t, e.Document().Experience)

	e.RemoveExperience(0) // no-op on empty list
	assert.Empty(t, e.Document().Experience)
}

func TestSkills(t *testing.T) {
	e, _, _ := newTestEditor()

	e.AddSkill("  Go  ")
	e.AddSkill("SQL")
	e.AddSkill("   ")
	assert.Equal(t, []string{"Go", "SQL"}, e.Document().Skills)

	e.RemoveSkill(0)
	assert.Equal(t, []string{"SQL"}, e.Document().Skills)
}

func TestSectionDelegation(t *testing.T) {
	e, _, _ := newTestEditor()

	e.ToggleSection(document.SectionProjects)
	assert.False(t, document.Resolve(e.Document().Sections, document.SectionProjects).Enabled)

	e.ReorderSections(document.SectionSkills, document.SectionSummary)
	assert.Equal(t, document.SectionSkills, e.Document().Sections[0].ID)
}

func TestLoad_Hydrates(t *testing.T) {
	e, store, _ := newTestEditor()
	store.docs["r1"] = &document.Resume{
		PersonalInfo: document.PersonalInfo{FullName: "Ada"},
		TemplateID:   "bogus",
	}

	require.NoError(t, e.Load(context.Background(), "r1"))
	assert.Equal(t, StateReady, e.State())
	assert.Equal(t, "r1", e.ResumeID())

	doc := e.Document()
	assert.Equal(t, "Untitled Resume", doc.Title)
	assert.Equal(t, "Ada", doc.PersonalInfo.FullName)
	assert.Len(t, doc.Experience, 1)
	assert.Len(t, doc.Education, 1)
	assert.Len(t, doc.Projects, 1)
	assert.Len(t, doc.Certifications, 1)
	assert.NotNil(t, doc.Skills)
	assert.Equal(t, document.TemplateModern, doc.TemplateID)
	assert.Equal(t, document.DefaultSections(), doc.Sections)
}

func TestLoad_FailureIsTerminal(t *testing.T) {
	e, store, _ := newTestEditor()
	store.getErr = errors.New("boom")

	err := e.Load(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, StateError, e.State())
}

func TestSave_CreateThenUpdate(t *testing.T) {
	e, store, _ := newTestEditor()
	e.SetTitle("First")

	require.NoError(t, e.Save(context.Background()))
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, "resume-1", e.ResumeID())

	e.SetTitle("Second")
	require.NoError(t, e.Save(context.Background()))
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, 1, store.updates)
	assert.Equal(t, "Second", store.docs["resume-1"].Title)
}

func TestSave_FailureLeavesReadyForRetry(t *testing.T) {
	e, store, _ := newTestEditor()
	store.createErr = errors.New("network down")

	err := e.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateReady, e.State())

	store.createErr = nil
	assert.NoError(t, e.Save(context.Background()))
}

func TestSave_SuppressedWhileSaving(t *testing.T) {
	e, store, _ := newTestEditor()
	store.block = make(chan struct{})

	firstDone := make(chan error, 1)
	go func() { firstDone <- e.Save(context.Background()) }()

	// Wait for the first save to reach the store.
	require.Eventually(t, func() bool {
		return e.State() == StateSaving
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, e.Save(context.Background()), ErrSaveInProgress)

	close(store.block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, StateReady, e.State())
}

// TestSave_BlockedByUpload covers the only genuinely concurrent pair in the
// system: save must reject while the image upload is pending and succeed
// once it resolves.
func TestSave_BlockedByUpload(t *testing.T) {
	e, _, uploader := newTestEditor()
	uploader.release = make(chan struct{})

	done := e.UploadProfileImage(context.Background(), []byte("img"), "blob:preview")
	assert.True(t, e.Uploading())

	assert.ErrorIs(t, e.Save(context.Background()), ErrUploadInProgress)

	close(uploader.release)
	require.NoError(t, <-done)
	assert.False(t, e.Uploading())
	assert.NoError(t, e.Save(context.Background()))
}

func TestUploadProfileImage_OptimisticThenRemoteURL(t *testing.T) {
	e, _, _ := newTestEditor()

	done := e.UploadProfileImage(context.Background(), []byte("img"), "blob:preview")
	assert.Equal(t, "blob:preview", e.Document().PersonalInfo.ProfileImage)

	require.NoError(t, <-done)
	assert.Equal(t, "https://cdn.example.com/photo.jpg", e.Document().PersonalInfo.ProfileImage)
	assert.False(t, e.Uploading())
}

func TestUploadProfileImage_FailureKeepsPreview(t *testing.T) {
	e, _, uploader := newTestEditor()
	uploader.err = errors.New("upload failed")
	uploader.url = ""

	done := e.UploadProfileImage(context.Background(), []byte("img"), "blob:preview")
	require.Error(t, <-done)

	// Optimistic preview is intentionally kept; only the flag is cleared.
	assert.Equal(t, "blob:preview", e.Document().PersonalInfo.ProfileImage)
	assert.False(t, e.Uploading())
}

func TestUploadDoesNotBlockFieldEdits(t *testing.T) {
	e, _, uploader := newTestEditor()
	uploader.release = make(chan struct{})

	done := e.UploadProfileImage(context.Background(), []byte("img"), "blob:preview")

	e.SetTitle("Edited during upload")
	assert.Equal(t, "Edited during upload", e.Document().Title)

	close(uploader.release)
	require.NoError(t, <-done)
}
