package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/maya/resume-studio/internal/config"
	"github.com/maya/resume-studio/internal/db"
	"github.com/maya/resume-studio/internal/document"
	"github.com/maya/resume-studio/internal/export"
)

// fakeDB is an in-memory DBClient for handler tests.
type fakeDB struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*db.User
	resumes map[uuid.UUID]*db.ResumeRecord
	failAll bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:   make(map[uuid.UUID]*db.User),
		resumes: make(map[uuid.UUID]*db.ResumeRecord),
	}
}

var errFakeDB = errors.New("database unavailable")

func (f *fakeDB) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return uuid.Nil, errFakeDB
	}
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.User{ID: id, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (f *fakeDB) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDB
	}
	return f.users[userID], nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDB
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return false, errFakeDB
	}
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeDB
	}
	user, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeDB) CreateResume(_ context.Context, userID uuid.UUID, title string, doc json.RawMessage) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return uuid.Nil, errFakeDB
	}
	id := uuid.New()
	now := time.Now()
	f.resumes[id] = &db.ResumeRecord{
		ID: id, UserID: userID, Title: title, Document: doc,
		CreatedAt: now, UpdatedAt: now,
	}
	return id, nil
}

func (f *fakeDB) GetResume(_ context.Context, userID, resumeID uuid.UUID) (*db.ResumeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDB
	}
	rec, ok := f.resumes[resumeID]
	if !ok || rec.UserID != userID {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeDB) ListResumes(_ context.Context, userID uuid.UUID) ([]db.ResumeSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDB
	}
	var out []db.ResumeSummary
	for _, rec := range f.resumes {
		if rec.UserID == userID {
			out = append(out, db.ResumeSummary{
				ID: rec.ID, Title: rec.Title,
				CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt,
			})
		}
	}
	return out, nil
}

func (f *fakeDB) UpdateResume(_ context.Context, userID, resumeID uuid.UUID, title string, doc json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeDB
	}
	rec, ok := f.resumes[resumeID]
	if !ok || rec.UserID != userID {
		return fmt.Errorf("%w: %s", db.ErrNotFound, resumeID)
	}
	rec.Title = title
	rec.Document = doc
	rec.UpdatedAt = time.Now()
	return nil
}

func (f *fakeDB) DeleteResume(_ context.Context, userID, resumeID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeDB
	}
	rec, ok := f.resumes[resumeID]
	if !ok || rec.UserID != userID {
		return fmt.Errorf("%w: %s", db.ErrNotFound, resumeID)
	}
	delete(f.resumes, resumeID)
	return nil
}

// fakeExporter returns canned bytes without launching a browser.
type fakeExporter struct {
	err   error
	block chan struct{} // when set, Export blocks until closed
}

func (f *fakeExporter) Export(_ context.Context, doc *document.Resume, format export.Format) (*export.Result, error) {
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &export.Result{
		Filename:    export.Filename(doc.Title, format),
		ContentType: export.ContentType(format),
		Data:        []byte("fake-artifact"),
	}, nil
}

// fakeObjects is an in-memory object store.
type fakeObjects struct {
	mu    sync.Mutex
	blobs map[string][]byte
	err   error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{blobs: make(map[string][]byte)}
}

func (f *fakeObjects) Save(_ context.Context, userID, filename string, r io.Reader) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	mimeType := http.DetectContentType(data)
	key := userID + "/" + uuid.NewString() + "_" + filename
	f.mu.Lock()
	f.blobs[key] = data
	f.mu.Unlock()
	return key, mimeType, nil
}

func (f *fakeObjects) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// testServer wires a Server around the fakes, bypassing env config.
type testServer struct {
	srv     *Server
	handler http.Handler
	db      *fakeDB
	objects *fakeObjects
	export  *fakeExporter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	fdb := newFakeDB()
	objects := newFakeObjects()
	exporter := &fakeExporter{}

	s := &Server{
		db:              fdb,
		objects:         objects,
		exporter:        exporter,
		cfg:             &config.Config{AllowedOrigin: "http://localhost:5173", MaxUploadBytes: 1 << 20},
		exportsInFlight: make(map[uuid.UUID]struct{}),
	}
	s.jwtService = NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	s.userService = NewUserService(fdb, &config.PasswordConfig{BcryptCost: 10})
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	return &testServer{
		srv:     s,
		handler: s.withCORS(s.routes()),
		db:      fdb,
		objects: objects,
		export:  exporter,
	}
}

// registerUser creates an account through the API and returns its id and
// session cookie.
func (ts *testServer) registerUser(t *testing.T, email string) (uuid.UUID, *http.Cookie) {
	t.Helper()

	body := fmt.Sprintf(`{"name":"Test User","email":%q,"password":"hunter2hunter2"}`, email)
	rec := ts.do(t, httptest.NewRequest("POST", "/api/users", bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	cookie := sessionCookie(rec.Result().Cookies())
	require.NotNil(t, cookie, "registration must set the session cookie")
	return resp.User.ID, cookie
}

func sessionCookie(cookies []*http.Cookie) *http.Cookie {
	for _, c := range cookies {
		if c.Name == config.SessionCookieName {
			return c
		}
	}
	return nil
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func newUUIDString() string {
	return uuid.NewString()
}

// sampleDocJSON is a minimal valid resume document payload.
func sampleDocJSON(title string) []byte {
	doc := document.NewDraft(document.TemplateModern)
	doc.Title = title
	doc.PersonalInfo.FullName = "Ada Lovelace"
	data, _ := json.Marshal(doc)
	return data
}

// createResume stores a resume through the API and returns its id.
func (ts *testServer) createResume(t *testing.T, cookie *http.Cookie, title string) uuid.UUID {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/resumes", bytes.NewReader(sampleDocJSON(title)))
	req.AddCookie(cookie)
	rec := ts.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ID
}
