package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeCRUD(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.registerUser(t, "ada@example.com")

	// Create
	id := ts.createResume(t, cookie, "Backend Resume")

	// Get
	req := httptest.NewRequest("GET", "/api/resumes/"+id.String(), nil)
	req.AddCookie(cookie)
	rec := ts.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Title    string          `json:"title"`
		Document json.RawMessage `json:"document"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Backend Resume", got.Title)
	assert.Contains(t, string(got.Document), `"templateId":"modern"`)

	// Update
	req = httptest.NewRequest("PUT", "/api/resumes/"+id.String(), bytes.NewReader(sampleDocJSON("Renamed")))
	req.AddCookie(cookie)
	rec = ts.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// List reflects the update
	req = httptest.NewRequest("GET", "/api/resumes", nil)
	req.AddCookie(cookie)
	rec = ts.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Renamed", summaries[0].Title)

	// Delete
	req = httptest.NewRequest("DELETE", "/api/resumes/"+id.String(), nil)
	req.AddCookie(cookie)
	rec = ts.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest("GET", "/api/resumes/"+id.String(), nil)
	req.AddCookie(cookie)
	rec = ts.do(t, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResumeEndpointsRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	requests := []*http.Request{
		httptest.NewRequest("POST", "/api/resumes", bytes.NewReader(sampleDocJSON("x"))),
		httptest.NewRequest("GET", "/api/resumes", nil),
		httptest.NewRequest("GET", "/api/resumes/"+newUUIDString(), nil),
		httptest.NewRequest("PUT", "/api/resumes/"+newUUIDString(), bytes.NewReader(sampleDocJSON("x"))),
		httptest.NewRequest("DELETE", "/api/resumes/"+newUUIDString(), nil),
	}
	for _, req := range requests {
		rec := ts.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", req.Method, req.URL.Path)
	}
}

func TestCreateResume_RejectsInvalidDocument(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.registerUser(t, "ada@example.com")

	tests := []struct {
		name string
		body string
	}{
		{"unknown template", `{"title":"x","templateId":"fancy"}`},
		{"unknown field", `{"title":"x","rating":5}`},
		{"not json", `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/resumes", strings.NewReader(tt.body))
			req.AddCookie(cookie)
			rec := ts.do(t, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateResume_DefaultsEmptyTitle(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.registerUser(t, "ada@example.com")

	req := httptest.NewRequest("POST", "/api/resumes", strings.NewReader(`{"templateId":"modern"}`))
	req.AddCookie(cookie)
	rec := ts.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest("GET", "/api/resumes", nil)
	req.AddCookie(cookie)
	rec = ts.do(t, req)

	var summaries []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Untitled Resume", summaries[0].Title)
}

func TestResume_OtherUsersResumeIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	_, ownerCookie := ts.registerUser(t, "owner@example.com")
	_, otherCookie := ts.registerUser(t, "other@example.com")

	id := ts.createResume(t, ownerCookie, "Private")

	req := httptest.NewRequest("GET", "/api/resumes/"+id.String(), nil)
	req.AddCookie(otherCookie)
	rec := ts.do(t, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest("DELETE", "/api/resumes/"+id.String(), nil)
	req.AddCookie(otherCookie)
	rec = ts.do(t, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Owner still sees it.
	req = httptest.NewRequest("GET", "/api/resumes/"+id.String(), nil)
	req.AddCookie(ownerCookie)
	rec = ts.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResume_DatabaseFailureIsNotMaskedAsNotFound(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.registerUser(t, "ada@example.com")
	id := ts.createResume(t, cookie, "Backend Resume")

	ts.db.failAll = true

	// A broken database is a server error; only a missing row is a 404.
	req := httptest.NewRequest("PUT", "/api/resumes/"+id.String(), bytes.NewReader(sampleDocJSON("Renamed")))
	req.AddCookie(cookie)
	rec := ts.do(t, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	req = httptest.NewRequest("DELETE", "/api/resumes/"+id.String(), nil)
	req.AddCookie(cookie)
	rec = ts.do(t, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	ts.db.failAll = false

	// Unknown resume is still a 404 once the database is healthy.
	req = httptest.NewRequest("PUT", "/api/resumes/"+newUUIDString(), bytes.NewReader(sampleDocJSON("Renamed")))
	req.AddCookie(cookie)
	rec = ts.do(t, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResume_BadID(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.registerUser(t, "ada@example.com")

	req := httptest.NewRequest("GET", "/api/resumes/not-a-uuid", nil)
	req.AddCookie(cookie)
	rec := ts.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
