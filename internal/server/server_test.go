package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORS_HeadersAndPreflight(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = ts.do(t, httptest.NewRequest("OPTIONS", "/api/resumes", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "preflight must short-circuit before auth")
}

func TestExtractClientID(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "192.0.2.1:54321"
	assert.Equal(t, "192.0.2.1", ts.srv.extractClientID(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", ts.srv.extractClientID(req))
}
