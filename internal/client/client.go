// Package client provides a Go client for the resume studio API. It keeps
// the session cookie issued at login in an in-process cookie jar, so it can
// back the editor the same way the browser front end does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maya/resume-studio/internal/document"
	"github.com/maya/resume-studio/internal/export"
	"github.com/maya/resume-studio/internal/types"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to a resume studio server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// attached if the client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out (which may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// Register creates an account. The session cookie from the response lands in
// the jar, so the client is logged in afterwards.
func (c *Client) Register(ctx context.Context, name, email, password string) (*types.User, error) {
	req := types.CreateUserRequest{Name: name, Email: email, Password: password}
	var resp types.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/users", req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Login authenticates and stores the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) (*types.User, error) {
	req := types.LoginRequest{Email: email, Password: password}
	var resp types.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/auth", req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout clears the server-side session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/users/logout", nil, nil)
}

// Profile returns the authenticated account.
func (c *Client) Profile(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateResume stores a new resume and returns its id.
func (c *Client) CreateResume(ctx context.Context, doc *document.Resume) (uuid.UUID, error) {
	var resp types.CreateResumeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/resumes", doc, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}

// GetResume fetches a stored resume.
func (c *Client) GetResume(ctx context.Context, id uuid.UUID) (*types.ResumeResponse, error) {
	var resp types.ResumeResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/resumes/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListResumes returns summaries of the account's resumes.
func (c *Client) ListResumes(ctx context.Context) ([]types.ResumeSummaryResponse, error) {
	var resp []types.ResumeSummaryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/resumes", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateResume replaces a stored resume document.
func (c *Client) UpdateResume(ctx context.Context, id uuid.UUID, doc *document.Resume) error {
	return c.doJSON(ctx, http.MethodPut, "/api/resumes/"+id.String(), doc, nil)
}

// DeleteResume removes a stored resume.
func (c *Client) DeleteResume(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/resumes/"+id.String(), nil, nil)
}

// Export renders a stored resume server-side and returns the artifact bytes.
func (c *Client) Export(ctx context.Context, id uuid.UUID, format export.Format) (*export.Result, error) {
	path := fmt.Sprintf("/api/resumes/%s/export/%s", id, format)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return &export.Result{
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition"), id, format),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// filenameFromDisposition extracts the filename from a Content-Disposition
// header, falling back to the resume id.
func filenameFromDisposition(header string, id uuid.UUID, format export.Format) string {
	const marker = `filename="`
	if i := strings.Index(header, marker); i >= 0 {
		rest := header[i+len(marker):]
		if j := strings.Index(rest, `"`); j >= 0 {
			return rest[:j]
		}
	}
	return fmt.Sprintf("%s.%s", id, format)
}

// UploadProfileImage uploads an image and returns the URL it is served from.
func (c *Client) UploadProfileImage(ctx context.Context, image io.Reader, filename string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, image); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload/profile-image", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}
	var upload types.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return upload.ImageURL, nil
}
