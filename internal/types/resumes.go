package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ResumeResponse is a stored resume returned by the API. Document carries
// the full resume JSON exactly as the editor submitted it.
type ResumeResponse struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ResumeSummaryResponse is the listing view of a resume.
type ResumeSummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateResumeResponse is returned when a resume is created.
type CreateResumeResponse struct {
	ID uuid.UUID `json:"id"`
}

// UploadResponse is returned by the profile-image upload endpoint.
type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}
