package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound reports that a resume does not exist or belongs to another
// user. Callers match it with errors.Is to tell missing rows apart from
// database failures.
var ErrNotFound = errors.New("resume not found")

// CreateResume stores a new resume document for the user and returns its ID
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title string, document json.RawMessage) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, document)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		userID, title, document,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume owned by the user. Returns nil if no such
// resume exists; ownership is enforced in the query so another user's id
// behaves like a missing one.
func (db *DB) GetResume(ctx context.Context, userID, resumeID uuid.UUID) (*ResumeRecord, error) {
	var rec ResumeRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, document, created_at, updated_at
		 FROM resumes WHERE id = $1 AND user_id = $2`,
		resumeID, userID,
	).Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Document, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &rec, nil
}

// ListResumes retrieves summaries of the user's resumes, most recently
// updated first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, created_at, updated_at
		 FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var summaries []ResumeSummary
	for rows.Next() {
		var s ResumeSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// UpdateResume replaces the document and title of a resume owned by the user
func (db *DB) UpdateResume(ctx context.Context, userID, resumeID uuid.UUID, title string, document json.RawMessage) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET title = $1, document = $2, updated_at = NOW()
		 WHERE id = $3 AND user_id = $4`,
		title, document, resumeID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, resumeID)
	}
	return nil
}

// DeleteResume deletes a resume owned by the user
func (db *DB) DeleteResume(ctx context.Context, userID, resumeID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`,
		resumeID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, resumeID)
	}
	return nil
}
