// Package local implements object storage on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/maya/resume-studio/internal/storage/object"
)

// Image types the profile-image upload accepts.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Store keeps uploaded objects under baseDir, namespaced per user.
type Store struct {
	baseDir string
}

// New creates a local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

var _ object.Store = (*Store)(nil)

// Save sniffs the payload, rejects non-images and writes the object under
// the user's namespace with a random prefix so repeated uploads of the same
// filename never collide.
func (s *Store) Save(ctx context.Context, userID string, filename string, r io.Reader) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	var sniff [512]byte
	n, err := io.ReadFull(r, sniff[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}

	mimeType := http.DetectContentType(sniff[:n])
	if !allowedImageTypes[mimeType] {
		return "", "", object.ErrNotImage
	}

	name := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(filename))
	dir := filepath.Join(s.baseDir, sanitizeFilename(userID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if n > 0 {
		if _, err := f.Write(sniff[:n]); err != nil {
			return "", "", fmt.Errorf("failed to write upload: %w", err)
		}
	}
	if _, err := io.Copy(f, r); err != nil {
		return "", "", fmt.Errorf("failed to write upload: %w", err)
	}

	return filepath.ToSlash(filepath.Join(sanitizeFilename(userID), name)), mimeType, nil
}

// Open opens a stored object. Keys that escape the base directory are
// rejected.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}
	return os.Open(filepath.Join(s.baseDir, clean))
}

// sanitizeFilename strips path components and replaces anything outside a
// conservative character set.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.FromSlash(name))
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return name
}
