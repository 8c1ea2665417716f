// Package object stores uploaded binary objects, currently profile images.
package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotImage is returned by Save when the payload does not sniff as a
// supported image type.
var ErrNotImage = errors.New("file is not a supported image")

// Store is the contract for saving and retrieving uploaded objects. Save
// returns the storage key the object can later be opened with.
type Store interface {
	Save(ctx context.Context, userID string, filename string, r io.Reader) (key string, mimeType string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
