package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maya/resume-studio/internal/storage/object"
)

// Minimal valid PNG header, enough for content sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestSaveAndOpen(t *testing.T) {
	store := New(t.TempDir())

	key, mimeType, err := store.Save(context.Background(), "user-1", "photo.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.True(t, strings.HasPrefix(key, "user-1/"))
	assert.True(t, strings.HasSuffix(key, "_photo.png"))

	rc, err := store.Open(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestSave_RejectsNonImage(t *testing.T) {
	store := New(t.TempDir())

	_, _, err := store.Save(context.Background(), "user-1", "resume.txt", strings.NewReader("plain text payload"))
	assert.ErrorIs(t, err, object.ErrNotImage)
}

func TestSave_UniqueKeysForSameFilename(t *testing.T) {
	store := New(t.TempDir())

	key1, _, err := store.Save(context.Background(), "user-1", "photo.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	key2, _, err := store.Save(context.Background(), "user-1", "photo.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)
}

func TestSave_SanitizesFilename(t *testing.T) {
	store := New(t.TempDir())

	key, _, err := store.Save(context.Background(), "user-1", "../../etc/pass wd.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.NotContains(t, key, "..")
	assert.NotContains(t, key, " ")
}

func TestOpen_RejectsTraversal(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Open(context.Background(), "../secret")
	assert.Error(t, err)

	_, err = store.Open(context.Background(), "/etc/passwd")
	assert.Error(t, err)
}
