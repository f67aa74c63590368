package storage_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pod-design-backend/internal/storage"
)

func TestFileStore_SaveReturnsPublicURL(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir, "http://localhost:8080/artifacts/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "./design-1.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/artifacts/design-1.png", url)
	data, err := os.ReadFile(filepath.Join(dir, "design-1.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost/artifacts")
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../etc/passwd", "a/../../b"} {
		_, err := store.Save(context.Background(), key, []byte("x"), "")
		assert.Error(t, err, key)
	}
}

func TestFileStore_CanceledContext(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost/artifacts")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, "a.png", []byte("x"), "")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", storage.ExtensionFor("image/jpeg"))
	assert.Equal(t, ".webp", storage.ExtensionFor("image/webp; charset=binary"))
	assert.Equal(t, ".png", storage.ExtensionFor(""))
}

func TestThumbnail_FitsWithinBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1200, 600))
	for x := 0; x < 1200; x++ {
		src.Set(x, 300, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	thumb, err := storage.Thumbnail(buf.Bytes(), 300)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 150, cfg.Height)
}

func TestThumbnail_RejectsGarbage(t *testing.T) {
	_, err := storage.Thumbnail([]byte("not an image"), 100)
	assert.Error(t, err)
}
