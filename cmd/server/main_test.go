package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pod-design-backend/internal/config"
)

func TestNewArtifactStore_None(t *testing.T) {
	store, dir, err := newArtifactStore(&config.Config{ArtifactStore: config.ArtifactStoreNone})

	require.NoError(t, err)
	assert.Nil(t, store)
	assert.Empty(t, dir)
}

func TestNewArtifactStore_FilesystemServesItsDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "artifacts")

	store, dir, err := newArtifactStore(&config.Config{
		ArtifactStore:   config.ArtifactStoreFilesystem,
		ArtifactDir:     base,
		ArtifactBaseURL: "http://localhost:8080/artifacts",
	})

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, base, dir)
	assert.DirExists(t, base)
}
