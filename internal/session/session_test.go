package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "snapshot with cookies",
			content: `{"cookies":[{"name":"session-username","value":"standard_user","domain":"localhost","path":"/"}],"origins":[]}`,
		},
		{
			name:    "snapshot without cookies",
			content: `{"cookies":[],"origins":[]}`,
			wantErr: ErrInvalidSnapshot,
		},
		{
			name:    "not json",
			content: `cookies: []`,
			wantErr: ErrInvalidSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)

			snap, err := Load(path)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, snap.Path)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestContextOptions_Build(t *testing.T) {
	t.Run("anonymous context", func(t *testing.T) {
		opts := ContextOptions{}.Build("")

		assert.Nil(t, opts.StorageStatePath)
		assert.Nil(t, opts.RecordVideo)
		assert.Nil(t, opts.BaseURL)
		require.NotNil(t, opts.Viewport)
		assert.Equal(t, 1280, opts.Viewport.Width)
		assert.Equal(t, 720, opts.Viewport.Height)
	})

	t.Run("restored context with video", func(t *testing.T) {
		opts := ContextOptions{
			BaseURL:  "http://127.0.0.1:8080",
			VideoDir: "test-results/videos",
			Width:    1024,
			Height:   768,
		}.Build("playwright/.auth/user.json")

		require.NotNil(t, opts.StorageStatePath)
		assert.Equal(t, "playwright/.auth/user.json", *opts.StorageStatePath)
		require.NotNil(t, opts.RecordVideo)
		assert.Equal(t, "test-results/videos", opts.RecordVideo.Dir)
		require.NotNil(t, opts.BaseURL)
		assert.Equal(t, "http://127.0.0.1:8080", *opts.BaseURL)
		assert.Equal(t, 1024, opts.Viewport.Width)
	})
}
