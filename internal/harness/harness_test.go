package harness

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/themizzi/saucecheck/internal/artifacts"
	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/session"
)

func testHarness(t *testing.T, cfg *config.HarnessConfig) *Harness {
	t.Helper()
	root := t.TempDir()
	cfg.ArtifactsRoot = root
	return &Harness{Config: cfg, Layout: artifacts.New(root), Log: zap.NewNop(), BaseURL: cfg.BaseURL}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name      string
		video     bool
		wantVideo bool
	}{
		{name: "video off", video: false, wantVideo: false},
		{name: "video on", video: true, wantVideo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHarness(t, &config.HarnessConfig{BaseURL: "http://shop.test", Timeout: 3 * time.Second, Video: tt.video})

			ctxOpts := h.ContextOptions()
			assert.Equal(t, "http://shop.test", ctxOpts.BaseURL)
			if tt.wantVideo {
				assert.Equal(t, filepath.Join(h.Layout.Root, artifacts.VideosDir), ctxOpts.VideoDir)
			} else {
				assert.Empty(t, ctxOpts.VideoDir)
			}

			pageOpts := h.PageOptions()
			assert.Equal(t, "http://shop.test", pageOpts.BaseURL)
			assert.Equal(t, 3*time.Second, pageOpts.Timeout)
		})
	}
}

func TestNewTestContext_RequiresSnapshot(t *testing.T) {
	h := testHarness(t, &config.HarnessConfig{Timeout: time.Second})

	_, err := h.NewTestContext("TestSomething", true)

	assert.ErrorIs(t, err, session.ErrInvalidSnapshot)
}

func TestStartStorefront(t *testing.T) {
	h := testHarness(t, &config.HarnessConfig{Timeout: time.Second})

	require.NoError(t, h.startStorefront())
	assert.Regexp(t, `^http://127\.0\.0\.1:\d+$`, h.BaseURL)
	assert.Equal(t, h.BaseURL, h.Config.APIBaseURL)

	resp, err := http.Get(h.BaseURL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `id="login-button"`)

	assert.NoError(t, h.Close())
}

func TestNewTestContext_RejectsSnapshotWithoutCookies(t *testing.T) {
	// GIVEN a snapshot file whose storage state lost its cookies
	h := testHarness(t, &config.HarnessConfig{Timeout: time.Second})
	path := filepath.Join(t.TempDir(), "user.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cookies":[],"origins":[]}`), 0o644))
	h.snapshot = session.Snapshot{Path: path}

	// WHEN opening an authenticated context
	_, err := h.NewTestContext("TestSomething", true)

	// THEN the snapshot is refused before any browser work
	assert.ErrorIs(t, err, session.ErrInvalidSnapshot)
}

func TestUniqueName(t *testing.T) {
	// GIVEN three outline rows that the runner names identically
	h := testHarness(t, &config.HarnessConfig{Timeout: time.Second})
	const row = "TestCheckoutFeature/Incomplete customer information"

	// WHEN each row asks for its test name
	names := []string{h.UniqueName(row), h.UniqueName(row), h.UniqueName(row), h.UniqueName("TestCheckoutFeature/Other")}

	// THEN every row gets its own report entry and trace file
	assert.Equal(t, []string{row, row + "#2", row + "#3", "TestCheckoutFeature/Other"}, names)
	traces := make(map[string]bool)
	for _, name := range names[:3] {
		traces[h.Layout.TracePath(name)] = true
	}
	assert.Len(t, traces, 3)
}
