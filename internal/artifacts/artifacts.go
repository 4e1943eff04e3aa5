// Package artifacts owns the on-disk layout shared by a test run: the
// session snapshot directory, failure captures, the run report, and the
// visual regression baselines.
package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Directories relative to the layout root.
const (
	AuthDir        = "playwright/.auth"
	ResultsDir     = "test-results"
	ScreenshotsDir = "test-results/screenshots"
	VideosDir      = "test-results/videos"
	TracesDir      = "test-results/traces"
	ReportDir      = "test-results/run-report"
	SnapshotsDir   = "snapshots"

	AuthStateFile = "user.json"
	SummaryFile   = "summary.json"
)

// transient directories are removed by Teardown when a run left them empty.
var transient = []string{ScreenshotsDir, VideosDir, TracesDir}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Layout resolves artifact paths under Root.
type Layout struct {
	Root string
}

// New returns a layout rooted at root, or the working directory when root
// is empty.
func New(root string) Layout {
	if root == "" {
		root = "."
	}
	return Layout{Root: root}
}

// Dirs lists every directory Prepare creates.
func (l Layout) Dirs() []string {
	rel := []string{AuthDir, ResultsDir, ScreenshotsDir, VideosDir, TracesDir, ReportDir, SnapshotsDir}
	dirs := make([]string, len(rel))
	for i, d := range rel {
		dirs[i] = l.path(d)
	}
	return dirs
}

// Prepare creates the layout. Running it again is a no-op.
func (l Layout) Prepare(log *zap.Logger) error {
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	log.Info("global setup complete", zap.String("root", l.Root))
	return nil
}

// Teardown removes capture directories that nothing was written to.
func (l Layout) Teardown(log *zap.Logger) error {
	var errs []error
	for _, rel := range transient {
		dir := l.path(rel)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(entries) == 0 {
			if err := os.Remove(dir); err != nil {
				errs = append(errs, err)
			}
		}
	}
	log.Info("global teardown complete", zap.String("root", l.Root))
	return errors.Join(errs...)
}

// AuthStatePath is where the session snapshot lives.
func (l Layout) AuthStatePath() string {
	return l.path(AuthDir, AuthStateFile)
}

// SummaryPath is where the run report is written.
func (l Layout) SummaryPath() string {
	return l.path(ReportDir, SummaryFile)
}

// VideoDir is where browser contexts record video.
func (l Layout) VideoDir() string {
	return l.path(VideosDir)
}

// ScreenshotPath returns a timestamped png path for a failure capture.
func (l Layout) ScreenshotPath(name string, now time.Time) string {
	return l.path(ScreenshotsDir, fmt.Sprintf("%s-%s.png", Sanitize(name), now.UTC().Format("20060102T150405.000")))
}

// TracePath returns the trace archive path for a test.
func (l Layout) TracePath(name string) string {
	return l.path(TracesDir, Sanitize(name)+".zip")
}

// SnapshotPath returns the baseline image path for a visual check.
func (l Layout) SnapshotPath(name string) string {
	return l.path(SnapshotsDir, Sanitize(name)+".png")
}

// SnapshotOutputDir is where actual and diff images of failed visual
// checks go.
func (l Layout) SnapshotOutputDir() string {
	return l.path(ResultsDir)
}

func (l Layout) path(elem ...string) string {
	return filepath.Join(append([]string{l.Root}, elem...)...)
}

// Sanitize turns a test name such as "TestLogin/locked user" into a file
// name fragment.
func Sanitize(name string) string {
	s := unsafeChars.ReplaceAllString(name, "-")
	s = strings.Trim(s, "-.")
	if s == "" {
		return "unnamed"
	}
	return s
}
