// Package report records test outcomes for a run and writes them as a JSON
// summary next to the other run artifacts.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status is the outcome of one test.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ErrNotStarted is returned by End when Begin was never called.
var ErrNotStarted = errors.New("report: run not started")

// Result is one finished test.
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
}

// Summary is the document written to summary.json.
type Summary struct {
	RunID      string        `json:"runId"`
	TotalTests int           `json:"totalTests"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Timestamp  time.Time     `json:"timestamp"`
	Duration   time.Duration `json:"duration"`
	Results    []Result      `json:"results"`
}

// Recorder collects results. It is safe for concurrent use.
type Recorder struct {
	path string
	log  *zap.Logger
	now  func() time.Time

	mu       sync.Mutex
	runID    string
	started  time.Time
	planned  int
	inFlight map[string]time.Time
	results  []Result
}

// NewRecorder writes its summary to path.
func NewRecorder(path string, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		path:     path,
		log:      log,
		now:      time.Now,
		inFlight: make(map[string]time.Time),
	}
}

// Begin starts a run of planned tests. planned may be 0 when unknown.
func (r *Recorder) Begin(planned int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runID = uuid.NewString()
	r.started = r.now()
	r.planned = planned
	r.results = nil
	r.log.Info("starting test run", zap.String("run_id", r.runID), zap.Int("planned", planned))
	return r.runID
}

// TestBegin marks name as running.
func (r *Recorder) TestBegin(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight[name] = r.now()
}

// TestEnd records the outcome of name. A zero duration is measured from
// TestBegin when there was one.
func (r *Recorder) TestEnd(name string, status Status, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if begun, ok := r.inFlight[name]; ok {
		if duration == 0 {
			duration = r.now().Sub(begun)
		}
		delete(r.inFlight, name)
	}
	r.results = append(r.results, Result{Name: name, Status: status, Duration: duration})

	fields := []zap.Field{zap.String("test", name), zap.String("status", string(status)), zap.Duration("duration", duration)}
	if status == StatusFailed {
		r.log.Warn("test finished", fields...)
		return
	}
	r.log.Debug("test finished", fields...)
}

// End writes the summary and returns it.
func (r *Recorder) End() (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started.IsZero() {
		return Summary{}, ErrNotStarted
	}

	results := append([]Result(nil), r.results...)
	sort.SliceStable(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	s := Summary{
		RunID:     r.runID,
		Timestamp: r.started.UTC(),
		Duration:  r.now().Sub(r.started),
		Results:   results,
	}
	for _, res := range results {
		switch res.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	s.TotalTests = len(results)
	if r.planned > s.TotalTests {
		s.TotalTests = r.planned
	}

	if err := write(r.path, s); err != nil {
		return s, err
	}
	r.log.Info("test run finished",
		zap.String("run_id", s.RunID),
		zap.Int("total", s.TotalTests),
		zap.Int("passed", s.Passed),
		zap.Int("failed", s.Failed),
		zap.Int("skipped", s.Skipped),
		zap.String("summary", r.path),
	)
	return s, nil
}

func write(path string, s Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// Load reads a summary written by End.
func Load(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read summary: %w", err)
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("decode summary: %w", err)
	}
	return s, nil
}

// Failures returns the failed results.
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}
