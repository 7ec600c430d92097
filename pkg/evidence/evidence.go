package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

// RunRecord captures run-level metadata.
type RunRecord struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Pipeline  string            `json:"pipeline"`
	SkillName string            `json:"skill_name"`
	Level     string            `json:"proficiency_level"`
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	Stages    []string          `json:"stages"`
	Versions  map[string]string `json:"versions,omitempty"`
}

// StageRecord captures the outcome of a single stage.
type StageRecord struct {
	Name           string `json:"name"`
	Index          int    `json:"index"`
	Status         string `json:"status"`
	DurationMillis int64  `json:"duration_ms"`
	Error          string `json:"error,omitempty"`
}

// UsageReport summarizes token usage for a run.
type UsageReport struct {
	Total adapter.Usage        `json:"total"`
	Calls []adapter.CallReport `json:"calls"`
}

// Writer writes evidence bundles to disk:
//
//	<base>/<run>/run.json
//	<base>/<run>/stages/<nn>-<stage>.json
//	<base>/<run>/usage.json
//	<base>/<run>/result.json
type Writer struct {
	baseDir string
	runDir  string

	mu       sync.Mutex
	firstErr error
}

// NewWriter creates a new evidence writer rooted at baseDir/runID.
func NewWriter(baseDir, runID string) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(filepath.Join(runDir, "stages"), 0700); err != nil {
		return nil, err
	}

	return &Writer{baseDir: baseDir, runDir: runDir}, nil
}

// RunDir returns the run directory path.
func (w *Writer) RunDir() string {
	return w.runDir
}

// WriteRun writes run metadata to run.json.
func (w *Writer) WriteRun(record RunRecord) error {
	return writeJSON(filepath.Join(w.runDir, "run.json"), record)
}

// WriteStage writes a stage record under stages/.
func (w *Writer) WriteStage(record StageRecord) error {
	if record.Name == "" {
		return fmt.Errorf("stage name is required")
	}
	name := fmt.Sprintf("%02d-%s.json", record.Index+1, slug(record.Name))
	return writeJSON(filepath.Join(w.runDir, "stages", name), record)
}

// WriteUsage writes token usage to usage.json.
func (w *Writer) WriteUsage(report UsageReport) error {
	return writeJSON(filepath.Join(w.runDir, "usage.json"), report)
}

// WriteResult writes the final analysis to result.json.
func (w *Writer) WriteResult(result any) error {
	return writeJSON(filepath.Join(w.runDir, "result.json"), result)
}

// Observe records finished stages. It is meant to be passed to
// workflow.Pipeline.Run; write failures are kept for Err.
func (w *Writer) Observe(e workflow.Event) {
	if e.Status != workflow.StatusCompleted && e.Status != workflow.StatusFailed {
		return
	}
	record := StageRecord{
		Name:           e.Stage,
		Index:          e.Index,
		Status:         string(e.Status),
		DurationMillis: e.Duration.Milliseconds(),
	}
	if e.Err != nil {
		record.Error = e.Err.Error()
	}
	if err := w.WriteStage(record); err != nil {
		w.mu.Lock()
		if w.firstErr == nil {
			w.firstErr = err
		}
		w.mu.Unlock()
	}
}

// Err returns the first error hit by Observe.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.firstErr
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
