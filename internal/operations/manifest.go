package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	apperrors "surfviz/internal/errors"
	"surfviz/internal/files"
	"surfviz/internal/grid"
)

// Run and job statuses recorded in the manifest
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// RunManifest records what a pipeline run read, rendered and wrote
type RunManifest struct {
	mu sync.RWMutex

	// Identity
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
	Duration  string    `json:"duration,omitempty"`

	// Execution tracking
	Jobs []RenderRecord `json:"jobs"`

	// Current status
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RenderRecord tracks the execution of a single surface job
type RenderRecord struct {
	Job       string        `json:"job"`
	Title     string        `json:"title"`
	Input     string        `json:"input"`
	Output    string        `json:"output,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time,omitempty"`
	Duration  string        `json:"duration,omitempty"`
	Status    string        `json:"status"`
	Rows      int           `json:"rows"`
	GridRows  int           `json:"grid_rows"`
	GridCols  int           `json:"grid_cols"`
	Summary   *grid.Summary `json:"summary,omitempty"`
	Width     int           `json:"width,omitempty"`
	Height    int           `json:"height,omitempty"`
	Bytes     int           `json:"bytes,omitempty"`
	Error     string        `json:"error,omitempty"`
	ErrorType string        `json:"error_type,omitempty"`
}

// NewRunManifest creates a manifest with one pending record per job
func NewRunManifest(runID string, jobs []Job) *RunManifest {
	m := &RunManifest{
		ID:        runID,
		StartTime: time.Now(),
		Jobs:      make([]RenderRecord, 0, len(jobs)),
		Status:    StatusPending,
	}
	for _, job := range jobs {
		m.Jobs = append(m.Jobs, RenderRecord{
			Job:    job.Name,
			Title:  job.Spec.Title,
			Input:  job.Input,
			Status: StatusPending,
		})
	}
	return m
}

// update applies fn to the record of the named job
func (m *RunManifest) update(job string, fn func(r *RenderRecord)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Jobs {
		if m.Jobs[i].Job == job {
			fn(&m.Jobs[i])
			return
		}
	}
}

// RecordJobStart marks a job as running
func (m *RunManifest) RecordJobStart(job string) {
	m.mu.Lock()
	m.Status = StatusRunning
	m.mu.Unlock()

	m.update(job, func(r *RenderRecord) {
		r.StartTime = time.Now()
		r.Status = StatusRunning
	})
}

// RecordGrid stores the table and grid shape of a job
func (m *RunManifest) RecordGrid(job string, rows int, g *grid.Grid) {
	summary := grid.Summarize(g)
	m.update(job, func(r *RenderRecord) {
		r.Rows = rows
		r.GridRows = g.Rows()
		r.GridCols = g.Cols()
		r.Summary = &summary
	})
}

// RecordJobCompletion records the written image of a job
func (m *RunManifest) RecordJobCompletion(job, output string, width, height, bytes int) {
	m.update(job, func(r *RenderRecord) {
		r.EndTime = time.Now()
		r.Duration = r.EndTime.Sub(r.StartTime).String()
		r.Status = StatusCompleted
		r.Output = output
		r.Width = width
		r.Height = height
		r.Bytes = bytes
	})
}

// RecordJobFailure records a job failure
func (m *RunManifest) RecordJobFailure(job string, err error) {
	m.update(job, func(r *RenderRecord) {
		r.EndTime = time.Now()
		r.Duration = r.EndTime.Sub(r.StartTime).String()
		r.Status = StatusFailed
		r.Error = err.Error()
		r.ErrorType = string(apperrors.TypeOf(err))
	})
}

// RecordJobSkipped marks a job that was never started
func (m *RunManifest) RecordJobSkipped(job string) {
	m.update(job, func(r *RenderRecord) {
		r.Status = StatusSkipped
	})
}

// Finish sets the final run status
func (m *RunManifest) Finish(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime).String()
	if err != nil {
		m.Status = StatusFailed
		m.Error = err.Error()
		return
	}
	m.Status = StatusCompleted
}

// Record returns a copy of the record of the named job
func (m *RunManifest) Record(job string) (RenderRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.Jobs {
		if r.Job == job {
			return r, true
		}
	}
	return RenderRecord{}, false
}

// Outputs returns the images written during the run
func (m *RunManifest) Outputs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for _, r := range m.Jobs {
		if r.Status == StatusCompleted {
			out = append(out, r.Output)
		}
	}
	return out
}

// SaveToFile saves the manifest to a JSON file
func (m *RunManifest) SaveToFile(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	return files.WriteFile(path, append(data, '\n'))
}

// LoadManifestFromFile loads a manifest from a JSON file
func LoadManifestFromFile(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	return &manifest, nil
}
