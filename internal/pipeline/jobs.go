package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/lecternhq/lectern/internal/document"
	"github.com/lecternhq/lectern/internal/epub/compat"
	"github.com/lecternhq/lectern/internal/extract"
	"github.com/lecternhq/lectern/internal/validate"
)

// JobStatus represents the state of a processing job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusExtracting JobStatus = "extracting"
	StatusAssembling JobStatus = "assembling"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single document-structure extraction.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus      `json:"status"`
	Phase    string         `json:"phase"`
	Filename string         `json:"filename"`
	Title    string         `json:"title"`
	Format   extract.Format `json:"format"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData   []byte
	result     *document.DocumentStructure
	validation *validate.Result
	compat     *compat.Analysis
	errors     []string
}

// Progress tracks per-unit processing progress.
type Progress struct {
	TotalUnits     int      `json:"total_units"`
	UnitsExtracted int      `json:"units_extracted"`
	Chapters       int      `json:"chapters"`
	Words          int      `json:"words"`
	Errors         []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetProgress records unit counts after extraction.
func (j *Job) SetProgress(totalUnits, extracted, chapters, words int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalUnits = totalUnits
	j.Progress.UnitsExtracted = extracted
	j.Progress.Chapters = chapters
	j.Progress.Words = words
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetResult stores the assembled document structure and releases the
// raw upload bytes.
func (j *Job) SetResult(doc *document.DocumentStructure) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = doc
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Result returns the assembled structure, or nil while processing.
func (j *Job) Result() *document.DocumentStructure {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// SetAnalysis stores the EPUB validation and compatibility results.
func (j *Job) SetAnalysis(v *validate.Result, c *compat.Analysis) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.validation = v
	j.compat = c
	j.UpdatedAt = time.Now()
}

// Analysis returns the validation and compatibility results, either of
// which may be nil for non-EPUB inputs.
func (j *Job) Analysis() (*validate.Result, *compat.Analysis) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.validation, j.compat
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string         `json:"job_id"`
	Status   JobStatus      `json:"status"`
	Phase    string         `json:"phase"`
	Filename string         `json:"filename"`
	Title    string         `json:"title"`
	Format   extract.Format `json:"format"`
	Progress Progress       `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Format:   j.Format,
		Progress: Progress{
			TotalUnits:     j.Progress.TotalUnits,
			UnitsExtracted: j.Progress.UnitsExtracted,
			Chapters:       j.Progress.Chapters,
			Words:          j.Progress.Words,
			Errors:         errs,
		},
	}
}

// NewJobID returns a fresh sortable job identifier.
func NewJobID() string {
	return generateULID()
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
