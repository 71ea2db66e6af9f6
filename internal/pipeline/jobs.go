package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/papersect/internal/document"
)

// JobStatus represents the state of a batch segmentation job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusSegmenting JobStatus = "segmenting"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// Upload is one file submitted with a job.
type Upload struct {
	Filename    string `json:"filename"`
	ContentHash string `json:"content_hash"`

	data []byte
}

// NewUpload wraps file bytes for a job.
func NewUpload(filename string, data []byte) Upload {
	return Upload{Filename: filename, ContentHash: ContentHashHex(data), data: data}
}

// Job tracks the state of one asynchronous batch.
type Job struct {
	mu sync.Mutex

	ID     string    `json:"job_id"`
	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	uploads  []Upload
	records  []document.Record
	failures []Failure
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalFiles     int      `json:"total_files"`
	FilesProcessed int      `json:"files_processed"`
	Succeeded      int      `json:"succeeded"`
	Failed         int      `json:"failed"`
	Errors         []string `json:"errors"`
}

// NewJob returns a queued job holding uploads.
func NewJob(uploads []Upload) *Job {
	now := time.Now()
	return &Job{
		ID:        NewJobID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Progress:  Progress{TotalFiles: len(uploads)},
		CreatedAt: now,
		UpdatedAt: now,
		uploads:   uploads,
	}
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
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
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

// AddRecord stores a segmented document.
func (j *Job) AddRecord(rec document.Record) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	j.Progress.FilesProcessed++
	j.Progress.Succeeded++
	j.UpdatedAt = time.Now()
}

// AddFailure stores a skipped document and its error text.
func (j *Job) AddFailure(f Failure) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failures = append(j.failures, f)
	j.errors = append(j.errors, f.Error())
	j.Progress.Errors = j.errors
	j.Progress.FilesProcessed++
	j.Progress.Failed++
	j.UpdatedAt = time.Now()
}

// Uploads returns the submitted files.
func (j *Job) Uploads() []Upload {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.uploads
}

// releaseUploads drops file bytes once the job no longer needs them.
func (j *Job) releaseUploads() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.uploads {
		j.uploads[i].data = nil
	}
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string            `json:"job_id"`
	Status   JobStatus         `json:"status"`
	Phase    string            `json:"phase"`
	Files    []Upload          `json:"files"`
	Progress Progress          `json:"progress"`
	Records  []document.Record `json:"records"`
	Failures []Failure         `json:"failures"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	files := make([]Upload, len(j.uploads))
	for i, u := range j.uploads {
		files[i] = Upload{Filename: u.Filename, ContentHash: u.ContentHash}
	}
	return JobSnapshot{
		ID:     j.ID,
		Status: j.Status,
		Phase:  j.Phase,
		Files:  files,
		Progress: Progress{
			TotalFiles:     j.Progress.TotalFiles,
			FilesProcessed: j.Progress.FilesProcessed,
			Succeeded:      j.Progress.Succeeded,
			Failed:         j.Progress.Failed,
			Errors:         append([]string{}, errs...),
		},
		Records:  append([]document.Record{}, j.records...),
		Failures: append([]Failure{}, j.failures...),
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
