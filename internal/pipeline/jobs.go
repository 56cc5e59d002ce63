package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/PAIR-code/lumi/internal/markup"
)

// JobStatus represents the state of a compile job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusCompiling JobStatus = "compiling"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one document compilation.
type Job struct {
	mu sync.Mutex

	ID     string `json:"job_id"`
	FileID string `json:"file_id"`

	Status JobStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	markup string
	result *markup.Compiled
	errs   []string
}

// NewJob creates a queued job for the given markup.
func NewJob(fileID, markupText string) *Job {
	now := time.Now()
	return &Job{
		ID:        ContentHashHex([]byte(fmt.Sprintf("%s-%d", fileID, now.UnixNano())))[:20],
		FileID:    fileID,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		markup:    markupText,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// SetResult records the compiled document and completes the job.
func (j *Job) SetResult(result markup.Compiled) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &result
	j.Status = StatusCompleted
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errs = append(j.errs, err)
	j.UpdatedAt = time.Now()
}

// Markup returns the raw markup to compile.
func (j *Job) Markup() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.markup
}

// JobSnapshot is a read-only copy of job state.
type JobSnapshot struct {
	ID     string           `json:"job_id"`
	FileID string           `json:"file_id"`
	Status JobStatus        `json:"status"`
	Errors []string         `json:"errors"`
	Result *markup.Compiled `json:"-"`
}

// Snapshot returns a copy of the job state safe to read without the lock.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.errs
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		FileID: j.FileID,
		Status: j.Status,
		Errors: errs,
		Result: j.result,
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
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
