package jobs

import (
	"sync"

	"github.com/google/uuid"

	"github.com/reservalexis/creolespeak/internal/models"
)

// Tracker is the single point of truth for the current synthesis job.
// It holds exactly one slot: a new submission unconditionally overwrites
// whatever was there, including a previous job's terminal state.
type Tracker struct {
	mu       sync.RWMutex
	jobID    string
	status   models.JobStatus // zero value means no job was ever submitted
	audioURL string

	// submission correlates log lines between the submit call and the
	// polls that follow it; it never leaves the process.
	submission uuid.UUID
}

// NewTracker creates a tracker in the never-submitted state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Reset clears the slot for a new submission and returns the new
// submission's correlation id. Called before the provider round trip so
// a poll arriving mid-submission observes "submitted" rather than the
// previous job's state.
func (t *Tracker) Reset() uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.jobID = ""
	t.status = models.StatusSubmitted
	t.audioURL = ""
	t.submission = uuid.New()
	return t.submission
}

// RecordSubmitted stores the provider-assigned identifier and initial
// status after a successful submission.
func (t *Tracker) RecordSubmitted(jobID string, status models.JobStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.jobID = jobID
	t.status = status
}

// RecordPollResult overwrites the status and, when present, the audio
// location.
func (t *Tracker) RecordPollResult(status models.JobStatus, audioURL string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = status
	if audioURL != "" {
		t.audioURL = audioURL
	}
}

// Snapshot returns a read-only view of the slot. Before any submission
// the status is idle.
func (t *Tracker) Snapshot() models.JobSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.status == "" {
		return models.JobSnapshot{Status: models.StatusIdle}
	}
	return models.JobSnapshot{
		JobID:    t.jobID,
		Status:   t.status,
		AudioURL: t.audioURL,
	}
}

// Submission returns the correlation id of the current submission.
func (t *Tracker) Submission() uuid.UUID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.submission
}
