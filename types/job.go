package types

import "time"

// JobStatus is the lifecycle state of one uploaded file.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobProcessed  JobStatus = "processed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobProcessed || s == JobFailed
}

// CanTransition reports whether moving to the given status is a legal
// forward step. Statuses never regress: queued -> processing ->
// processed | failed.
func (s JobStatus) CanTransition(to JobStatus) bool {
	switch s {
	case JobQueued:
		return to == JobProcessing || to == JobProcessed || to == JobFailed
	case JobProcessing:
		return to == JobProcessed || to == JobFailed
	default:
		return false
	}
}

// UploadJob records the ingestion status of one uploaded file, keyed
// by filename. Reason is set only for failed jobs.
type UploadJob struct {
	Filename  string    `json:"filename"`
	Status    JobStatus `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
