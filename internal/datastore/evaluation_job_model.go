package datastore

import "time"

// Job lifecycle states.
const (
	JobStatusPending   = "PENDING"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"

	JobTypeTranscriptEval = "TRANSCRIPT_EVAL"
)

// EvaluationJob tracks one batch evaluation run over a stored dataset
// document.
type EvaluationJob struct {
	JobID            string     `bson:"job_id" json:"job_id"`
	JobName          string     `bson:"job_name,omitempty" json:"job_name,omitempty"`
	JobType          string     `bson:"job_type" json:"job_type"`
	Status           string     `bson:"status" json:"status"`
	SourceDocumentID string     `bson:"source_document_id" json:"source_document_id"`
	OutputDocumentID string     `bson:"output_document_id,omitempty" json:"output_document_id,omitempty"`
	RecordCount      int        `bson:"record_count" json:"record_count"`
	Error            string     `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
	StartedAt        *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt      *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
