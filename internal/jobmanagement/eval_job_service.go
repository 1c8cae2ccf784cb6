package jobmanagement

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/semaphore"

	"transcript-eval-platform/backend/internal/coreengine/evaluationengine"
	"transcript-eval-platform/backend/internal/datastore"
	"transcript-eval-platform/backend/internal/objectstore"
	"transcript-eval-platform/backend/internal/spreadsheet"
)

// JobService creates and runs batch evaluation jobs over stored dataset
// documents. Runs are synchronous: the caller gets the finished job back.
// Blocking workbook/object-store work is gated by a bounded semaphore so a
// burst of jobs cannot monopolize file I/O.
type JobService struct {
	Processor *evaluationengine.BatchProcessor

	ioSem *semaphore.Weighted
	log   *logrus.Entry
}

// NewJobService creates a job service. maxWorkers bounds concurrent blocking
// I/O; values below 1 fall back to 1.
func NewJobService(processor *evaluationengine.BatchProcessor, maxWorkers int) *JobService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &JobService{
		Processor: processor,
		ioSem:     semaphore.NewWeighted(int64(maxWorkers)),
		log:       logrus.WithField("component", "job_service"),
	}
}

// CreateAndRunEvalJob creates a new evaluation job for the given dataset
// document and runs it synchronously: evaluate every record, write the
// result workbook to object storage, and store the output document.
//
// The returned job reflects the final state. A non-nil error means the run
// failed; the job object still carries the FAILED status and error detail.
func (s *JobService) CreateAndRunEvalJob(ctx context.Context, jobName, sourceDocumentID string) (*datastore.EvaluationJob, error) {
	doc, err := datastore.GetDatasetDocument(ctx, sourceDocumentID)
	if err != nil {
		return nil, err
	}
	if len(doc.Records) == 0 {
		return nil, fmt.Errorf("document %q contains no records to evaluate", sourceDocumentID)
	}

	job := &datastore.EvaluationJob{
		JobName:          jobName,
		JobType:          datastore.JobTypeTranscriptEval,
		Status:           datastore.JobStatusPending,
		SourceDocumentID: sourceDocumentID,
		RecordCount:      len(doc.Records),
	}
	jobID, err := datastore.CreateEvaluationJob(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation job in datastore: %w", err)
	}
	s.log.Infof("Job %s created with PENDING status (%d records from %s)", jobID, len(doc.Records), sourceDocumentID)

	startedAt := time.Now().UTC()
	if err := datastore.UpdateEvaluationJob(ctx, jobID, bson.M{
		"status":     datastore.JobStatusRunning,
		"started_at": startedAt,
	}); err != nil {
		return s.failJob(ctx, job, fmt.Errorf("failed to update job status to RUNNING: %w", err))
	}
	job.Status = datastore.JobStatusRunning
	job.StartedAt = &startedAt

	outputDocumentID, err := s.runEvaluation(ctx, doc)
	if err != nil {
		return s.failJob(ctx, job, err)
	}

	completedAt := time.Now().UTC()
	job.Status = datastore.JobStatusCompleted
	job.OutputDocumentID = outputDocumentID
	job.CompletedAt = &completedAt
	if err := datastore.UpdateEvaluationJob(ctx, jobID, bson.M{
		"status":             datastore.JobStatusCompleted,
		"output_document_id": outputDocumentID,
		"completed_at":       completedAt,
	}); err != nil {
		// The run finished but the stored status may be stuck at RUNNING.
		s.log.Errorf("Failed to mark job %s COMPLETED: %v", jobID, err)
	}
	s.log.Infof("Job %s completed, output document %s", jobID, outputDocumentID)
	return job, nil
}

// runEvaluation evaluates the document's records and persists the results:
// a generated result workbook in object storage plus an output document in
// the datastore. Returns the output document ID.
func (s *JobService) runEvaluation(ctx context.Context, doc *datastore.DatasetDocument) (string, error) {
	processed := s.Processor.Process(ctx, doc.Records)
	summary := s.Processor.Summarize(processed)

	if err := s.ioSem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquiring I/O slot: %w", err)
	}
	defer s.ioSem.Release(1)

	workbook, err := spreadsheet.WriteResults(processed)
	if err != nil {
		return "", fmt.Errorf("writing result workbook: %w", err)
	}

	// The workbook mirror is best effort, matching the upload path: the
	// processed records live in the output document either way.
	outputObjectName := ""
	if mc, mcErr := objectstore.GetGlobalMinioClient(); mcErr == nil {
		outputObjectName, mcErr = mc.UploadWorkbook(ctx, fmt.Sprintf("%s_evaluated.xlsx", doc.DocumentID), workbook)
		if mcErr != nil {
			s.log.Warnf("Failed to store result workbook for %s: %v", doc.DocumentID, mcErr)
			outputObjectName = ""
		}
	}

	outputDocumentID, err := datastore.CreateOutputDocument(ctx, doc.DocumentID, outputObjectName, processed, summary)
	if err != nil {
		return "", fmt.Errorf("storing output document: %w", err)
	}
	return outputDocumentID, nil
}

// failJob marks the job FAILED with the error detail and returns the job
// alongside the original error.
func (s *JobService) failJob(ctx context.Context, job *datastore.EvaluationJob, runErr error) (*datastore.EvaluationJob, error) {
	s.log.Errorf("Job %s failed: %v", job.JobID, runErr)

	completedAt := time.Now().UTC()
	job.Status = datastore.JobStatusFailed
	job.Error = runErr.Error()
	job.CompletedAt = &completedAt

	if err := datastore.UpdateEvaluationJob(ctx, job.JobID, bson.M{
		"status":       datastore.JobStatusFailed,
		"error":        runErr.Error(),
		"completed_at": completedAt,
	}); err != nil {
		s.log.Errorf("Failed to mark job %s FAILED: %v", job.JobID, err)
	}
	return job, runErr
}
