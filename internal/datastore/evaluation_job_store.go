package datastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateEvaluationJob stores a new job in PENDING state and returns its ID.
func CreateEvaluationJob(ctx context.Context, job *EvaluationJob) (string, error) {
	if err := ensureInitialized(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	job.JobID = newDocumentID("job")
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = JobStatusPending
	}

	if _, err := jobsCollection.InsertOne(ctx, job); err != nil {
		return "", fmt.Errorf("failed to create evaluation job: %w", err)
	}
	return job.JobID, nil
}

// GetEvaluationJob retrieves a job by ID.
func GetEvaluationJob(ctx context.Context, jobID string) (*EvaluationJob, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}

	job := &EvaluationJob{}
	err := jobsCollection.FindOne(ctx, bson.M{"job_id": jobID}).Decode(job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("evaluation job %q: %w", jobID, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to get evaluation job %q: %w", jobID, err)
	}
	return job, nil
}

// ListEvaluationJobs lists jobs, newest first, optionally filtered by type.
func ListEvaluationJobs(ctx context.Context, jobType string) ([]EvaluationJob, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}

	filter := bson.M{}
	if jobType != "" {
		filter["job_type"] = jobType
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := jobsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation jobs: %w", err)
	}
	defer cursor.Close(ctx)

	jobs := []EvaluationJob{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation jobs: %w", err)
	}
	return jobs, nil
}

// UpdateEvaluationJob applies the given field updates to a job and bumps
// updated_at. Fields map keys are bson field names.
func UpdateEvaluationJob(ctx context.Context, jobID string, fields bson.M) error {
	if err := ensureInitialized(); err != nil {
		return err
	}

	fields["updated_at"] = time.Now().UTC()
	result, err := jobsCollection.UpdateOne(ctx, bson.M{"job_id": jobID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update evaluation job %q: %w", jobID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("evaluation job %q: %w", jobID, ErrDocumentNotFound)
	}
	return nil
}
