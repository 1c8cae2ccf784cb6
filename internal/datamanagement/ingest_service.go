package datamanagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transcript-eval-platform/backend/internal/datastore"
)

// AppendToUniversalDataset stamps the given records with sequential IDs,
// an ingestion timestamp and their source, appends them to the accumulated
// universal dataset and re-syncs the stored singleton document. Returns the
// stamped records so callers can persist them in their own batch document.
//
// IDs continue from the current universal dataset length, so they are unique
// across ingestion paths as long as ingestion is not concurrent (the HTTP
// layer serializes writes per request; this matches the accumulate-and-mirror
// model rather than a transactional one).
func AppendToUniversalDataset(ctx context.Context, records []datastore.EvalRecord, source string) ([]datastore.EvalRecord, error) {
	existing := []datastore.EvalRecord{}
	universal, err := datastore.GetUniversalDataset(ctx)
	switch {
	case err == nil:
		existing = universal.Records
	case errors.Is(err, datastore.ErrDocumentNotFound):
		// First ingestion ever; start from an empty dataset.
	default:
		return nil, fmt.Errorf("loading universal dataset: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	stamped := make([]datastore.EvalRecord, 0, len(records))
	for i, rec := range records {
		rec.ID = len(existing) + i + 1
		rec.Timestamp = now
		rec.Source = source
		stamped = append(stamped, rec)
	}

	if err := datastore.UpsertUniversalDataset(ctx, append(existing, stamped...)); err != nil {
		return nil, err
	}
	return stamped, nil
}
