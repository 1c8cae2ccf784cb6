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

// CreateOutputDocument stores a processed batch and returns the generated
// output document ID.
func CreateOutputDocument(ctx context.Context, sourceDocumentID, outputObjectName string, records []ProcessedRecord, summary BatchSummary) (string, error) {
	if err := ensureInitialized(); err != nil {
		return "", err
	}

	doc := OutputDocument{
		OutputDocumentID: newDocumentID("output"),
		SourceDocumentID: sourceDocumentID,
		ProcessedAt:      time.Now().UTC(),
		RecordCount:      len(records),
		OutputObjectName: outputObjectName,
		ProcessedRecords: records,
		Summary:          summary,
	}

	if _, err := outputCollection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert output document: %w", err)
	}
	return doc.OutputDocumentID, nil
}

// GetOutputDocument retrieves a processed batch by its output document ID.
func GetOutputDocument(ctx context.Context, outputDocumentID string) (*OutputDocument, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}

	doc := &OutputDocument{}
	err := outputCollection.FindOne(ctx, bson.M{"output_document_id": outputDocumentID}).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("output document %q: %w", outputDocumentID, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to get output document %q: %w", outputDocumentID, err)
	}
	return doc, nil
}

// ListOutputDocuments lists processed batches, newest first. Records are
// omitted from the listing view to keep responses small.
func ListOutputDocuments(ctx context.Context) ([]OutputSummary, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "processed_at", Value: -1}}).
		SetProjection(bson.M{"processed_records": 0})
	cursor, err := outputCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list output documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []OutputDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode output documents: %w", err)
	}

	summaries := make([]OutputSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, OutputSummary{
			OutputDocumentID: doc.OutputDocumentID,
			SourceDocumentID: doc.SourceDocumentID,
			ProcessedAt:      doc.ProcessedAt,
			RecordCount:      doc.RecordCount,
			OutputObjectName: doc.OutputObjectName,
			Summary:          doc.Summary,
		})
	}
	return summaries, nil
}
