package datastore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDocumentNotFound is returned when a lookup by ID matches nothing.
var ErrDocumentNotFound = errors.New("document not found")

// newDocumentID builds an ID like "excel_upload_1a2b3c4d5e6f" from the
// document type and a fresh UUID.
func newDocumentID(docType string) string {
	return fmt.Sprintf("%s_%s", docType, strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

// CreateDatasetDocument stores a new input document (an excel upload batch or
// a single text-field entry) and returns its generated document ID.
func CreateDatasetDocument(ctx context.Context, docType string, records []EvalRecord, sourceObjectName string) (string, error) {
	if err := ensureInitialized(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	doc := DatasetDocument{
		DocumentID:       newDocumentID(docType),
		DocumentType:     docType,
		CreatedAt:        now,
		UpdatedAt:        now,
		RecordCount:      len(records),
		Records:          records,
		SourceObjectName: sourceObjectName,
	}

	if _, err := inputCollection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert %s document: %w", docType, err)
	}
	return doc.DocumentID, nil
}

// GetDatasetDocument retrieves an input document by its document ID.
func GetDatasetDocument(ctx context.Context, documentID string) (*DatasetDocument, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}

	doc := &DatasetDocument{}
	err := inputCollection.FindOne(ctx, bson.M{"document_id": documentID}).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("document %q: %w", documentID, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to get document %q: %w", documentID, err)
	}
	return doc, nil
}

// ListDatasetDocuments lists input documents of the given type, newest first.
func ListDatasetDocuments(ctx context.Context, docType string) ([]DatasetDocument, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := inputCollection.Find(ctx, bson.M{"document_type": docType}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", docType, err)
	}
	defer cursor.Close(ctx)

	docs := []DatasetDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s documents: %w", docType, err)
	}
	return docs, nil
}

// UpsertUniversalDataset replaces the singleton universal-dataset document
// with the given accumulated records. Called after every ingestion so the
// stored dataset mirrors everything received so far.
func UpsertUniversalDataset(ctx context.Context, records []EvalRecord) error {
	if err := ensureInitialized(); err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"document_id":   UniversalDatasetID,
		"document_type": DocTypeUniversalDataset,
		"updated_at":    now,
		"record_count":  len(records),
		"records":       records,
	}, "$setOnInsert": bson.M{
		"created_at": now,
	}}

	_, err := inputCollection.UpdateOne(
		ctx,
		bson.M{"document_type": DocTypeUniversalDataset},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert universal dataset: %w", err)
	}
	return nil
}

// GetUniversalDataset retrieves the singleton universal-dataset document.
// Returns ErrDocumentNotFound when nothing has been ingested yet.
func GetUniversalDataset(ctx context.Context) (*DatasetDocument, error) {
	return GetDatasetDocument(ctx, UniversalDatasetID)
}
