package datastore

import "time"

// Document types stored in the input collection.
const (
	DocTypeExcelUpload      = "excel_upload"
	DocTypeTextFieldEntry   = "text_field_entry"
	DocTypeUniversalDataset = "universal_dataset"

	// UniversalDatasetID is the fixed ID of the singleton document holding
	// the accumulated dataset across all ingestion paths.
	UniversalDatasetID = "universal_dataset_main"
)

// DatasetDocument is an input document: a batch of records from one workbook
// upload, a single text-field submission, or the accumulated universal
// dataset.
type DatasetDocument struct {
	DocumentID   string       `bson:"document_id" json:"document_id"`
	DocumentType string       `bson:"document_type" json:"document_type"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updated_at"`
	RecordCount  int          `bson:"record_count" json:"record_count"`
	Records      []EvalRecord `bson:"records" json:"records"`

	// SourceObjectName is the object-store key of the raw uploaded workbook,
	// empty for text submissions and the universal dataset.
	SourceObjectName string `bson:"source_object_name,omitempty" json:"source_object_name,omitempty"`
}

// DocumentSummary is the listing view of a dataset document.
type DocumentSummary struct {
	DocumentID       string    `json:"document_id"`
	DocumentType     string    `json:"document_type"`
	CreatedUpdatedAt time.Time `json:"created_updated_at"`
	RecordCount      int       `json:"record_count"`
	Description      string    `json:"description"`
}

// BatchSummary aggregates one batch run for the output document.
type BatchSummary struct {
	RowsEvaluated      int      `bson:"rows_evaluated" json:"rows_evaluated"`
	RowsErrored        int      `bson:"rows_errored" json:"rows_errored"`
	PassCount          int      `bson:"pass_count" json:"pass_count"`
	FailCount          int      `bson:"fail_count" json:"fail_count"`
	MeanOverallScore   *float64 `bson:"mean_overall_score" json:"mean_overall_score"`
	MeanTextSimilarity *float64 `bson:"mean_text_similarity" json:"mean_text_similarity"`
}

// OutputDocument holds one processed batch: the augmented records, where the
// generated result workbook lives, and summary statistics.
type OutputDocument struct {
	OutputDocumentID string            `bson:"output_document_id" json:"output_document_id"`
	SourceDocumentID string            `bson:"source_document_id" json:"source_document_id"`
	ProcessedAt      time.Time         `bson:"processed_at" json:"processed_at"`
	RecordCount      int               `bson:"record_count" json:"record_count"`
	OutputObjectName string            `bson:"output_object_name" json:"output_object_name"`
	ProcessedRecords []ProcessedRecord `bson:"processed_records" json:"processed_records"`
	Summary          BatchSummary      `bson:"summary" json:"summary"`
}

// OutputSummary is the listing view of an output document.
type OutputSummary struct {
	OutputDocumentID string       `json:"output_document_id"`
	SourceDocumentID string       `json:"source_document_id"`
	ProcessedAt      time.Time    `json:"processed_at"`
	RecordCount      int          `json:"record_count"`
	OutputObjectName string       `json:"output_object_name"`
	Summary          BatchSummary `json:"summary"`
}
