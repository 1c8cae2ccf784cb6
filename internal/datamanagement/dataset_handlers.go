package datamanagement

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transcript-eval-platform/backend/internal/datastore"
	"transcript-eval-platform/backend/internal/objectstore"
	"transcript-eval-platform/backend/internal/spreadsheet"
)

// TextFieldsRequest defines the expected payload for an ad-hoc text
// submission: the five uniform record fields, all optional.
type TextFieldsRequest struct {
	ClientCode     string `json:"client_code"`
	Transcript     string `json:"transcript"`
	LeadData       string `json:"lead_data"`
	LatestMessage  string `json:"latest_message"`
	ExpectedOutput string `json:"expected_output"`
}

// UploadWorkbookHandler handles a multipart workbook upload: parses every
// sheet into uniform records, appends them to the universal dataset, mirrors
// the raw file to object storage, and stores the batch as an excel_upload
// document.
func UploadWorkbookHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'file' upload: " + err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file: " + err.Error()})
		return
	}

	parsed, err := spreadsheet.ReadWorkbook(bytes.NewReader(raw))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse workbook: " + err.Error()})
		return
	}
	if len(parsed.Records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workbook contains no data rows"})
		return
	}

	records, err := AppendToUniversalDataset(c.Request.Context(), parsed.Records, "excel_upload")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update universal dataset: " + err.Error()})
		return
	}

	// Keep the original file around for audit; a mirror failure is logged
	// but does not fail the upload, the parsed records are already stored.
	objectName := ""
	if mc, mcErr := objectstore.GetGlobalMinioClient(); mcErr == nil {
		objectName, mcErr = mc.UploadWorkbook(c.Request.Context(), fileHeader.Filename, raw)
		if mcErr != nil {
			logrus.WithField("component", "datamanagement").Warnf("Failed to mirror uploaded workbook: %v", mcErr)
			objectName = ""
		}
	}

	documentID, err := datastore.CreateDatasetDocument(c.Request.Context(), datastore.DocTypeExcelUpload, records, objectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload document: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id": documentID,
		"sheet_names": parsed.SheetNames,
		"total_rows":  len(records),
		"data":        records,
	})
}

// SubmitTextFieldsHandler handles a single ad-hoc record submitted as JSON
// text fields. The record joins the universal dataset and is stored as its
// own text_field_entry document.
func SubmitTextFieldsHandler(c *gin.Context) {
	var req TextFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	record := datastore.EvalRecord{
		ClientCode:     req.ClientCode,
		Transcript:     req.Transcript,
		LeadData:       req.LeadData,
		LatestMessage:  req.LatestMessage,
		ExpectedOutput: req.ExpectedOutput,
	}

	records, err := AppendToUniversalDataset(c.Request.Context(), []datastore.EvalRecord{record}, "text_fields")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update universal dataset: " + err.Error()})
		return
	}

	documentID, err := datastore.CreateDatasetDocument(c.Request.Context(), datastore.DocTypeTextFieldEntry, records, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store text entry document: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id":   documentID,
		"received_data": records[0],
	})
}

// ListDocumentsHandler lists all input documents grouped by type: workbook
// uploads, text entries, and the universal dataset singleton.
func ListDocumentsHandler(c *gin.Context) {
	ctx := c.Request.Context()

	uploads, err := datastore.ListDatasetDocuments(ctx, datastore.DocTypeExcelUpload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list upload documents: " + err.Error()})
		return
	}
	uploadSummaries := make([]datastore.DocumentSummary, 0, len(uploads))
	for _, doc := range uploads {
		uploadSummaries = append(uploadSummaries, datastore.DocumentSummary{
			DocumentID:       doc.DocumentID,
			DocumentType:     doc.DocumentType,
			CreatedUpdatedAt: doc.CreatedAt,
			RecordCount:      doc.RecordCount,
			Description:      fmt.Sprintf("Excel upload with %d records", doc.RecordCount),
		})
	}

	entries, err := datastore.ListDatasetDocuments(ctx, datastore.DocTypeTextFieldEntry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list text entry documents: " + err.Error()})
		return
	}
	entrySummaries := make([]datastore.DocumentSummary, 0, len(entries))
	for _, doc := range entries {
		entrySummaries = append(entrySummaries, datastore.DocumentSummary{
			DocumentID:       doc.DocumentID,
			DocumentType:     doc.DocumentType,
			CreatedUpdatedAt: doc.CreatedAt,
			RecordCount:      doc.RecordCount,
			Description:      "Text field entry",
		})
	}

	total := len(uploadSummaries) + len(entrySummaries)
	var universalSummary *datastore.DocumentSummary
	if universal, uErr := datastore.GetUniversalDataset(ctx); uErr == nil {
		universalSummary = &datastore.DocumentSummary{
			DocumentID:       universal.DocumentID,
			DocumentType:     universal.DocumentType,
			CreatedUpdatedAt: universal.UpdatedAt,
			RecordCount:      universal.RecordCount,
			Description:      fmt.Sprintf("Universal dataset containing all %d records", universal.RecordCount),
		}
		total++
	} else if !errors.Is(uErr, datastore.ErrDocumentNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load universal dataset: " + uErr.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_documents":    total,
		"excel_uploads":      uploadSummaries,
		"text_field_entries": entrySummaries,
		"universal_dataset":  universalSummary,
	})
}

// GetDocumentHandler retrieves a full input document by its ID, including
// its records.
func GetDocumentHandler(c *gin.Context) {
	documentID := c.Param("id")

	doc, err := datastore.GetDatasetDocument(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, datastore.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, doc)
}

// GetUniversalDatasetHandler retrieves the accumulated universal dataset.
func GetUniversalDatasetHandler(c *gin.Context) {
	doc, err := datastore.GetUniversalDataset(c.Request.Context())
	if err != nil {
		if errors.Is(err, datastore.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No records ingested yet"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load universal dataset: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, doc)
}
