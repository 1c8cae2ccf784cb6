package jobmanagement

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"transcript-eval-platform/backend/internal/datastore"
	"transcript-eval-platform/backend/internal/objectstore"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListOutputsHandler lists processed output documents, newest first, without
// their record payloads.
func ListOutputsHandler(c *gin.Context) {
	outputs, err := datastore.ListOutputDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list outputs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_outputs": len(outputs),
		"outputs":       outputs,
	})
}

// GetOutputHandler retrieves a full output document including its processed
// records.
func GetOutputHandler(c *gin.Context) {
	outputID := c.Param("id")

	output, err := datastore.GetOutputDocument(c.Request.Context(), outputID)
	if err != nil {
		if errors.Is(err, datastore.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve output: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, output)
}

// DownloadOutputHandler streams the generated result workbook for an output
// document from object storage.
func DownloadOutputHandler(c *gin.Context) {
	outputID := c.Param("id")

	output, err := datastore.GetOutputDocument(c.Request.Context(), outputID)
	if err != nil {
		if errors.Is(err, datastore.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve output: " + err.Error()})
		}
		return
	}
	if output.OutputObjectName == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Output '%s' has no stored workbook", outputID)})
		return
	}

	mc, err := objectstore.GetGlobalMinioClient()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	reader, size, err := mc.GetWorkbookReader(c.Request.Context(), output.OutputObjectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workbook: " + err.Error()})
		return
	}
	defer reader.Close()

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", outputID+"_evaluated.xlsx"),
	}
	c.DataFromReader(http.StatusOK, size, workbookContentType, reader, headers)
}
