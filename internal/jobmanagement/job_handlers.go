package jobmanagement

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transcript-eval-platform/backend/internal/datamanagement"
	"transcript-eval-platform/backend/internal/datastore"
	"transcript-eval-platform/backend/internal/objectstore"
	"transcript-eval-platform/backend/internal/spreadsheet"
)

var jobService *JobService

// InitJobService installs the service instance the handlers dispatch to.
// Called once at application startup.
func InitJobService(s *JobService) {
	jobService = s
}

// CreateEvalJobRequest defines the expected payload for creating an
// evaluation job over a stored dataset document.
type CreateEvalJobRequest struct {
	JobName    string `json:"job_name"` // Optional, can be empty
	DocumentID string `json:"document_id" binding:"required"`
}

// CreateEvalJobHandler handles requests to create and run a new evaluation
// job. The run is synchronous; the response carries the finished job.
func CreateEvalJobHandler(c *gin.Context) {
	var req CreateEvalJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if jobService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Job service not initialized"})
		return
	}

	job, err := jobService.CreateAndRunEvalJob(c.Request.Context(), req.JobName, req.DocumentID)
	if err != nil {
		switch {
		case errors.Is(err, datastore.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case job != nil && job.Status == datastore.JobStatusFailed:
			// The job exists but its run failed; report both.
			c.JSON(http.StatusAccepted, gin.H{
				"message": "Job initiated but failed during execution.",
				"job":     job,
				"detail":  err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create or run evaluation job: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJobHandler handles requests to retrieve a specific evaluation job.
func GetJobHandler(c *gin.Context) {
	jobID := c.Param("id")

	job, err := datastore.GetEvaluationJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, datastore.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list evaluation jobs, optionally
// filtered by job_type.
func ListJobsHandler(c *gin.Context) {
	jobType := c.Query("job_type")

	jobs, err := datastore.ListEvaluationJobs(c.Request.Context(), jobType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// UploadAndProcessHandler ingests a workbook and immediately runs an
// evaluation job over it: one request from raw file to finished results.
func UploadAndProcessHandler(c *gin.Context) {
	if jobService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Job service not initialized"})
		return
	}

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

	records, err := datamanagement.AppendToUniversalDataset(c.Request.Context(), parsed.Records, "excel_upload")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update universal dataset: " + err.Error()})
		return
	}

	objectName := ""
	if mc, mcErr := objectstore.GetGlobalMinioClient(); mcErr == nil {
		objectName, mcErr = mc.UploadWorkbook(c.Request.Context(), fileHeader.Filename, raw)
		if mcErr != nil {
			logrus.WithField("component", "job_handlers").Warnf("Failed to mirror uploaded workbook: %v", mcErr)
			objectName = ""
		}
	}

	documentID, err := datastore.CreateDatasetDocument(c.Request.Context(), datastore.DocTypeExcelUpload, records, objectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload document: " + err.Error()})
		return
	}

	job, err := jobService.CreateAndRunEvalJob(c.Request.Context(), fileHeader.Filename, documentID)
	if err != nil {
		if job != nil && job.Status == datastore.JobStatusFailed {
			c.JSON(http.StatusAccepted, gin.H{
				"message":     "Upload stored but evaluation failed.",
				"document_id": documentID,
				"job":         job,
				"detail":      err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run evaluation job: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"document_id": documentID,
		"job":         job,
	})
}
