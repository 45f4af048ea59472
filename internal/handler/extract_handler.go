package handler

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"veridoc/internal/domain"
	"veridoc/internal/export"
	"veridoc/internal/service"
)

// ExtractHandler handles passport extraction endpoints.
type ExtractHandler struct {
	pipeline service.PipelineService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(pipeline service.PipelineService) *ExtractHandler {
	return &ExtractHandler{pipeline: pipeline}
}

// SingleResponse is the response body for a single-image extraction.
type SingleResponse struct {
	Result interface{} `json:"result"`
	Report interface{} `json:"report"`
}

// Extract handles POST /api/v1/extract. The uploaded file may be a passport
// image (one result) or a PDF (one result per page, returned as a batch
// summary).
func (h *ExtractHandler) Extract(c *gin.Context) {
	data, ok := readFormFile(c, "file")
	if !ok {
		return
	}

	if isPDF(data) {
		summary, err := h.pipeline.ExtractDocument(c.Request.Context(), data)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, summary)
		return
	}

	result, report, err := h.pipeline.ExtractImage(c.Request.Context(), data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, SingleResponse{Result: result, Report: report})
}

// ExtractBatch handles POST /api/v1/extract/batch. Accepts multiple image
// files under the "files" field. The format query parameter selects the
// response encoding: json (default), csv, or xlsx.
func (h *ExtractHandler) ExtractBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "could not parse multipart form")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "files field is required")
		return
	}

	uploads := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		data, err := readFileHeader(fh)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", fmt.Sprintf("reading %s: %v", fh.Filename, err))
			return
		}
		uploads = append(uploads, service.Upload{FileName: fh.Filename, Data: data})
	}

	summary, err := h.pipeline.ExtractBatch(c.Request.Context(), uploads)
	if err != nil {
		HandleError(c, err)
		return
	}

	switch c.Query("format") {
	case "csv":
		h.respondCSV(c, summary)
	case "xlsx":
		h.respondXLSX(c, summary)
	default:
		RespondOK(c, summary)
	}
}

func (h *ExtractHandler) respondCSV(c *gin.Context, s *domain.BatchSummary) {
	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteSummary(s); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(fmt.Sprintf("batch_%s", s.BatchID), "csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExtractHandler) respondXLSX(c *gin.Context, s *domain.BatchSummary) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, s); err != nil {
		log.Printf("ExtractHandler.respondXLSX: %v", err)
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(fmt.Sprintf("batch_%s", s.BatchID), "xlsx")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// readFormFile reads a single uploaded file into memory, writing the error
// response itself on failure.
func readFormFile(c *gin.Context, field string) ([]byte, bool) {
	file, _, err := c.Request.FormFile(field)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", fmt.Sprintf("%s field is required", field))
		return nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return nil, false
	}
	return data, true
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// isPDF sniffs the PDF magic bytes. Deeper validation happens in the pipeline.
func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
