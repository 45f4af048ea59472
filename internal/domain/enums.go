package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps sniffed MIME content types to FileType. Extension
// and declared Content-Type are advisory; magic bytes decide.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// PageStatus tracks a PDF page through the processing state machine:
// Pending → TextExtracted → (Rasterized)? → ExtractionDispatched →
// Succeeded | Failed. A page failure never aborts the document.
type PageStatus string

const (
	PageStatusPending              PageStatus = "pending"
	PageStatusTextExtracted        PageStatus = "text_extracted"
	PageStatusRasterized           PageStatus = "rasterized"
	PageStatusExtractionDispatched PageStatus = "extraction_dispatched"
	PageStatusSucceeded            PageStatus = "succeeded"
	PageStatusFailed               PageStatus = "failed"
)
