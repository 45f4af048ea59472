package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"veridoc/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrMissingAPIKey):
		return http.StatusServiceUnavailable, "PARSER_NOT_CONFIGURED", "extraction provider credentials are not configured"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image dimensions exceed the allowed ceiling"
	case errors.Is(err, domain.ErrEncodedImageTooLarge):
		return http.StatusRequestEntityTooLarge, "ENCODED_IMAGE_TOO_LARGE", "image exceeds the size ceiling even after compression"
	case errors.Is(err, domain.ErrImageDecode):
		return http.StatusBadRequest, "IMAGE_DECODE_FAILED", "image bytes could not be decoded"
	case errors.Is(err, domain.ErrDocumentParse):
		return http.StatusBadRequest, "DOCUMENT_PARSE_FAILED", "document is not a valid PDF"
	case errors.Is(err, domain.ErrTooManyItems):
		return http.StatusBadRequest, "TOO_MANY_ITEMS", "batch exceeds the maximum item count"
	case errors.Is(err, domain.ErrEmptyBatch):
		return http.StatusBadRequest, "EMPTY_BATCH", "batch contains no items"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
