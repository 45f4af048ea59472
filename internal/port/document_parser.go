package port

import (
	"context"
	"encoding/json"
)

// ParseInput carries one extraction candidate: either normalized image bytes
// with their content type, or a pre-extracted text segment. Exactly one of
// FileBytes/Text is set.
type ParseInput struct {
	FileBytes   []byte
	ContentType string
	Text        string
}

// IsText reports whether the input is a text segment rather than an image.
func (in ParseInput) IsText() bool {
	return len(in.FileBytes) == 0
}

// ParseOutput contains the structured result from an LLM extraction call.
// FieldProvenance and SecondaryModel are only populated by the merge parser.
type ParseOutput struct {
	Data             json.RawMessage
	ConfidenceScores json.RawMessage
	ModelUsed        string
	PromptUsed       string
	FieldProvenance  map[string]string
	SecondaryModel   string
}

// DocumentParser abstracts LLM-based passport extraction. Implementations
// return explicit errors; the well-formed empty result object is constructed
// only at the extraction service boundary.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
