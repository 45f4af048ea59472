package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net"

	"veridoc/internal/domain"
	"veridoc/internal/parser"
	"veridoc/internal/port"
)

// Diagnostic notes attached to empty results, one per failure class. These are
// informational only; no retry happens at this layer.
const (
	NoteRateLimited   = "service busy, retry later"
	NoteAuthFailure   = "authentication error"
	NoteTimeout       = "processing timeout"
	NoteBadResponse   = "invalid response format"
	NoteNoConfidences = "no confidence scores returned; using neutral default"
)

// Service is the extraction client. It submits one normalized image or text
// segment to the configured parser and always returns a well-formed
// ExtractionResult: any extraction-class failure is translated into the empty
// result object with a diagnostic note. Only configuration errors (missing
// credentials) escape, and those are caught at construction time by the
// parser factory.
type Service struct {
	parser  port.DocumentParser
	neutral float64
}

// NewService creates an extraction Service. neutralConfidence is the
// overall-confidence fallback used when a response has no per-field scores.
func NewService(p port.DocumentParser, neutralConfidence float64) *Service {
	if neutralConfidence <= 0 || neutralConfidence > 1 {
		neutralConfidence = 0.5
	}
	return &Service{parser: p, neutral: neutralConfidence}
}

// ExtractImage extracts passport fields from a normalized JPEG image.
func (s *Service) ExtractImage(ctx context.Context, img *domain.NormalizedImage) *domain.ExtractionResult {
	return s.extract(ctx, port.ParseInput{
		FileBytes:   img.Bytes,
		ContentType: "image/jpeg",
	})
}

// ExtractText extracts passport fields from a pre-extracted text segment.
func (s *Service) ExtractText(ctx context.Context, text string) *domain.ExtractionResult {
	return s.extract(ctx, port.ParseInput{Text: text})
}

func (s *Service) extract(ctx context.Context, input port.ParseInput) *domain.ExtractionResult {
	out, err := s.parser.Parse(ctx, input)
	if err != nil {
		note := classify(err)
		log.Printf("extract.Service: extraction failed (%s): %v", note, err)
		return domain.EmptyResult(note)
	}

	var data domain.PassportData
	if err := json.Unmarshal(out.Data, &data); err != nil {
		log.Printf("extract.Service: unmarshaling data: %v", err)
		return domain.EmptyResult(NoteBadResponse)
	}

	result := &domain.ExtractionResult{
		Data:      data,
		ModelUsed: out.ModelUsed,
	}

	scores, noteErr := decodeScores(out.ConfidenceScores)
	if noteErr != "" {
		result.ExtractionNotes = append(result.ExtractionNotes, noteErr)
	}
	result.ConfidenceScores = scores
	result.OverallConfidence = s.overallConfidence(scores)

	return result
}

// overallConfidence is the arithmetic mean of the per-field scores, rounded
// to 2 decimals, or the neutral default when no scores are present.
func (s *Service) overallConfidence(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return s.neutral
	}
	var sum float64
	for _, v := range scores {
		sum += v
	}
	return round2(sum / float64(len(scores)))
}

// decodeScores tolerates missing, null, or malformed confidence maps. The
// validator catches out-of-range values later; this layer only needs a map.
func decodeScores(raw json.RawMessage) (map[string]float64, string) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]float64{}, NoteNoConfidences
	}
	var scores map[string]float64
	if err := json.Unmarshal(raw, &scores); err != nil {
		return map[string]float64{}, fmt.Sprintf("confidence scores unreadable: %v", err)
	}
	if len(scores) == 0 {
		return map[string]float64{}, NoteNoConfidences
	}
	return scores, ""
}

// classify maps a parser error to an operator-facing note.
func classify(err error) string {
	var rlErr *parser.RateLimitError
	if errors.As(err, &rlErr) {
		return NoteRateLimited
	}
	var authErr *parser.AuthError
	if errors.As(err, &authErr) {
		return NoteAuthFailure
	}
	var fmtErr *parser.ResponseFormatError
	if errors.As(err, &fmtErr) {
		return NoteBadResponse
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NoteTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NoteTimeout
	}
	return fmt.Sprintf("extraction failed: %v", err)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
