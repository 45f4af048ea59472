package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// FlexString is a string that also accepts the legacy wrapped form
// {"value": "..."} when unmarshaling; JSON null is treated as the empty
// string. It always marshals as a bare string.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		var wrapped struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return err
		}
		*f = FlexString(wrapped.Value)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*f = FlexString(s)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// MRZ holds the two machine readable zone lines from a passport data page.
// Lines are 44 characters for TD3 documents; a 36-character short form is
// also accepted by the validator.
type MRZ struct {
	Line1 FlexString `json:"line1"`
	Line2 FlexString `json:"line2"`
}

// IsEmpty reports whether both MRZ lines are absent.
func (m MRZ) IsEmpty() bool {
	return m.Line1 == "" && m.Line2 == ""
}

// PassportData is the canonical set of identity fields extracted from a
// passport. Dates are ISO 8601 (YYYY-MM-DD), nationality is an ISO 3166-1
// alpha-3 code.
type PassportData struct {
	FullName         FlexString `json:"full_name"`
	DateOfBirth      FlexString `json:"date_of_birth"`
	PassportNumber   FlexString `json:"passport_number"`
	Nationality      FlexString `json:"nationality"`
	DateOfIssue      FlexString `json:"date_of_issue"`
	DateOfExpiry     FlexString `json:"date_of_expiry"`
	PlaceOfBirth     FlexString `json:"place_of_birth"`
	IssuingAuthority FlexString `json:"issuing_authority"`
	Gender           FlexString `json:"gender"`
	MRZ              MRZ        `json:"mrz"`
}

// ExtractionResult is the canonical output unit of the extraction client.
// It is always well-formed: on total failure every identity field is empty,
// every confidence score is 0, and ExtractionNotes carries the reason.
type ExtractionResult struct {
	Data              PassportData       `json:"data"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	OverallConfidence float64            `json:"overall_confidence"`
	ExtractionNotes   []string           `json:"extraction_notes"`
	ModelUsed         string             `json:"model_used,omitempty"`
}

// ConfidenceFieldNames lists the identity fields that carry a confidence score.
var ConfidenceFieldNames = []string{
	"full_name",
	"date_of_birth",
	"passport_number",
	"nationality",
	"date_of_issue",
	"date_of_expiry",
	"place_of_birth",
	"issuing_authority",
	"gender",
}

// EmptyResult returns a well-typed empty ExtractionResult carrying the given
// diagnostic notes. Callers receive this instead of an error for any
// extraction-class failure.
func EmptyResult(notes ...string) *ExtractionResult {
	scores := make(map[string]float64, len(ConfidenceFieldNames))
	for _, name := range ConfidenceFieldNames {
		scores[name] = 0
	}
	return &ExtractionResult{
		ConfidenceScores:  scores,
		OverallConfidence: 0,
		ExtractionNotes:   notes,
	}
}

// ValidationReport is the outcome of running the rule-based validator over an
// ExtractionResult. Recomputed on every call, never cached.
type ValidationReport struct {
	IsValid      bool                `json:"is_valid"`
	Remarks      []string            `json:"remarks"`
	QualityScore int                 `json:"quality_score"`
	Details      map[string][]string `json:"details,omitempty"`
}

// NormalizedImage is the bounded-size, re-oriented, JPEG-compressed form of an
// uploaded image, keyed by a content hash of the source bytes.
type NormalizedImage struct {
	Bytes  []byte `json:"-"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int    `json:"size"`
	Hash   string `json:"hash"`
	// Oversize marks a normalized buffer that still exceeds the configured
	// encoded-size ceiling. Not an error at this layer; the HTTP layer
	// decides the response.
	Oversize bool `json:"oversize,omitempty"`
}

// PageResult holds the outcome of processing a single PDF page.
type PageResult struct {
	PageNumber int              `json:"page_number"`
	Status     PageStatus       `json:"status"`
	Text       string           `json:"text,omitempty"`
	Segments   []string         `json:"segments,omitempty"`
	Image      *NormalizedImage `json:"image,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// DocumentPages is the result of rasterizing and text-extracting a PDF.
type DocumentPages struct {
	PageCount int          `json:"page_count"`
	Pages     []PageResult `json:"pages"`
}

// ItemResult is a successful batch item, tagged with its original index so
// position survives aggregation.
type ItemResult struct {
	Index  int               `json:"index"`
	Result *ExtractionResult `json:"result"`
	Report *ValidationReport `json:"report,omitempty"`
}

// ItemError is a failed batch item keyed by its original index or page number.
type ItemError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BatchSummary aggregates the outcome of a batch run. Immutable once returned.
type BatchSummary struct {
	BatchID        uuid.UUID    `json:"batch_id"`
	TotalItems     int          `json:"total_items"`
	SuccessCount   int          `json:"success_count"`
	ErrorCount     int          `json:"error_count"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
	Results        []ItemResult `json:"results"`
	Errors         []ItemError  `json:"errors"`
}
