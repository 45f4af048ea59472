package passport

import (
	"fmt"
	"math"

	"veridoc/internal/domain"
)

// scoreRangeValidator rejects confidence scores outside [0,1].
type scoreRangeValidator struct{}

func (v *scoreRangeValidator) RuleKey() string    { return "conf.score_range" }
func (v *scoreRangeValidator) RuleName() string   { return "Confidence: Score Range" }
func (v *scoreRangeValidator) Severity() Severity { return SeverityError }

func (v *scoreRangeValidator) Validate(result *domain.ExtractionResult) []Check {
	var checks []Check
	for _, field := range domain.ConfidenceFieldNames {
		score, ok := result.ConfidenceScores[field]
		if !ok {
			continue
		}
		if score < 0 || score > 1 {
			checks = append(checks, Check{Passed: false, Field: field, Penalty: WeightScoreRange,
				Message: fmt.Sprintf("Confidence: Score Range: %s score %.2f is outside [0,1]", field, score)})
		}
	}
	if len(checks) == 0 {
		checks = append(checks, Check{Passed: true, Field: "confidence_scores",
			Message: "Confidence: Score Range: all reported scores within [0,1]"})
	}
	return checks
}

// lowConfidenceValidator warns on per-field scores below the threshold with a
// penalty proportional to the shortfall.
type lowConfidenceValidator struct{}

func (v *lowConfidenceValidator) RuleKey() string    { return "conf.low_score" }
func (v *lowConfidenceValidator) RuleName() string   { return "Confidence: Low Score" }
func (v *lowConfidenceValidator) Severity() Severity { return SeverityWarning }

func (v *lowConfidenceValidator) Validate(result *domain.ExtractionResult) []Check {
	var checks []Check
	for _, field := range domain.ConfidenceFieldNames {
		score, ok := result.ConfidenceScores[field]
		if !ok || score < 0 || score > 1 {
			continue
		}
		if score < ConfidenceThreshold {
			shortfall := (ConfidenceThreshold - score) / ConfidenceThreshold
			penalty := int(math.Ceil(shortfall * WeightConfidenceMax))
			checks = append(checks, Check{Passed: false, Field: field, Penalty: penalty,
				Message: fmt.Sprintf("Confidence: Low Score: %s confidence %.2f is below %.2f", field, score, ConfidenceThreshold)})
		}
	}
	if len(checks) == 0 {
		checks = append(checks, Check{Passed: true, Field: "confidence_scores",
			Message: "Confidence: Low Score: all reported scores above threshold"})
	}
	return checks
}

// ScoreRangeValidator returns the error-severity range check.
func ScoreRangeValidator() *scoreRangeValidator {
	return &scoreRangeValidator{}
}

// LowConfidenceValidator returns the warning-severity threshold check.
func LowConfidenceValidator() *lowConfidenceValidator {
	return &lowConfidenceValidator{}
}
