package validator

import (
	"log"

	"veridoc/internal/domain"
	"veridoc/internal/validator/passport"
)

// Engine runs every registered rule against an extraction result and
// aggregates the outcome into a ValidationReport. The quality score starts at
// 100 and each failed check subtracts its penalty; the result is clamped to
// [0,100]. A result is valid only when no error-severity check failed.
type Engine struct {
	registry *Registry
}

// NewEngine creates a validation engine over the given rule registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Run validates an extraction result. Rules execute in registration order so
// remarks are deterministic.
func (e *Engine) Run(result *domain.ExtractionResult) *domain.ValidationReport {
	report := &domain.ValidationReport{
		IsValid:      true,
		QualityScore: 100,
		Remarks:      []string{},
		Details:      make(map[string][]string),
	}

	score := 100
	var total, failed int
	for _, v := range e.registry.All() {
		checks := v.Validate(result)
		total += len(checks)
		for _, c := range checks {
			if c.Passed {
				continue
			}
			failed++
			score -= c.Penalty
			report.Remarks = append(report.Remarks, c.Message)
			report.Details[c.Field] = append(report.Details[c.Field], c.Message)
			if v.Severity() == passport.SeverityError {
				report.IsValid = false
			}
		}
	}

	if score < 0 {
		score = 0
	}
	report.QualityScore = score

	log.Printf("validator.Engine: ran %d checks: failed=%d, valid=%t, score=%d", total, failed, report.IsValid, report.QualityScore)
	return report
}
