package validator

import (
	"veridoc/internal/domain"
	"veridoc/internal/validator/passport"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(result *domain.ExtractionResult) []passport.Check
	RuleKey() string
	RuleName() string
	Severity() passport.Severity
}
