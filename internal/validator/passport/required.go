package passport

import (
	"fmt"

	"veridoc/internal/domain"
)

// requiredFieldValidator checks that a required identity field is not empty.
type requiredFieldValidator struct {
	ruleKey  string
	ruleName string
	field    string
	extract  func(*domain.PassportData) string
}

func (v *requiredFieldValidator) RuleKey() string    { return v.ruleKey }
func (v *requiredFieldValidator) RuleName() string   { return v.ruleName }
func (v *requiredFieldValidator) Severity() Severity { return SeverityError }

func (v *requiredFieldValidator) Validate(result *domain.ExtractionResult) []Check {
	val := v.extract(&result.Data)
	msg := fmt.Sprintf("%s: %s is present", v.ruleName, v.field)
	if val == "" {
		msg = fmt.Sprintf("%s: %s is missing or empty", v.ruleName, v.field)
	}
	return []Check{{
		Passed:  val != "",
		Field:   v.field,
		Message: msg,
		Penalty: WeightRequired,
	}}
}

// RequiredFieldValidators returns all required field validators. Place of
// birth, issuing authority, and gender are optional in the canonical schema.
func RequiredFieldValidators() []*requiredFieldValidator {
	return []*requiredFieldValidator{
		{
			ruleKey: "req.full_name", ruleName: "Required: Full Name", field: "full_name",
			extract: func(d *domain.PassportData) string { return d.FullName.String() },
		},
		{
			ruleKey: "req.date_of_birth", ruleName: "Required: Date of Birth", field: "date_of_birth",
			extract: func(d *domain.PassportData) string { return d.DateOfBirth.String() },
		},
		{
			ruleKey: "req.passport_number", ruleName: "Required: Passport Number", field: "passport_number",
			extract: func(d *domain.PassportData) string { return d.PassportNumber.String() },
		},
		{
			ruleKey: "req.nationality", ruleName: "Required: Nationality", field: "nationality",
			extract: func(d *domain.PassportData) string { return d.Nationality.String() },
		},
		{
			ruleKey: "req.date_of_issue", ruleName: "Required: Date of Issue", field: "date_of_issue",
			extract: func(d *domain.PassportData) string { return d.DateOfIssue.String() },
		},
		{
			ruleKey: "req.date_of_expiry", ruleName: "Required: Date of Expiry", field: "date_of_expiry",
			extract: func(d *domain.PassportData) string { return d.DateOfExpiry.String() },
		},
	}
}
