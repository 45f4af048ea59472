package passport

import (
	"fmt"
	"regexp"
	"strings"

	"veridoc/internal/domain"
)

// passportNumberPattern allows 7-9 characters of uppercase letters, digits,
// and the MRZ filler character.
var passportNumberPattern = regexp.MustCompile(`^[A-Z0-9<]{7,9}$`)

// formatValidator checks a field against a format rule.
type formatValidator struct {
	ruleKey  string
	ruleName string
	field    string
	severity Severity
	validate func(*domain.ExtractionResult) []Check
}

func (v *formatValidator) RuleKey() string    { return v.ruleKey }
func (v *formatValidator) RuleName() string   { return v.ruleName }
func (v *formatValidator) Severity() Severity { return v.severity }

func (v *formatValidator) Validate(result *domain.ExtractionResult) []Check {
	return v.validate(result)
}

// FormatValidators returns all format validators. Empty fields are skipped:
// presence is the required-field rules' concern.
func FormatValidators() []*formatValidator {
	return []*formatValidator{
		{
			ruleKey: "fmt.passport_number", ruleName: "Format: Passport Number",
			field: "passport_number", severity: SeverityError,
			validate: func(r *domain.ExtractionResult) []Check {
				val := strings.ToUpper(strings.TrimSpace(r.Data.PassportNumber.String()))
				if val == "" {
					return []Check{{Passed: true, Field: "passport_number",
						Message: "Format: Passport Number: field is empty, skipping format check"}}
				}
				passed := passportNumberPattern.MatchString(val)
				msg := "Format: Passport Number: matches expected format"
				if !passed {
					msg = fmt.Sprintf("Format: Passport Number: %q is not 7-9 characters of A-Z, 0-9, or <", val)
				}
				return []Check{{Passed: passed, Field: "passport_number", Message: msg, Penalty: WeightFormat}}
			},
		},
		{
			ruleKey: "fmt.nationality", ruleName: "Format: Nationality",
			field: "nationality", severity: SeverityError,
			validate: func(r *domain.ExtractionResult) []Check {
				val := strings.ToUpper(strings.TrimSpace(r.Data.Nationality.String()))
				if val == "" {
					return []Check{{Passed: true, Field: "nationality",
						Message: "Format: Nationality: field is empty, skipping format check"}}
				}
				passed := alpha3Codes[val]
				msg := "Format: Nationality: valid ISO 3166-1 alpha-3 code"
				if !passed {
					msg = fmt.Sprintf("Format: Nationality: %q is not a recognized ISO 3166-1 alpha-3 code", val)
				}
				return []Check{{Passed: passed, Field: "nationality", Message: msg, Penalty: WeightNationality}}
			},
		},
	}
}
