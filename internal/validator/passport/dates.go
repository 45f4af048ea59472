package passport

import (
	"fmt"
	"strings"
	"time"

	"veridoc/internal/domain"
)

// dateLayouts are the formats accepted for date fields. ISO 8601 is the
// canonical form; the other layouts tolerate common model output drift.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
}

const minPlausibleYear = 1900

func parseDate(val string) (time.Time, bool) {
	val = strings.TrimSpace(val)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateValidator checks one date-related rule.
type dateValidator struct {
	ruleKey  string
	ruleName string
	severity Severity
	validate func(*domain.ExtractionResult) []Check
}

func (v *dateValidator) RuleKey() string    { return v.ruleKey }
func (v *dateValidator) RuleName() string   { return v.ruleName }
func (v *dateValidator) Severity() Severity { return v.severity }

func (v *dateValidator) Validate(result *domain.ExtractionResult) []Check {
	return v.validate(result)
}

func parseableCheck(ruleName, field, val string, notFuture bool, now time.Time) Check {
	val = strings.TrimSpace(val)
	if val == "" {
		return Check{Passed: true, Field: field,
			Message: fmt.Sprintf("%s: field is empty, skipping date check", ruleName)}
	}
	t, ok := parseDate(val)
	if !ok {
		return Check{Passed: false, Field: field, Penalty: WeightDateInvalid,
			Message: fmt.Sprintf("%s: %q is not a parseable date", ruleName, val)}
	}
	if t.Year() < minPlausibleYear {
		return Check{Passed: false, Field: field, Penalty: WeightDateInvalid,
			Message: fmt.Sprintf("%s: year %d is before %d", ruleName, t.Year(), minPlausibleYear)}
	}
	if notFuture && t.After(now) {
		return Check{Passed: false, Field: field, Penalty: WeightDateInvalid,
			Message: fmt.Sprintf("%s: %s is in the future", ruleName, val)}
	}
	return Check{Passed: true, Field: field,
		Message: fmt.Sprintf("%s: valid date", ruleName)}
}

// DateValidators returns all date validators: per-field parseability and
// plausibility, chronological ordering, and an expiry warning.
func DateValidators() []*dateValidator {
	return []*dateValidator{
		{
			ruleKey: "date.date_of_birth", ruleName: "Date: Date of Birth",
			severity: SeverityError,
			validate: func(r *domain.ExtractionResult) []Check {
				return []Check{parseableCheck("Date: Date of Birth", "date_of_birth",
					r.Data.DateOfBirth.String(), true, time.Now())}
			},
		},
		{
			ruleKey: "date.date_of_issue", ruleName: "Date: Date of Issue",
			severity: SeverityError,
			validate: func(r *domain.ExtractionResult) []Check {
				return []Check{parseableCheck("Date: Date of Issue", "date_of_issue",
					r.Data.DateOfIssue.String(), true, time.Now())}
			},
		},
		{
			ruleKey: "date.date_of_expiry", ruleName: "Date: Date of Expiry",
			severity: SeverityError,
			validate: func(r *domain.ExtractionResult) []Check {
				return []Check{parseableCheck("Date: Date of Expiry", "date_of_expiry",
					r.Data.DateOfExpiry.String(), false, time.Time{})}
			},
		},
		{
			ruleKey: "date.chronology", ruleName: "Date: Chronology",
			severity: SeverityError,
			validate: func(r *domain.ExtractionResult) []Check {
				dob, dobOK := parseDate(r.Data.DateOfBirth.String())
				doi, doiOK := parseDate(r.Data.DateOfIssue.String())
				doe, doeOK := parseDate(r.Data.DateOfExpiry.String())
				var checks []Check
				if dobOK && doiOK {
					passed := !dob.After(doi)
					msg := "Date: Chronology: date of birth precedes date of issue"
					if !passed {
						msg = "Date: Chronology: date of birth cannot be after date of issue"
					}
					checks = append(checks, Check{Passed: passed, Field: "date_of_birth",
						Message: msg, Penalty: WeightDateInvalid})
				}
				if doiOK && doeOK {
					passed := doi.Before(doe)
					msg := "Date: Chronology: date of issue precedes date of expiry"
					if !passed {
						msg = "Date: Chronology: date of issue must be before date of expiry"
					}
					checks = append(checks, Check{Passed: passed, Field: "date_of_issue",
						Message: msg, Penalty: WeightDateInvalid})
				}
				if len(checks) == 0 {
					checks = append(checks, Check{Passed: true, Field: "date_of_birth",
						Message: "Date: Chronology: insufficient parseable dates, skipping"})
				}
				return checks
			},
		},
		{
			ruleKey: "date.expiry_passed", ruleName: "Date: Expiry Passed",
			severity: SeverityWarning,
			validate: func(r *domain.ExtractionResult) []Check {
				doe, ok := parseDate(r.Data.DateOfExpiry.String())
				if !ok {
					return []Check{{Passed: true, Field: "date_of_expiry",
						Message: "Date: Expiry Passed: no parseable expiry date, skipping"}}
				}
				passed := doe.After(time.Now())
				msg := "Date: Expiry Passed: document is not expired"
				if !passed {
					msg = fmt.Sprintf("Date: Expiry Passed: document expired on %s", doe.Format("2006-01-02"))
				}
				return []Check{{Passed: passed, Field: "date_of_expiry",
					Message: msg, Penalty: WeightDateExpired}}
			},
		},
	}
}
