package passport

import (
	"fmt"
	"regexp"
	"strings"

	"veridoc/internal/domain"
)

// mrzCharset is the ICAO 9303 machine-readable-zone alphabet.
var mrzCharset = regexp.MustCompile(`^[A-Z0-9<]+$`)

// mrzLineLengths: 44 is the TD3 (passport booklet) format; 36 (TD2) is
// tolerated since some national travel documents use it.
var mrzLineLengths = map[int]bool{44: true, 36: true}

type mrzValidator struct{}

func (v *mrzValidator) RuleKey() string    { return "mrz.structure" }
func (v *mrzValidator) RuleName() string   { return "MRZ: Structure" }
func (v *mrzValidator) Severity() Severity { return SeverityError }

func (v *mrzValidator) Validate(result *domain.ExtractionResult) []Check {
	line1 := strings.TrimSpace(result.Data.MRZ.Line1.String())
	line2 := strings.TrimSpace(result.Data.MRZ.Line2.String())

	if line1 == "" && line2 == "" {
		return []Check{{Passed: true, Field: "mrz",
			Message: "MRZ: Structure: no MRZ present, skipping"}}
	}
	if line1 == "" || line2 == "" {
		return []Check{{Passed: false, Field: "mrz", Penalty: WeightMRZ,
			Message: "MRZ: Structure: both lines must be present or both absent"}}
	}

	var checks []Check
	for i, line := range []string{line1, line2} {
		field := fmt.Sprintf("mrz.line%d", i+1)
		switch {
		case !mrzCharset.MatchString(line):
			checks = append(checks, Check{Passed: false, Field: field, Penalty: WeightMRZ,
				Message: fmt.Sprintf("MRZ: Structure: line %d contains characters outside A-Z, 0-9, <", i+1)})
		case !mrzLineLengths[len(line)]:
			checks = append(checks, Check{Passed: false, Field: field, Penalty: WeightMRZ,
				Message: fmt.Sprintf("MRZ: Structure: line %d has length %d, expected 44 or 36", i+1, len(line))})
		default:
			checks = append(checks, Check{Passed: true, Field: field,
				Message: fmt.Sprintf("MRZ: Structure: line %d is well-formed", i+1)})
		}
	}
	if len(line1) != len(line2) {
		checks = append(checks, Check{Passed: false, Field: "mrz", Penalty: WeightMRZ,
			Message: "MRZ: Structure: lines must be the same length"})
	}
	return checks
}

// MRZValidator returns the machine-readable-zone structure validator.
func MRZValidator() *mrzValidator {
	return &mrzValidator{}
}
