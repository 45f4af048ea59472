package validator_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/domain"
	"veridoc/internal/validator"
)

func fullScores(v float64) map[string]float64 {
	scores := make(map[string]float64, len(domain.ConfidenceFieldNames))
	for _, name := range domain.ConfidenceFieldNames {
		scores[name] = v
	}
	return scores
}

// validResult builds an extraction result that passes every rule.
func validResult() *domain.ExtractionResult {
	expiry := time.Now().AddDate(3, 0, 0).Format("2006-01-02")
	return &domain.ExtractionResult{
		Data: domain.PassportData{
			FullName:       "JANE DOE",
			DateOfBirth:    "1990-04-12",
			PassportNumber: "X1234567",
			Nationality:    "USA",
			DateOfIssue:    "2020-01-01",
			DateOfExpiry:   domain.FlexString(expiry),
		},
		ConfidenceScores:  fullScores(0.95),
		OverallConfidence: 0.95,
	}
}

func newEngine() *validator.Engine {
	return validator.NewEngine(validator.NewPassportRegistry())
}

func TestRun_ValidResult(t *testing.T) {
	report := newEngine().Run(validResult())

	assert.True(t, report.IsValid)
	assert.Equal(t, 100, report.QualityScore)
	assert.Empty(t, report.Remarks)
}

func TestRun_MissingRequiredField(t *testing.T) {
	result := validResult()
	result.Data.PassportNumber = ""

	report := newEngine().Run(result)

	assert.False(t, report.IsValid)
	assert.Less(t, report.QualityScore, 100)
	require.NotEmpty(t, report.Remarks)
	assert.Contains(t, report.Details, "passport_number")
}

func TestRun_UnknownNationality(t *testing.T) {
	result := validResult()
	result.Data.Nationality = "ZZZ"

	report := newEngine().Run(result)

	assert.False(t, report.IsValid)
	assert.Contains(t, report.Details, "nationality")
}

func TestRun_KnownNationalities(t *testing.T) {
	for _, code := range []string{"USA", "DEU", "GBR", "IND", "JPN"} {
		result := validResult()
		result.Data.Nationality = domain.FlexString(code)

		report := newEngine().Run(result)
		assert.True(t, report.IsValid, code)
	}
}

func TestRun_BadPassportNumberFormat(t *testing.T) {
	result := validResult()
	result.Data.PassportNumber = "x?1" // too short, illegal characters

	report := newEngine().Run(result)
	assert.False(t, report.IsValid)
}

func TestRun_BirthAfterIssue(t *testing.T) {
	result := validResult()
	result.Data.DateOfIssue = "2020-01-01"
	result.Data.DateOfBirth = "2025-01-01"

	report := newEngine().Run(result)

	assert.False(t, report.IsValid)
	assert.Contains(t, report.Details, "date_of_birth")
}

func TestRun_UnparseableDate(t *testing.T) {
	result := validResult()
	result.Data.DateOfBirth = "12th of April, 1990"

	report := newEngine().Run(result)
	assert.False(t, report.IsValid)
}

func TestRun_ImplausiblyOldDate(t *testing.T) {
	result := validResult()
	result.Data.DateOfBirth = "1850-04-12"

	report := newEngine().Run(result)
	assert.False(t, report.IsValid)
}

func TestRun_ExpiredPassport_WarningOnly(t *testing.T) {
	result := validResult()
	result.Data.DateOfIssue = "2010-01-01"
	result.Data.DateOfExpiry = "2020-01-01"

	report := newEngine().Run(result)

	// Expiry is a warning: the result stays valid but loses score.
	assert.True(t, report.IsValid)
	assert.Less(t, report.QualityScore, 100)
	require.NotEmpty(t, report.Remarks)
	assert.Contains(t, report.Details, "date_of_expiry")
}

func mrzLine(prefix string) domain.FlexString {
	return domain.FlexString(prefix + strings.Repeat("<", 44-len(prefix)))
}

func TestRun_MRZOneLineOnly(t *testing.T) {
	result := validResult()
	result.Data.MRZ.Line1 = mrzLine("P<USADOE<<JANE")

	report := newEngine().Run(result)
	assert.False(t, report.IsValid)
	assert.Contains(t, report.Details, "mrz")
}

func TestRun_MRZWellFormed(t *testing.T) {
	result := validResult()
	result.Data.MRZ.Line1 = mrzLine("P<USADOE<<JANE")
	result.Data.MRZ.Line2 = mrzLine("X12345675USA9004129F3101017")

	require.Len(t, result.Data.MRZ.Line1.String(), 44)
	require.Len(t, result.Data.MRZ.Line2.String(), 44)

	report := newEngine().Run(result)
	assert.True(t, report.IsValid)
}

func TestRun_MRZBadCharset(t *testing.T) {
	result := validResult()
	result.Data.MRZ.Line1 = mrzLine("P<USADOE<<JANE")
	result.Data.MRZ.Line2 = mrzLine("x12345675usa9004129") // lowercase

	report := newEngine().Run(result)
	assert.False(t, report.IsValid)
}

func TestRun_LowConfidence_WarningOnly(t *testing.T) {
	result := validResult()
	result.ConfidenceScores["full_name"] = 0.3

	report := newEngine().Run(result)

	assert.True(t, report.IsValid)
	assert.Less(t, report.QualityScore, 100)
	assert.Contains(t, report.Details, "full_name")
}

func TestRun_ConfidenceOutOfRange_Error(t *testing.T) {
	result := validResult()
	result.ConfidenceScores["full_name"] = 1.4

	report := newEngine().Run(result)
	assert.False(t, report.IsValid)
}

func TestRun_ScoreClampedToZero(t *testing.T) {
	// Everything empty plus out-of-range scores drives the raw score negative.
	result := &domain.ExtractionResult{
		ConfidenceScores: map[string]float64{"full_name": -0.5, "nationality": 2.0},
	}

	report := newEngine().Run(result)

	assert.False(t, report.IsValid)
	assert.Equal(t, 0, report.QualityScore)
}

func TestRun_DeterministicRemarkOrder(t *testing.T) {
	result := validResult()
	result.Data.FullName = ""
	result.Data.Nationality = ""

	first := newEngine().Run(result)
	for i := 0; i < 5; i++ {
		again := newEngine().Run(result)
		require.Equal(t, first.Remarks, again.Remarks, fmt.Sprintf("run %d", i))
	}
}
