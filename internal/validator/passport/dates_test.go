package passport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/domain"
	"veridoc/internal/validator/passport"
)

func findValidator(t *testing.T, key string) interface {
	Validate(*domain.ExtractionResult) []passport.Check
} {
	t.Helper()
	for _, v := range passport.DateValidators() {
		if v.RuleKey() == key {
			return v
		}
	}
	t.Fatalf("no date validator with key %s", key)
	return nil
}

func TestDateOfBirth_AcceptsAlternateLayouts(t *testing.T) {
	v := findValidator(t, "date.date_of_birth")

	for _, val := range []string{"1990-04-12", "1990/04/12", "12-04-1990", "12/04/1990"} {
		result := &domain.ExtractionResult{
			Data: domain.PassportData{DateOfBirth: domain.FlexString(val)},
		}
		checks := v.Validate(result)
		require.Len(t, checks, 1)
		assert.True(t, checks[0].Passed, val)
	}
}

func TestDateOfBirth_RejectsFuture(t *testing.T) {
	v := findValidator(t, "date.date_of_birth")

	result := &domain.ExtractionResult{
		Data: domain.PassportData{DateOfBirth: "2099-01-01"},
	}
	checks := v.Validate(result)
	require.Len(t, checks, 1)
	assert.False(t, checks[0].Passed)
}

func TestDateOfExpiry_FutureAllowed(t *testing.T) {
	v := findValidator(t, "date.date_of_expiry")

	result := &domain.ExtractionResult{
		Data: domain.PassportData{DateOfExpiry: "2099-01-01"},
	}
	checks := v.Validate(result)
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Passed)
}

func TestDates_EmptyFieldSkipped(t *testing.T) {
	v := findValidator(t, "date.date_of_birth")

	checks := v.Validate(&domain.ExtractionResult{})
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Passed)
}

func TestChronology_IssueAfterExpiry(t *testing.T) {
	v := findValidator(t, "date.chronology")

	result := &domain.ExtractionResult{
		Data: domain.PassportData{
			DateOfBirth:  "1990-04-12",
			DateOfIssue:  "2030-01-01",
			DateOfExpiry: "2020-01-01",
		},
	}
	checks := v.Validate(result)
	require.Len(t, checks, 2)
	assert.True(t, checks[0].Passed)  // birth before issue
	assert.False(t, checks[1].Passed) // issue not before expiry
}
