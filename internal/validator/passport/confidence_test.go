package passport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/domain"
	"veridoc/internal/validator/passport"
)

func resultWithScore(field string, score float64) *domain.ExtractionResult {
	return &domain.ExtractionResult{
		ConfidenceScores: map[string]float64{field: score},
	}
}

func TestLowConfidence_PenaltyProportionalToShortfall(t *testing.T) {
	v := passport.LowConfidenceValidator()

	barely := v.Validate(resultWithScore("full_name", 0.55))
	deeply := v.Validate(resultWithScore("full_name", 0.05))

	require.Len(t, barely, 1)
	require.Len(t, deeply, 1)
	assert.False(t, barely[0].Passed)
	assert.False(t, deeply[0].Passed)
	assert.Less(t, barely[0].Penalty, deeply[0].Penalty)
	assert.LessOrEqual(t, deeply[0].Penalty, passport.WeightConfidenceMax)
}

func TestLowConfidence_AtThresholdPasses(t *testing.T) {
	v := passport.LowConfidenceValidator()

	checks := v.Validate(resultWithScore("full_name", passport.ConfidenceThreshold))
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Passed)
}

func TestLowConfidence_SkipsOutOfRangeScores(t *testing.T) {
	v := passport.LowConfidenceValidator()

	checks := v.Validate(resultWithScore("full_name", -0.2))
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Passed)
}

func TestScoreRange_FlagsOutOfRange(t *testing.T) {
	v := passport.ScoreRangeValidator()

	checks := v.Validate(resultWithScore("full_name", 1.2))
	require.Len(t, checks, 1)
	assert.False(t, checks[0].Passed)
	assert.Equal(t, passport.WeightScoreRange, checks[0].Penalty)
}

func TestScoreRange_BoundsInclusive(t *testing.T) {
	v := passport.ScoreRangeValidator()

	for _, score := range []float64{0, 1} {
		checks := v.Validate(resultWithScore("full_name", score))
		require.Len(t, checks, 1)
		assert.True(t, checks[0].Passed, score)
	}
}

func TestScoreRange_IgnoresUnknownFields(t *testing.T) {
	v := passport.ScoreRangeValidator()

	result := &domain.ExtractionResult{
		ConfidenceScores: map[string]float64{"not_a_field": 7.5},
	}
	checks := v.Validate(result)
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Passed)
}
