package parser_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/parser"
	"veridoc/internal/port"
)

// stubParser is a scripted DocumentParser for fallback and merge tests.
type stubParser struct {
	out   *port.ParseOutput
	err   error
	calls int
}

func (s *stubParser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func output(data, scores string) *port.ParseOutput {
	return &port.ParseOutput{
		Data:             []byte(data),
		ConfidenceScores: []byte(scores),
		ModelUsed:        "stub-model",
	}
}

func TestFallback_PrimarySucceeds(t *testing.T) {
	primary := &stubParser{out: output(`{"full_name":"A"}`, `{}`)}
	secondary := &stubParser{out: output(`{"full_name":"B"}`, `{}`)}
	fp := parser.NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"p", "s"})

	out, err := fp.Parse(context.Background(), port.ParseInput{Text: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"full_name":"A"}`, string(out.Data))
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallback_PrimaryFails_SecondaryUsed(t *testing.T) {
	primary := &stubParser{err: fmt.Errorf("boom")}
	secondary := &stubParser{out: output(`{"full_name":"B"}`, `{}`)}
	fp := parser.NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"p", "s"})

	out, err := fp.Parse(context.Background(), port.ParseInput{Text: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"full_name":"B"}`, string(out.Data))
}

func TestFallback_AllFail(t *testing.T) {
	primary := &stubParser{err: fmt.Errorf("boom p")}
	secondary := &stubParser{err: fmt.Errorf("boom s")}
	fp := parser.NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"p", "s"})

	out, err := fp.Parse(context.Background(), port.ParseInput{Text: "x"})
	assert.Nil(t, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all parsers failed")
}

func TestFallback_RateLimitOpensCircuit(t *testing.T) {
	primary := &stubParser{err: parser.NewRateLimitError("p", fmt.Errorf("429"), 60)}
	secondary := &stubParser{out: output(`{"full_name":"B"}`, `{}`)}
	fp := parser.NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"p", "s"})

	// First call hits both; primary opens its circuit.
	_, err := fp.Parse(context.Background(), port.ParseInput{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)

	// Second call skips the rate-limited primary entirely.
	_, err = fp.Parse(context.Background(), port.ParseInput{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallback_AllRateLimited(t *testing.T) {
	primary := &stubParser{err: parser.NewRateLimitError("p", fmt.Errorf("429"), 30)}
	secondary := &stubParser{err: parser.NewRateLimitError("s", fmt.Errorf("429"), 60)}
	fp := parser.NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"p", "s"})

	out, err := fp.Parse(context.Background(), port.ParseInput{Text: "x"})
	assert.Nil(t, out)
	require.Error(t, err)

	var rlErr *parser.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
	// The earliest circuit reset drives the suggested retry window.
	assert.LessOrEqual(t, rlErr.RetryAfter.Seconds(), float64(30))
}
