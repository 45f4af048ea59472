package parser

import (
	"fmt"
	"strconv"
	"time"
)

// RateLimitError indicates a parser provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// AuthError indicates a parser provider rejected the configured credentials
// (HTTP 401 or 403).
type AuthError struct {
	Err      error
	Provider string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Provider, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ResponseFormatError indicates the provider responded but the payload did not
// contain the expected JSON shape.
type ResponseFormatError struct {
	Err error
	Raw string
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("invalid response format: %v (raw: %s)", e.Err, truncate(e.Raw, 500))
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
