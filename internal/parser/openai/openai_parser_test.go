package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/config"
	"veridoc/internal/parser"
	openai "veridoc/internal/parser/openai"
	"veridoc/internal/port"
)

func newTestParser(serverURL string) *openai.Parser {
	cfg := &config.ParserProviderConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o",
		TimeoutSecs:  30,
		MaxTokens:    4096,
	}
	return openai.NewParserWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

const passportJSON = `{"data":{"full_name":"JANE DOE","passport_number":"X1234567","nationality":"USA","date_of_birth":"1990-04-12"},"confidence_scores":{"full_name":0.95,"passport_number":0.9}}`

func TestParse_Image_Success(t *testing.T) {
	responseBody := successResponse(passportJSON)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "gpt-4o", reqBody["model"])
		assert.Equal(t, float64(4096), reqBody["max_completion_tokens"])

		respFmt := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", respFmt["type"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])

		content := msg["content"].([]interface{})
		assert.Len(t, content, 2)

		imgBlock := content[0].(map[string]interface{})
		assert.Equal(t, "image_url", imgBlock["type"])
		imgURL := imgBlock["image_url"].(map[string]interface{})
		assert.Contains(t, imgURL["url"], "data:image/jpeg;base64,")

		textBlock := content[1].(map[string]interface{})
		assert.Equal(t, "text", textBlock["type"])
		assert.NotEmpty(t, textBlock["text"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	p := newTestParser(server.URL)

	result, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte{0xFF, 0xD8, 0xFF, 0xE0},
		ContentType: "image/jpeg",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "gpt-4o", result.ModelUsed)
	assert.NotEmpty(t, result.PromptUsed)

	var data map[string]interface{}
	err = json.Unmarshal(result.Data, &data)
	assert.NoError(t, err)
	assert.Equal(t, "JANE DOE", data["full_name"])
	assert.Equal(t, "X1234567", data["passport_number"])

	var scores map[string]float64
	err = json.Unmarshal(result.ConfidenceScores, &scores)
	assert.NoError(t, err)
	assert.InDelta(t, 0.95, scores["full_name"], 1e-9)
}

func TestParse_Text_Success(t *testing.T) {
	responseBody := successResponse(passportJSON)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		if err != nil {
			return
		}

		messages := reqBody["messages"].([]interface{})
		msg := messages[0].(map[string]interface{})
		content := msg["content"].([]interface{})
		assert.Len(t, content, 2)

		textBlock := content[0].(map[string]interface{})
		assert.Equal(t, "text", textBlock["type"])
		assert.Contains(t, textBlock["text"], "PASSPORT NO X1234567")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	p := newTestParser(server.URL)

	result, err := p.Parse(context.Background(), port.ParseInput{
		Text: "PASSPORT NO X1234567 SURNAME DOE",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestParse_FencedJSON(t *testing.T) {
	fenced := "```json\n" + passportJSON + "\n```"
	responseBody := successResponse(fenced)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	p := newTestParser(server.URL)

	result, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte{0xFF, 0xD8},
		ContentType: "image/jpeg",
	})

	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(result.Data, &data))
	assert.Equal(t, "JANE DOE", data["full_name"])
}

func TestParse_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit exceeded","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	p := newTestParser(server.URL)

	result, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte{0xFF, 0xD8},
		ContentType: "image/jpeg",
	})

	assert.Nil(t, result)
	require.Error(t, err)

	var rlErr *parser.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, 30*1e9, float64(rlErr.RetryAfter)) // 30s in nanoseconds
	assert.Contains(t, rlErr.Err.Error(), "openai API error (status 429)")
}

func TestParse_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	p := newTestParser(server.URL)

	result, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte{0xFF, 0xD8},
		ContentType: "image/jpeg",
	})

	assert.Nil(t, result)
	require.Error(t, err)

	var authErr *parser.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "openai", authErr.Provider)
}

func TestParse_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"Internal server error","type":"server_error"}}`))
	}))
	defer server.Close()

	p := newTestParser(server.URL)

	result, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte{0xFF, 0xD8},
		ContentType: "image/jpeg",
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai API error (status 500)")

	var rlErr *parser.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestParse_EmptyResponse(t *testing.T) {
	responseBody := map[string]interface{}{
		"choices": []map[string]interface{}{},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	p := newTestParser(server.URL)

	result, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte{0xFF, 0xD8},
		ContentType: "image/jpeg",
	})

	assert.Nil(t, result)
	require.Error(t, err)

	var fmtErr *parser.ResponseFormatError
	require.True(t, errors.As(err, &fmtErr))
	assert.Contains(t, err.Error(), "no choices")
}

func TestParse_InvalidJSON(t *testing.T) {
	responseBody := successResponse("This is not JSON at all, sorry!")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	p := newTestParser(server.URL)

	result, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte{0xFF, 0xD8},
		ContentType: "image/jpeg",
	})

	assert.Nil(t, result)
	require.Error(t, err)

	var fmtErr *parser.ResponseFormatError
	assert.True(t, errors.As(err, &fmtErr))
}

func TestParse_TruncatedOutput(t *testing.T) {
	responseBody := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"content": `{"data":{"full_na`},
				"finish_reason": "length",
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	p := newTestParser(server.URL)

	result, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte{0xFF, 0xD8},
		ContentType: "image/jpeg",
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finish_reason: length")
}

func TestParse_UnsupportedContentType(t *testing.T) {
	p := newTestParser("http://unused")

	result, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}
