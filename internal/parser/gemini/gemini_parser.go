package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"veridoc/internal/config"
	"veridoc/internal/parser"
	"veridoc/internal/port"
)

const (
	apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Parser implements port.DocumentParser using Google's Gemini API.
type Parser struct {
	apiKey    string
	model     string
	endpoint  string
	maxTokens int
	client    *http.Client
}

// NewParser creates a Gemini-based passport parser from a provider config.
func NewParser(cfg *config.ParserProviderConfig) *Parser {
	return newParser(cfg, "")
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint (for testing).
func NewParserWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	return newParser(cfg, endpoint)
}

func newParser(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Parser{
		apiKey:    cfg.APIKey,
		model:     model,
		endpoint:  endpoint,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	prompt := parser.BuildPassportPrompt()

	parts, err := buildParts(input, prompt)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": parts,
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  p.maxTokens,
			"temperature":      0,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			retryAfter := parser.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, parser.NewRateLimitError("gemini", baseErr, retryAfter)
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, &parser.AuthError{Provider: "gemini", Err: baseErr}
		}
		return nil, baseErr
	}

	return parseResponse(respBody, p.model, prompt)
}

func buildParts(input port.ParseInput, prompt string) ([]map[string]interface{}, error) {
	var parts []map[string]interface{}

	if input.IsText() {
		parts = append(parts, map[string]interface{}{
			"text": "Passport text extracted from a document page:\n\n" + input.Text,
		})
	} else {
		switch input.ContentType {
		case "image/jpeg", "image/png":
			parts = append(parts, map[string]interface{}{
				"inline_data": map[string]interface{}{
					"mime_type": input.ContentType,
					"data":      base64.StdEncoding.EncodeToString(input.FileBytes),
				},
			})
		default:
			return nil, fmt.Errorf("unsupported content type for extraction: %s", input.ContentType)
		}
	}

	parts = append(parts, map[string]interface{}{"text": prompt})
	return parts, nil
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte, model, prompt string) (*port.ParseOutput, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, &parser.ResponseFormatError{Err: fmt.Errorf("empty response from API: no candidates")}
	}
	if resp.Candidates[0].FinishReason == "MAX_TOKENS" {
		return nil, fmt.Errorf("output truncated (finishReason: MAX_TOKENS): response exceeded output token limit")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &parser.ResponseFormatError{Err: fmt.Errorf("empty response from API: no parts")}
	}

	text, err := parser.DecodeModelJSON(resp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data             json.RawMessage `json:"data"`
		ConfidenceScores json.RawMessage `json:"confidence_scores"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, &parser.ResponseFormatError{Err: err, Raw: text}
	}

	return &port.ParseOutput{
		Data:             parsed.Data,
		ConfidenceScores: parsed.ConfidenceScores,
		ModelUsed:        model,
		PromptUsed:       prompt,
	}, nil
}
