package claude

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
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Parser implements port.DocumentParser using the Anthropic Messages API.
type Parser struct {
	apiKey    string
	model     string
	endpoint  string
	maxTokens int
	client    *http.Client
}

// NewParser creates a Claude-based passport parser from a provider config.
func NewParser(cfg *config.ParserProviderConfig) *Parser {
	return newParser(cfg, apiURL)
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint (for testing).
func NewParserWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	return newParser(cfg, endpoint)
}

func newParser(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
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

	contentBlocks, err := buildContentBlocks(input, prompt)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":       p.model,
		"max_tokens":  p.maxTokens,
		"temperature": 0,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
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
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			retryAfter := parser.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, parser.NewRateLimitError("claude", baseErr, retryAfter)
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, &parser.AuthError{Provider: "claude", Err: baseErr}
		}
		return nil, baseErr
	}

	return parseResponse(respBody, p.model, prompt)
}

func buildContentBlocks(input port.ParseInput, prompt string) ([]map[string]interface{}, error) {
	var blocks []map[string]interface{}

	if input.IsText() {
		blocks = append(blocks, map[string]interface{}{
			"type": "text",
			"text": "Passport text extracted from a document page:\n\n" + input.Text,
		})
	} else {
		switch input.ContentType {
		case "image/jpeg", "image/png":
			encoded := base64.StdEncoding.EncodeToString(input.FileBytes)
			blocks = append(blocks, map[string]interface{}{
				"type": "image",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": input.ContentType,
					"data":       encoded,
				},
			})
		default:
			return nil, fmt.Errorf("unsupported content type for extraction: %s", input.ContentType)
		}
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": prompt,
	})

	return blocks, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model, prompt string) (*port.ParseOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, &parser.ResponseFormatError{Err: fmt.Errorf("empty response from API")}
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	text, err := parser.DecodeModelJSON(resp.Content[0].Text)
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
