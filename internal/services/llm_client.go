package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/envutil"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

// LLMClient is the one generative-language dependency every agent in this
// backend shares: a prompt goes in, either free text or schema-constrained
// JSON comes out. Injectable so tests substitute a fake.
type LLMClient interface {
	GenerateJSON(ctx context.Context, prompt string, schemaName string, schema map[string]any) (json.RawMessage, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type llmClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewLLMClient(log *logger.Logger) (LLMClient, error) {
	apiKey := strings.TrimSpace(os.Getenv("LLM_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing LLM_API_KEY")
	}

	return &llmClient{
		log:     log.With("service", "LLMClient"),
		baseURL: envutil.Str("LLM_BASE_URL", "https://api.openai.com"),
		apiKey:  apiKey,
		model:   envutil.Str("LLM_MODEL", "gpt-4o-mini"),
		httpClient: &http.Client{
			Timeout: time.Duration(envutil.Int("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		},
	}, nil
}

type llmHTTPError struct {
	StatusCode int
	Body       string
}

func (e *llmHTTPError) Error() string {
	return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body)
}

type responsesRequest struct {
	Model string `json:"model"`
	Input []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"input"`
	Text *struct {
		Format map[string]any `json:"format"`
	} `json:"text,omitempty"`
	Temperature float64 `json:"temperature"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func (c *llmClient) GenerateJSON(ctx context.Context, prompt string, schemaName string, schema map[string]any) (json.RawMessage, error) {
	if schemaName == "" {
		return nil, errors.New("schemaName required")
	}
	if schema == nil {
		return nil, errors.New("schema required")
	}

	req := c.newRequest(prompt)
	req.Text = &struct {
		Format map[string]any `json:"format"`
	}{
		Format: map[string]any{
			"type":   "json_schema",
			"name":   schemaName,
			"schema": schema,
			"strict": true,
		},
	}

	text, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(text)) {
		return nil, &domain.MalformedResponseError{
			Message: "language service returned invalid JSON (often a rate limit or truncated reply), try again in a few minutes",
		}
	}
	return json.RawMessage(text), nil
}

func (c *llmClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.call(ctx, c.newRequest(prompt))
}

func (c *llmClient) newRequest(prompt string) *responsesRequest {
	req := &responsesRequest{
		Model:       c.model,
		Temperature: 0.1,
	}
	req.Input = []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{
		{Role: "user", Content: prompt},
	}
	return req
}

// call performs exactly one round-trip. Failures are classified, never
// retried: the student is in the loop and retry is a UI concern.
func (c *llmClient) call(ctx context.Context, body *responsesRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/responses", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyCallError(err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", classifyCallError(readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyHTTPError(&llmHTTPError{StatusCode: resp.StatusCode, Body: string(raw)})
	}

	var parsed responsesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &domain.MalformedResponseError{
			Message: "language service reply could not be decoded",
			Cause:   err,
		}
	}
	if parsed.Refusal != "" {
		return "", &domain.UpstreamError{
			Kind:    domain.UpstreamOther,
			Message: "language service refused the request: " + parsed.Refusal,
		}
	}

	var text strings.Builder
	for _, item := range parsed.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				text.WriteString(part.Text)
			}
		}
	}
	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", &domain.MalformedResponseError{
			Message: "language service returned an empty reply, try again in a few minutes",
		}
	}
	return out, nil
}

func classifyHTTPError(err *llmHTTPError) error {
	body := strings.ToLower(err.Body)
	switch {
	case err.StatusCode == http.StatusTooManyRequests,
		strings.Contains(body, "rate limit"),
		strings.Contains(body, "quota"):
		return &domain.UpstreamError{
			Kind:    domain.UpstreamRateLimited,
			Message: "language service rate limit exceeded, wait a few minutes and try again",
			Cause:   err,
		}
	case err.StatusCode == http.StatusServiceUnavailable,
		strings.Contains(body, "unavailable"),
		strings.Contains(body, "overloaded"):
		return &domain.UpstreamError{
			Kind:    domain.UpstreamUnavailable,
			Message: "language service temporarily unavailable, try again shortly",
			Cause:   err,
		}
	default:
		return &domain.UpstreamError{
			Kind:    domain.UpstreamOther,
			Message: "language service call failed",
			Cause:   err,
		}
	}
}

func classifyCallError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.UpstreamError{
			Kind:    domain.UpstreamTimeout,
			Message: "language service timed out",
			Cause:   err,
		}
	}
	return &domain.UpstreamError{
		Kind:    domain.UpstreamOther,
		Message: "language service unreachable",
		Cause:   err,
	}
}
