// Package openai implements the kernel completion port over the OpenAI
// responses endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/hollowmere/internal/platform/errors"
)

const defaultResponsesURL = "https://api.openai.com/v1/responses"

// Config configures the responses endpoint and HTTP behavior.
type Config struct {
	// APIKey authenticates requests. Required.
	APIKey string
	// ResponsesURL overrides the endpoint, mainly for tests.
	ResponsesURL string
	// Timeout bounds one completion request end to end.
	Timeout time.Duration
	// HTTPClient overrides the transport. A nil client gets a default
	// with the configured timeout.
	HTTPClient *http.Client
}

// Client calls the OpenAI responses endpoint.
type Client struct {
	cfg Config
}

// New builds a completion client.
func New(cfg Config) *Client {
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = defaultResponsesURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg}
}

// Complete sends the prompt and returns the model's output text.
func (c *Client) Complete(ctx context.Context, prompt, model string) (string, error) {
	apiKey := strings.TrimSpace(c.cfg.APIKey)
	model = strings.TrimSpace(model)
	prompt = strings.TrimSpace(prompt)
	if apiKey == "" {
		return "", errors.New(errors.CodeBackendError, "api key is required")
	}
	if model == "" {
		return "", errors.New(errors.CodeBackendError, "model is required")
	}
	if prompt == "" {
		return "", errors.New(errors.CodeBackendError, "prompt is required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	requestBody, err := json.Marshal(map[string]any{
		"model": model,
		"input": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material goes only into the Authorization header and is
	// never echoed in errors.
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.CodeBackendError, "completion request failed", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read completion error body: %w", err)
		}
		return "", errors.New(errors.CodeBackendError,
			fmt.Sprintf("completion request status %d: %s", res.StatusCode, strings.TrimSpace(string(body))))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if strings.TrimSpace(content.Text) != "" {
					outputText = strings.TrimSpace(content.Text)
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return "", errors.New(errors.CodeBackendError, "completion response missing output text")
	}
	return outputText, nil
}
