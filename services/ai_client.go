package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"accana-api/utils"
)

// Generator produces model output for a system/user prompt pair. The
// analysis service depends on this interface so tests can stub the model.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AIClient talks to an OpenAI-compatible chat-completions endpoint.
type AIClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 120 * time.Second}
}

// NewAIClientFromEnv builds the client from AI_BASE_URL, AI_API_KEY and
// AI_MODEL.
func NewAIClientFromEnv() *AIClient {
	baseURL := os.Getenv("AI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1/chat/completions"
	}
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &AIClient{
		BaseURL:    baseURL,
		APIKey:     os.Getenv("AI_API_KEY"),
		Model:      model,
		HTTPClient: DefaultHTTPClient(),
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *AIClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := map[string]interface{}{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", utils.ExternalServiceError(err, "AI request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", utils.ExternalServiceError(nil, "AI request failed with status %d: %s", resp.StatusCode, string(excerpt))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", utils.ExternalServiceError(err, "error decoding AI response")
	}
	if len(decoded.Choices) == 0 {
		return "", utils.ExternalServiceError(nil, "AI response contained no choices")
	}

	return decoded.Choices[0].Message.Content, nil
}
