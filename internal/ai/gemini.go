package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

// ContentGenerator is the subset of *genai.Models we call.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures the Gemini completer
type GeminiConfig struct {
	APIKey string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string
}

// GeminiCompleter implements Completer on the Gemini API.
type GeminiCompleter struct {
	models ContentGenerator
}

var _ Completer = (*GeminiCompleter)(nil)

// NewGeminiCompleter creates a completer backed by google.golang.org/genai.
func NewGeminiCompleter(ctx context.Context, cfg GeminiConfig) (*GeminiCompleter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiCompleter{models: client.Models}, nil
}

// NewGeminiCompleterWithClient wraps an existing content generator.
func NewGeminiCompleterWithClient(models ContentGenerator) *GeminiCompleter {
	return &GeminiCompleter{models: models}
}

// Complete generates a single candidate and returns its text.
func (c *GeminiCompleter) Complete(ctx context.Context, prompt, model string, maxTokens int) (string, error) {
	if strings.TrimSpace(model) == "" {
		return "", errors.New("gemini: model is required")
	}
	cfg := &genai.GenerateContentConfig{CandidateCount: 1}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(min(maxTokens, math.MaxInt32))
	}
	resp, err := c.models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini returned no text content")
	}
	return text, nil
}
