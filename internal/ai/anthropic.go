package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"

	"github.com/papacasper/leadflow-ai/internal/logging"
)

// AnthropicMessager is the subset of the SDK's message service we call.
// Tests inject a fake.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicConfig configures the Anthropic completer
type AnthropicConfig struct {
	APIKey             string // required
	BaseURL            string // optional
	MaxConcurrentCalls int    // 0 = unlimited
}

// AnthropicCompleter implements Completer on the Messages API.
type AnthropicCompleter struct {
	messages       AnthropicMessager
	concurrencySem *semaphore.Weighted
}

var _ Completer = (*AnthropicCompleter)(nil)

// NewAnthropicCompleter creates a completer backed by the Anthropic SDK.
func NewAnthropicCompleter(cfg AnthropicConfig) (*AnthropicCompleter, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not set")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	client := anthropic.NewClient(opts...)
	return NewAnthropicCompleterWithClient(&client.Messages, cfg.MaxConcurrentCalls), nil
}

// NewAnthropicCompleterWithClient wraps an existing message service.
func NewAnthropicCompleterWithClient(messages AnthropicMessager, maxConcurrentCalls int) *AnthropicCompleter {
	var sem *semaphore.Weighted
	if maxConcurrentCalls > 0 {
		sem = semaphore.NewWeighted(int64(maxConcurrentCalls))
	}
	return &AnthropicCompleter{messages: messages, concurrencySem: sem}
}

// Complete sends prompt as a single user message and concatenates the text
// blocks of the reply.
func (c *AnthropicCompleter) Complete(ctx context.Context, prompt, model string, maxTokens int) (string, error) {
	if c.concurrencySem != nil {
		if err := c.concurrencySem.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("failed to acquire concurrency slot: %w", err)
		}
		defer c.concurrencySem.Release(1)
	}
	if model == "" {
		model = ModelSonnet
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	startTime := time.Now()
	resp, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	logging.Debugf("[AI] anthropic %s: input=%d tokens, output=%d tokens, duration=%v",
		model, resp.Usage.InputTokens, resp.Usage.OutputTokens, time.Since(startTime))

	if sb.Len() == 0 {
		return "", errors.New("anthropic returned no text content")
	}
	return sb.String(), nil
}
