// Package ai provides the text-completion capability used by the dedup and
// enrichment stages, plus the retry policy shared by both.
//
// A Completer makes one call and never retries; callers wrap it with Retry
// and pick their own default when every attempt fails.
package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Model defaults. The smaller model answers the one-word dedup question; the
// larger one writes enrichment summaries.
const (
	ModelHaiku  = "claude-haiku-4-5-20251001"
	ModelSonnet = "claude-sonnet-4-5-20250929"

	ModelGeminiFlashLite = "gemini-2.5-flash-lite"
	ModelGeminiFlash     = "gemini-2.5-flash"
)

// Provider names accepted by NewCompleter.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// ErrNoCompleter is reported when a model-backed stage runs without a client.
var ErrNoCompleter = errors.New("no completion client configured")

// Completer is a black-box text completion service.
type Completer interface {
	Complete(ctx context.Context, prompt, model string, maxTokens int) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt, model string, maxTokens int) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt, model string, maxTokens int) (string, error) {
	return f(ctx, prompt, model, maxTokens)
}

// ProviderConfig selects and configures a completion provider.
type ProviderConfig struct {
	Provider           string // anthropic (default) or gemini
	APIKey             string // falls back to ANTHROPIC_API_KEY / GEMINI_API_KEY
	BaseURL            string // optional endpoint override (proxies/testing)
	MaxConcurrentCalls int    // anthropic only; 0 = unlimited
}

// APIKeyEnvVar returns the environment variable holding the key for provider.
func APIKeyEnvVar(provider string) string {
	if strings.EqualFold(provider, ProviderGemini) {
		return "GEMINI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

// DefaultModels returns the dedup and enrichment models for provider.
func DefaultModels(provider string) (dedup, enrich string) {
	if strings.EqualFold(strings.TrimSpace(provider), ProviderGemini) {
		return ModelGeminiFlashLite, ModelGeminiFlash
	}
	return ModelHaiku, ModelSonnet
}

// ModelProvider guesses the provider serving model from its prefix. It
// returns "" for ids it does not recognize.
func ModelProvider(model string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(model, "claude-"):
		return ProviderAnthropic
	case strings.HasPrefix(model, "gemini-"):
		return ProviderGemini
	}
	return ""
}

// NewCompleter builds the configured provider.
func NewCompleter(ctx context.Context, cfg ProviderConfig) (Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderAnthropic
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(APIKeyEnvVar(provider)))
	}

	switch provider {
	case ProviderAnthropic:
		return NewAnthropicCompleter(AnthropicConfig{
			APIKey:             apiKey,
			BaseURL:            cfg.BaseURL,
			MaxConcurrentCalls: cfg.MaxConcurrentCalls,
		})
	case ProviderGemini:
		return NewGeminiCompleter(ctx, GeminiConfig{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown completion provider %q (want %s or %s)",
			cfg.Provider, ProviderAnthropic, ProviderGemini)
	}
}

// Truncate cuts s to maxLen runes, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
