package enrichment

import (
	"context"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// AIEnricher enriches leads in batches via a completion model.
type AIEnricher struct {
	completer ai.Completer
	model     string
	batchSize int
	maxTokens int
	validTags tagSet
	retry     ai.RetryConfig
}

var _ Enricher = (*AIEnricher)(nil)

// NewAIEnricher creates a model-backed enricher. A nil completer leaves every
// batch unenriched.
func NewAIEnricher(completer ai.Completer, cfg Config, retry ai.RetryConfig) *AIEnricher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultConfig().BatchSize
	}
	return &AIEnricher{
		completer: completer,
		model:     cfg.Model,
		batchSize: batchSize,
		maxTokens: cfg.MaxTokens,
		validTags: newTagSet(cfg.ValidTags),
		retry:     retry,
	}
}

// Enrich processes leads in batches of the configured size. Leads in a
// batch that failed keep their previous status.
func (e *AIEnricher) Enrich(ctx context.Context, leads []*types.Lead) []*types.Lead {
	for batch := range slices.Chunk(leads, e.batchSize) {
		e.enrichBatch(ctx, batch)
	}
	return leads
}

func (e *AIEnricher) enrichBatch(ctx context.Context, batch []*types.Lead) {
	if e.completer == nil {
		log.Printf("[ENRICH] %v, skipping %d leads", ai.ErrNoCompleter, len(batch))
		return
	}

	prompt := e.buildPrompt(batch)
	var results []enrichment
	err := ai.Retry(ctx, e.retry, "enrichment", func(ctx context.Context, attempt int) error {
		reply, err := e.completer.Complete(ctx, prompt, e.model, e.maxTokens)
		if err != nil {
			return err
		}
		parsed, err := parseResponse(reply)
		if err != nil {
			return err
		}
		if len(parsed) != len(batch) {
			return fmt.Errorf("enrichment returned %d results for %d leads", len(parsed), len(batch))
		}
		results = parsed
		return nil
	})
	if err != nil {
		log.Printf("[ENRICH] Batch of %d left un-enriched: %v", len(batch), err)
		return
	}

	for i, lead := range batch {
		lead.Summary = results[i].Summary
		lead.Tags = e.validTags.filter(results[i].Tags)
		if lead.Tags == nil {
			lead.Tags = []string{}
		}
		if err := lead.MarkEnriched(); err != nil {
			log.Printf("[ENRICH] warning: %s: %v", lead.Name, err)
		}
	}
}

func (e *AIEnricher) buildPrompt(batch []*types.Lead) string {
	blocks := make([]string, len(batch))
	for i, lead := range batch {
		blocks[i] = fmt.Sprintf("Lead %d:\n  Name: %s\n  Company: %s\n  Notes: %s",
			i+1, lead.Name, lead.Company, lead.Notes)
	}

	allowed := "any relevant tags"
	if len(e.validTags) > 0 {
		allowed = strings.Join(slices.Sorted(maps.Keys(e.validTags)), ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze these %d leads and provide a JSON array with one object per lead.\n", len(batch))
	sb.WriteString("Each object must have:\n")
	sb.WriteString("  - \"summary\": a 1-2 sentence business summary\n")
	fmt.Fprintf(&sb, "  - \"tags\": array of 1-5 tags from ONLY these options: %s\n\n", allowed)
	sb.WriteString("Respond with ONLY the JSON array, no other text.\n\n")
	sb.WriteString(strings.Join(blocks, "\n\n"))
	return sb.String()
}
