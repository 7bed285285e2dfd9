package enrichment

import (
	"context"
	"log"
	"slices"
	"strings"

	"github.com/papacasper/leadflow-ai/internal/types"
)

// HeuristicEnricher tags leads by keyword matches in their notes.
type HeuristicEnricher struct {
	validTags tagSet
}

var _ Enricher = (*HeuristicEnricher)(nil)

// NewHeuristicEnricher creates a keyword enricher. validTags may be empty.
func NewHeuristicEnricher(validTags []string) *HeuristicEnricher {
	return &HeuristicEnricher{validTags: newTagSet(validTags)}
}

// Enrich tags and summarizes every lead and marks it enriched.
func (e *HeuristicEnricher) Enrich(_ context.Context, leads []*types.Lead) []*types.Lead {
	for _, lead := range leads {
		e.enrichOne(lead)
	}
	return leads
}

func (e *HeuristicEnricher) enrichOne(lead *types.Lead) {
	notes := strings.ToLower(lead.Notes)

	var tags, parts []string
	for _, r := range rules {
		if !strings.Contains(notes, r.keyword) {
			continue
		}
		if !slices.Contains(tags, r.tag) {
			tags = append(tags, r.tag)
		}
		if !slices.Contains(parts, r.description) {
			parts = append(parts, r.description)
		}
	}
	if len(tags) == 0 {
		tags = []string{fallbackTag}
		parts = []string{fallbackDescription}
	}

	tags = e.validTags.filter(tags)
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	if len(parts) > maxSummaryParts {
		parts = parts[:maxSummaryParts]
	}

	company := lead.Company
	if company == "" {
		company = "Prospect"
	}

	lead.Tags = tags
	lead.Summary = company + ": " + strings.Join(parts, ". ") + "."
	if err := lead.MarkEnriched(); err != nil {
		log.Printf("[ENRICH] warning: %s: %v", lead.Name, err)
	}
}
