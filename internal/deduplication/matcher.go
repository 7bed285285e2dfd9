package deduplication

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// Matcher decides whether two leads denote the same person.
// Implementations must not mutate either lead.
type Matcher interface {
	Match(ctx context.Context, a, b *types.Lead) bool
}

// HeuristicMatcher matches on name-token overlap plus company or email
// domain. It makes no external calls.
type HeuristicMatcher struct {
	Threshold float64
}

var _ Matcher = HeuristicMatcher{}

// Match returns true iff overlap >= Threshold and either the companies'
// first tokens or the email domains agree.
func (m HeuristicMatcher) Match(_ context.Context, a, b *types.Lead) bool {
	ta, tb := nameTokens(a), nameTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}
	if overlapRatio(ta, tb) < m.Threshold {
		return false
	}
	return companyMatch(a.Company, b.Company) || domainMatch(a.Email, b.Email)
}

// AIMatcher asks a completion model whether two leads are the same person.
type AIMatcher struct {
	completer ai.Completer
	model     string
	maxTokens int
	retry     ai.RetryConfig
}

var _ Matcher = (*AIMatcher)(nil)

// NewAIMatcher creates a model-backed matcher. completer may be nil, in which
// case every comparison returns false.
func NewAIMatcher(completer ai.Completer, cfg Config, retry ai.RetryConfig) *AIMatcher {
	return &AIMatcher{
		completer: completer,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		retry:     retry,
	}
}

// Match returns true iff the model's reply contains SAME. Any failure after
// retries yields false so the lead is kept.
func (m *AIMatcher) Match(ctx context.Context, a, b *types.Lead) bool {
	if m.completer == nil {
		log.Printf("[DEDUP] %v, treating %q and %q as different", ai.ErrNoCompleter, a.Name, b.Name)
		return false
	}

	prompt := buildMatchPrompt(a, b)
	var same bool
	err := ai.Retry(ctx, m.retry, "fuzzy match", func(ctx context.Context, attempt int) error {
		reply, err := m.completer.Complete(ctx, prompt, m.model, m.maxTokens)
		if err != nil {
			return err
		}
		same = strings.Contains(strings.ToUpper(strings.TrimSpace(reply)), "SAME")
		return nil
	})
	if err != nil {
		log.Printf("[DEDUP] Fuzzy match %q vs %q failed, defaulting to DIFFERENT: %v", a.Name, b.Name, err)
		return false
	}
	return same
}

func buildMatchPrompt(a, b *types.Lead) string {
	return fmt.Sprintf("Are these two leads the same person? Reply ONLY 'SAME' or 'DIFFERENT'.\n\n"+
		"Lead A: %s, %s, %s, %s\n"+
		"Lead B: %s, %s, %s, %s",
		a.Name, a.Email, a.Phone, a.Company,
		b.Name, b.Email, b.Phone, b.Company)
}
