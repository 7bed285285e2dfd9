package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/types"
)

func newLead(name, company, notes string) *types.Lead {
	l := types.NewLead("test")
	l.Name = name
	l.Company = company
	l.Notes = notes
	return l
}

func TestHeuristicEnricher(t *testing.T) {
	tests := []struct {
		name        string
		company     string
		notes       string
		validTags   []string
		wantTags    []string
		wantSummary string
	}{
		{
			name:        "seo audit",
			company:     "Acme",
			notes:       "needs seo audit",
			wantTags:    []string{"seo"},
			wantSummary: "Acme: Needs SEO services.",
		},
		{
			name:        "no keywords falls back",
			company:     "",
			notes:       "just saying hi",
			wantTags:    []string{"web-design"},
			wantSummary: "Prospect: General web project inquiry.",
		},
		{
			name:        "shared tag deduplicated, descriptions kept",
			company:     "Shop Co",
			notes:       "Ecommerce store on Shopify",
			wantTags:    []string{"ecommerce"},
			wantSummary: "Shop Co: E-commerce business. Shopify-related needs.",
		},
		{
			name:        "summary keeps first three descriptions",
			company:     "Big",
			notes:       "seo website rebrand mobile",
			wantTags:    []string{"seo", "web-design", "marketing", "mobile"},
			wantSummary: "Big: Needs SEO services. Looking for web design. Interested in rebranding.",
		},
		{
			name:        "allow-list filters tags",
			company:     "Acme",
			notes:       "seo for our saas startup",
			validTags:   []string{"saas", "web-design"},
			wantTags:    []string{"saas"},
			wantSummary: "Acme: Needs SEO services. SaaS company. Startup venture.",
		},
		{
			name:        "allow-list can empty the tags",
			company:     "Acme",
			notes:       "seo",
			validTags:   []string{"fintech"},
			wantTags:    []string{},
			wantSummary: "Acme: Needs SEO services.",
		},
		{
			name:        "substring keywords match inside words",
			company:     "Sunrise",
			notes:       "Our paint company wants a website",
			wantTags:    []string{"web-design", "ai-ml"},
			wantSummary: "Sunrise: Looking for web design. AI/ML focused.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLead("Someone", tt.company, tt.notes)
			out := NewHeuristicEnricher(tt.validTags).Enrich(context.Background(), []*types.Lead{l})

			require.Len(t, out, 1)
			assert.Same(t, l, out[0])
			assert.Equal(t, tt.wantTags, l.Tags)
			assert.Equal(t, tt.wantSummary, l.Summary)
			assert.Equal(t, types.StatusEnriched, l.Status)
		})
	}
}

func TestHeuristicEnricher_TagCap(t *testing.T) {
	l := newLead("A", "B", "seo website rebrand mobile saas startup ecommerce fintech education agency enterprise")
	NewHeuristicEnricher(nil).Enrich(context.Background(), []*types.Lead{l})

	assert.Len(t, l.Tags, 5)
	assert.Equal(t, []string{"seo", "web-design", "marketing", "mobile", "saas"}, l.Tags)
}

func TestHeuristicEnricher_AllowListMembership(t *testing.T) {
	valid := []string{"seo", "healthcare", "mobile"}
	allowed := map[string]bool{"seo": true, "healthcare": true, "mobile": true}
	notes := []string{
		"medical practice needs HIPAA patient portal and mobile app",
		"rebrand our agency",
		"",
		"fintech investor deck, seo",
	}
	leads := make([]*types.Lead, len(notes))
	for i, n := range notes {
		leads[i] = newLead(fmt.Sprintf("Lead %d", i), "", n)
	}

	NewHeuristicEnricher(valid).Enrich(context.Background(), leads)
	for _, l := range leads {
		assert.LessOrEqual(t, len(l.Tags), 5)
		for _, tag := range l.Tags {
			assert.True(t, allowed[tag], "tag %q not in allow-list", tag)
		}
	}
}

func TestHeuristicEnricher_Empty(t *testing.T) {
	out := NewHeuristicEnricher(nil).Enrich(context.Background(), nil)
	assert.Empty(t, out)
}

// scriptedCompleter returns replies in order and records prompts.
type scriptedCompleter struct {
	replies []string
	errs    []error
	prompts []string
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt, model string, maxTokens int) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	reply := ""
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	return reply, err
}

func noSleep(slept *[]time.Duration) ai.RetryConfig {
	cfg := ai.DefaultRetryConfig()
	cfg.Sleep = func(_ context.Context, d time.Duration) { *slept = append(*slept, d) }
	return cfg
}

func TestAIEnricher_AppliesPositionally(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"```json\n" + `[
		{"summary": "First.", "tags": ["seo", "bogus"]},
		{"summary": "Second.", "tags": ["saas"]}
	]` + "\n```"}}
	cfg := DefaultConfig()
	cfg.ValidTags = []string{"seo", "saas"}
	var slept []time.Duration
	e := NewAIEnricher(c, cfg, noSleep(&slept))

	a := newLead("Ann", "A Co", "seo please")
	b := newLead("Ben", "B Co", "saas app")
	out := e.Enrich(context.Background(), []*types.Lead{a, b})

	assert.Equal(t, []*types.Lead{a, b}, out)
	assert.Equal(t, "First.", a.Summary)
	assert.Equal(t, []string{"seo"}, a.Tags)
	assert.Equal(t, "Second.", b.Summary)
	assert.Equal(t, []string{"saas"}, b.Tags)
	assert.Equal(t, types.StatusEnriched, a.Status)
	assert.Equal(t, types.StatusEnriched, b.Status)
	assert.Empty(t, slept)

	require.Len(t, c.prompts, 1)
	p := c.prompts[0]
	assert.True(t, strings.HasPrefix(p, "Analyze these 2 leads and provide a JSON array"))
	assert.Contains(t, p, "from ONLY these options: saas, seo\n")
	assert.Contains(t, p, "Lead 1:\n  Name: Ann\n  Company: A Co\n  Notes: seo please\n\nLead 2:\n  Name: Ben")
}

func TestAIEnricher_PromptWithoutAllowList(t *testing.T) {
	c := &scriptedCompleter{replies: []string{`[{"summary": "x", "tags": ["anything"]}]`}}
	var slept []time.Duration
	l := newLead("Ann", "A", "n")
	NewAIEnricher(c, DefaultConfig(), noSleep(&slept)).Enrich(context.Background(), []*types.Lead{l})

	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "from ONLY these options: any relevant tags")
	assert.Equal(t, []string{"anything"}, l.Tags)
}

func TestAIEnricher_Batching(t *testing.T) {
	reply := func(n int) string {
		items := make([]string, n)
		for i := range items {
			items[i] = `{"summary": "ok", "tags": []}`
		}
		return "[" + strings.Join(items, ",") + "]"
	}
	c := &scriptedCompleter{replies: []string{reply(2), reply(2), reply(1)}}
	cfg := DefaultConfig()
	cfg.BatchSize = 2
	var slept []time.Duration

	leads := make([]*types.Lead, 5)
	for i := range leads {
		leads[i] = newLead(fmt.Sprintf("L%d", i), "", "")
	}
	NewAIEnricher(c, cfg, noSleep(&slept)).Enrich(context.Background(), leads)

	assert.Len(t, c.prompts, 3)
	assert.Contains(t, c.prompts[2], "Analyze these 1 leads")
	assert.Equal(t, 5, types.CountByStatus(leads, types.StatusEnriched))
}

func TestAIEnricher_LengthMismatchLeavesBatchUnchanged(t *testing.T) {
	short := `[{"summary": "only one", "tags": ["seo"]}]`
	long := `[{"summary":"a","tags":[]},{"summary":"b","tags":[]},{"summary":"c","tags":[]}]`
	c := &scriptedCompleter{replies: []string{short, long, short}}
	var slept []time.Duration

	a := newLead("Ann", "", "")
	b := newLead("Ben", "", "")
	NewAIEnricher(c, DefaultConfig(), noSleep(&slept)).Enrich(context.Background(), []*types.Lead{a, b})

	assert.Len(t, c.prompts, 3)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
	for _, l := range []*types.Lead{a, b} {
		assert.Equal(t, types.StatusNew, l.Status)
		assert.Empty(t, l.Summary)
		assert.Empty(t, l.Tags)
	}
}

func TestAIEnricher_RecoversAfterFailures(t *testing.T) {
	c := &scriptedCompleter{
		replies: []string{"", "not json at all", `[{"summary": "ok", "tags": ["seo"]}]`},
		errs:    []error{errors.New("timeout"), nil, nil},
	}
	var slept []time.Duration
	l := newLead("Ann", "", "")
	NewAIEnricher(c, DefaultConfig(), noSleep(&slept)).Enrich(context.Background(), []*types.Lead{l})

	assert.Len(t, c.prompts, 3)
	assert.Equal(t, types.StatusEnriched, l.Status)
	assert.Equal(t, "ok", l.Summary)
}

func TestAIEnricher_NoCompleter(t *testing.T) {
	var slept []time.Duration
	l := newLead("Ann", "", "seo")
	out := NewAIEnricher(nil, DefaultConfig(), noSleep(&slept)).Enrich(context.Background(), []*types.Lead{l})

	assert.Equal(t, []*types.Lead{l}, out)
	assert.Equal(t, types.StatusNew, l.Status)
	assert.Empty(t, slept)
}

func TestAIEnricher_EmptyInput(t *testing.T) {
	c := &scriptedCompleter{}
	var slept []time.Duration
	out := NewAIEnricher(c, DefaultConfig(), noSleep(&slept)).Enrich(context.Background(), []*types.Lead{})
	assert.Empty(t, out)
	assert.Empty(t, c.prompts)
}

func TestNew(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MockMode = true
	e, err := New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &HeuristicEnricher{}, e)

	cfg.MockMode = false
	e, err = New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &AIEnricher{}, e)

	cfg.BatchSize = 0
	_, err = New(cfg, nil)
	assert.Error(t, err)
}
