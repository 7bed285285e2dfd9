package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/papacasper/leadflow-ai/internal/types"
)

// SyntheticConfig configures generated leads
type SyntheticConfig struct {
	Count         int     `yaml:"count"`          // leads per fetch
	Seed          int64   `yaml:"seed"`           // 0 = random
	DuplicateRate float64 `yaml:"duplicate_rate"` // chance a lead is a messy copy of an earlier one
}

// needs are note fragments that exercise the enrichment keyword table.
var needs = []string{
	"needs a new website",
	"SEO audit and local search",
	"complete rebrand",
	"landing page for a product launch",
	"mobile app MVP",
	"SaaS dashboard redesign",
	"startup pitch site",
	"ecommerce store on Shopify",
	"non-profit donation page",
	"law office site refresh",
	"medical practice with HIPAA patient portal",
	"fintech onboarding flow, investor updates",
	"online course platform with LMS",
	"white-label agency overflow work",
	"API documentation portal",
	"enterprise intranet",
	"conversion optimization",
	"just exploring options",
}

// Synthetic generates fake leads with gofakeit. A DuplicateRate share of
// them are messy copies of earlier leads.
type Synthetic struct {
	cfg SyntheticConfig
}

// NewSynthetic creates a generated source.
func NewSynthetic(cfg SyntheticConfig) *Synthetic {
	if cfg.Count <= 0 {
		cfg.Count = DefaultConfig().Synthetic.Count
	}
	return &Synthetic{cfg: cfg}
}

// Name implements pipeline.Source.
func (*Synthetic) Name() string { return KindSynthetic }

// Fetch generates cfg.Count leads. The same non-zero seed yields the same
// leads.
func (s *Synthetic) Fetch(context.Context) ([]*types.Lead, error) {
	return GenerateLeads(s.cfg), nil
}

// GenerateLeads produces cfg.Count synthetic leads.
func GenerateLeads(cfg SyntheticConfig) []*types.Lead {
	faker := gofakeit.New(cfg.Seed)
	leads := make([]*types.Lead, 0, cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		if i > 0 && faker.Float64() < cfg.DuplicateRate {
			leads = append(leads, messyCopy(faker, leads[faker.Number(0, len(leads)-1)]))
			continue
		}

		l := types.NewLead(KindSynthetic)
		first, last := faker.FirstName(), faker.LastName()
		company := faker.Company()
		l.Name = first + " " + last
		l.Email = strings.ToLower(first) + "@" + faker.DomainName()
		l.Phone = faker.Phone()
		l.Company = company
		l.Notes = fmt.Sprintf("%s, %s", faker.RandomString(needs), faker.RandomString(needs))
		l.RawData = map[string]any{"generator": "gofakeit", "index": i}
		leads = append(leads, l)
	}
	return leads
}

// messyCopy returns a copy of orig with the formatting noise real duplicates
// carry: shouted or lowercased names, padded emails, reformatted phones.
func messyCopy(faker *gofakeit.Faker, orig *types.Lead) *types.Lead {
	l := orig.Clone()
	if faker.Bool() {
		l.Name = strings.ToUpper(l.Name)
	} else {
		l.Name = "  " + strings.ToLower(l.Name) + " "
	}
	l.Email = " " + strings.ToUpper(l.Email)
	if len(l.Phone) == 10 {
		l.Phone = fmt.Sprintf("(%s) %s-%s", l.Phone[:3], l.Phone[3:6], l.Phone[6:])
	}
	l.Notes = faker.RandomString(needs)
	l.RawData = map[string]any{"generator": "gofakeit", "copy_of": orig.Name}
	return l
}
