package sources

import (
	"context"

	"github.com/papacasper/leadflow-ai/internal/types"
)

// Mock serves a fixed set of twelve messy leads, including two duplicate
// pairs, for demos and tests.
type Mock struct{}

// NewMock creates the fixture source.
func NewMock() *Mock { return &Mock{} }

// Name implements pipeline.Source.
func (*Mock) Name() string { return KindMock }

// Fetch returns fresh copies of the fixture leads on every call.
func (*Mock) Fetch(context.Context) ([]*types.Lead, error) {
	return FixtureLeads(), nil
}

// FixtureLeads returns the fixture leads. Lead 2 duplicates lead 1 and lead
// 4 duplicates lead 3.
func FixtureLeads() []*types.Lead {
	rows := []map[string]string{
		{
			"name":    "Sarah Chen",
			"email":   "sarah@blueridgedesign.com",
			"phone":   "(555) 123-4567",
			"company": "Blue Ridge Design Co",
			"notes":   "Needs new website, SEO audit, complete rebrand",
		},
		{
			"name":    "sarah chen",
			"email":   "sarah@blueridgedesign.com",
			"phone":   "5551234567",
			"company": "Blue Ridge Mktg",
			"notes":   "Referred by Jake, wants seo help",
		},
		{
			"name":    "  marcus JOHNSON  ",
			"email":   "MARCUS.J@FRESHBYTE.IO",
			"phone":   "+1-555-987-6543",
			"company": "FreshByte Technologies",
			"notes":   "SaaS startup, Series A, needs landing pages and conversion optimization",
		},
		{
			"name":    "Marcus Johnson",
			"email":   "m.johnson@freshbyte.io",
			"phone":   "+15559876543",
			"company": "Freshbyte Tech",
			"notes":   "met at SaaStr conference, interested in website redesign",
		},
		{
			"name":    "Aisha Patel",
			"email":   "aisha.p@greenleaf.org",
			"phone":   "",
			"company": "GreenLeaf Foundation",
			"notes":   "Non-profit, needs donation page and email campaign setup",
		},
		{
			"name":    "robert  o'brien",
			"email":   "ROB@OBRIEN-LAW.COM  ",
			"phone":   "555.222.3333",
			"company": "O'Brien & Associates Law",
			"notes":   "law firm, wants new website, mobile friendly, appointment booking",
		},
		{
			"name":    "Li Wei",
			"email":   "liwei88@gmail.com",
			"phone":   "",
			"company": "",
			"notes":   "ecommerce store, Shopify migration, product photography needs",
		},
		{
			"name":    "Dr. Emily Nakamura",
			"email":   "enakamura@valleyhealth.com",
			"phone":   "(555) 444-5555",
			"company": "Valley Health Partners",
			"notes":   "Medical practice, HIPAA compliant website, patient portal integration",
		},
		{
			"name":    "JAMES WRIGHT",
			"email":   "jwright@paystream.co",
			"phone":   "555-333-4444",
			"company": "PayStream Financial",
			"notes":   "fintech startup, mobile app landing page, investor deck design",
		},
		{
			"name":    "priya sharma  ",
			"email":   "  PRIYA@LEARNHUB.EDU",
			"phone":   "+1 (555) 666-7777",
			"company": "LearnHub Academy",
			"notes":   "online education platform, needs LMS integration and course landing pages",
		},
		{
			"name":    "Tom Baker",
			"email":   "tom@bakerdigital.agency",
			"phone":   "5558889999",
			"company": "Baker Digital Agency",
			"notes":   "white-label partnership, overflow web design and development work",
		},
		{
			"name":    "Yuki Tanaka",
			"email":   "yuki@neuralpath.ai",
			"phone":   "(555) 111-0000",
			"company": "NeuralPath AI",
			"notes":   "AI startup, needs product demo website, API docs site, technical blog",
		},
	}

	leads := make([]*types.Lead, len(rows))
	for i, row := range rows {
		raw := make(map[string]any, len(row))
		for k, v := range row {
			raw[k] = v
		}
		leads[i] = leadFromFields(KindMock, row, raw)
	}
	return leads
}
