package enrichment

// rule maps a notes keyword to a tag and a summary sentence.
type rule struct {
	keyword     string
	tag         string
	description string
}

// rules are scanned in order; order decides summary sentence order and which
// tags survive the five-tag cap.
var rules = []rule{
	{"seo", "seo", "Needs SEO services"},
	{"website", "web-design", "Looking for web design"},
	{"rebrand", "marketing", "Interested in rebranding"},
	{"landing page", "marketing", "Needs landing pages"},
	{"mobile", "mobile", "Mobile-focused project"},
	{"app", "mobile", "App-related needs"},
	{"saas", "saas", "SaaS company"},
	{"startup", "startup", "Startup venture"},
	{"ecommerce", "ecommerce", "E-commerce business"},
	{"shopify", "ecommerce", "Shopify-related needs"},
	{"non-profit", "local-business", "Non-profit organization"},
	{"donation", "local-business", "Needs donation functionality"},
	{"law", "local-business", "Legal services business"},
	{"medical", "healthcare", "Healthcare/medical practice"},
	{"hipaa", "healthcare", "Requires HIPAA compliance"},
	{"patient", "healthcare", "Patient-facing needs"},
	{"fintech", "fintech", "Financial technology company"},
	{"investor", "fintech", "Investor-related needs"},
	{"education", "education", "Education sector"},
	{"course", "education", "Course/learning platform"},
	{"lms", "education", "LMS integration needed"},
	{"agency", "agency", "Agency partnership"},
	{"white-label", "agency", "White-label opportunity"},
	{"ai", "ai-ml", "AI/ML focused"},
	{"api", "ai-ml", "API/technical project"},
	{"enterprise", "enterprise", "Enterprise client"},
	{"conversion", "marketing", "Conversion optimization"},
}

const (
	fallbackTag         = "web-design"
	fallbackDescription = "General web project inquiry"
	maxTags             = 5
	maxSummaryParts     = 3
)
