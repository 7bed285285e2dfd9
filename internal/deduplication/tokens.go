package deduplication

import (
	"strings"

	"github.com/papacasper/leadflow-ai/internal/types"
)

// stopwords are honorific particles ignored when comparing names.
var stopwords = map[string]struct{}{
	"dr": {}, "dr.": {},
	"mr": {}, "mr.": {},
	"ms": {}, "ms.": {},
	"mrs": {}, "mrs.": {},
	"jr.": {}, "sr.": {},
}

// nameTokens returns the lowercased, whitespace-split name tokens of l with
// stopwords removed.
func nameTokens(l *types.Lead) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(l.Name))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, skip := stopwords[f]; skip {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// sharesNameToken is the prefilter: true iff a and b have at least one
// non-stopword name token in common.
func sharesNameToken(a, b *types.Lead) bool {
	ta, tb := nameTokens(a), nameTokens(b)
	if len(tb) < len(ta) {
		ta, tb = tb, ta
	}
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			return true
		}
	}
	return false
}

// overlapRatio is |A∩B| / max(|A|,|B|). Zero when either set is empty.
func overlapRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(a), len(b)))
}

// companyMatch compares only the first token of each company after removing
// periods. "Blue Ridge Design Co" matches "Blue Ridge Mktg" but
// "The Blue Ridge Co" does not.
func companyMatch(a, b string) bool {
	ca := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(a, ".", "")))
	cb := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(b, ".", "")))
	if ca == "" || cb == "" {
		return false
	}
	return strings.Fields(ca)[0] == strings.Fields(cb)[0]
}

// domainMatch reports whether both emails have the same non-empty domain.
func domainMatch(a, b string) bool {
	da, db := emailDomain(a), emailDomain(b)
	return da != "" && da == db
}

func emailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return ""
	}
	return email[i+1:]
}
