// Package normalize provides pure field-cleaning functions for leads.
// Nothing here mutates its argument.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/papacasper/leadflow-ai/internal/types"
)

// Email lowercases and trims.
func Email(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Name trims, collapses whitespace and capitalizes each token.
// Tokens longer than two characters that contain an apostrophe are
// capitalized on both sides of it ("o'brien" -> "O'Brien").
func Name(name string) string {
	parts := strings.Fields(name)
	for i, part := range parts {
		idx := strings.IndexRune(part, '\'')
		if idx >= 0 && utf8.RuneCountInString(part) > 2 {
			parts[i] = capitalize(part[:idx]) + "'" + capitalize(part[idx+1:])
			continue
		}
		parts[i] = capitalize(part)
	}
	return strings.Join(parts, " ")
}

// Phone keeps digits only, preserving a leading '+'.
func Phone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	hasPlus := strings.HasPrefix(phone, "+")
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if hasPlus {
		return "+" + digits
	}
	return digits
}

// Company trims and collapses internal whitespace.
func Company(company string) string {
	return strings.Join(strings.Fields(company), " ")
}

// Lead returns a normalized copy of lead. Notes are trimmed only.
func Lead(lead *types.Lead) *types.Lead {
	out := lead.Clone()
	out.Name = Name(lead.Name)
	out.Email = Email(lead.Email)
	out.Phone = Phone(lead.Phone)
	out.Company = Company(lead.Company)
	out.Notes = strings.TrimSpace(lead.Notes)
	return out
}

// Leads normalizes every lead, preserving order.
func Leads(leads []*types.Lead) []*types.Lead {
	out := make([]*types.Lead, 0, len(leads))
	for _, l := range leads {
		out = append(out, Lead(l))
	}
	return out
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
