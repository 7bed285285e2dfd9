// Package deduplication detects duplicate leads before they reach a sink.
//
// # Overview
//
// Deduplication runs in two stages per incoming lead, strictly in input
// order:
//
//  1. Exact stage: the lead's dedup key (hash of normalized email + phone) is
//     looked up in a key set seeded from the existing leads. Leads with
//     neither email nor phone have no key and never match here.
//  2. Fuzzy stage: the lead is compared against every existing lead, then
//     against every lead already accepted as unique in this call. A cheap
//     shared-name-token prefilter gates each comparison; only candidates
//     that share a non-honorific name token reach the Matcher.
//
// The first candidate the Matcher accepts wins. There is no ranking, so of
// two near-duplicates the one seen later is the one marked duplicate.
//
// # Matchers
//
// HeuristicMatcher compares name-token overlap plus company or email domain
// and never leaves the process. AIMatcher asks a completion model whether
// the two leads are the same person.
//
// # Fail-open
//
// AIMatcher retries up to three attempts with 1s/2s backoff. When every
// attempt fails, or no completer is configured, it reports "not a match".
// A retained duplicate is recoverable; a lead wrongly dropped is not.
//
// # Configuration
//
// See DefaultConfig() and ConfigFromEnv() for defaults and the
// LEADFLOW_DEDUP_* environment overrides.
package deduplication
