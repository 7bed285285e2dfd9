package pipeline

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Stats records per-stage counts for one pipeline run.
type Stats struct {
	RunID      string
	Fetched    int
	Normalized int
	Unique     int
	Duplicates int
	Enriched   int
	Written    int
	Notified   bool
	Duration   time.Duration
}

// StatField is one key/value pair of Stats in reporting order.
type StatField struct {
	Key   string
	Value any
}

// Fields renders s in a fixed order for notifiers and logs. Duration is
// reported as duration_seconds rounded to two places.
func (s Stats) Fields() []StatField {
	return []StatField{
		{"fetched", s.Fetched},
		{"normalized", s.Normalized},
		{"unique", s.Unique},
		{"duplicates", s.Duplicates},
		{"enriched", s.Enriched},
		{"written", s.Written},
		{"notified", s.Notified},
		{"duration_seconds", s.DurationSeconds()},
	}
}

// DurationSeconds returns the run duration in seconds, rounded to 2 places.
func (s Stats) DurationSeconds() float64 {
	return math.Round(s.Duration.Seconds()*100) / 100
}

// String joins Fields as "k: v | k: v".
func (s Stats) String() string {
	fields := s.Fields()
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %v", f.Key, f.Value)
	}
	return strings.Join(parts, " | ")
}

// Validate checks that the counts are consistent with each other
func (s Stats) Validate() error {
	if s.Normalized > s.Fetched {
		return fmt.Errorf("normalized (%d) exceeds fetched (%d)", s.Normalized, s.Fetched)
	}
	if s.Unique+s.Duplicates != s.Normalized {
		return fmt.Errorf("unique (%d) + duplicates (%d) != normalized (%d)",
			s.Unique, s.Duplicates, s.Normalized)
	}
	if s.Enriched > s.Unique {
		return fmt.Errorf("enriched (%d) exceeds unique (%d)", s.Enriched, s.Unique)
	}
	return nil
}
