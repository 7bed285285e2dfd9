package types

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// Lead is a single prospect record as it moves through the pipeline.
// Stages mutate it in place; Status only ever moves forward (see Transition).
type Lead struct {
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Company    string         `json:"company"`
	Source     string         `json:"source"`
	Notes      string         `json:"notes"`
	Summary    string         `json:"summary"`
	Tags       []string       `json:"tags"`
	Status     Status         `json:"status"`
	IngestedAt string         `json:"ingested_at"`
	RawData    map[string]any `json:"raw_data"`
}

// Status represents where a lead is in its lifecycle
type Status string

const (
	StatusNew       Status = "new"
	StatusDuplicate Status = "duplicate"
	StatusEnriched  Status = "enriched"
)

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusDuplicate, StatusEnriched:
		return true
	}
	return false
}

// ErrInvalidTransition is returned when a status change would move a lead
// backwards or sideways (e.g. duplicate -> enriched).
var ErrInvalidTransition = errors.New("invalid status transition")

// NewLead returns a lead in the new state with empty tags and raw data.
func NewLead(source string) *Lead {
	return &Lead{
		Source:  source,
		Tags:    []string{},
		Status:  StatusNew,
		RawData: map[string]any{},
	}
}

// Transition moves the lead to the given status.
// Allowed: new -> duplicate, new -> enriched. Re-entering the current status
// is a no-op. A zero Status is treated as new.
func (l *Lead) Transition(to Status) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	from := l.Status
	if from == "" {
		from = StatusNew
	}
	if from == to {
		l.Status = to
		return nil
	}
	if from != StatusNew || to == StatusNew {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	l.Status = to
	return nil
}

// MarkDuplicate transitions the lead to duplicate.
func (l *Lead) MarkDuplicate() error {
	return l.Transition(StatusDuplicate)
}

// MarkEnriched transitions the lead to enriched.
func (l *Lead) MarkEnriched() error {
	return l.Transition(StatusEnriched)
}

// DedupKey returns the exact-match key: an MD5 hex digest of the lowercased,
// trimmed email and the trimmed phone. ok is false when both are empty; such
// leads never match on the exact stage.
func (l *Lead) DedupKey() (key string, ok bool) {
	email := strings.ToLower(strings.TrimSpace(l.Email))
	phone := strings.TrimSpace(l.Phone)
	if email == "" && phone == "" {
		return "", false
	}
	sum := md5.Sum([]byte(email + "|" + phone))
	return hex.EncodeToString(sum[:]), true
}

// StampIngested records the handoff time to a sink.
func (l *Lead) StampIngested(now time.Time) {
	l.IngestedAt = now.UTC().Format(time.RFC3339Nano)
}

// Clone returns a deep copy; tags and raw data are not shared.
func (l *Lead) Clone() *Lead {
	out := *l
	if l.Tags != nil {
		out.Tags = append([]string(nil), l.Tags...)
	}
	if l.RawData != nil {
		out.RawData = maps.Clone(l.RawData)
	}
	return &out
}

// Validate checks if the lead has valid field values
func (l *Lead) Validate() error {
	if l.Status != "" && !l.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", l.Status)
	}
	return nil
}

// CountByStatus returns how many leads are in the given status.
func CountByStatus(leads []*Lead, status Status) int {
	n := 0
	for _, l := range leads {
		if l.Status == status {
			n++
		}
	}
	return n
}
