package types

import (
	"fmt"
	"strings"
)

// UnknownBackendError is returned by the source and destination factories
// when a configuration key does not name a known backend.
type UnknownBackendError struct {
	Role      string // "source" or "destination"
	Key       string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	available := strings.Join(e.Available, ", ")
	if available == "" {
		available = "(none)"
	}
	return fmt.Sprintf("unknown %s %q. Available %ss: %s", e.Role, e.Key, e.Role, available)
}
