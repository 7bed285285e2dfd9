// Package envconf parses typed configuration overrides from environment
// variables. An unset or empty variable leaves the destination untouched.
package envconf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Float parses a float64 from an environment variable
func Float(key string, dest *float64) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// Int parses an int from an environment variable
func Int(key string, dest *int) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// Bool parses a bool from an environment variable
func Bool(key string, dest *bool) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// String copies a trimmed, non-empty environment variable into dest.
func String(key string, dest *string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*dest = value
	}
}

// List parses a comma-separated list, dropping empty items.
func List(key string, dest *[]string) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dest = out
}
