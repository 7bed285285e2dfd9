package destinations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/papacasper/leadflow-ai/internal/types"
)

// JSONConfig configures the local JSON file destination
type JSONConfig struct {
	Path string `yaml:"path"`
}

// JSON appends leads to a JSON array file, creating it on first write.
type JSON struct {
	cfg JSONConfig
	now func() time.Time
}

// NewJSON creates the file destination used in mock mode.
func NewJSON(cfg JSONConfig) *JSON {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Mock.Path
	}
	return &JSON{cfg: cfg, now: time.Now}
}

// Name implements pipeline.Destination.
func (*JSON) Name() string { return KindMock }

// Write appends leads to the file, keeping earlier runs' leads.
func (d *JSON) Write(_ context.Context, leads []*types.Lead) (int, error) {
	existing, err := ReadJSON(d.cfg.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, err
	}

	stampAll(leads, d.now)
	all := append(existing, leads...)

	if err := WriteJSON(d.cfg.Path, all); err != nil {
		return 0, err
	}
	log.Printf("[DEST] Wrote %d leads to %s (%d total)", len(leads), d.cfg.Path, len(all))
	return len(leads), nil
}

// ReadJSON loads a lead array file.
func ReadJSON(path string) ([]*types.Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var leads []*types.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return leads, nil
}

// WriteJSON writes leads as an indented JSON array, creating parent dirs.
func WriteJSON(path string, leads []*types.Lead) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if leads == nil {
		leads = []*types.Lead{}
	}
	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal leads: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
