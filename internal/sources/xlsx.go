package sources

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/papacasper/leadflow-ai/internal/types"
)

// XLSXConfig configures the spreadsheet source
type XLSXConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"` // default: first sheet
}

// XLSX reads leads from a local spreadsheet whose first row holds the column
// names (name, email, phone, company, notes; case-insensitive). Other
// columns are kept in raw_data.
type XLSX struct {
	cfg XLSXConfig
}

// NewXLSX creates a spreadsheet source.
func NewXLSX(cfg XLSXConfig) *XLSX {
	return &XLSX{cfg: cfg}
}

// Name implements pipeline.Source.
func (*XLSX) Name() string { return KindXLSX }

// Fetch reads every data row. Blank rows are skipped.
func (s *XLSX) Fetch(context.Context) ([]*types.Lead, error) {
	if s.cfg.Path == "" {
		return nil, fmt.Errorf("xlsx source: path is not set")
	}
	f, err := excelize.OpenFile(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := s.cfg.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in %s", s.cfg.Path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var leads []*types.Lead
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(headers))
		raw := make(map[string]any, len(headers))
		blank := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}
			if strings.TrimSpace(value) != "" {
				blank = false
			}
			fields[h] = value
			raw[h] = value
		}
		if blank {
			continue
		}
		leads = append(leads, leadFromFields(KindXLSX, fields, raw))
	}

	log.Printf("[SOURCE] Fetched %d leads from %s (sheet %q)", len(leads), s.cfg.Path, sheet)
	return leads, nil
}
