package destinations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/papacasper/leadflow-ai/internal/types"
)

// XLSXConfig configures the master spreadsheet destination
type XLSXConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

// MasterHeaders are the master sheet columns, in order.
var MasterHeaders = []string{
	"name", "email", "phone", "company", "source", "notes",
	"summary", "tags", "status", "ingested_at",
}

// XLSX appends leads to a master spreadsheet. The header row is written
// when the sheet is empty.
type XLSX struct {
	cfg XLSXConfig
	now func() time.Time
}

// NewXLSX creates the master sheet destination.
func NewXLSX(cfg XLSXConfig) *XLSX {
	def := DefaultConfig().XLSX
	if cfg.Path == "" {
		cfg.Path = def.Path
	}
	if cfg.Sheet == "" {
		cfg.Sheet = def.Sheet
	}
	return &XLSX{cfg: cfg, now: time.Now}
}

// Name implements pipeline.Destination.
func (*XLSX) Name() string { return KindXLSX }

// Write appends one row per lead after the last used row.
func (d *XLSX) Write(_ context.Context, leads []*types.Lead) (int, error) {
	f, err := d.open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := f.GetRows(d.cfg.Sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to get rows: %w", err)
	}
	next := len(rows) + 1
	if len(rows) == 0 {
		if err := setRow(f, d.cfg.Sheet, 1, MasterHeaders); err != nil {
			return 0, err
		}
		next = 2
	}

	stampAll(leads, d.now)
	for i, l := range leads {
		if err := setRow(f, d.cfg.Sheet, next+i, masterRow(l)); err != nil {
			return 0, err
		}
	}

	if err := f.SaveAs(d.cfg.Path); err != nil {
		return 0, fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	log.Printf("[DEST] Appended %d leads to %s (sheet %q)", len(leads), d.cfg.Path, d.cfg.Sheet)
	return len(leads), nil
}

func (d *XLSX) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(d.cfg.Path)
	switch {
	case err == nil:
		if idx, _ := f.GetSheetIndex(d.cfg.Sheet); idx < 0 {
			if _, err := f.NewSheet(d.cfg.Sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to create sheet: %w", err)
			}
		}
		return f, nil
	case errors.Is(err, os.ErrNotExist):
		if dir := filepath.Dir(d.cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}
		}
		f = excelize.NewFile()
		index, err := f.NewSheet(d.cfg.Sheet)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		f.SetActiveSheet(index)
		if d.cfg.Sheet != "Sheet1" {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to remove default sheet: %w", err)
			}
		}
		return f, nil
	default:
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
}

func masterRow(l *types.Lead) []string {
	return []string{
		l.Name, l.Email, l.Phone, l.Company, l.Source, l.Notes,
		l.Summary, strings.Join(l.Tags, ", "), string(l.Status), l.IngestedAt,
	}
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", cell, err)
		}
	}
	return nil
}
