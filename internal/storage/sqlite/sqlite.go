// Package sqlite implements storage.LeadStore on SQLite.
package sqlite

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/oklog/ulid/v2"

	"github.com/papacasper/leadflow-ai/internal/pipeline"
	"github.com/papacasper/leadflow-ai/internal/storage"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// Store implements storage.LeadStore using SQLite
type Store struct {
	db *sqlx.DB

	mu      sync.Mutex // guards entropy
	entropy *ulid.MonotonicEntropy

	now func() time.Time
}

var _ storage.LeadStore = (*Store)(nil)

// New opens (creating if needed) the ledger database at path.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type leadRow struct {
	ID         string `db:"id"`
	RunID      string `db:"run_id"`
	DedupKey   string `db:"dedup_key"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	Phone      string `db:"phone"`
	Company    string `db:"company"`
	Source     string `db:"source"`
	Notes      string `db:"notes"`
	Summary    string `db:"summary"`
	Tags       string `db:"tags"`
	Status     string `db:"status"`
	IngestedAt string `db:"ingested_at"`
	RawData    string `db:"raw_data"`
	CreatedAt  string `db:"created_at"`
}

func (s *Store) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func toRow(id, runID, createdAt string, l *types.Lead) (leadRow, error) {
	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return leadRow{}, fmt.Errorf("failed to marshal tags: %w", err)
	}
	raw := l.RawData
	if raw == nil {
		raw = map[string]any{}
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return leadRow{}, fmt.Errorf("failed to marshal raw_data: %w", err)
	}
	key, _ := l.DedupKey()
	status := l.Status
	if status == "" {
		status = types.StatusNew
	}
	return leadRow{
		ID:         id,
		RunID:      runID,
		DedupKey:   key,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Company:    l.Company,
		Source:     l.Source,
		Notes:      l.Notes,
		Summary:    l.Summary,
		Tags:       string(tagsJSON),
		Status:     string(status),
		IngestedAt: l.IngestedAt,
		RawData:    string(rawJSON),
		CreatedAt:  createdAt,
	}, nil
}

func (r leadRow) toLead() (*types.Lead, error) {
	l := &types.Lead{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Company:    r.Company,
		Source:     r.Source,
		Notes:      r.Notes,
		Summary:    r.Summary,
		Status:     types.Status(r.Status),
		IngestedAt: r.IngestedAt,
	}
	if err := json.Unmarshal([]byte(r.Tags), &l.Tags); err != nil {
		return nil, fmt.Errorf("lead %s: failed to parse tags: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.RawData), &l.RawData); err != nil {
		return nil, fmt.Errorf("lead %s: failed to parse raw_data: %w", r.ID, err)
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	return l, nil
}

const insertLead = `
INSERT INTO leads (id, run_id, dedup_key, name, email, phone, company, source, notes,
	summary, tags, status, ingested_at, raw_data, created_at)
VALUES (:id, :run_id, :dedup_key, :name, :email, :phone, :company, :source, :notes,
	:summary, :tags, :status, :ingested_at, :raw_data, :created_at)`

// InsertLeads stores leads in one transaction.
func (s *Store) InsertLeads(ctx context.Context, runID string, leads []*types.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC()
	createdAt := now.Format(time.RFC3339Nano)
	for _, l := range leads {
		row, err := toRow(s.newID(now), runID, createdAt, l)
		if err != nil {
			return 0, err
		}
		if _, err := tx.NamedExecContext(ctx, insertLead, row); err != nil {
			return 0, fmt.Errorf("failed to insert lead %q: %w", l.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return len(leads), nil
}

// Leads returns every stored lead, oldest first.
func (s *Store) Leads(ctx context.Context) ([]*types.Lead, error) {
	var rows []leadRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM leads ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	out := make([]*types.Lead, 0, len(rows))
	for _, r := range rows {
		l, err := r.toLead()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Records returns stored leads with ledger metadata, newest first.
func (s *Store) Records(ctx context.Context, limit int) ([]storage.Record, error) {
	query := `SELECT * FROM leads ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []leadRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	out := make([]storage.Record, 0, len(rows))
	for _, r := range rows {
		l, err := r.toLead()
		if err != nil {
			return nil, err
		}
		out = append(out, storage.Record{ID: r.ID, RunID: r.RunID, CreatedAt: r.CreatedAt, Lead: l})
	}
	return out, nil
}

type runRow struct {
	RunID           string  `db:"run_id"`
	Fetched         int     `db:"fetched"`
	Normalized      int     `db:"normalized"`
	Unique          int     `db:"unique_count"`
	Duplicates      int     `db:"duplicates"`
	Enriched        int     `db:"enriched"`
	Written         int     `db:"written"`
	Notified        bool    `db:"notified"`
	DurationSeconds float64 `db:"duration_seconds"`
	CreatedAt       string  `db:"created_at"`
}

// RecordRun upserts the stats of a run keyed by its run ID.
func (s *Store) RecordRun(ctx context.Context, st pipeline.Stats) error {
	if st.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	row := runRow{
		RunID:           st.RunID,
		Fetched:         st.Fetched,
		Normalized:      st.Normalized,
		Unique:          st.Unique,
		Duplicates:      st.Duplicates,
		Enriched:        st.Enriched,
		Written:         st.Written,
		Notified:        st.Notified,
		DurationSeconds: st.DurationSeconds(),
		CreatedAt:       s.now().UTC().Format(time.RFC3339Nano),
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO runs (run_id, fetched, normalized, unique_count, duplicates, enriched,
			written, notified, duration_seconds, created_at)
		VALUES (:run_id, :fetched, :normalized, :unique_count, :duplicates, :enriched,
			:written, :notified, :duration_seconds, :created_at)
		ON CONFLICT(run_id) DO UPDATE SET
			fetched = excluded.fetched,
			normalized = excluded.normalized,
			unique_count = excluded.unique_count,
			duplicates = excluded.duplicates,
			enriched = excluded.enriched,
			written = excluded.written,
			notified = excluded.notified,
			duration_seconds = excluded.duration_seconds`, row)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", st.RunID, err)
	}
	return nil
}

// Runs returns recorded runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]pipeline.Stats, error) {
	query := `SELECT * FROM runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	out := make([]pipeline.Stats, len(rows))
	for i, r := range rows {
		out[i] = pipeline.Stats{
			RunID:      r.RunID,
			Fetched:    r.Fetched,
			Normalized: r.Normalized,
			Unique:     r.Unique,
			Duplicates: r.Duplicates,
			Enriched:   r.Enriched,
			Written:    r.Written,
			Notified:   r.Notified,
			Duration:   time.Duration(r.DurationSeconds * float64(time.Second)),
		}
	}
	return out, nil
}
