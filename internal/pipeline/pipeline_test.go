package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papacasper/leadflow-ai/internal/deduplication"
	"github.com/papacasper/leadflow-ai/internal/enrichment"
	"github.com/papacasper/leadflow-ai/internal/types"
)

type fakeSource struct {
	leads []*types.Lead
	err   error
}

func (s *fakeSource) Name() string { return "fake" }
func (s *fakeSource) Fetch(context.Context) ([]*types.Lead, error) {
	return s.leads, s.err
}

type fakeDestination struct {
	written []*types.Lead
	runID   string
	err     error
}

func (d *fakeDestination) Name() string { return "fake-dest" }
func (d *fakeDestination) Write(ctx context.Context, leads []*types.Lead) (int, error) {
	d.runID = RunIDFromContext(ctx)
	if d.err != nil {
		return 0, d.err
	}
	d.written = append(d.written, leads...)
	return len(leads), nil
}

type fakeNotifier struct {
	calls int
	stats Stats
	ok    bool
}

func (n *fakeNotifier) Notify(_ context.Context, _ []*types.Lead, stats Stats) bool {
	n.calls++
	n.stats = stats
	return n.ok
}

func mk(name, email, phone, company, notes string) *types.Lead {
	l := types.NewLead("fake")
	l.Name, l.Email, l.Phone, l.Company, l.Notes = name, email, phone, company, notes
	return l
}

func sampleLeads() []*types.Lead {
	return []*types.Lead{
		mk("Sarah Chen", "sarah@x.com", "555-123-4567", "Blue Ridge", "needs seo audit"),
		mk("sarah chen", "SARAH@x.com ", "5551234567", "Blue Ridge", "seo"),
		mk("Tom Baker", "tom@baker.co", "", "Baker Bakes", "shopify store"),
	}
}

func mockStages(t *testing.T) (*deduplication.Deduplicator, enrichment.Enricher) {
	t.Helper()
	dcfg := deduplication.DefaultConfig()
	dcfg.MockMode = true
	d, err := deduplication.New(dcfg, nil)
	require.NoError(t, err)
	ecfg := enrichment.DefaultConfig()
	ecfg.MockMode = true
	e, err := enrichment.New(ecfg, nil)
	require.NoError(t, err)
	return d, e
}

func TestPipeline_Run(t *testing.T) {
	d, e := mockStages(t)
	dest := &fakeDestination{}
	notifier := &fakeNotifier{ok: true}
	src := &fakeSource{leads: sampleLeads()}

	p, err := New(src, d, e, dest, notifier, Options{})
	require.NoError(t, err)

	stats := p.Run(context.Background(), nil)
	require.NoError(t, stats.Validate())
	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 3, stats.Normalized)
	assert.Equal(t, 2, stats.Unique)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 2, stats.Enriched)
	assert.Equal(t, 2, stats.Written)
	assert.True(t, stats.Notified)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, 2, notifier.stats.Written)

	require.Len(t, dest.written, 2)
	assert.Equal(t, stats.RunID, dest.runID)
	assert.Equal(t, "sarah@x.com", dest.written[0].Email)
	assert.Contains(t, dest.written[0].Tags, "seo")

	// Normalization copies; source leads are untouched.
	assert.Equal(t, "sarah chen", src.leads[1].Name)
	assert.Equal(t, types.StatusNew, src.leads[1].Status)
}

func TestPipeline_DryRun(t *testing.T) {
	d, e := mockStages(t)
	p, err := New(&fakeSource{leads: sampleLeads()}, d, e, nil, nil, Options{DryRun: true})
	require.NoError(t, err)

	stats := p.Run(context.Background(), nil)
	assert.Equal(t, 2, stats.Enriched)
	assert.Zero(t, stats.Written)
	assert.False(t, stats.Notified)
}

func TestPipeline_EmptyAndFailedFetch(t *testing.T) {
	d, e := mockStages(t)
	for _, src := range []*fakeSource{{}, {err: errors.New("sheet unavailable")}} {
		dest := &fakeDestination{}
		notifier := &fakeNotifier{ok: true}
		p, err := New(src, d, e, dest, notifier, Options{})
		require.NoError(t, err)

		stats := p.Run(context.Background(), nil)
		assert.Zero(t, stats.Fetched)
		assert.Zero(t, stats.Written)
		assert.Zero(t, notifier.calls)
	}
}

func TestPipeline_AllDuplicates(t *testing.T) {
	d, e := mockStages(t)
	existing := []*types.Lead{mk("Tom Baker", "tom@baker.co", "", "", "")}
	notifier := &fakeNotifier{ok: true}
	p, err := New(&fakeSource{leads: []*types.Lead{mk("Tom Baker", "tom@baker.co", "", "", "")}},
		d, e, &fakeDestination{}, notifier, Options{})
	require.NoError(t, err)

	stats := p.Run(context.Background(), existing)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Zero(t, stats.Unique)
	assert.Zero(t, notifier.calls)
}

func TestPipeline_WriteFailure(t *testing.T) {
	d, e := mockStages(t)
	notifier := &fakeNotifier{ok: false}
	p, err := New(&fakeSource{leads: sampleLeads()}, d, e,
		&fakeDestination{err: errors.New("disk full")}, notifier, Options{})
	require.NoError(t, err)

	stats := p.Run(context.Background(), nil)
	assert.Zero(t, stats.Written)
	assert.Equal(t, 1, notifier.calls)
	assert.False(t, stats.Notified)
}

func TestNew_Validation(t *testing.T) {
	d, e := mockStages(t)
	src := &fakeSource{}
	_, err := New(nil, d, e, nil, nil, Options{DryRun: true})
	assert.Error(t, err)
	_, err = New(src, nil, e, nil, nil, Options{DryRun: true})
	assert.Error(t, err)
	_, err = New(src, d, nil, nil, nil, Options{DryRun: true})
	assert.Error(t, err)
	_, err = New(src, d, e, nil, nil, Options{})
	assert.Error(t, err)
}

func TestRunIDFromContext(t *testing.T) {
	assert.Empty(t, RunIDFromContext(context.Background()))
	assert.Equal(t, "r-1", RunIDFromContext(WithRunID(context.Background(), "r-1")))
}

func TestStats_Fields(t *testing.T) {
	s := Stats{Fetched: 12, Normalized: 12, Unique: 10, Duplicates: 2, Enriched: 10,
		Written: 10, Notified: true, Duration: 1234567 * time.Microsecond}

	fields := s.Fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	assert.Equal(t, []string{"fetched", "normalized", "unique", "duplicates", "enriched",
		"written", "notified", "duration_seconds"}, keys)
	assert.Equal(t, 1.23, s.DurationSeconds())
	assert.Equal(t, "fetched: 12 | normalized: 12 | unique: 10 | duplicates: 2 | enriched: 10 | "+
		"written: 10 | notified: true | duration_seconds: 1.23", s.String())
	assert.NoError(t, s.Validate())

	s.Unique = 11
	assert.Error(t, s.Validate())
}
