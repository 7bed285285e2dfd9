package sources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/papacasper/leadflow-ai/internal/normalize"
	"github.com/papacasper/leadflow-ai/internal/notion"
	"github.com/papacasper/leadflow-ai/internal/storage/sqlite"
	"github.com/papacasper/leadflow-ai/internal/types"
)

func TestNew(t *testing.T) {
	for _, kind := range Available() {
		src, err := New(kind, DefaultConfig())
		require.NoError(t, err, kind)
		assert.Equal(t, kind, src.Name())
	}

	_, err := New("salesforce", DefaultConfig())
	var unknown *types.UnknownBackendError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "source", unknown.Role)
	assert.Equal(t, `unknown source "salesforce". Available sources: mock, notion, sqlite, synthetic, xlsx`, err.Error())
}

func TestMock_Fixtures(t *testing.T) {
	leads, err := NewMock().Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 12)

	for _, l := range leads {
		assert.Equal(t, "mock", l.Source)
		assert.Equal(t, types.StatusNew, l.Status)
		assert.Equal(t, l.Name, l.RawData["name"])
	}

	// Normalized, the first pair shares an exact key; the second pair does not.
	n := normalize.Leads(leads)
	k0, _ := n[0].DedupKey()
	k1, _ := n[1].DedupKey()
	k2, _ := n[2].DedupKey()
	k3, _ := n[3].DedupKey()
	assert.Equal(t, k0, k1)
	assert.NotEqual(t, k2, k3)

	// Each fetch returns independent copies.
	again, _ := NewMock().Fetch(context.Background())
	again[0].Name = "changed"
	assert.Equal(t, "Sarah Chen", leads[0].Name)
}

func TestSynthetic_Deterministic(t *testing.T) {
	cfg := SyntheticConfig{Count: 30, Seed: 7, DuplicateRate: 0.3}
	a := GenerateLeads(cfg)
	b := GenerateLeads(cfg)
	require.Len(t, a, 30)
	require.Len(t, b, 30)
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Email, b[i].Email)
		assert.Equal(t, "synthetic", a[i].Source)
		assert.NotEmpty(t, a[i].Name)
		assert.NotEmpty(t, a[i].Notes)
	}
}

func TestSynthetic_NoDuplicatesAtZeroRate(t *testing.T) {
	leads := GenerateLeads(SyntheticConfig{Count: 10, Seed: 1})
	for _, l := range leads {
		_, isCopy := l.RawData["copy_of"]
		assert.False(t, isCopy)
	}
	assert.Equal(t, 25, NewSynthetic(SyntheticConfig{}).cfg.Count)
}

func writeSheet(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestXLSX_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	writeSheet(t, path, [][]any{
		{"Name", "EMAIL", "Phone", "Company", "Notes", "Campaign"},
		{"Sarah Chen", "sarah@x.com", "5551234567", "Blue Ridge", "seo help", "spring"},
		{"", "", "", "", "", ""},
		{"Li Wei", "liwei@x.com"},
	})

	leads, err := NewXLSX(XLSXConfig{Path: path}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 2)

	assert.Equal(t, "Sarah Chen", leads[0].Name)
	assert.Equal(t, "sarah@x.com", leads[0].Email)
	assert.Equal(t, "seo help", leads[0].Notes)
	assert.Equal(t, "spring", leads[0].RawData["campaign"])
	assert.Equal(t, "xlsx", leads[0].Source)

	assert.Equal(t, "Li Wei", leads[1].Name)
	assert.Empty(t, leads[1].Company)
}

func TestXLSX_Errors(t *testing.T) {
	_, err := NewXLSX(XLSXConfig{}).Fetch(context.Background())
	require.Error(t, err)

	_, err = NewXLSX(XLSXConfig{Path: filepath.Join(t.TempDir(), "missing.xlsx")}).Fetch(context.Background())
	require.Error(t, err)
}

func TestNotion_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db-1/query", r.URL.Path)
		email := "sarah@x.com"
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{
				"id": "page-1",
				"properties": map[string]notion.Property{
					"Name":    notion.TitleProperty("Sarah Chen"),
					"Email":   {Email: &email},
					"Company": notion.RichTextProperty("Blue Ridge"),
					"Notes":   notion.RichTextProperty("seo"),
				},
			}},
			"has_more": false,
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_NOTION_TOKEN", "secret")
	t.Setenv("TEST_NOTION_DB", "db-1")
	src := NewNotion(NotionConfig{TokenEnvVar: "TEST_NOTION_TOKEN", DatabaseIDEnvVar: "TEST_NOTION_DB", BaseURL: srv.URL})

	leads, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Sarah Chen", leads[0].Name)
	assert.Equal(t, "sarah@x.com", leads[0].Email)
	assert.Equal(t, "Blue Ridge", leads[0].Company)
	assert.Empty(t, leads[0].Phone)
	assert.Equal(t, "page-1", leads[0].RawData["notion_page_id"])
}

func TestNotion_MissingCredentials(t *testing.T) {
	t.Setenv("TEST_NOTION_TOKEN", "")
	src := NewNotion(NotionConfig{TokenEnvVar: "TEST_NOTION_TOKEN", DatabaseIDEnvVar: "TEST_NOTION_DB"})
	_, err := src.Fetch(context.Background())
	assert.ErrorIs(t, err, notion.ErrMissingCredentials)
}

func TestLedger_Fetch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.db")

	store, err := sqlite.New(path)
	require.NoError(t, err)
	l := types.NewLead("xlsx")
	l.Name, l.Email = "Sarah Chen", "sarah@x.com"
	l.Tags = []string{"seo"}
	require.NoError(t, l.MarkEnriched())
	_, err = store.InsertLeads(ctx, "run-1", []*types.Lead{l})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	stored, err := LoadLedger(ctx, path)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, types.StatusEnriched, stored[0].Status)

	leads, err := NewLedger(SQLiteConfig{Path: path}).Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Sarah Chen", leads[0].Name)
	assert.Equal(t, types.StatusNew, leads[0].Status)
	assert.Equal(t, "sqlite", leads[0].Source)
	assert.Empty(t, leads[0].Tags)
	assert.Equal(t, "xlsx", leads[0].RawData["original_source"])
}
