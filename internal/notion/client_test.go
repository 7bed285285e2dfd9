package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{Token: "secret", BaseURL: srv.URL, RequestInterval: -1})
	require.NoError(t, err)
	return c
}

func TestQueryDatabase_Paginates(t *testing.T) {
	var cursors []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/db-1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, APIVersion, r.Header.Get("Notion-Version"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 100, body["page_size"])
		cursor, _ := body["start_cursor"].(string)
		cursors = append(cursors, cursor)

		if cursor == "" {
			_, _ = w.Write([]byte(`{"results":[{"id":"p1","properties":{"Name":{"title":[{"text":{"content":"Lead 1"}}]}}}],"has_more":true,"next_cursor":"c2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"id":"p2","properties":{"Email":{"email":"a@b.com"}}}],"has_more":false,"next_cursor":null}`))
	})

	pages, err := c.QueryDatabase(context.Background(), "db-1")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, []string{"", "c2"}, cursors)
	assert.Equal(t, "Lead 1", pages[0].Properties["Name"].TitleText())
	assert.Equal(t, "a@b.com", pages[1].Properties["Email"].EmailValue())
	assert.Equal(t, "", pages[1].Properties["Phone"].PhoneValue())
}

func TestCreatePage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pages", r.URL.Path)
		var body struct {
			Parent     map[string]string          `json:"parent"`
			Properties map[string]json.RawMessage `json:"properties"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "db-2", body.Parent["database_id"])
		assert.JSONEq(t, `{"title":[{"text":{"content":"Sarah"}}]}`, string(body.Properties["Name"]))
		assert.JSONEq(t, `{"multi_select":[{"name":"seo"},{"name":"saas"}]}`, string(body.Properties["Tags"]))
		assert.JSONEq(t, `{"select":{"name":"enriched"}}`, string(body.Properties["Status"]))
		_, _ = w.Write([]byte(`{"id":"new-page"}`))
	})

	id, err := c.CreatePage(context.Background(), "db-2", map[string]Property{
		"Name":   TitleProperty("Sarah"),
		"Tags":   MultiSelectProperty([]string{"seo", "saas"}),
		"Status": SelectProperty("enriched"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new-page", id)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"object":"error","status":400,"code":"validation_error","message":"Name is not a property"}`))
	})

	_, err := c.CreatePage(context.Background(), "db", map[string]Property{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "validation_error", apiErr.Code)
	assert.Contains(t, err.Error(), "Name is not a property")
}

func TestMissingCredentials(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	c, err := NewClient(Config{Token: "t"})
	require.NoError(t, err)
	_, err = c.QueryDatabase(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = c.CreatePage(context.Background(), " ", nil)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestPropertyAccessors(t *testing.T) {
	assert.Equal(t, "x", RichTextProperty("x").PlainRichText())
	assert.Equal(t, "", Property{}.TitleText())
	assert.Equal(t, "plain", Property{RichText: []RichText{{PlainText: "plain"}}}.PlainRichText())
	assert.Equal(t, "+1555", PhoneProperty("+1555").PhoneValue())
	assert.Equal(t, "2026-01-01", DateProperty("2026-01-01").Date.Start)
}
