// Package notion is a minimal Notion REST client: database queries and page
// creation, throttled to stay under the API's ~3 requests/second limit.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Notion API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"
	// APIVersion is sent as the Notion-Version header.
	APIVersion = "2022-06-28"
	// DefaultRequestInterval spaces requests 350ms apart.
	DefaultRequestInterval = 350 * time.Millisecond
	// DefaultPageSize is the query page size (the API maximum).
	DefaultPageSize = 100
)

// ErrMissingCredentials is returned when the token or database ID is empty.
var ErrMissingCredentials = errors.New("notion credentials not set")

// Config configures a Client
type Config struct {
	Token           string
	BaseURL         string        // default DefaultBaseURL
	RequestInterval time.Duration // default DefaultRequestInterval; negative disables throttling
	Timeout         time.Duration // default 30s
	HTTPClient      *http.Client  // optional
}

// Client talks to the Notion API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client. It fails fast on a missing token.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrMissingCredentials)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	switch {
	case cfg.RequestInterval == 0:
		limiter = rate.NewLimiter(rate.Every(DefaultRequestInterval), 1)
	case cfg.RequestInterval > 0:
		limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}

	return &Client{
		token:      strings.TrimSpace(cfg.Token),
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
	}, nil
}

// APIError is a non-2xx response from Notion.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("notion API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("notion API error (status %d, %s): %s", e.StatusCode, e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(apiErr)
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Page is a database row.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// QueryDatabase returns every page of the database, following cursors.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	if strings.TrimSpace(databaseID) == "" {
		return nil, fmt.Errorf("%w: database id is empty", ErrMissingCredentials)
	}
	var pages []Page
	req := queryRequest{PageSize: DefaultPageSize}
	for {
		var resp queryResponse
		if err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", req, &resp); err != nil {
			return pages, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = *resp.NextCursor
	}
}

type createPageRequest struct {
	Parent     parent              `json:"parent"`
	Properties map[string]Property `json:"properties"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePage adds a row to the database and returns its page ID.
func (c *Client) CreatePage(ctx context.Context, databaseID string, props map[string]Property) (string, error) {
	if strings.TrimSpace(databaseID) == "" {
		return "", fmt.Errorf("%w: database id is empty", ErrMissingCredentials)
	}
	var created Page
	err := c.do(ctx, http.MethodPost, "/pages", createPageRequest{
		Parent:     parent{DatabaseID: databaseID},
		Properties: props,
	}, &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
