// Package supabase implements the catalog store against a Supabase
// PostgREST endpoint.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/motis10/muninet/internal/catalog"
	apperrors "github.com/motis10/muninet/internal/platform/errors"
)

const (
	categoriesTable = "categories"
	streetsTable    = "street_numbers"

	defaultTimeout = 10 * time.Second
)

// Client fetches catalog collections over the Supabase REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient returns a catalog client for the given project URL and API key.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("supabase base URL is required")
	}
	client := &Client{
		baseURL:    trimmed,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Categories fetches the full category collection.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	if err := c.fetch(ctx, categoriesTable, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Streets fetches the full street-number collection.
func (c *Client) Streets(ctx context.Context) ([]catalog.StreetNumber, error) {
	var out []catalog.StreetNumber
	if err := c.fetch(ctx, streetsTable, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchCategories applies a server-side case-insensitive substring filter
// over name and text. An empty query fetches the full collection.
func (c *Client) SearchCategories(ctx context.Context, query string) ([]catalog.Category, error) {
	if strings.TrimSpace(query) == "" {
		return c.Categories(ctx)
	}
	var out []catalog.Category
	if err := c.fetch(ctx, categoriesTable, ilikeFilter(query, "name", "text"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchStreets applies a server-side case-insensitive substring filter over
// name and house_number. An empty query fetches the full collection.
func (c *Client) SearchStreets(ctx context.Context, query string) ([]catalog.StreetNumber, error) {
	if strings.TrimSpace(query) == "" {
		return c.Streets(ctx)
	}
	var out []catalog.StreetNumber
	if err := c.fetch(ctx, streetsTable, ilikeFilter(query, "name", "house_number"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, table string, extra url.Values, target any) error {
	values := url.Values{}
	values.Set("select", "*")
	values.Set("order", "id.asc")
	for key, list := range extra {
		for _, value := range list {
			values.Add(key, value)
		}
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnavailable, fmt.Sprintf("build %s request", table), err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnavailable, fmt.Sprintf("fetch %s", table), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.New(apperrors.CodeUnavailable, fmt.Sprintf("fetch %s: status %d", table, resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodeParse, fmt.Sprintf("decode %s response", table), err)
	}
	return nil
}

// ilikeFilter builds a PostgREST or=() expression matching the query as a
// case-insensitive substring on any of the columns. Commas, parens and
// wildcard characters are stripped because they are grammar in the or()
// expression.
func ilikeFilter(query string, columns ...string) url.Values {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '%', '*':
			return -1
		}
		return r
	}, query)

	clauses := make([]string, 0, len(columns))
	for _, column := range columns {
		clauses = append(clauses, fmt.Sprintf("%s.ilike.*%s*", column, sanitized))
	}
	values := url.Values{}
	values.Set("or", "("+strings.Join(clauses, ",")+")")
	return values
}
