// Package catalog fetches canonical card data from the Pokémon TCG API
// (api.pokemontcg.io v2) for the reference-data sync.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

// Defaults used when Config leaves a field empty.
const (
	DefaultBaseURL   = "https://api.pokemontcg.io/v2"
	DefaultPageSize  = 10
	DefaultMaxPages  = 1
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; tcgstock-sync/1.0)"

	// selectFields trims the payload to what CardReference needs.
	selectFields = "id,name,set,number,images"

	maxResponseBytes = 32 << 20
)

var (
	// ErrInvalidPayload is returned when the response body is not valid JSON.
	ErrInvalidPayload = errors.New("invalid catalog payload")

	// ErrMissingData is returned when the response has no "data" key.
	ErrMissingData = errors.New("catalog payload missing 'data'")
)

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d", e.Code)
}

// HTTPDoer is the subset of *http.Client the client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds catalog client settings.
type Config struct {
	BaseURL   string
	APIKey    string
	PageSize  int
	MaxPages  int
	Timeout   time.Duration
	UserAgent string
}

// Client is the card catalog API client.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	maxPages   int
	timeout    time.Duration
	userAgent  string
	httpClient HTTPDoer
}

// NewClient creates a catalog client, filling unset config with defaults.
func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		pageSize:  cfg.PageSize,
		maxPages:  cfg.MaxPages,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.maxPages <= 0 {
		c.maxPages = DefaultMaxPages
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	c.httpClient = &http.Client{Timeout: c.timeout}
	return c
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

// FetchCards pages through /cards until a short page or the page cap.
// Any failure aborts the fetch; nothing partial is returned.
func (c *Client) FetchCards(ctx context.Context) ([]core.CatalogItem, error) {
	var items []core.CatalogItem
	for page := 1; page <= c.maxPages; page++ {
		cards, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		for _, card := range cards {
			items = append(items, card.toItem())
		}
		if len(cards) < c.pageSize {
			break
		}
	}
	return items, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]apiCard, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("select", selectFields)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cards?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", core.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", core.ErrCatalogUnavailable, err)
	}

	var parsed cardsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if parsed.Data == nil {
		return nil, ErrMissingData
	}
	return *parsed.Data, nil
}
