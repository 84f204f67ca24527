package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/watchhubtv/watchhub/internal/pkg/cache"
	"github.com/watchhubtv/watchhub/internal/pkg/config"
)

const (
	searchCacheKeyFormat = "omdb:search:%s:%d"
	titleCacheKeyFormat  = "omdb:title:%s"
	cacheTTL             = 24 * time.Hour

	maxResponseBytes = 1 << 20
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("omdb api key not configured")

// Client talks to the OMDb API and caches responses in Redis so repeated
// catalog lookups don't burn through the request quota.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a metadata client from resolved configuration.
func NewClient(cfg config.OMDbConfig) *Client {
	return &Client{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Title is one OMDb record, either a search hit or a full detail lookup.
type Title struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	ImdbID   string `json:"imdbID"`
	Type     string `json:"Type"`
	Poster   string `json:"Poster"`
	Plot     string `json:"Plot,omitempty"`
	Genre    string `json:"Genre,omitempty"`
	Director string `json:"Director,omitempty"`
	Actors   string `json:"Actors,omitempty"`
	Runtime  string `json:"Runtime,omitempty"`
	Rated    string `json:"Rated,omitempty"`
	Rating   string `json:"imdbRating,omitempty"`
}

// SearchResult is a page of search hits.
type SearchResult struct {
	Titles       []Title `json:"Search"`
	TotalResults string  `json:"totalResults"`
	Response     string  `json:"Response"`
	Error        string  `json:"Error,omitempty"`
}

// Search queries OMDb by title, one page of up to ten movie results.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if c.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf(searchCacheKeyFormat, query, page)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var result SearchResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	params := url.Values{}
	params.Set("apikey", c.APIKey)
	params.Set("s", query)
	params.Set("type", "movie")
	params.Set("page", fmt.Sprintf("%d", page))

	var result SearchResult
	if err := c.get(ctx, params, &result); err != nil {
		return nil, err
	}
	if result.Response != "True" {
		// "Movie not found!" is a valid empty page, not an error.
		result.Titles = []Title{}
	}

	c.store(cacheKey, &result)
	return &result, nil
}

// GetByImdbID fetches the full detail record for one title.
func (c *Client) GetByImdbID(ctx context.Context, imdbID string) (*Title, error) {
	if c.APIKey == "" {
		return nil, ErrNotConfigured
	}

	cacheKey := fmt.Sprintf(titleCacheKeyFormat, imdbID)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var title Title
		if err := json.Unmarshal([]byte(cached), &title); err == nil {
			return &title, nil
		}
	}

	params := url.Values{}
	params.Set("apikey", c.APIKey)
	params.Set("i", imdbID)
	params.Set("plot", "full")

	var payload struct {
		Title
		Response string `json:"Response"`
		Error    string `json:"Error,omitempty"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	if payload.Response != "True" {
		return nil, fmt.Errorf("omdb: %s", payload.Error)
	}

	c.store(cacheKey, &payload.Title)
	return &payload.Title, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building omdb request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("omdb request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading omdb response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("omdb returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding omdb response: %w", err)
	}
	return nil
}

func (c *Client) store(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := cache.Set(key, string(data), cacheTTL); err != nil {
		log.Printf("[OMDb] caching %s failed: %v", key, err)
	}
}
