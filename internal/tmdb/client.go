// Package tmdb wraps the remote movie/TV catalog API: text search, genre
// vocabularies and trending lists. The gateway is stateless; every call is a
// best-effort live lookup with no retry or backoff.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/plexflix/plexflix/internal/config"
	"github.com/plexflix/plexflix/internal/model"
)

// Trending time windows.
const (
	WindowDay  = "day"
	WindowWeek = "week"
)

// Error is the gateway's single failure type: any non-success response,
// transport error or decode error surfaces as one of these with a
// human-readable message.
type Error struct {
	Status  int // HTTP status, 0 for transport/decode failures
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog request failed (%d): %s", e.Status, e.Message)
	}
	return "catalog request failed: " + e.Message
}

// Page is one page of catalog results.
type Page struct {
	Page         int                 `json:"page"`
	Results      []model.CatalogItem `json:"results"`
	TotalPages   int                 `json:"total_pages"`
	TotalResults int                 `json:"total_results"`
}

type genresResponse struct {
	Genres []model.Genre `json:"genres"`
}

type statusResponse struct {
	StatusMessage string `json:"status_message"`
}

// Client is the catalog query gateway. Language is fixed to en-US and adult
// content is always excluded.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a gateway from config. The underlying transport keeps
// its default timeouts; the caller bounds calls via ctx.
func NewClient(cfg *config.Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		apiKey:  cfg.TMDB.APIKey,
		baseURL: strings.TrimRight(cfg.TMDB.BaseURL, "/"),
		http:    &http.Client{},
		log:     log,
	}
}

// Search performs a text search.
//
// Behavior:
//   - Empty/whitespace-only queries return an empty page with no remote call.
//   - For multi searches the response is narrowed to movie/tv entries
//     (people and other entity kinds are dropped).
//   - A year filter maps to primary_release_year / first_air_date_year for
//     single-kind searches; the search endpoints ignore it for multi.
//   - A non-zero GenreID narrows results client-side, since the search
//     endpoints do not support server-side genre filtering.
func (c *Client) Search(ctx context.Context, query string, filters model.SearchFilters, page int) (Page, error) {
	if strings.TrimSpace(query) == "" {
		return Page{Page: 1, Results: []model.CatalogItem{}}, nil
	}
	filters = filters.Normalize()
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")
	if filters.Type != model.SearchMulti && filters.Year != "" {
		yearKey := "first_air_date_year"
		if filters.Type == model.SearchMovie {
			yearKey = "primary_release_year"
		}
		params.Set(yearKey, filters.Year)
	}

	var out Page
	if err := c.get(ctx, "/search/"+string(filters.Type), params, &out); err != nil {
		return Page{}, err
	}

	out.Results = resolveKinds(out.Results, filters.Type)
	if filters.GenreID != 0 {
		out.Results = filterGenre(out.Results, filters.GenreID)
	}
	return out, nil
}

// Genres returns the {id, name} vocabulary for movie or tv.
func (c *Client) Genres(ctx context.Context, kind model.MediaKind) ([]model.Genre, error) {
	var out genresResponse
	if err := c.get(ctx, "/genre/"+string(kind)+"/list", url.Values{}, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// Trending lists trending entries for kind "movie", "tv" or "all" over a
// "day" or "week" window. The "all" kind is narrowed to movie/tv entries
// the same way multi search is.
func (c *Client) Trending(ctx context.Context, kind, window string) (Page, error) {
	if kind == "" {
		kind = "all"
	}
	if window == "" {
		window = WindowWeek
	}

	var out Page
	if err := c.get(ctx, "/trending/"+kind+"/"+window, url.Values{}, &out); err != nil {
		return Page{}, err
	}

	switch kind {
	case "all":
		out.Results = narrowToMedia(out.Results)
	case string(model.KindMovie):
		out.Results = tagKind(out.Results, model.KindMovie)
	case string(model.KindTV):
		out.Results = tagKind(out.Results, model.KindTV)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")

	reqURL := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &Error{Message: err.Error()}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Status
		var status statusResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&status); decodeErr == nil && status.StatusMessage != "" {
			msg = status.StatusMessage
		}
		c.log.Warn("catalog API error", "endpoint", endpoint, "status", resp.StatusCode, "message", msg)
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &Error{Message: "failed to decode response: " + err.Error()}
	}
	return nil
}

// resolveKinds tags results with their media kind once, at ingestion. The
// single-kind search endpoints do not echo a media_type, so the searched
// kind is stamped on; multi results already carry one and get narrowed.
func resolveKinds(items []model.CatalogItem, searchType model.SearchType) []model.CatalogItem {
	switch searchType {
	case model.SearchMovie:
		return tagKind(items, model.KindMovie)
	case model.SearchTV:
		return tagKind(items, model.KindTV)
	default:
		return narrowToMedia(items)
	}
}

func tagKind(items []model.CatalogItem, kind model.MediaKind) []model.CatalogItem {
	for i := range items {
		items[i].Kind = kind
	}
	return items
}

func narrowToMedia(items []model.CatalogItem) []model.CatalogItem {
	kept := items[:0]
	for _, item := range items {
		if item.Kind == model.KindMovie || item.Kind == model.KindTV {
			kept = append(kept, item)
		}
	}
	return kept
}

func filterGenre(items []model.CatalogItem, genreID int) []model.CatalogItem {
	kept := items[:0]
	for _, item := range items {
		if item.HasGenre(genreID) {
			kept = append(kept, item)
		}
	}
	return kept
}
