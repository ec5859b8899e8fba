// Package search owns the debounced catalog lookup pipeline between
// keystrokes and the gateway: each query or filter change arms a quiet-period
// timer, re-arming cancels the pending task, and only the newest dispatched
// lookup may publish its results.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/plexflix/plexflix/internal/model"
	"github.com/plexflix/plexflix/internal/tmdb"
)

// DebounceDelay is the quiet period between the last intent and the
// outbound catalog call.
const DebounceDelay = 500 * time.Millisecond

// ResultLimit caps how many results a lookup publishes.
const ResultLimit = 10

// Gateway is the slice of the catalog client the session needs.
type Gateway interface {
	Search(ctx context.Context, query string, filters model.SearchFilters, page int) (tmdb.Page, error)
	Trending(ctx context.Context, kind, window string) (tmdb.Page, error)
}

// Results is the session's published projection.
type Results struct {
	Query   string              `json:"query"`
	Items   []model.CatalogItem `json:"items"`
	Loading bool                `json:"loading"`
	Error   string              `json:"error,omitempty"`
}

// Session debounces typed queries and filter changes into gateway lookups.
//
// Behavior:
//   - TypeQuery/SetFilters arm a DebounceDelay timer; arming cancels any
//     pending task, so at most one lookup per quiet period goes out.
//   - An empty query dispatches a trending lookup instead, narrowed
//     client-side by the genre and year filters.
//   - Every dispatch carries a sequence number; a completion whose sequence
//     is no longer the newest is discarded, so a slow early lookup can never
//     overwrite a faster later one.
type Session struct {
	mu      sync.Mutex
	gateway Gateway
	log     *slog.Logger
	delay   time.Duration

	query   string
	filters model.SearchFilters
	timer   *time.Timer

	seq     uint64
	results Results
}

// New creates an idle session with default filters (multi search).
func New(g Gateway, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		gateway: g,
		log:     log,
		delay:   DebounceDelay,
		filters: model.SearchFilters{Type: model.SearchMulti},
		results: Results{Items: []model.CatalogItem{}},
	}
}

// TypeQuery records a keystroke-level query change and (re)arms the timer.
func (s *Session) TypeQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.arm()
}

// SetFilters records a filter change and (re)arms the timer.
func (s *Session) SetFilters(f model.SearchFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f.Normalize()
	s.arm()
}

// Results returns the latest published projection.
func (s *Session) Results() Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.results
	out.Items = make([]model.CatalogItem, len(s.results.Items))
	copy(out.Items, s.results.Items)
	return out
}

// Stop cancels any pending lookup. An in-flight completion is still
// discarded by its stale sequence number.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++ // invalidate anything already dispatched
}

// arm schedules a dispatch after the quiet period, cancelling any pending
// one: last scheduled wins. Caller holds the mutex.
func (s *Session) arm() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.dispatch)
}

// dispatch snapshots the current query/filters under a fresh sequence
// number, performs the lookup and publishes the outcome unless a newer
// dispatch has started in the meantime.
func (s *Session) dispatch() {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	query := s.query
	filters := s.filters
	s.results.Loading = true
	s.mu.Unlock()

	items, err := s.lookup(query, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.log.Debug("discarding stale search response", "seq", seq, "newest", s.seq)
		return
	}

	s.results = Results{Query: query, Items: items}
	if err != nil {
		s.log.Warn("search lookup failed", "query", query, "err", err)
		s.results.Items = []model.CatalogItem{}
		s.results.Error = err.Error()
	}
}

func (s *Session) lookup(query string, filters model.SearchFilters) ([]model.CatalogItem, error) {
	ctx := context.Background()

	if strings.TrimSpace(query) == "" {
		return s.lookupTrending(ctx, filters)
	}

	page, err := s.gateway.Search(ctx, query, filters, 1)
	if err != nil {
		return nil, err
	}
	return cap10(page.Results), nil
}

// lookupTrending is the empty-query fallback: show trending titles, narrowed
// by whatever filters are set. The trending endpoints take no filters, so
// genre and year narrow client-side.
func (s *Session) lookupTrending(ctx context.Context, filters model.SearchFilters) ([]model.CatalogItem, error) {
	kind := "all"
	switch filters.Type {
	case model.SearchMovie:
		kind = string(model.KindMovie)
	case model.SearchTV:
		kind = string(model.KindTV)
	}

	page, err := s.gateway.Trending(ctx, kind, tmdb.WindowWeek)
	if err != nil {
		return nil, err
	}

	items := page.Results
	if filters.GenreID != 0 {
		kept := items[:0]
		for _, item := range items {
			if item.HasGenre(filters.GenreID) {
				kept = append(kept, item)
			}
		}
		items = kept
	}
	if filters.Year != "" {
		kept := items[:0]
		for _, item := range items {
			if item.Year() == filters.Year {
				kept = append(kept, item)
			}
		}
		items = kept
	}
	return cap10(items), nil
}

func cap10(items []model.CatalogItem) []model.CatalogItem {
	if items == nil {
		return []model.CatalogItem{}
	}
	if len(items) > ResultLimit {
		return items[:ResultLimit]
	}
	return items
}
