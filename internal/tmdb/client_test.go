package tmdb_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexflix/plexflix/internal/config"
	"github.com/plexflix/plexflix/internal/model"
	"github.com/plexflix/plexflix/internal/tmdb"
)

// setupClient points a gateway at a fake catalog API.
func setupClient(t *testing.T, handler http.HandlerFunc) *tmdb.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.TMDB.APIKey = "test-key"
	cfg.TMDB.BaseURL = srv.URL

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
	return tmdb.NewClient(cfg, logger)
}

func TestSearchEmptyQuerySkipsRemoteCall(t *testing.T) {
	called := false
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	page, err := client.Search(context.Background(), "   ", model.SearchFilters{}, 1)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Empty(t, page.Results)
}

func TestSearchMultiNarrowsAndTagsResults(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"page":1,"results":[
			{"id":1,"media_type":"movie","title":"Inception"},
			{"id":2,"media_type":"person","name":"Leonardo DiCaprio"},
			{"id":3,"media_type":"tv","name":"Breaking Bad"}
		],"total_pages":1,"total_results":3}`)
	})

	page, err := client.Search(context.Background(), "incep", model.SearchFilters{Type: model.SearchMulti}, 1)
	require.NoError(t, err)

	assert.Equal(t, "/search/multi", gotPath)
	assert.Equal(t, []string{"incep"}, gotQuery["query"])
	assert.Equal(t, []string{"false"}, gotQuery["include_adult"])
	assert.Equal(t, []string{"en-US"}, gotQuery["language"])
	assert.Equal(t, []string{"test-key"}, gotQuery["api_key"])

	// person dropped, movie/tv kept
	require.Len(t, page.Results, 2)
	assert.Equal(t, model.KindMovie, page.Results[0].Kind)
	assert.Equal(t, model.KindTV, page.Results[1].Kind)
}

func TestSearchMovieSetsYearAndStampsKind(t *testing.T) {
	var gotQuery map[string][]string
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"page":1,"results":[{"id":1,"title":"Inception"}]}`)
	})

	filters := model.SearchFilters{Type: model.SearchMovie, Year: "2010"}
	page, err := client.Search(context.Background(), "inception", filters, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"2010"}, gotQuery["primary_release_year"])
	require.Len(t, page.Results, 1)
	// single-kind endpoints do not echo media_type; the gateway stamps it
	assert.Equal(t, model.KindMovie, page.Results[0].Kind)
}

func TestSearchGenreFiltersClientSide(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"page":1,"results":[
			{"id":1,"media_type":"movie","title":"A","genre_ids":[28,878]},
			{"id":2,"media_type":"movie","title":"B","genre_ids":[35]}
		]}`)
	})

	filters := model.SearchFilters{Type: model.SearchMulti, GenreID: 878}
	page, err := client.Search(context.Background(), "x", filters, 1)
	require.NoError(t, err)

	require.Len(t, page.Results, 1)
	assert.Equal(t, 1, page.Results[0].ID)
}

func TestSearchAPIErrorSurfacesMessage(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"status_message":"Invalid API key"}`)
	})

	_, err := client.Search(context.Background(), "x", model.SearchFilters{}, 1)
	require.Error(t, err)

	var catalogErr *tmdb.Error
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, http.StatusUnauthorized, catalogErr.Status)
	assert.Equal(t, "Invalid API key", catalogErr.Message)
}

func TestGenres(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`)
	})

	genres, err := client.Genres(context.Background(), model.KindMovie)
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Action", genres[0].Name)
}

func TestTrendingDefaultsAndNarrows(t *testing.T) {
	var gotPath string
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"page":1,"results":[
			{"id":1,"media_type":"movie","title":"A"},
			{"id":2,"media_type":"person","name":"B"}
		]}`)
	})

	page, err := client.Trending(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "/trending/all/week", gotPath)
	require.Len(t, page.Results, 1)
	assert.Equal(t, model.KindMovie, page.Results[0].Kind)
}

func TestTrendingStampsSingleKind(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trending/tv/day", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"page":1,"results":[{"id":1,"name":"A"}]}`)
	})

	page, err := client.Trending(context.Background(), "tv", tmdb.WindowDay)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, model.KindTV, page.Results[0].Kind)
}
