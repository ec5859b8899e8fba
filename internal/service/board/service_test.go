package board_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexflix/plexflix/internal/app"
	"github.com/plexflix/plexflix/internal/config"
	"github.com/plexflix/plexflix/internal/model"
	"github.com/plexflix/plexflix/internal/search"
	"github.com/plexflix/plexflix/internal/server"
	"github.com/plexflix/plexflix/internal/service/board"
	"github.com/plexflix/plexflix/internal/store"
	"github.com/plexflix/plexflix/internal/tmdb"
)

//
// Test helpers
//

// setupAPI wires the full HTTP surface against an in-memory store (no
// persistence backend) and a fake catalog API.
//
// Each test gets its own isolated engine + state.
func setupAPI(t *testing.T, catalogHandler http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
	st := store.New(nil, logger)

	if catalogHandler == nil {
		catalogHandler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"page":1,"results":[]}`)
		}
	}
	srv := httptest.NewServer(catalogHandler)
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.TMDB.APIKey = "test-key"
	cfg.TMDB.BaseURL = srv.URL

	catalog := tmdb.NewClient(cfg, logger)
	session := search.New(catalog, logger)
	t.Cleanup(session.Stop)

	appCtx := app.New(st, catalog, session, logger)
	return server.NewEngine(board.NewRegistrar(appCtx))
}

func doJSON(t *testing.T, e *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerAndLogin(t *testing.T, e *gin.Engine, username string) {
	t.Helper()
	w := doJSON(t, e, http.MethodPost, "/api/register", gin.H{"username": username})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, e, http.MethodPost, "/api/login", gin.H{"username": username})
	require.Equal(t, http.StatusOK, w.Code)
}

func suggest(t *testing.T, e *gin.Engine, item model.CatalogItem) {
	t.Helper()
	w := doJSON(t, e, http.MethodPost, "/api/suggestions", item)
	require.Equal(t, http.StatusCreated, w.Code)
}

func inception() model.CatalogItem {
	return model.CatalogItem{ID: 27205, Kind: model.KindMovie, Title: "Inception"}
}

//
// Tests
//

func TestRegisterAndConflict(t *testing.T) {
	e := setupAPI(t, nil)

	w := doJSON(t, e, http.MethodPost, "/api/register", gin.H{"username": "alice"})
	require.Equal(t, http.StatusCreated, w.Code)
	user := decode[model.User](t, w)
	assert.Equal(t, "alice", user.ID)

	// case-insensitive duplicate
	w = doJSON(t, e, http.MethodPost, "/api/register", gin.H{"username": "ALICE"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, e, http.MethodPost, "/api/register", gin.H{"username": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginLogoutAndMe(t *testing.T) {
	e := setupAPI(t, nil)

	// no session yet
	w := doJSON(t, e, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, e, http.MethodPost, "/api/login", gin.H{"username": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	registerAndLogin(t, e, "alice")

	w = doJSON(t, e, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[model.User](t, w)
	assert.Equal(t, "alice", user.Username)

	w = doJSON(t, e, http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, e, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddSuggestion(t *testing.T) {
	e := setupAPI(t, nil)

	// requires a session
	w := doJSON(t, e, http.MethodPost, "/api/suggestions", inception())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	registerAndLogin(t, e, "alice")

	w = doJSON(t, e, http.MethodPost, "/api/suggestions", inception())
	require.Equal(t, http.StatusCreated, w.Code)
	view := decode[board.SuggestionView](t, w)
	assert.Equal(t, "alice", view.SuggesterUsername)
	assert.Equal(t, 0, view.NetVotes)

	// duplicate catalog id
	w = doJSON(t, e, http.MethodPost, "/api/suggestions", inception())
	assert.Equal(t, http.StatusConflict, w.Code)

	// no id / no title
	w = doJSON(t, e, http.MethodPost, "/api/suggestions", gin.H{"overview": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSuggestionsSortAndProjections(t *testing.T) {
	e := setupAPI(t, nil)
	registerAndLogin(t, e, "alice")
	suggest(t, e, inception())
	suggest(t, e, model.CatalogItem{ID: 603, Kind: model.KindMovie, Title: "The Matrix"})

	// alice upvotes and rates Inception
	w := doJSON(t, e, http.MethodPost, "/api/suggestions/27205/vote", gin.H{"vote_type": "up"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, e, http.MethodPost, "/api/suggestions/27205/rating", gin.H{"rating": 5})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, e, http.MethodGet, "/api/suggestions?sort=most_upvotes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[board.SuggestionsResponse](t, w)

	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, model.SortMostUpvotes, resp.Sort)
	assert.Equal(t, 27205, resp.Suggestions[0].ID)
	assert.Equal(t, 1, resp.Suggestions[0].NetVotes)
	assert.Equal(t, 5.0, resp.Suggestions[0].AverageRating)
	assert.Equal(t, model.VoteUp, resp.Suggestions[0].MyVote)
	assert.Equal(t, 5, resp.Suggestions[0].MyRating)
}

func TestVoteToggle(t *testing.T) {
	e := setupAPI(t, nil)
	registerAndLogin(t, e, "alice")
	suggest(t, e, inception())

	w := doJSON(t, e, http.MethodPost, "/api/suggestions/27205/vote", gin.H{"vote_type": "up"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[board.SuggestionView](t, w).NetVotes)

	// same direction clears
	w = doJSON(t, e, http.MethodPost, "/api/suggestions/27205/vote", gin.H{"vote_type": "up"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[board.SuggestionView](t, w).NetVotes)

	w = doJSON(t, e, http.MethodPost, "/api/suggestions/27205/vote", gin.H{"vote_type": "sideways"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, e, http.MethodPost, "/api/suggestions/99999/vote", gin.H{"vote_type": "up"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateValidation(t *testing.T) {
	e := setupAPI(t, nil)
	registerAndLogin(t, e, "alice")
	suggest(t, e, inception())

	w := doJSON(t, e, http.MethodPost, "/api/suggestions/27205/rating", gin.H{"rating": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, e, http.MethodPost, "/api/suggestions/27205/rating", gin.H{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, e, http.MethodPost, "/api/suggestions/27205/rating", gin.H{"rating": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode[board.SuggestionView](t, w).AverageRating)
}

// TestRemoveSuggesterOnly: only the user who suggested an item may remove it.
func TestRemoveSuggesterOnly(t *testing.T) {
	e := setupAPI(t, nil)
	registerAndLogin(t, e, "alice")
	suggest(t, e, inception())

	registerAndLogin(t, e, "bob")
	w := doJSON(t, e, http.MethodDelete, "/api/suggestions/27205", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	registerAndLogin(t, e, "alice")
	w = doJSON(t, e, http.MethodDelete, "/api/suggestions/27205", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, e, http.MethodDelete, "/api/suggestions/27205", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchCatalog(t *testing.T) {
	e := setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"page":1,"results":[
			{"id":1,"media_type":"movie","title":"Inception"},
			{"id":2,"media_type":"person","name":"Somebody"}
		]}`)
	})

	w := doJSON(t, e, http.MethodGet, "/api/search?query=incep", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[board.SearchResponse](t, w)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Inception", resp.Results[0].Title)
}

func TestSearchCatalogBadGateway(t *testing.T) {
	e := setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"status_message":"Invalid API key"}`)
	})

	w := doJSON(t, e, http.MethodGet, "/api/search?query=incep", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGenresValidation(t *testing.T) {
	e := setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"genres":[{"id":28,"name":"Action"}]}`)
	})

	w := doJSON(t, e, http.MethodGet, "/api/genres?type=book", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, e, http.MethodGet, "/api/genres?type=movie", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[board.GenresResponse](t, w)
	require.Len(t, resp.Genres, 1)
	assert.Equal(t, "Action", resp.Genres[0].Name)
}

func TestTrendingValidation(t *testing.T) {
	e := setupAPI(t, nil)

	w := doJSON(t, e, http.MethodGet, "/api/trending?window=month", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, e, http.MethodGet, "/api/trending?type=book", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, e, http.MethodGet, "/api/trending", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchSessionEndpoints(t *testing.T) {
	e := setupAPI(t, nil)

	w := doJSON(t, e, http.MethodPut, "/api/search/query", gin.H{"query": "dune"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(t, e, http.MethodPut, "/api/search/filters", gin.H{"type": "movie", "year": "2021"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	// the projection is readable immediately, even before the debounce fires
	w = doJSON(t, e, http.MethodGet, "/api/search/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decode[search.Results](t, w)
	assert.NotNil(t, results.Items)
}

func TestHealth(t *testing.T) {
	e := setupAPI(t, nil)
	w := doJSON(t, e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
