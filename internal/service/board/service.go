package board

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plexflix/plexflix/internal/app"
	svcErr "github.com/plexflix/plexflix/internal/errors"
	"github.com/plexflix/plexflix/internal/model"
	"github.com/plexflix/plexflix/internal/rank"
)

// maxSuggestionsDisplay caps the rendered list to keep responses small; the
// full list stays in the store.
const maxSuggestionsDisplay = 50

// Service implements the suggestion board HTTP API. It validates intents,
// forwards them to the state store and projects snapshots for rendering.
// Store-level validation failures come back as booleans/no-ops and map to
// 4xx responses here; a failed persistence mirror is logged but never fails
// the request, since the in-memory transition has already been applied.
type Service struct {
	appCtx *app.AppContext
}

// NewService creates the board service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

// Register handles POST /api/register.
//
// Behavior:
//   - Creates a local identity with id = trimmed username.
//   - 409 when an existing username matches case-insensitively.
//   - Does not log the new user in.
func (s *Service) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		svcErr.JSON(c, http.StatusBadRequest, "username is required")
		return
	}

	ok, err := s.appCtx.Store.RegisterUser(c.Request.Context(), username)
	if err != nil {
		s.appCtx.Logger.Warn("state mirror failed after register", "err", err)
	}
	if !ok {
		svcErr.JSON(c, http.StatusConflict, "username already taken")
		return
	}

	s.appCtx.Logger.Info("user registered", "username", username)
	c.JSON(http.StatusCreated, model.User{ID: username, Username: username})
}

// Login handles POST /api/login. Usernames match exactly; unknown ones 404.
func (s *Service) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var found *model.User
	for _, u := range s.appCtx.Store.State().Users {
		if u.Username == req.Username {
			user := u
			found = &user
			break
		}
	}
	if found == nil {
		svcErr.JSON(c, http.StatusNotFound, "user not found")
		return
	}

	if err := s.appCtx.Store.SetCurrentUser(c.Request.Context(), req.Username); err != nil {
		s.appCtx.Logger.Warn("state mirror failed after login", "err", err)
	}
	c.JSON(http.StatusOK, found)
}

// Logout handles POST /api/logout.
func (s *Service) Logout(c *gin.Context) {
	if err := s.appCtx.Store.Logout(c.Request.Context()); err != nil {
		s.appCtx.Logger.Warn("state mirror failed after logout", "err", err)
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me handles GET /api/me.
func (s *Service) Me(c *gin.Context) {
	user := s.appCtx.Store.CurrentUser()
	if user == nil {
		svcErr.JSON(c, http.StatusUnauthorized, "not logged in")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListSuggestions handles GET /api/suggestions?sort=.
//
// Behavior:
//   - Sorts by the requested option (default newest_added); all orderings
//     are stable.
//   - Projects net votes, average rating and the session user's own
//     vote/rating onto each item.
//   - Display is capped at maxSuggestionsDisplay entries.
func (s *Service) ListSuggestions(c *gin.Context) {
	state := s.appCtx.Store.State()
	option := model.SortOption(c.DefaultQuery("sort", string(model.SortNewestAdded)))

	sorted := rank.Sort(state.Suggestions, option)
	total := len(sorted)
	if len(sorted) > maxSuggestionsDisplay {
		sorted = sorted[:maxSuggestionsDisplay]
	}

	userID := ""
	if state.CurrentUser != nil {
		userID = state.CurrentUser.ID
	}

	views := make([]SuggestionView, 0, len(sorted))
	for _, item := range sorted {
		views = append(views, projectItem(item, userID))
	}

	c.JSON(http.StatusOK, SuggestionsResponse{
		Suggestions: views,
		Total:       total,
		Sort:        option,
	})
}

// AddSuggestion handles POST /api/suggestions.
func (s *Service) AddSuggestion(c *gin.Context) {
	user := s.appCtx.Store.CurrentUser()
	if user == nil {
		svcErr.JSON(c, http.StatusUnauthorized, "log in to suggest titles")
		return
	}

	var item model.CatalogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		svcErr.JSON(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if item.ID == 0 || item.DisplayTitle() == "" {
		svcErr.JSON(c, http.StatusBadRequest, "catalog item needs an id and a title")
		return
	}

	ok, err := s.appCtx.Store.AddSuggestion(c.Request.Context(), item)
	if err != nil {
		s.appCtx.Logger.Warn("state mirror failed after suggestion", "err", err)
	}
	if !ok {
		svcErr.JSON(c, http.StatusConflict, "already suggested")
		return
	}

	s.appCtx.Logger.Info("suggestion added",
		"item_id", item.ID, "title", item.DisplayTitle(), "suggester", user.Username)

	if view, found := s.viewOf(item.ID); found {
		c.JSON(http.StatusCreated, view)
		return
	}
	c.Status(http.StatusCreated)
}

// RemoveSuggestion handles DELETE /api/suggestions/:id. Only the suggester
// may remove an item; the store itself does not own that policy.
func (s *Service) RemoveSuggestion(c *gin.Context) {
	user := s.appCtx.Store.CurrentUser()
	if user == nil {
		svcErr.JSON(c, http.StatusUnauthorized, "log in to remove suggestions")
		return
	}
	itemID, ok := s.itemIDParam(c)
	if !ok {
		return
	}

	item, found := s.findItem(itemID)
	if !found {
		svcErr.JSON(c, http.StatusNotFound, "suggestion not found")
		return
	}
	if item.SuggesterID != user.ID {
		svcErr.JSON(c, http.StatusForbidden, "only the suggester can remove this")
		return
	}

	if err := s.appCtx.Store.RemoveSuggestion(c.Request.Context(), itemID); err != nil {
		s.appCtx.Logger.Warn("state mirror failed after removal", "err", err)
	}
	c.Status(http.StatusNoContent)
}

// Vote handles POST /api/suggestions/:id/vote with toggle semantics: the
// same direction again clears the vote, the other direction switches it.
func (s *Service) Vote(c *gin.Context) {
	user := s.appCtx.Store.CurrentUser()
	if user == nil {
		svcErr.JSON(c, http.StatusUnauthorized, "log in to vote")
		return
	}
	itemID, ok := s.itemIDParam(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.VoteType != model.VoteUp && req.VoteType != model.VoteDown {
		svcErr.JSON(c, http.StatusBadRequest, "vote_type must be \"up\" or \"down\"")
		return
	}
	if _, found := s.findItem(itemID); !found {
		svcErr.JSON(c, http.StatusNotFound, "suggestion not found")
		return
	}

	if err := s.appCtx.Store.VoteOnSuggestion(c.Request.Context(), itemID, req.VoteType); err != nil {
		s.appCtx.Logger.Warn("state mirror failed after vote", "err", err)
	}

	view, _ := s.viewOf(itemID)
	c.JSON(http.StatusOK, view)
}

// Rate handles POST /api/suggestions/:id/rating with toggle semantics: the
// same rating again clears it back to unrated.
func (s *Service) Rate(c *gin.Context) {
	user := s.appCtx.Store.CurrentUser()
	if user == nil {
		svcErr.JSON(c, http.StatusUnauthorized, "log in to rate")
		return
	}
	itemID, ok := s.itemIDParam(c)
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		svcErr.JSON(c, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	if _, found := s.findItem(itemID); !found {
		svcErr.JSON(c, http.StatusNotFound, "suggestion not found")
		return
	}

	if err := s.appCtx.Store.RateSuggestion(c.Request.Context(), itemID, req.Rating); err != nil {
		s.appCtx.Logger.Warn("state mirror failed after rating", "err", err)
	}

	view, _ := s.viewOf(itemID)
	c.JSON(http.StatusOK, view)
}

// SearchCatalog handles GET /api/search — a direct, undebounced gateway
// lookup. Results are capped at 10 by call-site convention.
func (s *Service) SearchCatalog(c *gin.Context) {
	filters := model.SearchFilters{
		Type: model.SearchType(c.DefaultQuery("type", string(model.SearchMulti))),
		Year: c.Query("year"),
	}
	if g := c.Query("genre_id"); g != "" {
		if id, err := strconv.Atoi(g); err == nil {
			filters.GenreID = id
		}
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := s.appCtx.Catalog.Search(c.Request.Context(), c.Query("query"), filters, page)
	if err != nil {
		svcErr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{Results: capResults(result.Results)})
}

// Genres handles GET /api/genres?type=movie|tv.
func (s *Service) Genres(c *gin.Context) {
	kind := model.MediaKind(c.DefaultQuery("type", string(model.KindMovie)))
	if kind != model.KindMovie && kind != model.KindTV {
		svcErr.JSON(c, http.StatusBadRequest, "type must be \"movie\" or \"tv\"")
		return
	}

	genres, err := s.appCtx.Catalog.Genres(c.Request.Context(), kind)
	if err != nil {
		svcErr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenresResponse{Genres: genres})
}

// Trending handles GET /api/trending?type=movie|tv|all&window=day|week.
func (s *Service) Trending(c *gin.Context) {
	kind := c.DefaultQuery("type", "all")
	switch kind {
	case "all", string(model.KindMovie), string(model.KindTV):
	default:
		svcErr.JSON(c, http.StatusBadRequest, "type must be \"movie\", \"tv\" or \"all\"")
		return
	}
	window := c.DefaultQuery("window", "week")
	if window != "day" && window != "week" {
		svcErr.JSON(c, http.StatusBadRequest, "window must be \"day\" or \"week\"")
		return
	}

	result, err := s.appCtx.Catalog.Trending(c.Request.Context(), kind, window)
	if err != nil {
		svcErr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{Results: capResults(result.Results)})
}

// TypeQuery handles PUT /api/search/query — the keystroke-level intent that
// feeds the debounced session. Accepted immediately; the lookup runs after
// the quiet period.
func (s *Service) TypeQuery(c *gin.Context) {
	var req TypeQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.appCtx.Search.TypeQuery(req.Query)
	c.Status(http.StatusAccepted)
}

// SetSearchFilters handles PUT /api/search/filters.
func (s *Service) SetSearchFilters(c *gin.Context) {
	var filters model.SearchFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		svcErr.JSON(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.appCtx.Search.SetFilters(filters)
	c.Status(http.StatusAccepted)
}

// SearchResults handles GET /api/search/results — the session's latest
// published projection.
func (s *Service) SearchResults(c *gin.Context) {
	c.JSON(http.StatusOK, s.appCtx.Search.Results())
}

// --- helpers ---

func (s *Service) itemIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		svcErr.JSON(c, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func (s *Service) findItem(itemID int) (model.SuggestedItem, bool) {
	for _, item := range s.appCtx.Store.State().Suggestions {
		if item.ID == itemID {
			return item, true
		}
	}
	return model.SuggestedItem{}, false
}

func (s *Service) viewOf(itemID int) (SuggestionView, bool) {
	state := s.appCtx.Store.State()
	userID := ""
	if state.CurrentUser != nil {
		userID = state.CurrentUser.ID
	}
	for _, item := range state.Suggestions {
		if item.ID == itemID {
			return projectItem(item, userID), true
		}
	}
	return SuggestionView{}, false
}

func projectItem(item model.SuggestedItem, userID string) SuggestionView {
	return SuggestionView{
		SuggestedItem: item,
		NetVotes:      rank.NetVotes(item),
		AverageRating: rank.AverageRating(item),
		RatingsCount:  len(item.UserRatings),
		MyVote:        rank.VoteOf(item, userID),
		MyRating:      rank.RatingOf(item, userID),
	}
}

func capResults(items []model.CatalogItem) []model.CatalogItem {
	if items == nil {
		return []model.CatalogItem{}
	}
	if len(items) > 10 {
		return items[:10]
	}
	return items
}
