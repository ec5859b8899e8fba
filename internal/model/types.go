package model

import "strings"

// MediaKind tags a catalog entry as a movie or a TV show.
// It is resolved once when results enter the system; downstream code never
// re-derives it from which title/date fields happen to be set.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// VoteType is the direction of a user's vote on a suggestion.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// SortOption selects the display ordering of the suggestion list.
type SortOption string

const (
	SortNewestAdded  SortOption = "newest_added"
	SortOldestAdded  SortOption = "oldest_added"
	SortMostUpvotes  SortOption = "most_upvotes"
	SortHighestRated SortOption = "highest_rated"
)

// User is a lightweight local identity. The ID is the trimmed username as
// typed at registration; uniqueness is checked case-insensitively but the
// original casing is stored. Users are immutable and never deleted.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Genre is a catalog genre vocabulary entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CatalogItem is a single movie/TV entry from the external catalog.
//
// The wire shape mirrors the catalog API: movies carry Title/ReleaseDate,
// shows carry Name/FirstAirDate. Kind is filled in at ingestion for
// endpoints that do not echo a media_type themselves.
type CatalogItem struct {
	ID           int       `json:"id"`
	Kind         MediaKind `json:"media_type"`
	Title        string    `json:"title,omitempty"`
	Name         string    `json:"name,omitempty"`
	Overview     string    `json:"overview"`
	PosterPath   string    `json:"poster_path"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	FirstAirDate string    `json:"first_air_date,omitempty"`
	VoteAverage  float64   `json:"vote_average"`
	VoteCount    int       `json:"vote_count"`
	GenreIDs     []int     `json:"genre_ids,omitempty"`
	Popularity   float64   `json:"popularity,omitempty"`
}

// DisplayTitle resolves the movie/show title split.
func (c CatalogItem) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// DisplayDate resolves the release/first-air date split ("YYYY-MM-DD").
func (c CatalogItem) DisplayDate() string {
	if c.ReleaseDate != "" {
		return c.ReleaseDate
	}
	return c.FirstAirDate
}

// Year returns the four-digit year of the display date, or "" if unknown.
func (c CatalogItem) Year() string {
	d := c.DisplayDate()
	if len(d) < 4 {
		return ""
	}
	return d[:4]
}

// HasGenre reports whether the item's genre-id set contains id.
func (c CatalogItem) HasGenre(id int) bool {
	for _, g := range c.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// UserVote records one user's vote on a suggestion.
// At most one vote per (item, user) pair exists at any time; the store's
// transition logic enforces this, not a storage constraint.
type UserVote struct {
	UserID   string   `json:"userId"`
	VoteType VoteType `json:"voteType"`
}

// UserRating records one user's 1-5 star rating of a suggestion.
// 0 means "unrated" and is never stored as an explicit entry.
type UserRating struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
}

// SuggestedItem is a catalog item proposed to the group. The suggester's
// identity is snapshotted at suggestion time; votes and ratings accumulate
// on the item afterwards. Identity is the catalog item id.
type SuggestedItem struct {
	CatalogItem
	SuggesterID       string       `json:"suggesterId"`
	SuggesterUsername string       `json:"suggesterUsername"`
	UserVotes         []UserVote   `json:"userVotes"`
	UserRatings       []UserRating `json:"userRatings"`
	AddedAt           int64        `json:"addedAt"` // unix millis
}

// AppState is the root application snapshot.
//
// Invariants:
//   - Users holds insertion order; Suggestions holds newest-first order.
//   - CurrentUser, when non-nil, references an ID present in Users.
type AppState struct {
	Users       []User          `json:"users"`
	Suggestions []SuggestedItem `json:"suggestions"`
	CurrentUser *User           `json:"currentUser"`
}

// Clone returns a deep copy so no shared mutable structure escapes the
// owning coordinator.
func (s AppState) Clone() AppState {
	out := AppState{}
	if s.Users != nil {
		out.Users = make([]User, len(s.Users))
		copy(out.Users, s.Users)
	}
	if s.Suggestions != nil {
		out.Suggestions = make([]SuggestedItem, len(s.Suggestions))
		for i, item := range s.Suggestions {
			out.Suggestions[i] = item.clone()
		}
	}
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	return out
}

func (s SuggestedItem) clone() SuggestedItem {
	out := s
	if s.GenreIDs != nil {
		out.GenreIDs = make([]int, len(s.GenreIDs))
		copy(out.GenreIDs, s.GenreIDs)
	}
	if s.UserVotes != nil {
		out.UserVotes = make([]UserVote, len(s.UserVotes))
		copy(out.UserVotes, s.UserVotes)
	}
	if s.UserRatings != nil {
		out.UserRatings = make([]UserRating, len(s.UserRatings))
		copy(out.UserRatings, s.UserRatings)
	}
	return out
}

// SearchType is the catalog search scope.
type SearchType string

const (
	SearchMovie SearchType = "movie"
	SearchTV    SearchType = "tv"
	SearchMulti SearchType = "multi"
)

// SearchFilters narrows a catalog search. Year and GenreID are optional;
// a zero GenreID means "all genres".
type SearchFilters struct {
	Type    SearchType `json:"type"`
	Year    string     `json:"year,omitempty"`
	GenreID int        `json:"genreId,omitempty"`
}

// Normalize fills defaults so downstream code can rely on Type being set.
func (f SearchFilters) Normalize() SearchFilters {
	if f.Type == "" {
		f.Type = SearchMulti
	}
	f.Year = strings.TrimSpace(f.Year)
	return f
}
