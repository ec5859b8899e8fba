package board

import "github.com/plexflix/plexflix/internal/model"

// Request types

type RegisterRequest struct {
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username"`
}

type VoteRequest struct {
	VoteType model.VoteType `json:"vote_type"`
}

type RateRequest struct {
	Rating int `json:"rating"`
}

type TypeQueryRequest struct {
	Query string `json:"query"`
}

// Response types

// SuggestionView is a suggestion plus its derived projections. MyVote and
// MyRating reflect the session user and are empty/zero when logged out.
type SuggestionView struct {
	model.SuggestedItem
	NetVotes      int            `json:"net_votes"`
	AverageRating float64        `json:"average_rating"`
	RatingsCount  int            `json:"ratings_count"`
	MyVote        model.VoteType `json:"my_vote,omitempty"`
	MyRating      int            `json:"my_rating,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []SuggestionView `json:"suggestions"`
	Total       int              `json:"total"`
	Sort        model.SortOption `json:"sort"`
}

type SearchResponse struct {
	Results []model.CatalogItem `json:"results"`
}

type GenresResponse struct {
	Genres []model.Genre `json:"genres"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
