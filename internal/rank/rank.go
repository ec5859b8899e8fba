// Package rank holds the derived, non-stored projections over suggestions:
// net vote counts, average ratings and display orderings. Everything here is
// a pure function; nothing is cached or persisted.
package rank

import (
	"sort"

	"github.com/plexflix/plexflix/internal/model"
)

// NetVotes is upvotes minus downvotes.
func NetVotes(item model.SuggestedItem) int {
	net := 0
	for _, v := range item.UserVotes {
		if v.VoteType == model.VoteUp {
			net++
		} else {
			net--
		}
	}
	return net
}

// AverageRating is the mean of all rating values, or 0 when the item has no
// ratings. 0 is the sentinel for "unrated"; it is never itself a stored
// rating value.
func AverageRating(item model.SuggestedItem) float64 {
	if len(item.UserRatings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range item.UserRatings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(item.UserRatings))
}

// VoteOf returns the user's vote on the item, or "" if they have not voted.
func VoteOf(item model.SuggestedItem, userID string) model.VoteType {
	for _, v := range item.UserVotes {
		if v.UserID == userID {
			return v.VoteType
		}
	}
	return ""
}

// RatingOf returns the user's rating of the item, or 0 if unrated.
func RatingOf(item model.SuggestedItem, userID string) int {
	for _, r := range item.UserRatings {
		if r.UserID == userID {
			return r.Rating
		}
	}
	return 0
}

// Sort returns a sorted copy of items. All orderings are stable: items that
// compare equal keep their relative order from the input list. Unknown
// options fall back to newest-added.
func Sort(items []model.SuggestedItem, option model.SortOption) []model.SuggestedItem {
	sorted := make([]model.SuggestedItem, len(items))
	copy(sorted, items)

	switch option {
	case model.SortOldestAdded:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].AddedAt < sorted[j].AddedAt
		})
	case model.SortMostUpvotes:
		sort.SliceStable(sorted, func(i, j int) bool {
			return NetVotes(sorted[i]) > NetVotes(sorted[j])
		})
	case model.SortHighestRated:
		sort.SliceStable(sorted, func(i, j int) bool {
			return AverageRating(sorted[i]) > AverageRating(sorted[j])
		})
	default: // SortNewestAdded
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].AddedAt > sorted[j].AddedAt
		})
	}
	return sorted
}
