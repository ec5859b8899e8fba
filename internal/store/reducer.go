package store

import "github.com/plexflix/plexflix/internal/model"

type actionKind int

const (
	actionLoadState actionKind = iota
	actionAddUser
	actionSetCurrentUser
	actionAddSuggestion
	actionVoteSuggestion
	actionRateSuggestion
	actionRemoveSuggestion
)

// action is a single state transition request. Only the fields relevant to
// the kind are set.
type action struct {
	kind actionKind

	state       model.AppState // actionLoadState
	user        model.User     // actionAddUser
	currentUser *model.User    // actionSetCurrentUser

	suggestion model.SuggestedItem // actionAddSuggestion

	itemID   int            // vote/rate/remove
	userID   string         // vote/rate
	voteType model.VoteType // actionVoteSuggestion
	rating   int            // actionRateSuggestion
}

// apply is the pure transition function over an immutable snapshot.
// It is total: an action that does not apply returns the input unchanged
// with changed = false. The new snapshot is built in full before it is
// returned, so callers never observe a partially-applied transition.
func apply(state model.AppState, a action) (next model.AppState, changed bool) {
	switch a.kind {
	case actionLoadState:
		return a.state, true

	case actionAddUser:
		for _, u := range state.Users {
			if u.ID == a.user.ID {
				return state, false // already exists
			}
		}
		next = state.Clone()
		next.Users = append(next.Users, a.user)
		return next, true

	case actionSetCurrentUser:
		next = state.Clone()
		if a.currentUser == nil {
			next.CurrentUser = nil
		} else {
			u := *a.currentUser
			next.CurrentUser = &u
		}
		return next, true

	case actionAddSuggestion:
		for _, s := range state.Suggestions {
			if s.ID == a.suggestion.ID {
				return state, false // already suggested
			}
		}
		next = state.Clone()
		// newest first
		next.Suggestions = append([]model.SuggestedItem{a.suggestion}, next.Suggestions...)
		return next, true

	case actionVoteSuggestion:
		next = state.Clone()
		for i := range next.Suggestions {
			item := &next.Suggestions[i]
			if item.ID != a.itemID {
				continue
			}
			item.UserVotes = toggleVote(item.UserVotes, a.userID, a.voteType)
			return next, true
		}
		return state, false

	case actionRateSuggestion:
		next = state.Clone()
		for i := range next.Suggestions {
			item := &next.Suggestions[i]
			if item.ID != a.itemID {
				continue
			}
			item.UserRatings = toggleRating(item.UserRatings, a.userID, a.rating)
			return next, true
		}
		return state, false

	case actionRemoveSuggestion:
		for _, s := range state.Suggestions {
			if s.ID == a.itemID {
				next = state.Clone()
				kept := next.Suggestions[:0]
				for _, item := range next.Suggestions {
					if item.ID != a.itemID {
						kept = append(kept, item)
					}
				}
				next.Suggestions = kept
				return next, true
			}
		}
		return state, false
	}

	return state, false
}

// toggleVote enforces at most one vote per user per item:
// same vote again removes it, a different vote replaces it, no prior vote
// adds one.
func toggleVote(votes []model.UserVote, userID string, voteType model.VoteType) []model.UserVote {
	for i, v := range votes {
		if v.UserID != userID {
			continue
		}
		if v.VoteType == voteType {
			return append(votes[:i], votes[i+1:]...) // un-vote
		}
		votes[i] = model.UserVote{UserID: userID, VoteType: voteType} // switch
		return votes
	}
	return append(votes, model.UserVote{UserID: userID, VoteType: voteType})
}

// toggleRating mirrors toggleVote for 1-5 star ratings. A removed rating
// reverts the user to the implicit "unrated" state.
func toggleRating(ratings []model.UserRating, userID string, rating int) []model.UserRating {
	for i, r := range ratings {
		if r.UserID != userID {
			continue
		}
		if r.Rating == rating {
			return append(ratings[:i], ratings[i+1:]...) // clear
		}
		ratings[i] = model.UserRating{UserID: userID, Rating: rating} // replace
		return ratings
	}
	return append(ratings, model.UserRating{UserID: userID, Rating: rating})
}
