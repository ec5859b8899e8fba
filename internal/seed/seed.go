// Package seed populates a fresh board with demo users and suggestions.
package seed

import (
	"context"
	"fmt"

	"github.com/plexflix/plexflix/internal/model"
	"github.com/plexflix/plexflix/internal/store"
)

// demoTitle is a catalog item plus the username that will suggest it.
type demoTitle struct {
	suggester string
	item      model.CatalogItem
}

// DemoData resets nothing; it drives the store through its normal
// transitions so every seeded mutation is mirrored to storage exactly like
// a live one. Registers three users, suggests a handful of titles and
// sprinkles votes and ratings over them, then logs out.
func DemoData(ctx context.Context, st *store.Store) error {
	usernames := []string{"alice", "bob", "carol"}
	for _, name := range usernames {
		if _, err := st.RegisterUser(ctx, name); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", name, err)
		}
	}

	titles := []demoTitle{
		{"alice", model.CatalogItem{
			ID: 27205, Kind: model.KindMovie, Title: "Inception",
			Overview:    "A thief who steals corporate secrets through dream-sharing technology.",
			ReleaseDate: "2010-07-15", VoteAverage: 8.4, GenreIDs: []int{28, 878},
		}},
		{"alice", model.CatalogItem{
			ID: 1396, Kind: model.KindTV, Name: "Breaking Bad",
			Overview:     "A chemistry teacher turns to manufacturing methamphetamine.",
			FirstAirDate: "2008-01-20", VoteAverage: 8.9, GenreIDs: []int{18, 80},
		}},
		{"bob", model.CatalogItem{
			ID: 603, Kind: model.KindMovie, Title: "The Matrix",
			Overview:    "A hacker learns the truth about his reality.",
			ReleaseDate: "1999-03-30", VoteAverage: 8.2, GenreIDs: []int{28, 878},
		}},
		{"carol", model.CatalogItem{
			ID: 1399, Kind: model.KindTV, Name: "Game of Thrones",
			Overview:     "Noble families vie for control of the Iron Throne.",
			FirstAirDate: "2011-04-17", VoteAverage: 8.4, GenreIDs: []int{18, 10765},
		}},
	}

	for _, t := range titles {
		if err := st.SetCurrentUser(ctx, t.suggester); err != nil {
			return fmt.Errorf("failed to switch to %q: %w", t.suggester, err)
		}
		if _, err := st.AddSuggestion(ctx, t.item); err != nil {
			return fmt.Errorf("failed to seed suggestion %d: %w", t.item.ID, err)
		}
	}

	votes := []struct {
		username string
		itemID   int
		vote     model.VoteType
	}{
		{"bob", 27205, model.VoteUp},
		{"carol", 27205, model.VoteUp},
		{"alice", 603, model.VoteUp},
		{"carol", 603, model.VoteDown},
		{"bob", 1399, model.VoteUp},
	}
	for _, v := range votes {
		if err := st.SetCurrentUser(ctx, v.username); err != nil {
			return err
		}
		if err := st.VoteOnSuggestion(ctx, v.itemID, v.vote); err != nil {
			return fmt.Errorf("failed to seed vote on %d: %w", v.itemID, err)
		}
	}

	ratings := []struct {
		username string
		itemID   int
		rating   int
	}{
		{"bob", 27205, 5},
		{"carol", 27205, 4},
		{"alice", 1396, 5},
		{"alice", 1399, 3},
	}
	for _, r := range ratings {
		if err := st.SetCurrentUser(ctx, r.username); err != nil {
			return err
		}
		if err := st.RateSuggestion(ctx, r.itemID, r.rating); err != nil {
			return fmt.Errorf("failed to seed rating on %d: %w", r.itemID, err)
		}
	}

	return st.Logout(ctx)
}
