package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/plexflix/plexflix/internal/model"
)

// Persister mirrors every applied transition to durable storage and restores
// the last snapshot at startup. Implementations live in internal/storage.
type Persister interface {
	Load(ctx context.Context) (model.AppState, error)
	Save(ctx context.Context, state model.AppState) error
}

// Store owns the canonical in-memory AppState. All transitions run through
// the pure apply function while holding the mutex, so no two transitions
// interleave and no caller can observe a half-applied snapshot.
//
// Validation failures (duplicate username, duplicate suggestion, missing
// session) are reported as boolean false or a silent no-op, never as errors.
// The returned error is always the persistence mirror's error: the in-memory
// transition stands even when the mirror write fails.
type Store struct {
	mu        sync.Mutex
	state     model.AppState
	persister Persister
	log       *slog.Logger
	now       func() time.Time
}

// New creates a Store backed by the given persister. The logger may be nil.
func New(p Persister, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		state:     model.AppState{Users: []model.User{}, Suggestions: []model.SuggestedItem{}},
		persister: p,
		log:       log,
		now:       time.Now,
	}
}

// Load replaces the in-memory snapshot with the persisted one. A session
// referencing an unknown user id is cleared so the CurrentUser invariant
// holds from the first render on.
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if loaded.Users == nil {
		loaded.Users = []model.User{}
	}
	if loaded.Suggestions == nil {
		loaded.Suggestions = []model.SuggestedItem{}
	}
	if loaded.CurrentUser != nil {
		known := false
		for _, u := range loaded.Users {
			if u.ID == loaded.CurrentUser.ID {
				known = true
				break
			}
		}
		if !known {
			s.log.Warn("clearing session for unknown user", "user_id", loaded.CurrentUser.ID)
			loaded.CurrentUser = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, _ = apply(s.state, action{kind: actionLoadState, state: loaded})
	return nil
}

// State returns a deep-copied snapshot for reading.
func (s *Store) State() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CurrentUser returns the logged-in user, or nil.
func (s *Store) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentUser == nil {
		return nil
	}
	u := *s.state.CurrentUser
	return &u
}

// RegisterUser creates a local identity with id = trimmed username.
//
// Behavior:
//   - Empty (after trimming) usernames are rejected.
//   - An existing username matching case-insensitively rejects the new one.
//   - Registration does not log the user in.
func (s *Store) RegisterUser(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.Users {
		if strings.EqualFold(u.Username, username) {
			return false, nil
		}
	}

	return s.dispatch(ctx, action{
		kind: actionAddUser,
		user: model.User{ID: username, Username: username},
	})
}

// SetCurrentUser logs in the user with the exact given username. Unknown
// usernames are a silent no-op.
func (s *Store) SetCurrentUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.Users {
		if u.Username == username {
			user := u
			_, err := s.dispatch(ctx, action{kind: actionSetCurrentUser, currentUser: &user})
			return err
		}
	}
	return nil
}

// Logout clears the session.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.dispatch(ctx, action{kind: actionSetCurrentUser, currentUser: nil})
	return err
}

// AddSuggestion proposes a catalog item to the group.
//
// Behavior:
//   - Requires a session; false otherwise.
//   - An item with the same catalog id already suggested is rejected.
//   - The current user is snapshotted as suggester; votes/ratings start
//     empty; the new item is prepended (newest first).
func (s *Store) AddSuggestion(ctx context.Context, item model.CatalogItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CurrentUser == nil {
		return false, nil
	}
	for _, existing := range s.state.Suggestions {
		if existing.ID == item.ID {
			return false, nil
		}
	}

	return s.dispatch(ctx, action{
		kind: actionAddSuggestion,
		suggestion: model.SuggestedItem{
			CatalogItem:       item,
			SuggesterID:       s.state.CurrentUser.ID,
			SuggesterUsername: s.state.CurrentUser.Username,
			UserVotes:         []model.UserVote{},
			UserRatings:       []model.UserRating{},
			AddedAt:           s.now().UnixMilli(),
		},
	})
}

// VoteOnSuggestion applies toggle semantics for the current user's vote.
// No session, unknown item or vote type: silent no-op.
func (s *Store) VoteOnSuggestion(ctx context.Context, itemID int, voteType model.VoteType) error {
	if voteType != model.VoteUp && voteType != model.VoteDown {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CurrentUser == nil {
		return nil
	}
	_, err := s.dispatch(ctx, action{
		kind:     actionVoteSuggestion,
		itemID:   itemID,
		userID:   s.state.CurrentUser.ID,
		voteType: voteType,
	})
	return err
}

// RateSuggestion applies toggle semantics for the current user's rating.
// Ratings outside 1..5 are a silent no-op; 0 is reserved for "unrated" and
// is never stored.
func (s *Store) RateSuggestion(ctx context.Context, itemID, rating int) error {
	if rating < 1 || rating > 5 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CurrentUser == nil {
		return nil
	}
	_, err := s.dispatch(ctx, action{
		kind:   actionRateSuggestion,
		itemID: itemID,
		userID: s.state.CurrentUser.ID,
		rating: rating,
	})
	return err
}

// RemoveSuggestion deletes the item if present. Requires a session; the
// suggester-only policy is enforced by the presentation layer, not here.
func (s *Store) RemoveSuggestion(ctx context.Context, itemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CurrentUser == nil {
		return nil
	}
	_, err := s.dispatch(ctx, action{kind: actionRemoveSuggestion, itemID: itemID})
	return err
}

// dispatch runs one action through apply and, when the snapshot actually
// changed, rewrites it in full through the persister. Called with the mutex
// held so the write always reflects the transition that triggered it.
// Mirror failures are logged and returned; they are never retried and the
// in-memory transition is not rolled back.
func (s *Store) dispatch(ctx context.Context, a action) (bool, error) {
	next, changed := apply(s.state, a)
	if !changed {
		return false, nil
	}
	s.state = next

	if s.persister == nil {
		return true, nil
	}
	if err := s.persister.Save(ctx, s.state); err != nil {
		s.log.Error("failed to persist state", "err", err)
		return true, err
	}
	return true, nil
}
