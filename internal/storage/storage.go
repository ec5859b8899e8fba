// Package storage mirrors the application state to durable key-value
// storage as three independently-keyed JSON text records, the same layout
// the web client keeps in browser localStorage.
package storage

import (
	"encoding/json"
	"log/slog"

	"github.com/plexflix/plexflix/internal/model"
)

// Storage keys. One record per state field so corruption in one never
// takes down the others.
const (
	KeyUsers       = "plexflix_users"
	KeySuggestions = "plexflix_suggestions"
	KeyCurrentUser = "plexflix_currentUser"
)

// encodeState serializes the three persisted fields. Field order inside the
// JSON is irrelevant; every save rewrites all three values in full.
func encodeState(state model.AppState) (users, suggestions, currentUser string, err error) {
	u, err := json.Marshal(state.Users)
	if err != nil {
		return "", "", "", err
	}
	s, err := json.Marshal(state.Suggestions)
	if err != nil {
		return "", "", "", err
	}
	c, err := json.Marshal(state.CurrentUser) // "null" when logged out
	if err != nil {
		return "", "", "", err
	}
	return string(u), string(s), string(c), nil
}

// decodeState assembles a snapshot from raw records. A nil pointer means the
// key was absent. Any record that fails to parse falls back to that field's
// default only; the other two still load.
func decodeState(log *slog.Logger, usersRaw, suggestionsRaw, currentRaw *string) model.AppState {
	state := model.AppState{
		Users:       []model.User{},
		Suggestions: []model.SuggestedItem{},
	}

	if usersRaw != nil {
		if err := json.Unmarshal([]byte(*usersRaw), &state.Users); err != nil {
			log.Warn("discarding corrupt users record", "key", KeyUsers, "err", err)
			state.Users = []model.User{}
		}
	}
	if suggestionsRaw != nil {
		if err := json.Unmarshal([]byte(*suggestionsRaw), &state.Suggestions); err != nil {
			log.Warn("discarding corrupt suggestions record", "key", KeySuggestions, "err", err)
			state.Suggestions = []model.SuggestedItem{}
		}
	}
	if currentRaw != nil {
		if err := json.Unmarshal([]byte(*currentRaw), &state.CurrentUser); err != nil {
			log.Warn("discarding corrupt session record", "key", KeyCurrentUser, "err", err)
			state.CurrentUser = nil
		}
	}
	if state.Users == nil {
		state.Users = []model.User{}
	}
	if state.Suggestions == nil {
		state.Suggestions = []model.SuggestedItem{}
	}
	return state
}
