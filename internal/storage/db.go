package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plexflix/plexflix/internal/db"
	"github.com/plexflix/plexflix/internal/model"
)

// DB persists the three state records in the key-value snapshot table.
type DB struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewDB creates the database backend over an open gorm connection.
func NewDB(database *gorm.DB, log *slog.Logger) *DB {
	if log == nil {
		log = slog.Default()
	}
	return &DB{db: database, log: log}
}

// Load reads the three records. A missing row is the field's default; a row
// that fails to parse is discarded field-locally. Query errors abort the
// load since nothing meaningful can be assembled.
func (d *DB) Load(ctx context.Context) (model.AppState, error) {
	users, err := d.get(ctx, KeyUsers)
	if err != nil {
		return model.AppState{}, err
	}
	suggestions, err := d.get(ctx, KeySuggestions)
	if err != nil {
		return model.AppState{}, err
	}
	current, err := d.get(ctx, KeyCurrentUser)
	if err != nil {
		return model.AppState{}, err
	}
	return decodeState(d.log, users, suggestions, current), nil
}

// Save upserts all three records unconditionally. The first failing write
// aborts; there is no retry.
func (d *DB) Save(ctx context.Context, state model.AppState) error {
	users, suggestions, current, err := encodeState(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	for key, value := range map[string]string{
		KeyUsers:       users,
		KeySuggestions: suggestions,
		KeyCurrentUser: current,
	} {
		record := db.Record{Key: key, Value: value}
		err := d.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).
			Create(&record).Error
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return nil
}

func (d *DB) get(ctx context.Context, key string) (*string, error) {
	var record db.Record
	err := d.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // absent
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return &record.Value, nil
}
