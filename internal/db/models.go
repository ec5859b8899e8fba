package db

import "time"

// Record is one persisted state field, stored as serialized JSON text under
// a fixed key. The table is a plain key-value store: the snapshot layout in
// the value is owned by internal/storage, not by the schema.
type Record struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
