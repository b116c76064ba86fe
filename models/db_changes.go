package models

import (
	"time"
)

const (
	CollectionOrders = "orders"
	CollectionTables = "tables"
)

// DBChange is the change-feed journal. Every store write appends one row in
// the same transaction; the change monitor drains unprocessed rows.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	BusinessID string    `gorm:"type:varchar(64);not null;index"`
	Collection string    `gorm:"type:varchar(50);not null;index:idx_collection_action"`
	RecordID   string    `gorm:"type:varchar(64);not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_collection_action"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}
