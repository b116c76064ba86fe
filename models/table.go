package models

import (
	"fmt"
	"time"
)

type TableStatus string

const (
	TableEmpty    TableStatus = "empty"
	TableOccupied TableStatus = "occupied"
)

type Table struct {
	ID         string      `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BusinessID string      `gorm:"primaryKey;type:varchar(64)" json:"business_id"`
	Number     int         `gorm:"not null" json:"number"`
	Status     TableStatus `gorm:"type:varchar(20);not null;default:'empty'" json:"status"`
	GuestCount int         `gorm:"not null;default:0" json:"guest_count"`
	Waiter     string      `gorm:"type:varchar(255)" json:"waiter,omitempty"`
	WaiterID   uint        `json:"waiter_id,omitempty"`
	OpenedAt   *time.Time  `json:"opened_at,omitempty"`
	Version    int64       `gorm:"not null;default:1" json:"version"`
	UpdatedAt  time.Time   `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// TableID is the stable document id for the n-th table of a business.
func TableID(number int) string {
	return fmt.Sprintf("table-%d", number)
}
