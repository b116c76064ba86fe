package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderActive    OrderStatus = "active"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID          string      `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BusinessID  string      `gorm:"type:varchar(64);not null;index:idx_orders_business_status" json:"business_id"`
	TableID     string      `gorm:"type:varchar(64);not null;index" json:"table_id"`
	TableNumber int         `gorm:"not null" json:"table_number"`
	Items       []OrderItem `gorm:"serializer:json;type:text" json:"items"`
	WaiterID    uint        `gorm:"not null" json:"waiter_id"`
	Waiter      string      `gorm:"type:varchar(255)" json:"waiter"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'active';index:idx_orders_business_status" json:"status"`
	Total       float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Version     int64       `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Version == 0 {
		o.Version = 1
	}
	return nil
}

func (o Order) IsActive() bool {
	return o.Status == OrderActive
}

// ComputeTotal sums priced lines. Called once at submission.
func (o Order) ComputeTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	return total
}

// Clone deep-copies the item slice so lifecycle mutations never leak into
// a snapshot shared with other readers.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]OrderItem, len(o.Items))
	copy(c.Items, o.Items)
	return c
}
