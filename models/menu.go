package models

import "time"

type Destination string

const (
	DestinationBar     Destination = "bar"
	DestinationKitchen Destination = "kitchen"
)

// Destinations lists every preparation station in display order.
var Destinations = []Destination{DestinationBar, DestinationKitchen}

func (d Destination) Valid() bool {
	return d == DestinationBar || d == DestinationKitchen
}

// MenuItem is the live catalog entry. Orders never reference it directly;
// they carry a MenuItemSnapshot taken at submission time.
type MenuItem struct {
	ID          string      `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BusinessID  string      `gorm:"primaryKey;type:varchar(64)" json:"business_id"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	Price       *float64    `gorm:"type:decimal(10,2)" json:"price"`
	Category    string      `gorm:"type:varchar(100);not null" json:"category"`
	SubCategory string      `gorm:"type:varchar(100)" json:"sub_category"`
	Destination Destination `gorm:"type:varchar(20);not null" json:"destination"`
	Description string      `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

// Snapshot copies the fields an order item keeps for its whole life.
func (m MenuItem) Snapshot() MenuItemSnapshot {
	var price *float64
	if m.Price != nil {
		p := *m.Price
		price = &p
	}
	return MenuItemSnapshot{
		ID:          m.ID,
		Name:        m.Name,
		Price:       price,
		Category:    m.Category,
		SubCategory: m.SubCategory,
		Destination: m.Destination,
	}
}
