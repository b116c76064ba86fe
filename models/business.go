package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Business struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Address    string    `gorm:"type:varchar(255)" json:"address,omitempty"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	TableCount int       `gorm:"not null;default:0" json:"table_count"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
