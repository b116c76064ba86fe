package models

import "time"

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleWaiter     = "waiter"
	RoleBar        = "bar"
	RoleKitchen    = "kitchen"
)

// SystemBusinessID scopes superadmin accounts, which belong to no business.
const SystemBusinessID = "system"

type User struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	BusinessID string   `gorm:"type:varchar(64);not null;index" json:"business_id"`
	Name       string   `gorm:"type:varchar(255); not null" json:"name"`
	Email      string   `gorm:"type:varchar(255); unique;not null" json:"email"`
	Password   string   `gorm:"type:varchar(255); not null" json:"-"`
	Roles      []string `gorm:"serializer:json;type:text" json:"roles"`
	IsActive   bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedBy  uint     `json:"created_by,omitempty"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
