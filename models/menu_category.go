package models

type CategoryType string

const (
	CategoryFood  CategoryType = "food"
	CategoryDrink CategoryType = "drink"
)

type MenuCategory struct {
	ID            string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BusinessID    string        `gorm:"type:varchar(64);not null;index" json:"business_id"`
	Name          string        `gorm:"type:varchar(100);not null" json:"name"`
	Type          CategoryType  `gorm:"type:varchar(10);not null" json:"type"`
	SortOrder     int           `gorm:"not null;default:0" json:"order"`
	SubCategories []SubCategory `gorm:"serializer:json;type:text" json:"sub_categories"`
}

type SubCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"order"`
}
