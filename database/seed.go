package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/store"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var sampleMenu []byte

type menuFile struct {
	Categories []struct {
		ID            string              `yaml:"id"`
		Name          string              `yaml:"name"`
		Type          models.CategoryType `yaml:"type"`
		Order         int                 `yaml:"order"`
		SubCategories []struct {
			ID    string `yaml:"id"`
			Name  string `yaml:"name"`
			Items []struct {
				ID          string             `yaml:"id"`
				Name        string             `yaml:"name"`
				Price       *float64           `yaml:"price"`
				Destination models.Destination `yaml:"destination"`
				Description string             `yaml:"description"`
			} `yaml:"items"`
		} `yaml:"sub_categories"`
	} `yaml:"categories"`
}

// LoadMenu parses a menu document into catalog rows for businessID.
// Category and item ids are prefixed with the business id so several
// businesses can share the same sample menu.
func LoadMenu(data []byte, businessID string, now time.Time) ([]models.MenuCategory, []models.MenuItem, error) {
	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse menu: %w", err)
	}

	var categories []models.MenuCategory
	var items []models.MenuItem
	for _, c := range file.Categories {
		category := models.MenuCategory{
			ID:         businessID + ":" + c.ID,
			BusinessID: businessID,
			Name:       c.Name,
			Type:       c.Type,
			SortOrder:  c.Order,
		}
		for i, sc := range c.SubCategories {
			category.SubCategories = append(category.SubCategories, models.SubCategory{ID: sc.ID, Name: sc.Name, SortOrder: i + 1})
			for _, it := range sc.Items {
				if !it.Destination.Valid() {
					return nil, nil, fmt.Errorf("menu item %s: unknown destination %q", it.ID, it.Destination)
				}
				items = append(items, models.MenuItem{
					ID:          businessID + ":" + it.ID,
					BusinessID:  businessID,
					Name:        it.Name,
					Price:       it.Price,
					Category:    c.ID,
					SubCategory: sc.ID,
					Destination: it.Destination,
					Description: it.Description,
					IsActive:    true,
					CreatedAt:   now,
					UpdatedAt:   now,
				})
			}
		}
		categories = append(categories, category)
	}
	return categories, items, nil
}

// SeedMenu loads the embedded sample menu into the catalog of businessID.
func SeedMenu(ctx context.Context, catalog store.Catalog, businessID string) error {
	categories, items, err := LoadMenu(sampleMenu, businessID, time.Now())
	if err != nil {
		return err
	}
	for i := range categories {
		if err := catalog.CreateCategory(ctx, &categories[i]); err != nil {
			return fmt.Errorf("seed category %s: %w", categories[i].ID, err)
		}
	}
	for i := range items {
		if err := catalog.CreateMenuItem(ctx, &items[i]); err != nil {
			return fmt.Errorf("seed menu item %s: %w", items[i].ID, err)
		}
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"business_id": businessID,
		"categories":  len(categories),
		"items":       len(items),
	}).Info("Sample menu seeded")
	return nil
}
