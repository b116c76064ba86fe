package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/store"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// MenuSeeder loads a starter menu into a new business.
type MenuSeeder func(ctx context.Context, catalog store.Catalog, businessID string) error

type BusinessService struct {
	Businesses store.BusinessStore
	Catalog    store.Catalog
	Tables     *TableService
	Seeder     MenuSeeder
}

func NewBusinessService(businesses store.BusinessStore, catalog store.Catalog, tables *TableService, seeder MenuSeeder) *BusinessService {
	return &BusinessService{Businesses: businesses, Catalog: catalog, Tables: tables, Seeder: seeder}
}

type CreateBusinessInput struct {
	Name       string `json:"name" binding:"required"`
	Slug       string `json:"slug"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	TableCount int    `json:"table_count"`
	SeedMenu   *bool  `json:"seed_menu"`
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// Create stores a business, provisions its tables and, when asked or when
// seedByDefault is set, loads the sample menu.
func (s *BusinessService) Create(ctx context.Context, in CreateBusinessInput, seedByDefault bool) (models.Business, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Business{}, fmt.Errorf("%w: business name is required", ticketing.ErrInvalidArgument)
	}
	if in.TableCount < 0 {
		return models.Business{}, fmt.Errorf("%w: table count must not be negative", ticketing.ErrInvalidArgument)
	}
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Name)
	}

	business := models.Business{
		Name:     strings.TrimSpace(in.Name),
		Slug:     slug,
		Address:  in.Address,
		Phone:    in.Phone,
		IsActive: true,
	}
	if err := s.Businesses.CreateBusiness(ctx, &business); err != nil {
		return models.Business{}, fmt.Errorf("create business: %w", err)
	}

	if _, err := s.Tables.SetTableCount(ctx, business.ID, in.TableCount); err != nil {
		return models.Business{}, err
	}
	business.TableCount = in.TableCount

	seed := seedByDefault
	if in.SeedMenu != nil {
		seed = *in.SeedMenu
	}
	if seed && s.Seeder != nil {
		if err := s.Seeder(ctx, s.Catalog, business.ID); err != nil {
			return models.Business{}, err
		}
	}

	utils.InfoLogger.Printf("Business created: %s (%s) with %d tables", business.Name, business.ID, business.TableCount)
	return business, nil
}
