package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/store"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type MenuController struct {
	Catalog store.Catalog
	Now     func() time.Time
}

func NewMenuController(catalog store.Catalog) *MenuController {
	return &MenuController{Catalog: catalog, Now: time.Now}
}

// GetMenu lists the items waiters can order right now.
func (mc *MenuController) GetMenu(c *gin.Context) {
	items, err := mc.Catalog.GetActiveMenuItems(c.Request.Context(), currentCaller(c).BusinessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", items)
}

func (mc *MenuController) GetCategories(c *gin.Context) {
	categories, err := mc.Catalog.ListCategories(c.Request.Context(), currentCaller(c).BusinessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var input struct {
		ID          string   `json:"id"`
		Name        string   `json:"name" binding:"required"`
		Price       *float64 `json:"price"`
		Category    string   `json:"category" binding:"required"`
		SubCategory string   `json:"sub_category"`
		Destination string   `json:"destination" binding:"required"`
		Description string   `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	destination := models.Destination(strings.ToLower(input.Destination))
	if !destination.Valid() {
		respondServiceError(c, fmt.Errorf("%w: destination must be bar or kitchen", ticketing.ErrInvalidArgument))
		return
	}
	if input.Price != nil && *input.Price < 0 {
		respondServiceError(c, fmt.Errorf("%w: price must not be negative", ticketing.ErrInvalidArgument))
		return
	}
	businessID := currentCaller(c).BusinessID
	if input.ID == "" {
		input.ID = uuid.NewString()
	} else if _, err := mc.Catalog.GetMenuItem(c.Request.Context(), businessID, input.ID); err == nil {
		respondServiceError(c, fmt.Errorf("%w: menu item %s already exists", ticketing.ErrInvalidState, input.ID))
		return
	} else if !errors.Is(err, ticketing.ErrNotFound) {
		respondServiceError(c, err)
		return
	}

	now := mc.Now()
	item := models.MenuItem{
		ID:          input.ID,
		BusinessID:  businessID,
		Name:        input.Name,
		Price:       input.Price,
		Category:    input.Category,
		SubCategory: input.SubCategory,
		Destination: destination,
		Description: input.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := mc.Catalog.CreateMenuItem(c.Request.Context(), &item); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Menu item created: %s (%s)", item.Name, item.ID)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem patches a catalog entry. Orders already submitted keep
// their snapshot.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	var input struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		ClearPrice  bool     `json:"clear_price"`
		Category    *string  `json:"category"`
		SubCategory *string  `json:"sub_category"`
		Destination *string  `json:"destination"`
		Description *string  `json:"description"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Catalog.GetMenuItem(c.Request.Context(), currentCaller(c).BusinessID, c.Param("item_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			respondServiceError(c, fmt.Errorf("%w: price must not be negative", ticketing.ErrInvalidArgument))
			return
		}
		item.Price = input.Price
	}
	if input.ClearPrice {
		item.Price = nil
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.SubCategory != nil {
		item.SubCategory = *input.SubCategory
	}
	if input.Destination != nil {
		destination := models.Destination(strings.ToLower(*input.Destination))
		if !destination.Valid() {
			respondServiceError(c, fmt.Errorf("%w: destination must be bar or kitchen", ticketing.ErrInvalidArgument))
			return
		}
		item.Destination = destination
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	item.UpdatedAt = mc.Now()

	if err := mc.Catalog.UpdateMenuItem(c.Request.Context(), &item); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}
