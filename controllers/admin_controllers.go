package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type AdminController struct {
	Tables        *services.TableService
	Businesses    *services.BusinessService
	SeedByDefault bool
}

func NewAdminController(tables *services.TableService, businesses *services.BusinessService, seedByDefault bool) *AdminController {
	return &AdminController{Tables: tables, Businesses: businesses, SeedByDefault: seedByDefault}
}

// SetTableCount grows or shrinks the floor plan of the caller's business.
func (ac *AdminController) SetTableCount(c *gin.Context) {
	var input struct {
		Count *int `json:"count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := ac.Tables.SetTableCount(c.Request.Context(), currentCaller(c).BusinessID, *input.Count)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table count updated", result)
}

func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.Tables.Dashboard(c.Request.Context(), currentCaller(c).BusinessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

func (ac *AdminController) CreateBusiness(c *gin.Context) {
	var input services.CreateBusinessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	business, err := ac.Businesses.Create(c.Request.Context(), input, ac.SeedByDefault)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Business created", business)
}
