package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List(c.Request.Context(), currentCaller(c).BusinessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetMyTables lists the tables the caller opened and still serves.
func (tc *TableController) GetMyTables(c *gin.Context) {
	who := currentCaller(c)
	tables, err := tc.Tables.Mine(c.Request.Context(), who.BusinessID, who.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My tables", tables)
}

func (tc *TableController) OpenTable(c *gin.Context) {
	var input struct {
		GuestCount int `json:"guest_count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	who := currentCaller(c)
	table, err := tc.Tables.OpenTable(c.Request.Context(), who.BusinessID, c.Param("table_id"), input.GuestCount, who.UserID, who.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table opened", table)
}

func (tc *TableController) CloseTable(c *gin.Context) {
	table, err := tc.Tables.CloseTable(c.Request.Context(), currentCaller(c).BusinessID, c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table closed", table)
}

// GetPriorities ranks the tables waiting on ready items, oldest first.
func (tc *TableController) GetPriorities(c *gin.Context) {
	ranked, err := tc.Tables.Priorities(c.Request.Context(), currentCaller(c).BusinessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table priorities", ranked)
}
