package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type orderResponse struct {
	models.Order
	TotalDisplay string `json:"total_display"`
}

func withDisplay(order models.Order) orderResponse {
	return orderResponse{Order: order, TotalDisplay: utils.FormatCurrency(order.Total)}
}

// CreateOrder submits the waiter's cart for an open table.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input struct {
		TableID string                `json:"table_id" binding:"required"`
		Items   []services.SubmitLine `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	who := currentCaller(c)
	order, err := oc.Orders.SubmitOrder(c.Request.Context(), services.SubmitOrderInput{
		BusinessID: who.BusinessID,
		TableID:    input.TableID,
		WaiterID:   who.UserID,
		Waiter:     who.Name,
		Lines:      input.Items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", withDisplay(order))
}

func (oc *OrderController) GetActiveOrders(c *gin.Context) {
	orders, err := oc.Orders.ListActive(c.Request.Context(), currentCaller(c).BusinessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active orders", orders)
}

func (oc *OrderController) GetMyOrders(c *gin.Context) {
	who := currentCaller(c)
	orders, err := oc.Orders.ListMine(c.Request.Context(), who.BusinessID, who.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Orders.Get(c.Request.Context(), currentCaller(c).BusinessID, c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", withDisplay(order))
}

func (oc *OrderController) CompleteOrder(c *gin.Context) {
	order, err := oc.Orders.Complete(c.Request.Context(), currentCaller(c).BusinessID, c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order completed", withDisplay(order))
}

func (oc *OrderController) CancelOrder(c *gin.Context) {
	order, err := oc.Orders.Cancel(c.Request.Context(), currentCaller(c).BusinessID, c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", withDisplay(order))
}

func (oc *OrderController) MarkItemReady(c *gin.Context) {
	order, err := oc.Orders.MarkItemReady(c.Request.Context(), currentCaller(c).BusinessID, c.Param("order_id"), c.Param("item_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item ready", order)
}

// MarkStationReady marks every item of the order bound for one station.
func (oc *OrderController) MarkStationReady(c *gin.Context) {
	destination, err := services.ParseDestination(c.Param("destination"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	order, err := oc.Orders.MarkDestinationReady(c.Request.Context(), currentCaller(c).BusinessID, c.Param("order_id"), destination)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Station items ready", order)
}

// GetTicket returns the printable ticket; ?format=text answers plain text.
func (oc *OrderController) GetTicket(c *gin.Context) {
	destination, err := services.ParseDestination(c.Param("destination"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ticket, err := oc.Orders.Ticket(c.Request.Context(), currentCaller(c).BusinessID, c.Param("order_id"), destination)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if c.Query("format") == "text" {
		c.String(http.StatusOK, ticket.Text())
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ticket", gin.H{
		"ticket": ticket,
		"text":   ticket.Text(),
	})
}
