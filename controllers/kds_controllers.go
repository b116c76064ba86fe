package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// KDSController serves the bar and kitchen displays.
type KDSController struct {
	Orders *services.OrderService
	Hub    *kds.Hub
}

func NewKDSController(orders *services.OrderService, hub *kds.Hub) *KDSController {
	return &KDSController{Orders: orders, Hub: hub}
}

func (kc *KDSController) GetBoard(c *gin.Context) {
	destination, err := services.ParseDestination(c.Param("destination"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	board, err := kc.Orders.Board(c.Request.Context(), currentCaller(c).BusinessID, destination)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Board", board)
}

// MarkGroupReady marks a merged line ready across every order it spans.
func (kc *KDSController) MarkGroupReady(c *gin.Context) {
	var input struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	destination, err := services.ParseDestination(c.Param("destination"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	group, err := kc.Orders.MarkGroupReady(c.Request.Context(), currentCaller(c).BusinessID, destination, input.Key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Group ready", group)
}

// Handler upgrades the request and keeps the display registered until it
// disconnects.
func (kc *KDSController) Handler(c *gin.Context) {
	who := currentCaller(c)
	roles := c.GetStringSlice(middlewares.ContextRoles)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Warnf("websocket upgrade failed: %v", err)
		return
	}

	client := kc.Hub.Register(ws, who.BusinessID, roles)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	kc.Hub.Unregister(client)
	utils.InfoLogger.WithFields(logrus.Fields{
		"business_id": who.BusinessID,
		"remaining":   kc.Hub.ClientCount(who.BusinessID),
	}).Info("KDS client disconnected")
}
