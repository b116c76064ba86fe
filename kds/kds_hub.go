// Package kds pushes live bar, kitchen and floor updates to connected
// displays over websockets.
package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// Event types
const (
	EventBoardUpdate     = "board_update"
	EventOrderUpdate     = "order_update"
	EventTableUpdate     = "table_update"
	EventPriorityUpdate  = "priority_update"
	EventDashboardUpdate = "dashboard_update"
	EventStaffNotif      = "staff_notification"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client is one connected display, scoped to a single business.
type Client struct {
	conn       *websocket.Conn
	BusinessID string
	Roles      []string
}

func (c *Client) accepts(roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type Hub struct {
	clients map[*Client]struct{}
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(conn *websocket.Conn, businessID string, roles []string) *Client {
	client := &Client{conn: conn, BusinessID: businessID, Roles: roles}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[client] = struct{}{}
	utils.InfoLogger.WithFields(logrus.Fields{
		"business_id": businessID,
		"roles":       roles,
	}).Info("KDS client connected")
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.conn.Close()
}

func (h *Hub) ClientCount(businessID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for c := range h.clients {
		if c.BusinessID == businessID {
			n++
		}
	}
	return n
}

// BroadcastBoard sends a destination board to that station and admins.
func (h *Hub) BroadcastBoard(businessID string, destination models.Destination, board interface{}) {
	role := models.RoleKitchen
	if destination == models.DestinationBar {
		role = models.RoleBar
	}
	h.Broadcast(businessID, Message{
		Event: EventBoardUpdate,
		Data: map[string]interface{}{
			"destination": destination,
			"board":       board,
		},
	}, role, models.RoleAdmin, models.RoleSuperAdmin)
}

// BroadcastOrderUpdate announces that an order document changed.
func (h *Hub) BroadcastOrderUpdate(businessID, orderID, action string) {
	h.Broadcast(businessID, Message{
		Event: EventOrderUpdate,
		Data: map[string]string{
			"order_id": orderID,
			"action":   action,
		},
	})
}

func (h *Hub) BroadcastTables(businessID string, tables []models.Table) {
	h.Broadcast(businessID, Message{Event: EventTableUpdate, Data: tables})
}

// BroadcastPriorities sends the table ranking to the floor staff.
func (h *Hub) BroadcastPriorities(businessID string, priorities interface{}) {
	h.Broadcast(businessID, Message{Event: EventPriorityUpdate, Data: priorities},
		models.RoleWaiter, models.RoleAdmin, models.RoleSuperAdmin)
}

func (h *Hub) BroadcastDashboard(businessID string, stats interface{}) {
	h.Broadcast(businessID, Message{Event: EventDashboardUpdate, Data: stats},
		models.RoleAdmin, models.RoleSuperAdmin)
}

func (h *Hub) BroadcastStaffNotification(businessID, message string) {
	h.Broadcast(businessID, Message{Event: EventStaffNotif, Data: message})
}

// Broadcast writes msg to every client of businessID holding one of roles.
// No roles means every client of the business. Clients that fail a write
// are dropped.
func (h *Hub) Broadcast(businessID string, msg Message, roles ...string) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	sent := 0
	for client := range h.clients {
		if client.BusinessID != businessID || !client.accepts(roles) {
			continue
		}
		client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Warnf("Error sending %s to client: %v", msg.Event, err)
			delete(h.clients, client)
			client.conn.Close()
			continue
		}
		sent++
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"business_id": businessID,
		"event":       msg.Event,
		"clients":     sent,
	}).Debug("Broadcast sent")
}
