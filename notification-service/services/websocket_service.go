package services

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"tenanthub-backend/shared/config"
	"tenanthub-backend/shared/database/models/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocketManager tracks one connection per user and pushes workspace
// notifications to them. A reconnect replaces the previous connection.
type WebSocketManager struct {
	clients  map[string]*websocket.Conn // userID -> connection
	mutex    sync.RWMutex
	upgrader websocket.Upgrader
}

var (
	wsManager *WebSocketManager
	once      sync.Once
)

// GetWebSocketManager returns singleton WebSocket manager
func GetWebSocketManager() *WebSocketManager {
	once.Do(func() {
		wsManager = &WebSocketManager{
			clients: make(map[string]*websocket.Conn),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					origin := r.Header.Get("Origin")
					if origin == config.GetConfig().FrontendURL {
						return true
					}
					log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
					return false
				},
			},
		}
	})
	return wsManager
}

// register adds a client connection, closing any previous one
func (wsm *WebSocketManager) register(userID string, conn *websocket.Conn) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	if existing, ok := wsm.clients[userID]; ok {
		existing.Close()
	}
	wsm.clients[userID] = conn
	log.Printf("🔌 WebSocket client connected: %s (Total: %d)", userID, len(wsm.clients))
}

// unregister drops a client connection if it is still the active one
func (wsm *WebSocketManager) unregister(userID string, conn *websocket.Conn) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	if current, ok := wsm.clients[userID]; ok && current == conn {
		delete(wsm.clients, userID)
		conn.Close()
		log.Printf("🔌 WebSocket client disconnected: %s (Total: %d)", userID, len(wsm.clients))
	}
}

// SendToUser sends message to specific user
func (wsm *WebSocketManager) SendToUser(userID string, message *notification.WebSocketMessage) error {
	wsm.mutex.RLock()
	conn, exists := wsm.clients[userID]
	wsm.mutex.RUnlock()

	if !exists {
		return fmt.Errorf("user %s not connected", userID)
	}

	if err := conn.WriteJSON(message); err != nil {
		wsm.unregister(userID, conn)
		return err
	}
	return nil
}

// BroadcastToAll sends message to every connected client
func (wsm *WebSocketManager) BroadcastToAll(message *notification.WebSocketMessage) {
	wsm.mutex.RLock()
	targets := make(map[string]*websocket.Conn, len(wsm.clients))
	for userID, conn := range wsm.clients {
		targets[userID] = conn
	}
	wsm.mutex.RUnlock()

	for userID, conn := range targets {
		if err := conn.WriteJSON(message); err != nil {
			log.Printf("❌ Failed to send message to user %s: %v", userID, err)
			wsm.unregister(userID, conn)
		}
	}
}

// HandleWebSocketConnection upgrades HTTP connection to WebSocket
func (wsm *WebSocketManager) HandleWebSocketConnection(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID required"})
		return
	}

	conn, err := wsm.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Failed to upgrade WebSocket: %v", err)
		return
	}

	wsm.register(userID, conn)
	defer wsm.unregister(userID, conn)

	welcome := &notification.WebSocketMessage{
		Type:      "connection",
		Level:     notification.NotificationLevelInfo,
		Title:     "Connected",
		Message:   "WebSocket connection established",
		Timestamp: notification.GetCurrentTime(),
		UserID:    parseUUID(userID),
	}
	wsm.SendToUser(userID, welcome)

	// Keep the connection alive; the only inbound message we answer is ping
	for {
		var message map[string]interface{}
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket error for user %s: %v", userID, err)
			}
			break
		}

		if msgType, ok := message["type"].(string); ok && msgType == "ping" {
			pong := &notification.WebSocketMessage{
				Type:      "pong",
				Level:     notification.NotificationLevelInfo,
				Message:   "pong",
				Timestamp: notification.GetCurrentTime(),
				UserID:    parseUUID(userID),
			}
			wsm.SendToUser(userID, pong)
		}
	}
}

// GetConnectionCount returns number of active connections
func (wsm *WebSocketManager) GetConnectionCount() int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.clients)
}

// parseUUID safely parses UUID string
func parseUUID(str string) *uuid.UUID {
	if id, err := uuid.Parse(str); err == nil {
		return &id
	}
	return nil
}
