package handlers

import (
	"github.com/agrohaul/agrohaul-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler handles WebSocket connections
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, userType)
	}
}
