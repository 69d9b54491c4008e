package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Context keys populated by the auth and school scope middleware
const (
	userIDKey   = "userID"
	schoolIDKey = "schoolID"
)

// Handler upgrades dashboard connections and registers them with the hub
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		upgrader: newUpgrader(allowedOrigins),
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to dashboard change events
// @Description Upgrades the connection to a WebSocket that receives license, enrollment, access and training rule events for the caller's school. Site admins without a companyId receive events of every school.
// @Tags events
// @Security BearerAuth
// @Param companyId query int false "School to subscribe to (admins only)"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	userID := c.GetInt64(userIDKey)
	if userID <= 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{"code": "AUTH_001", "message": "Authentication required"}})
		return
	}
	companyID := c.GetInt64(schoolIDKey)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("companyID", companyID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		userID:    userID,
		companyID: companyID,
		logger:    h.logger,
	}
	if !client.hub.Register(client) {
		h.logger.Warn().Int64("userID", userID).Msg("WebSocket hub stopped, closing connection")
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
