package notification

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"owltrack/internal/pkg/jwt"
	"owltrack/internal/pkg/response"
)

// WSHandler upgrades authenticated clients onto the hub.
type WSHandler struct {
	hub        *Hub
	jwtService *jwt.Service
	upgrader   websocket.Upgrader
	log        *slog.Logger
}

// NewWSHandler accepts connections from allowedOrigins, or from any origin
// when the list contains "*". Requests without an Origin header pass.
func NewWSHandler(hub *Hub, jwtService *jwt.Service, allowedOrigins []string, log *slog.Logger) *WSHandler {
	if log == nil {
		log = slog.Default()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimSpace(o)] = true
	}
	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// HandleWebSocket serves GET /ws/applications?token=JWT. Browsers cannot set
// headers on the handshake, so the token travels in the query.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}

	h.log.Info("websocket connected", "user_id", claims.UserID)
	h.hub.ServeWS(conn, claims.UserID)
	h.log.Info("websocket disconnected", "user_id", claims.UserID)
}
