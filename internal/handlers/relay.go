package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/playcrest/playcrest-backend/internal/middleware"
	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/relay"
)

type RelayHandler struct {
	log      *logger.Logger
	hub      *relay.Hub
	upgrader websocket.Upgrader
}

func NewRelayHandler(log *logger.Logger, hub *relay.Hub) *RelayHandler {
	return &RelayHandler{
		log: log.With("handler", "RelayHandler"),
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers cannot spoof Origin, but native clients can send
			// anything; token verification is the real gate here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GET /ws — token-authenticated websocket upgrade. The client is joined
// to its personal room (and school room, if any) before the pumps start.
func (h *RelayHandler) Connect(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := h.hub.NewClient(claims.UserID, claims.UserName, claims.UserRole, claims.SchoolID)
	h.hub.Register(client)
	client.Attach(c.Request.Context(), conn)
}
