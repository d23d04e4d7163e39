package handler

import (
	"net/http"
	"time"

	"inovocb/config"
	"inovocb/internal/auth"
	"inovocb/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const eventsPongWait = 60 * time.Second

var eventsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeEventsWS upgrades to a WebSocket that streams engine events
// (level-ups, challenge completions, redemption updates, spin results) for
// the authenticated user. Auth via ?token= because browsers cannot set
// headers on WebSocket upgrades.
func UpgradeEventsWS(cfg *config.JWTConfig, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := eventsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := hub.Register(claims.UserID, conn)
		go client.WritePump()

		// The read loop only services pings and detects the close; clients
		// never send engine commands over this socket.
		conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(eventsPongWait))
			return nil
		})
		defer client.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
