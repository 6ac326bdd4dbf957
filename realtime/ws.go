package realtime

import (
	"log"
	"net/http"

	"city-report-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the frontend; auth happens
	// via the token, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and authenticates the connection. The client
// supplies its JWT as a `token` query parameter; a missing or invalid token
// closes the connection without registering it.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Websocket upgrade failed: %v", err)
			return
		}

		token := c.Query("token")
		if token == "" {
			conn.Close()
			return
		}
		claims, err := middleware.VerifyToken(token)
		if err != nil {
			conn.Close()
			return
		}

		client := hub.Register(claims.UserID, conn)
		go readPump(hub, client, conn)
	}
}

// readPump drains inbound frames until the connection drops, then removes
// it from its room (which also closes the connection and stops its writer).
// The server never reads application data from clients; the loop only
// exists to detect disconnects and answer control frames.
func readPump(hub *Hub, client *Client, conn *websocket.Conn) {
	defer hub.Unregister(client)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
