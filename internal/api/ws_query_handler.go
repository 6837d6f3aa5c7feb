package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var queryUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsQueryMessage struct {
	Query      string `json:"query"`
	CurrentURL string `json:"current_url"`
}

// WSQueryHandler runs the query router over a websocket so the UI can keep
// one connection open for the whole session. Auth runs in the middleware;
// the token travels as a query parameter on the upgrade request.
func WSQueryHandler(pool *AgentPool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		conn, err := queryUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		router := pool.Router(userId)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg wsQueryMessage
			if err := json.Unmarshal(raw, &msg); err != nil || msg.Query == "" {
				_ = conn.WriteJSON(gin.H{"error": gin.H{"message": "missing query"}})
				continue
			}
			resp := router.Process(c.Request.Context(), msg.Query, msg.CurrentURL)
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}
}
