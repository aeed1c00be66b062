package handlers

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	ws "github.com/user/stockledger/internal/websocket"
)

// PriceStream is the handler for the WebSocket price feed. The feed is
// public; authentication for WS would need a token in the connection URL.
func (h *Handler) PriceStream(c *websocket.Conn) {
	client := &ws.Client{
		Conn: c,
		Send: make(chan []byte, 256),
	}

	h.Hub.Register <- client

	go h.clientWritePump(client)
	go h.clientReadPump(client)

	log.Printf("WebSocket connection established: %s", c.RemoteAddr())
}

// clientWritePump pumps messages from the hub to the websocket connection.
func (h *Handler) clientWritePump(client *ws.Client) {
	defer client.Conn.Close()

	for message := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.Hub.Unregister <- client
			return
		}
	}
	// client.Send was closed by the hub
}

// clientReadPump drains the connection so disconnects are noticed. Clients
// are not expected to send anything on the price feed.
func (h *Handler) clientReadPump(client *ws.Client) {
	defer func() {
		h.Hub.Unregister <- client
		client.Conn.Close()
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Client disconnected unexpectedly %s: %v", client.Conn.RemoteAddr(), err)
			}
			return
		}
	}
}
