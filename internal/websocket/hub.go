// Package websocket fans live price updates out to connected clients.
package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/user/stockledger/internal/quotes"
)

// Client represents a single WebSocket client connection.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte // Buffered channel for outbound messages
}

// Hub manages WebSocket clients and broadcasts price updates to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	updates    <-chan quotes.PriceUpdate
	mu         sync.RWMutex
}

// NewHub creates a hub reading from the given price update stream.
func NewHub(updates <-chan quotes.PriceUpdate) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		updates:    updates,
	}
}

// Run starts the Hub's event loop.
func (h *Hub) Run() {
	log.Println("Starting WebSocket hub...")
	go h.listenToPriceUpdates()

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Client registered: %s", client.Conn.RemoteAddr())

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Printf("Client unregistered: %s", client.Conn.RemoteAddr())
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Client's send buffer is full, drop the connection
					log.Printf("Client send buffer full, closing connection: %s", client.Conn.RemoteAddr())
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// listenToPriceUpdates forwards provider updates to the broadcast channel.
func (h *Hub) listenToPriceUpdates() {
	for update := range h.updates {
		msgBytes, err := json.Marshal(update)
		if err != nil {
			log.Printf("Error marshalling price update: %v", err)
			continue
		}
		h.broadcast <- msgBytes
	}
}
