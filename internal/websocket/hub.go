// Package websocket implements a WebSocket Hub for broadcasting real-time
// score updates. Everyone who has a game's leaderboard or a live match open
// holds one persistent connection; when a hole is recorded the server pushes
// the fresh scores to every watcher of that game instantly, no polling.
package websocket

import "sync"

// Client represents a single connected WebSocket client.
type Client struct {
	GameID string      // which game this client is watching — routes messages to the right audience
	Send   chan []byte // buffered channel of outgoing frames; the Hub writes here, the socket pump drains it
}

// Message is a unit of data to broadcast to all clients watching one game.
type Message struct {
	GameID string
	Data   []byte // raw bytes to send (JSON-encoded score snapshots)
}

// Hub manages all active WebSocket connections, grouped by game ID.
// It runs in its own goroutine and processes registration, unregistration,
// and broadcast events through channels — keeping all map mutation on a
// single goroutine, which is what prevents concurrent-map panics.
type Hub struct {
	// clients is a nested map: gameID -> set of connected clients.
	// map[*Client]bool as a set is the usual Go idiom.
	clients map[string]map[*Client]bool

	broadcast  chan *Message // frames waiting to fan out to a game's watchers
	register   chan *Client  // a new client connected
	unregister chan *Client  // a client disconnected

	mu sync.RWMutex
}

// NewHub creates an empty Hub. The broadcast channel is buffered so handlers
// recording holes don't block if the Hub goroutine is briefly busy; register
// and unregister are unbuffered because those must complete synchronously.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the Hub's event loop; call it once in a goroutine ("go hub.Run()").
func (h *Hub) Run() {
	for {
		select {

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.GameID] == nil {
				h.clients[client.GameID] = make(map[*Client]bool)
			}
			h.clients[client.GameID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.GameID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					// Closing Send tells the socket pump goroutine to stop.
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.GameID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			clients := h.clients[msg.GameID]
			for client := range clients {
				select {
				case client.Send <- msg.Data:
				// A full Send buffer means the client is too slow to keep up.
				// Drop it inline rather than blocking the broadcast for
				// everyone else. It must NOT go through the unregister
				// channel: this loop is that channel's only receiver, so
				// sending to it from here would block Run on itself.
				default:
					delete(clients, client)
					close(client.Send)
				}
			}
			if len(clients) == 0 {
				delete(h.clients, msg.GameID)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToGame sends data to all clients currently watching the given
// game. Handlers call this after every hole mutation.
func (h *Hub) BroadcastToGame(gameID string, data []byte) {
	h.broadcast <- &Message{GameID: gameID, Data: data}
}

// Register adds a client so it starts receiving broadcasts for its game.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client when its connection closes.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
