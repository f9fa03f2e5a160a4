// handler.go — the transport side of the Hub: upgrading HTTP requests to
// WebSocket connections and pumping Hub messages onto the wire.
package websocket

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Upgrade is route-level middleware that only lets genuine WebSocket
// handshake requests through to the connection handler.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeGame returns the connection handler for GET /ws/games/:id. Each
// connection registers a Client with the Hub under the game ID and then
// writes everything the Hub sends until the client disconnects.
func ServeGame(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			GameID: conn.Params("id"),
			Send:   make(chan []byte, 32),
		}
		hub.Register(client)

		// Reader goroutine: we never expect payloads from the client, but we
		// must keep reading so close/ping control frames are processed. A read
		// error means the peer went away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		// Writer loop: drain the Hub's frames onto the socket. Exits when the
		// Hub closes Send (slow client dropped) or the reader sees a close.
		for {
			select {
			case data, ok := <-client.Send:
				if !ok {
					conn.WriteMessage(websocket.CloseMessage, nil)
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					hub.Unregister(client)
					return
				}
			case <-done:
				hub.Unregister(client)
				return
			}
		}
	})
}
