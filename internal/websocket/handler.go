package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a connection to the hub under sessionID and blocks until
// it closes. Inbound frames are answered by onMessage.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, onMessage MessageHandler) {
	client := newClient(hub, c, sessionID, onMessage)
	hub.Register(client)

	go client.writePump()
	client.readPump()
}
