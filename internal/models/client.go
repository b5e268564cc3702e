package models

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Client is one websocket participant connected to a session relay.
type Client struct {
	Id      uuid.UUID       `json:"clientid"`
	Session string          `json:"session"`
	Role    Role            `json:"role"`
	Conn    *websocket.Conn `json:"-"`
}

// CanSend reports whether the client's frames are relayed; watchers are read-only.
func (c *Client) CanSend() bool {
	return c.Role.CanSend()
}
