// Package client is a websocket participant for the negotiation relay.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/latestcomment/go-negotiation-game/internal/models"
)

type Client struct {
	conn    *websocket.Conn
	Session string
	Role    models.Role
}

// Dial connects to baseURL (http or ws scheme) as role in session.
func Dial(ctx context.Context, baseURL, session string, role models.Role) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/" + url.PathEscape(session) + "/" + string(role)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	return &Client{conn: conn, Session: session, Role: role}, nil
}

func (c *Client) Send(msg models.Message) error {
	data, err := models.Encode(msg)
	if err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send %s: %w", msg.Kind(), err)
	}
	return nil
}

// Receive returns the next message for this client's session. Frames for
// other sessions and frames that do not decode are skipped.
func (c *Client) Receive() (models.Message, error) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("receive: %w", err)
		}
		msg, err := models.Decode(data)
		if err != nil || msg.SessionID() != c.Session {
			continue
		}
		return msg, nil
	}
}

// SetReadDeadline bounds how long Receive may block.
func (c *Client) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *Client) Close() error {
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
