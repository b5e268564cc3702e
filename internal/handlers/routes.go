package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Register mounts every route on app. metrics may be nil.
func Register(app *fiber.App, h *Handler, ws *WebSocketHandler, metrics fiber.Handler) {
	app.Get("/", h.StartPage)
	app.Get("/host/:session", h.HostPage)
	app.Get("/play/:session/:team", h.TeamPage)

	api := app.Group("/api")
	api.Get("/sessions", h.SessionList)
	api.Get("/sessions/:session", h.SessionState)
	api.Get("/decks/:team", h.Deck)

	app.Get("/healthz", h.Health)
	if metrics != nil {
		app.Get("/metrics", metrics)
	}

	app.Get("/ws/:session/:role", ws.WebSocketMiddleware, websocket.New(ws.HandleWebSocket))
}
